package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims identifies a session: Subject is the user id, ID the token id used
// for revocation
type Claims struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// Issuer signs and verifies HS256 session tokens
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an issuer whose tokens live for ttl
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for userID
func (i *Issuer) Issue(userID string) (string, *Claims, error) {
	now := i.now()
	c := &Claims{
		UserID:    userID,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(i.ttl),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   c.UserID,
		ID:        c.TokenID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, c, nil
}

// Parse verifies the signature and expiry of a token
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	rc := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tokenString, rc, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if rc.Subject == "" || rc.ID == "" || rc.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return &Claims{UserID: rc.Subject, TokenID: rc.ID, ExpiresAt: rc.ExpiresAt.Time}, nil
}
