package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/auth"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/emailcheck"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

const (
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
	PathAdmin     = "/admin"
)

// SignUpRequest is the sign-up form
type SignUpRequest struct {
	Name            string `json:"name"`
	Company         string `json:"company"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Session is a resolved, active sign-in
type Session struct {
	Claims  *auth.Claims
	Profile *models.UserProfile
}

// SignInResult is returned to a user who signed in
type SignInResult struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
	Redirect  string              `json:"redirect"`
	Profile   *models.UserProfile `json:"profile"`
}

// LandingPath is the view a role lands on after sign-in
func LandingPath(role string) string {
	if role == models.RoleAdmin {
		return PathAdmin
	}
	return PathDashboard
}

// SuspendedMessage is shown to suspended accounts
func (s *Service) SuspendedMessage() string {
	return fmt.Sprintf("Account suspended. Please contact %s", s.config.SupportEmail)
}

// SignUp creates a client account after the work-email and password checks
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*models.UserProfile, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := emailcheck.Validate(req.Email); err != nil {
		return nil, &ValidationError{Field: "email", Message: err.Error()}
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "Full name is required"}
	}
	if strings.TrimSpace(req.Company) == "" {
		return nil, &ValidationError{Field: "company", Message: "Company name is required"}
	}
	if req.Password != req.ConfirmPassword {
		return nil, &ValidationError{Field: "confirm_password", Message: "Passwords do not match"}
	}
	if len(req.Password) < minPasswordLength {
		return nil, &ValidationError{Field: "password", Message: fmt.Sprintf("Password must be at least %d characters", minPasswordLength)}
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.NewString()
	creds := &models.Credentials{ID: id, Email: req.Email, PasswordHash: string(hashedPassword)}
	profile := &models.UserProfile{
		ID:             id,
		Email:          req.Email,
		Name:           strings.TrimSpace(req.Name),
		Company:        strings.TrimSpace(req.Company),
		Credits:        s.config.SignupCredits,
		InitialCredits: s.config.SignupCredits,
		Role:           models.RoleClient,
		Status:         models.StatusActive,
	}

	if err := s.repo.CreateUser(ctx, creds, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.log.Infof("User registered: %s", profile.Email)
	return profile, nil
}

// SignIn authenticates a user and returns a session token. Suspended
// accounts get no token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	creds, err := s.repo.FindCredentials(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.repo.FindProfileByID(ctx, creds.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if profile.IsSuspended() {
		s.log.Warnf("Suspended account attempted sign-in: %s", profile.Email)
		return nil, ErrAccountSuspended
	}

	token, claims, err := s.tokens.Issue(profile.ID)
	if err != nil {
		return nil, err
	}

	s.log.Infof("User logged in: %s", profile.Email)
	return &SignInResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
		Redirect:  LandingPath(profile.Role),
		Profile:   profile,
	}, nil
}

// ResolveSession turns a bearer token into the caller's profile. A
// suspended profile has its token revoked on the spot.
func (s *Service) ResolveSession(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrUnauthenticated
	}

	profile, err := s.repo.FindProfileByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	if profile.IsSuspended() {
		if err := s.revoke(ctx, claims); err != nil {
			s.log.WithError(err).Errorf("Failed to sign out suspended user %s", profile.ID)
		}
		return nil, ErrAccountSuspended
	}

	return &Session{Claims: claims, Profile: profile}, nil
}

// SignOut revokes token until it would have expired. Invalid tokens are
// already signed out.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.revoke(ctx, claims); err != nil {
		return err
	}
	s.log.Infof("User signed out: %s", claims.UserID)
	return nil
}

func (s *Service) revoke(ctx context.Context, claims *auth.Claims) error {
	return s.sessions.Revoke(ctx, claims.TokenID, claims.ExpiresAt.Sub(s.now()))
}
