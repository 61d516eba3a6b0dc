package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	profileKey contextKey = "profile"
	tokenKey   contextKey = "token"
)

// Gate resolves bearer tokens into signed-in profiles
type Gate interface {
	ResolveSession(ctx context.Context, token string) (*service.Session, error)
	SuspendedMessage() string
}

// ProfileFromContext returns the profile Session stored for this request
func ProfileFromContext(ctx context.Context) (*models.UserProfile, bool) {
	p, ok := ctx.Value(profileKey).(*models.UserProfile)
	return p, ok
}

// TokenFromContext returns the bearer token Session accepted
func TokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}

// WithProfile stores p in ctx the way Session does
func WithProfile(ctx context.Context, p *models.UserProfile) context.Context {
	return context.WithValue(ctx, profileKey, p)
}

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Session enforces a valid, unrevoked token for an active account and
// injects the caller's profile into the request context
func Session(gate Gate, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				deny(w, http.StatusUnauthorized, "authentication required", service.PathLogin)
				return
			}

			sess, err := gate.ResolveSession(r.Context(), token)
			switch {
			case errors.Is(err, service.ErrAccountSuspended):
				deny(w, http.StatusForbidden, gate.SuspendedMessage(), service.PathLogin)
				return
			case errors.Is(err, service.ErrUnauthenticated):
				deny(w, http.StatusUnauthorized, "invalid or expired session", service.PathLogin)
				return
			case err != nil:
				log.WithError(err).Error("Failed to resolve session")
				deny(w, http.StatusInternalServerError, "internal server error", "")
				return
			}

			ctx := WithProfile(r.Context(), sess.Profile)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only if the signed-in profile has
// one of roles
func RequireRole(roles ...string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, ok := ProfileFromContext(r.Context())
			if !ok {
				deny(w, http.StatusUnauthorized, "authentication required", service.PathLogin)
				return
			}
			for _, role := range roles {
				if profile.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			deny(w, http.StatusForbidden, "access denied", service.LandingPath(profile.Role))
		})
	}
}

// Recoverer turns a handler panic into a 500
func Recoverer(log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithField("stack", string(debug.Stack())).Errorf("panic: %v", rec)
					deny(w, http.StatusInternalServerError, "internal server error", "")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging writes one access log line per request
func Logging(log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start).String(),
			}).Info("request")
		})
	}
}

func deny(w http.ResponseWriter, status int, message, redirect string) {
	body := map[string]string{"error": message}
	if redirect != "" {
		body["redirect"] = redirect
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
