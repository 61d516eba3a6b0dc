package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/emailcheck"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signUpRequest() SignUpRequest {
	return SignUpRequest{
		Name:            "Jane Doe",
		Company:         "Acme",
		Email:           "jane@acme.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}
}

func TestSignUp(t *testing.T) {
	f := newFixture(t)
	f.svc.config.SignupCredits = 10

	profile, err := f.svc.SignUp(context.Background(), signUpRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, models.RoleClient, profile.Role)
	assert.Equal(t, models.StatusActive, profile.Status)
	assert.Equal(t, 10, profile.Credits)
	assert.Equal(t, 10, profile.InitialCredits)

	stored := f.store.Profile(profile.ID)
	assert.Equal(t, "jane@acme.com", stored.Email)

	_, err = f.svc.SignUp(context.Background(), signUpRequest())
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUpValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *SignUpRequest)
		field  string
	}{
		{"personal email", func(r *SignUpRequest) { r.Email = "jane@gmail.com" }, "email"},
		{"malformed email", func(r *SignUpRequest) { r.Email = "jane" }, "email"},
		{"missing name", func(r *SignUpRequest) { r.Name = " " }, "name"},
		{"missing company", func(r *SignUpRequest) { r.Company = "" }, "company"},
		{"mismatch", func(r *SignUpRequest) { r.ConfirmPassword = "password124" }, "confirm_password"},
		{"short password", func(r *SignUpRequest) { r.Password, r.ConfirmPassword = "short", "short" }, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := signUpRequest()
			tt.mutate(&req)

			_, err := f.svc.SignUp(context.Background(), req)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Zero(t, f.store.Calls["CreateUser"])
		})
	}
}

func TestSignUpPersonalDomainMessage(t *testing.T) {
	f := newFixture(t)
	req := signUpRequest()
	req.Email = "jane@Yahoo.com"

	_, err := f.svc.SignUp(context.Background(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, emailcheck.ErrPersonalDomain.Error(), verr.Message)
}

func TestSignInAndResolveSession(t *testing.T) {
	f := newFixture(t)
	client := f.addClient(t, "u1", 3)
	admin := f.addAdmin(t, "a1")
	ctx := context.Background()

	res, err := f.svc.SignIn(ctx, client.Email, "password123")
	require.NoError(t, err)
	assert.Equal(t, PathDashboard, res.Redirect)
	assert.Equal(t, client.ID, res.Profile.ID)

	sess, err := f.svc.ResolveSession(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, client.ID, sess.Profile.ID)

	res, err = f.svc.SignIn(ctx, admin.Email, "password123")
	require.NoError(t, err)
	assert.Equal(t, PathAdmin, res.Redirect)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	client := f.addClient(t, "u1", 3)

	_, err := f.svc.SignIn(context.Background(), client.Email, "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.SignIn(context.Background(), "nobody@acme.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInSuspended(t *testing.T) {
	f := newFixture(t)
	client := f.addClient(t, "u1", 3)
	require.NoError(t, f.store.UpdateProfileStatus(context.Background(), client.ID, models.StatusSuspended))

	res, err := f.svc.SignIn(context.Background(), client.Email, "password123")
	require.ErrorIs(t, err, ErrAccountSuspended)
	assert.Nil(t, res)
	assert.Equal(t, "Account suspended. Please contact QA@verifiedmeasure.com", f.svc.SuspendedMessage())
}

func TestResolveSessionSuspendedForcesSignOut(t *testing.T) {
	f := newFixture(t)
	client := f.addClient(t, "u1", 3)
	ctx := context.Background()

	res, err := f.svc.SignIn(ctx, client.Email, "password123")
	require.NoError(t, err)

	require.NoError(t, f.store.UpdateProfileStatus(ctx, client.ID, models.StatusSuspended))
	_, err = f.svc.ResolveSession(ctx, res.Token)
	require.ErrorIs(t, err, ErrAccountSuspended)

	// Reactivating does not revive the revoked token
	require.NoError(t, f.store.UpdateProfileStatus(ctx, client.ID, models.StatusActive))
	_, err = f.svc.ResolveSession(ctx, res.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSignOut(t *testing.T) {
	f := newFixture(t)
	client := f.addClient(t, "u1", 3)
	ctx := context.Background()

	res, err := f.svc.SignIn(ctx, client.Email, "password123")
	require.NoError(t, err)
	require.NoError(t, f.svc.SignOut(ctx, res.Token))

	_, err = f.svc.ResolveSession(ctx, res.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)

	require.NoError(t, f.svc.SignOut(ctx, "garbage"))
}

func TestResolveSessionRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ResolveSession(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLandingPath(t *testing.T) {
	assert.Equal(t, PathAdmin, LandingPath(models.RoleAdmin))
	assert.Equal(t, PathDashboard, LandingPath(models.RoleClient))
	assert.Equal(t, PathDashboard, LandingPath(""))
}
