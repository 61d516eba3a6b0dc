package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
)

const profileColumns = `id, email, name, company, credits, initial_credits, role, status, created_at`

// CreateUser stores the auth identity and its profile together
func (r *Repository) CreateUser(ctx context.Context, creds *models.Credentials, profile *models.UserProfile) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO auth_users (id, email, password_hash)
		VALUES ($1, $2, $3)`,
		creds.ID, creds.Email, creds.PasswordHash)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO user_profiles (id, email, name, company, credits, initial_credits, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		profile.ID, profile.Email, profile.Name, profile.Company, profile.Credits,
		profile.InitialCredits, profile.Role, profile.Status).
		Scan(&profile.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user: %w", err)
	}
	return nil
}

// FindCredentials retrieves an auth identity by email, ignoring case
func (r *Repository) FindCredentials(ctx context.Context, email string) (*models.Credentials, error) {
	creds := &models.Credentials{}
	err := r.db.GetContext(ctx, creds, `
		SELECT id, email, password_hash
		FROM auth_users
		WHERE lower(email) = lower($1)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return creds, nil
}

// FindProfileByID retrieves a profile by its auth identity
func (r *Repository) FindProfileByID(ctx context.Context, id string) (*models.UserProfile, error) {
	p := &models.UserProfile{}
	err := r.db.GetContext(ctx, p, `SELECT `+profileColumns+` FROM user_profiles WHERE id = $1`, id)
	if isMissing(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return p, nil
}

// ListProfiles returns every profile, newest first
func (r *Repository) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	profiles := []models.UserProfile{}
	err := r.db.SelectContext(ctx, &profiles, `SELECT `+profileColumns+` FROM user_profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// UpdateProfileStatus sets a profile's status
func (r *Repository) UpdateProfileStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE user_profiles SET status = $2 WHERE id = $1`, id, status)
	if isMissing(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update profile status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update profile status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreditDrift lists profiles whose balance differs from the opening balance
// plus the sum of their ledger entries
func (r *Repository) CreditDrift(ctx context.Context) ([]models.CreditDrift, error) {
	drifts := []models.CreditDrift{}
	err := r.db.SelectContext(ctx, &drifts, `
		SELECT p.id AS user_id, p.email, p.credits,
		       p.initial_credits + COALESCE(SUM(t.amount), 0) AS expected
		FROM user_profiles p
		LEFT JOIN credit_transactions t ON t.user_id = p.id
		GROUP BY p.id, p.email, p.credits, p.initial_credits
		HAVING p.credits <> p.initial_credits + COALESCE(SUM(t.amount), 0)
		ORDER BY p.email`)
	if err != nil {
		return nil, fmt.Errorf("failed to compute credit drift: %w", err)
	}
	return drifts, nil
}
