package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

//go:embed schema.sql
var schema string

// Store is the persistence surface the service layer depends on
type Store interface {
	CreateUser(ctx context.Context, creds *models.Credentials, profile *models.UserProfile) error
	FindCredentials(ctx context.Context, email string) (*models.Credentials, error)
	FindProfileByID(ctx context.Context, id string) (*models.UserProfile, error)
	ListProfiles(ctx context.Context) ([]models.UserProfile, error)
	UpdateProfileStatus(ctx context.Context, id, status string) error

	ListLeads(ctx context.Context, status string) ([]models.Lead, error)
	FindLeadsByLeadIDs(ctx context.Context, leadIDs []string) ([]models.Lead, error)
	InsertLeads(ctx context.Context, leads []models.Lead) error

	DownloadedLeadIDs(ctx context.Context, userID string) ([]string, error)
	CreditDrift(ctx context.Context) ([]models.CreditDrift, error)

	// InTx runs fn in one database transaction; fn's error rolls it back
	InTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx is the set of balance and history mutations that must commit together
type LedgerTx interface {
	LockProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	DownloadedAmong(ctx context.Context, userID string, leadIDs []string) (map[string]bool, error)
	InsertDownloads(ctx context.Context, records []models.DownloadRecord) error
	AdjustCredits(ctx context.Context, userID string, delta int) (int, error)
	InsertCreditTransaction(ctx context.Context, t *models.CreditTransaction) error
}

// Repository provides database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the tables if they do not exist
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isMissing treats a malformed uuid key like an unknown one
func isMissing(err error) bool {
	var pqErr *pq.Error
	return errors.Is(err, sql.ErrNoRows) || (errors.As(err, &pqErr) && pqErr.Code == "22P02")
}

// InTx runs fn inside a transaction and commits when it returns nil
func (r *Repository) InTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(&ledgerTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
