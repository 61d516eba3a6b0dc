package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type ledgerTx struct {
	tx *sqlx.Tx
}

// LockProfile reads a profile and holds its row lock until the transaction ends
func (t *ledgerTx) LockProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	p := &models.UserProfile{}
	err := t.tx.GetContext(ctx, p, `SELECT `+profileColumns+` FROM user_profiles WHERE id = $1 FOR UPDATE`, userID)
	if isMissing(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock profile: %w", err)
	}
	return p, nil
}

func (t *ledgerTx) DownloadedAmong(ctx context.Context, userID string, leadIDs []string) (map[string]bool, error) {
	ids := []string{}
	err := t.tx.SelectContext(ctx, &ids,
		`SELECT lead_id FROM download_history WHERE user_id = $1 AND lead_id = ANY($2)`,
		userID, pq.Array(leadIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load download history: %w", err)
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (t *ledgerTx) InsertDownloads(ctx context.Context, records []models.DownloadRecord) error {
	if len(records) == 0 {
		return nil
	}
	_, err := t.tx.NamedExecContext(ctx, `
		INSERT INTO download_history (user_id, lead_id, downloaded_at)
		VALUES (:user_id, :lead_id, :downloaded_at)`, records)
	if err != nil {
		return fmt.Errorf("failed to record downloads: %w", err)
	}
	return nil
}

// AdjustCredits adds delta to the balance and returns the new balance
func (t *ledgerTx) AdjustCredits(ctx context.Context, userID string, delta int) (int, error) {
	var credits int
	err := t.tx.QueryRowxContext(ctx,
		`UPDATE user_profiles SET credits = credits + $2 WHERE id = $1 RETURNING credits`,
		userID, delta).Scan(&credits)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update credits: %w", err)
	}
	return credits, nil
}

func (t *ledgerTx) InsertCreditTransaction(ctx context.Context, ct *models.CreditTransaction) error {
	err := t.tx.QueryRowxContext(ctx, `
		INSERT INTO credit_transactions (user_id, amount, type, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		ct.UserID, ct.Amount, ct.Type, ct.Description).
		Scan(&ct.ID, &ct.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record credit transaction: %w", err)
	}
	return nil
}
