package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const leadColumns = `id, lead_id, company_name, contact_name, email, phone, industry, location,
	company_size, revenue_range, capital_need, status, created_date`

// ListLeads returns leads with the given status, newest first. An empty
// status returns every lead.
func (r *Repository) ListLeads(ctx context.Context, status string) ([]models.Lead, error) {
	leads := []models.Lead{}
	var err error
	if status == "" {
		err = r.db.SelectContext(ctx, &leads, `SELECT `+leadColumns+` FROM leads ORDER BY created_date DESC`)
	} else {
		err = r.db.SelectContext(ctx, &leads, `SELECT `+leadColumns+` FROM leads WHERE status = $1 ORDER BY created_date DESC`, status)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// FindLeadsByLeadIDs returns the leads whose business key is in leadIDs,
// newest first; unknown keys are ignored
func (r *Repository) FindLeadsByLeadIDs(ctx context.Context, leadIDs []string) ([]models.Lead, error) {
	leads := []models.Lead{}
	err := r.db.SelectContext(ctx, &leads,
		`SELECT `+leadColumns+` FROM leads WHERE lead_id = ANY($1) ORDER BY created_date DESC`,
		pq.Array(leadIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to find leads: %w", err)
	}
	return leads, nil
}

// InsertLeads stores leads in one batch statement; either all rows land or none
func (r *Repository) InsertLeads(ctx context.Context, leads []models.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range leads {
		if leads[i].ID == "" {
			leads[i].ID = uuid.NewString()
		}
		if leads[i].CreatedDate.IsZero() {
			leads[i].CreatedDate = now
		}
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO leads (id, lead_id, company_name, contact_name, email, phone, industry, location,
			company_size, revenue_range, capital_need, status, created_date)
		VALUES (:id, :lead_id, :company_name, :contact_name, :email, :phone, :industry, :location,
			:company_size, :revenue_range, :capital_need, :status, :created_date)`, leads)
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to insert leads: %w", ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert leads: %w", err)
	}
	return nil
}

// DownloadedLeadIDs returns every lead the user has paid for
func (r *Repository) DownloadedLeadIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := r.db.SelectContext(ctx, &ids, `SELECT lead_id FROM download_history WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load download history: %w", err)
	}
	return ids, nil
}
