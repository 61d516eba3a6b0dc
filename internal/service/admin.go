package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/events"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/repository"
	"golang.org/x/sync/errgroup"
)

// Overview is the admin dashboard
type Overview struct {
	Leads    []models.Lead        `json:"leads"`
	Profiles []models.UserProfile `json:"profiles"`
	Stats    OverviewStats        `json:"stats"`
}

type OverviewStats struct {
	TotalLeads     int `json:"total_leads"`
	AvailableLeads int `json:"available_leads"`
	Clients        int `json:"clients"`
	TotalCredits   int `json:"total_credits"`
}

// AdminOverview loads every lead and every profile concurrently
func (s *Service) AdminOverview(ctx context.Context) (*Overview, error) {
	var leads []models.Lead
	var profiles []models.UserProfile

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leads, err = s.repo.ListLeads(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = s.repo.ListProfiles(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load overview: %w", err)
	}

	o := &Overview{Leads: leads, Profiles: profiles}
	o.Stats.TotalLeads = len(leads)
	for _, l := range leads {
		if l.Status == models.LeadStatusAvailable {
			o.Stats.AvailableLeads++
		}
	}
	for _, p := range profiles {
		if p.Role == models.RoleClient {
			o.Stats.Clients++
		}
		o.Stats.TotalCredits += p.Credits
	}
	return o, nil
}

// GrantCredits adds amountText credits to userID's balance. Negative
// amounts are accepted and may take the balance below zero.
func (s *Service) GrantCredits(ctx context.Context, admin *models.UserProfile, userID, amountText string) (*models.UserProfile, error) {
	if admin == nil || !admin.IsAdmin() {
		return nil, ErrForbidden
	}
	amount, err := strconv.Atoi(strings.TrimSpace(amountText))
	if err != nil || amount == 0 {
		return nil, ErrInvalidAmount
	}

	var profile *models.UserProfile
	err = s.repo.InTx(ctx, func(tx repository.LedgerTx) error {
		p, err := tx.LockProfile(ctx, userID)
		if err != nil {
			return err
		}
		balance, err := tx.AdjustCredits(ctx, userID, amount)
		if err != nil {
			return err
		}
		p.Credits = balance
		profile = p

		return tx.InsertCreditTransaction(ctx, &models.CreditTransaction{
			UserID:      userID,
			Amount:      amount,
			Type:        models.TransactionGrant,
			Description: fmt.Sprintf("Admin grant of %d credits by %s", amount, admin.Email),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.TypeGrant, UserID: userID, Amount: amount})
	s.log.Infof("Admin %s granted %d credits to %s (balance %d)", admin.Email, amount, profile.Email, profile.Credits)

	if s.notifier != nil {
		if err := s.notifier.SendCreditGrant(profile.Email, profile.Name, amount, profile.Credits); err != nil {
			s.log.WithError(err).Errorf("Failed to send credit notification to %s", profile.Email)
		}
	}
	return profile, nil
}

// SetProfileStatus suspends or reactivates an account. Admins cannot
// suspend themselves.
func (s *Service) SetProfileStatus(ctx context.Context, actorID, userID, status string) error {
	if status != models.StatusActive && status != models.StatusSuspended {
		return &ValidationError{Field: "status", Message: "status must be active or suspended"}
	}
	if actorID == userID && status == models.StatusSuspended {
		return ErrForbidden
	}
	if err := s.repo.UpdateProfileStatus(ctx, userID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.log.Infof("Admin %s set status of %s to %s", actorID, userID, status)
	return nil
}
