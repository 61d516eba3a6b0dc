package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/events"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/repository"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/selection"
)

// Quote is the price of a selection before it is downloaded
type Quote struct {
	Selected   int  `json:"selected"`
	Cost       int  `json:"cost"`
	Balance    int  `json:"balance"`
	Affordable bool `json:"affordable"`
}

// DownloadResult describes a committed download
type DownloadResult struct {
	Leads        []models.Lead `json:"leads"`
	NewLeadIDs   []string      `json:"new_lead_ids"`
	Cost         int           `json:"cost"`
	Balance      int           `json:"balance"`
	DownloadedAt time.Time     `json:"downloaded_at"`
}

// Quote prices ids for userID: one credit per lead not downloaded before.
// Unknown or unavailable ids are dropped, as Download drops them.
func (s *Service) Quote(ctx context.Context, userID string, ids []string) (*Quote, error) {
	profile, err := s.repo.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	empty := &Quote{Balance: profile.Credits, Affordable: true}
	if len(ids) == 0 {
		return empty, nil
	}
	leads, err := s.availableLeads(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return empty, nil
	}
	sel := selection.New(leadIDs(leads)...)
	downloaded, err := s.repo.DownloadedLeadIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	cost := sel.Cost(toSet(downloaded))
	return &Quote{
		Selected:   sel.Len(),
		Cost:       cost,
		Balance:    profile.Credits,
		Affordable: cost <= profile.Credits,
	}, nil
}

// Download charges userID for the selected leads they have not downloaded
// before and records the new downloads. The balance check, the history
// rows, the debit and its ledger entry commit together or not at all.
func (s *Service) Download(ctx context.Context, userID string, ids []string) (*DownloadResult, error) {
	sel := selection.New(ids...)
	if sel.Len() == 0 {
		return nil, ErrEmptySelection
	}

	leads, err := s.availableLeads(ctx, sel.IDs())
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, ErrEmptySelection
	}
	sel = selection.New(leadIDs(leads)...)

	result := &DownloadResult{Leads: leads, DownloadedAt: s.now()}
	err = s.repo.InTx(ctx, func(tx repository.LedgerTx) error {
		profile, err := tx.LockProfile(ctx, userID)
		if err != nil {
			return err
		}
		owned, err := tx.DownloadedAmong(ctx, userID, sel.IDs())
		if err != nil {
			return err
		}

		fresh, _ := sel.Partition(owned)
		cost := len(fresh)
		if cost > profile.Credits {
			return &InsufficientCreditsError{Need: cost, Have: profile.Credits}
		}

		result.NewLeadIDs = fresh
		result.Cost = cost
		result.Balance = profile.Credits
		if cost == 0 {
			return nil
		}

		records := make([]models.DownloadRecord, len(fresh))
		for i, id := range fresh {
			records[i] = models.DownloadRecord{UserID: userID, LeadID: id, DownloadedAt: result.DownloadedAt}
		}
		if err := tx.InsertDownloads(ctx, records); err != nil {
			return err
		}

		balance, err := tx.AdjustCredits(ctx, userID, -cost)
		if err != nil {
			return err
		}
		result.Balance = balance

		return tx.InsertCreditTransaction(ctx, &models.CreditTransaction{
			UserID:      userID,
			Amount:      -cost,
			Type:        models.TransactionDeduct,
			Description: fmt.Sprintf("Downloaded %d leads", cost),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.TypeDownload,
		UserID:  userID,
		Amount:  -result.Cost,
		Count:   len(result.Leads),
		LeadIDs: result.NewLeadIDs,
	})
	s.log.Infof("User %s downloaded %d leads (%d new, %d credits deducted)",
		userID, len(result.Leads), len(result.NewLeadIDs), result.Cost)
	return result, nil
}

// availableLeads loads the selected leads that can still be downloaded;
// unknown ids are dropped
func (s *Service) availableLeads(ctx context.Context, ids []string) ([]models.Lead, error) {
	found, err := s.repo.FindLeadsByLeadIDs(ctx, selection.New(ids...).IDs())
	if err != nil {
		return nil, err
	}
	leads := make([]models.Lead, 0, len(found))
	for _, l := range found {
		if l.Status == models.LeadStatusAvailable {
			leads = append(leads, l)
		}
	}
	return leads, nil
}

func leadIDs(leads []models.Lead) []string {
	ids := make([]string, len(leads))
	for i, l := range leads {
		ids[i] = l.LeadID
	}
	return ids
}
