package service

import (
	"context"
	"errors"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/events"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/leadcsv"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/repository"
)

// ImportReport summarises one CSV upload
type ImportReport struct {
	Imported int            `json:"imported"`
	Skipped  int            `json:"skipped"`
	Reasons  []leadcsv.Skip `json:"reasons"`
}

// NoValidLeadsError is ErrNoValidLeads with the reason each row was skipped
type NoValidLeadsError struct {
	Skipped []leadcsv.Skip
}

func (e *NoValidLeadsError) Error() string { return ErrNoValidLeads.Error() }

func (e *NoValidLeadsError) Is(target error) bool { return target == ErrNoValidLeads }

// ImportLeads parses an uploaded CSV and inserts every valid row in one batch
func (s *Service) ImportLeads(ctx context.Context, adminID, text string) (*ImportReport, error) {
	parsed, err := leadcsv.Parse(text, s.now())
	if errors.Is(err, leadcsv.ErrNoHeader) {
		return nil, &ValidationError{Field: "file", Message: "CSV file is empty"}
	}
	if err != nil {
		return nil, err
	}
	if len(parsed.Leads) == 0 {
		return nil, &NoValidLeadsError{Skipped: parsed.Skipped}
	}

	if err := s.repo.InsertLeads(ctx, parsed.Leads); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ValidationError{Field: "lead_id", Message: "One or more lead IDs already exist"}
		}
		return nil, err
	}

	report := &ImportReport{
		Imported: len(parsed.Leads),
		Skipped:  len(parsed.Skipped),
		Reasons:  parsed.Skipped,
	}
	if report.Reasons == nil {
		report.Reasons = []leadcsv.Skip{}
	}

	s.publish(ctx, events.Event{
		Type:    events.TypeImport,
		UserID:  adminID,
		Count:   report.Imported,
		LeadIDs: leadIDs(parsed.Leads),
	})
	s.log.Infof("Admin %s imported %d leads (%d skipped)", adminID, report.Imported, report.Skipped)
	return report, nil
}
