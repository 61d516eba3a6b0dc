package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/events"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportLeads(t *testing.T) {
	f := newFixture(t)

	report, err := f.svc.ImportLeads(context.Background(), "a1", "company_name,industry\nAcme Inc,Tech\n,Retail")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 3, report.Reasons[0].Line)

	leads := f.store.Leads()
	require.Len(t, leads, 1)
	assert.Equal(t, "Acme Inc", leads[0].CompanyName)
	assert.Equal(t, "Tech", leads[0].Industry)
	assert.Equal(t, models.LeadStatusAvailable, leads[0].Status)
	assert.Regexp(t, `^LEAD-\d+-1$`, leads[0].LeadID)

	published := f.events.all()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeImport, published[0].Type)
	assert.Equal(t, 1, published[0].Count)
}

func TestImportLeadsNoValidRows(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ImportLeads(context.Background(), "a1", "company_name,industry\n,Retail")
	require.ErrorIs(t, err, ErrNoValidLeads)
	var nerr *NoValidLeadsError
	require.ErrorAs(t, err, &nerr)
	assert.Len(t, nerr.Skipped, 1)
	assert.Zero(t, f.store.Calls["InsertLeads"])
}

func TestImportLeadsEmptyFile(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ImportLeads(context.Background(), "a1", "\n\n")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "file", verr.Field)
}

func TestImportLeadsDuplicateIsOneFailure(t *testing.T) {
	f := newFixture(t)
	f.store.AddLeads(lead("L1", "Acme", "Tech", "Austin"))

	_, err := f.svc.ImportLeads(context.Background(), "a1", "lead_id,company\nL2,Globex\nL1,Acme again")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, f.store.Leads(), 1)
	assert.Empty(t, f.events.all())
}

func TestImportLeadsBackendFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("db down")
	f.store.Fail = func(op string) error { return boom }

	_, err := f.svc.ImportLeads(context.Background(), "a1", "company\nAcme")
	require.ErrorIs(t, err, boom)
}
