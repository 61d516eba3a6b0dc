package jobs

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/repository/memory"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAlerter struct {
	to     string
	drifts []models.CreditDrift
	calls  int
}

func (a *recordingAlerter) SendReconciliationAlert(to string, drifts []models.CreditDrift) error {
	a.calls++
	a.to, a.drifts = to, drifts
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestReconcilerReportsDrift(t *testing.T) {
	store := memory.New()
	store.AddProfile(models.UserProfile{ID: "u1", Email: "a@acme.com", Credits: 5, InitialCredits: 5}, "")
	store.AddProfile(models.UserProfile{ID: "u2", Email: "b@acme.com", Credits: 2, InitialCredits: 2}, "")
	store.SetCredits("u2", 9)

	alerter := &recordingAlerter{}
	r := NewReconciler(store, alerter, "ops@verifiedmeasure.com", quietLogger())

	drifts, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, models.CreditDrift{UserID: "u2", Email: "b@acme.com", Credits: 9, Expected: 2}, drifts[0])

	assert.Equal(t, 1, alerter.calls)
	assert.Equal(t, "ops@verifiedmeasure.com", alerter.to)
	assert.Equal(t, 9, store.Profile("u2").Credits)
}

func TestReconcilerQuietWhenBalanced(t *testing.T) {
	store := memory.New()
	store.AddProfile(models.UserProfile{ID: "u1", Email: "a@acme.com", Credits: 5, InitialCredits: 5}, "")

	alerter := &recordingAlerter{}
	drifts, err := NewReconciler(store, alerter, "ops@verifiedmeasure.com", quietLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drifts)
	assert.Zero(t, alerter.calls)
}

func TestReconcilerSourceError(t *testing.T) {
	store := memory.New()
	store.Fail = func(string) error { return errors.New("db down") }

	_, err := NewReconciler(store, nil, "", quietLogger()).Run(context.Background())
	require.Error(t, err)
}

func TestSchedule(t *testing.T) {
	r := NewReconciler(memory.New(), nil, "", quietLogger())

	c, err := r.Schedule("@every 1h")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = r.Schedule("not a schedule")
	require.Error(t, err)
}

func TestScheduleEmptyDisablesJob(t *testing.T) {
	r := NewReconciler(memory.New(), nil, "", quietLogger())

	for _, spec := range []string{"", "  "} {
		c, err := r.Schedule(spec)
		require.NoError(t, err)
		assert.Nil(t, c)
	}
}
