// Package jobs holds the periodic background work.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DriftSource finds profiles whose balance disagrees with their ledger
type DriftSource interface {
	CreditDrift(ctx context.Context) ([]models.CreditDrift, error)
}

// Alerter mails the drift report
type Alerter interface {
	SendReconciliationAlert(to string, drifts []models.CreditDrift) error
}

// Reconciler compares every balance with its opening credits plus the sum
// of its ledger. It reports drift and never repairs it.
type Reconciler struct {
	source  DriftSource
	alerter Alerter
	to      string
	log     *logrus.Logger
	timeout time.Duration
}

func NewReconciler(source DriftSource, alerter Alerter, to string, log *logrus.Logger) *Reconciler {
	return &Reconciler{source: source, alerter: alerter, to: to, log: log, timeout: time.Minute}
}

// Run performs one reconciliation pass and returns the drifting profiles
func (r *Reconciler) Run(ctx context.Context) ([]models.CreditDrift, error) {
	drifts, err := r.source.CreditDrift(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check credit ledger: %w", err)
	}
	if len(drifts) == 0 {
		r.log.Debug("Credit ledger reconciled, no drift")
		return drifts, nil
	}

	for _, d := range drifts {
		r.log.WithFields(logrus.Fields{
			"user_id":  d.UserID,
			"email":    d.Email,
			"credits":  d.Credits,
			"expected": d.Expected,
		}).Warn("Credit balance does not match ledger")
	}

	if r.to != "" && r.alerter != nil {
		if err := r.alerter.SendReconciliationAlert(r.to, drifts); err != nil {
			r.log.WithError(err).Errorf("Failed to send reconciliation alert to %s", r.to)
		}
	}
	return drifts, nil
}

// Schedule registers Run on a new cron scheduler. The caller starts and
// stops it. An empty spec disables the job and returns a nil scheduler.
func (r *Reconciler) Schedule(spec string) (*cron.Cron, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	c := cron.New(cron.WithLogger(cron.PrintfLogger(r.log)))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if _, err := r.Run(ctx); err != nil {
			r.log.WithError(err).Error("Reconciliation failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}
	return c, nil
}
