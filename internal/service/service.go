package service

import (
	"context"
	"time"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/auth"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/config"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/events"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/repository"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/session"
	"github.com/sirupsen/logrus"
)

// Notifier sends the user-facing emails the service triggers
type Notifier interface {
	SendCreditGrant(to, name string, amount, balance int) error
}

// Service handles business logic
type Service struct {
	repo     repository.Store
	sessions session.Store
	tokens   *auth.Issuer
	events   events.Publisher
	notifier Notifier
	log      *logrus.Logger
	config   *config.Config
	now      func() time.Time
}

// NewService initializes a new service; every collaborator is injected
func NewService(
	repo repository.Store,
	sessions session.Store,
	tokens *auth.Issuer,
	publisher events.Publisher,
	notifier Notifier,
	log *logrus.Logger,
	cfg *config.Config,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:     repo,
		sessions: sessions,
		tokens:   tokens,
		events:   publisher,
		notifier: notifier,
		log:      log,
		config:   cfg,
		now:      time.Now,
	}
}

// publish delivers e after its change has committed; failures are logged only
func (s *Service) publish(ctx context.Context, e events.Event) {
	e.OccurredAt = s.now()
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.WithError(err).Warnf("Failed to publish %s event for user %s", e.Type, e.UserID)
	}
}
