package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/config"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email) error
}

// NewSender creates a new email sender. Without SMTP_HOST every message is
// logged and dropped.
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}
	s.send = s.smtpSend
	return s
}

// Enabled reports whether an SMTP host is configured
func (s *Sender) Enabled() bool {
	return s.cfg.SMTPHost != ""
}

func (s *Sender) smtpSend(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	return e.Send(addr, auth)
}

func (s *Sender) deliver(to, subject, body string) error {
	if !s.Enabled() {
		s.logger.Debugf("SMTP disabled, dropping email to %s: %s", to, subject)
		return nil
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, subject)
	return nil
}

// SendCreditGrant tells a user that an admin adjusted their balance
func (s *Sender) SendCreditGrant(to, name string, amount, balance int) error {
	if name == "" {
		name = to
	}
	body := fmt.Sprintf("Dear %s,\n\n", name)
	if amount >= 0 {
		body += fmt.Sprintf("%d credits have been added to your account.\n", amount)
	} else {
		body += fmt.Sprintf("%d credits have been removed from your account.\n", -amount)
	}
	body += fmt.Sprintf("Your current balance is %d credits.\n", balance)
	body += fmt.Sprintf("\nQuestions? Contact %s.\n\nBest regards,\nVerifiedMeasure", s.cfg.SupportEmail)

	return s.deliver(to, "Your VerifiedMeasure credit balance changed", body)
}

// SendReconciliationAlert reports profiles whose balance disagrees with the ledger
func (s *Sender) SendReconciliationAlert(to string, drifts []models.CreditDrift) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d account(s) have a credit balance that does not match the ledger:\n\n", len(drifts))
	for _, d := range drifts {
		fmt.Fprintf(&b, "  %s (%s): balance %d, ledger %d\n", d.Email, d.UserID, d.Credits, d.Expected)
	}
	b.WriteString("\nNo automatic correction was made.\n")

	return s.deliver(to, "Credit ledger reconciliation alert", b.String())
}
