// Package emailcheck implements the sign-up work-email gate: a deny-list of
// consumer mail providers plus a minimal shape check. It does not look up MX
// records or verify deliverability.
package emailcheck

import (
	"errors"
	"strings"
)

var (
	ErrInvalidAddress = errors.New("Please enter a valid email address")
	ErrPersonalDomain = errors.New("Please use your work email address. Personal email providers (Gmail, Yahoo, Outlook, etc.) are not accepted for capital raise lead access.")
)

var freeDomains = map[string]struct{}{}

func init() {
	for _, d := range []string{
		"gmail.com", "yahoo.com", "outlook.com", "hotmail.com", "aol.com",
		"icloud.com", "mail.com", "protonmail.com", "yandex.com", "zoho.com",
		"gmx.com", "inbox.com", "live.com", "msn.com", "me.com", "mac.com",
		"googlemail.com", "yahoo.co.uk", "yahoo.fr", "yahoo.de", "yahoo.it",
		"outlook.fr", "outlook.de", "outlook.it", "hotmail.fr", "hotmail.de",
		"hotmail.it", "hotmail.co.uk", "live.fr", "live.de", "live.it", "live.co.uk",
	} {
		freeDomains[d] = struct{}{}
	}
}

// Validate returns nil for an acceptable work address, otherwise the message
// to show next to the email field
func Validate(email string) error {
	if !strings.Contains(email, "@") {
		return ErrInvalidAddress
	}
	if !IsWorkEmail(email) {
		return ErrPersonalDomain
	}
	return nil
}

// IsWorkEmail reports whether the domain after the first @ is non-empty,
// dotted and not a consumer provider
func IsWorkEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) < 2 {
		return false
	}
	domain := strings.ToLower(parts[1])
	if domain == "" {
		return false
	}
	if _, free := freeDomains[domain]; free {
		return false
	}
	return strings.Contains(domain, ".")
}
