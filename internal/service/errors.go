package service

import (
	"errors"
	"fmt"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/repository"
)

var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountSuspended    = errors.New("account suspended")
	ErrForbidden           = errors.New("forbidden")
	ErrEmailTaken          = errors.New("an account with this email already exists")
	ErrEmptySelection      = errors.New("please select at least one lead")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidAmount       = errors.New("amount must be a non-zero whole number")
	ErrNoValidLeads        = errors.New("no valid leads found in CSV")
	ErrNotFound            = repository.ErrNotFound
)

// ValidationError reports a rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InsufficientCreditsError carries the numbers behind ErrInsufficientCredits
type InsufficientCreditsError struct {
	Need int
	Have int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("Not enough credits! You need %d credits but have %d", e.Need, e.Have)
}

func (e *InsufficientCreditsError) Is(target error) bool {
	return target == ErrInsufficientCredits
}
