package models

import "time"

const (
	TransactionGrant  = "grant"
	TransactionDeduct = "deduct"
)

// CreditTransaction represents one append-only ledger entry
type CreditTransaction struct {
	ID          int64     `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Amount      int       `json:"amount" db:"amount"`
	Type        string    `json:"type" db:"type"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CreditDrift is a profile whose balance disagrees with its ledger
type CreditDrift struct {
	UserID   string `json:"user_id" db:"user_id"`
	Email    string `json:"email" db:"email"`
	Credits  int    `json:"credits" db:"credits"`
	Expected int    `json:"expected" db:"expected"`
}
