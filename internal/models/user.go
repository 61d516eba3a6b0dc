package models

import "time"

const (
	RoleClient = "client"
	RoleAdmin  = "admin"

	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// UserProfile represents a user's account state; ID mirrors the auth identity
type UserProfile struct {
	ID             string    `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	Name           string    `json:"name" db:"name"`
	Company        string    `json:"company" db:"company"`
	Credits        int       `json:"credits" db:"credits"`
	InitialCredits int       `json:"-" db:"initial_credits"`
	Role           string    `json:"role" db:"role"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// IsAdmin reports whether the profile carries the admin role
func (p *UserProfile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsSuspended reports whether sign-in is denied for the profile
func (p *UserProfile) IsSuspended() bool {
	return p.Status == StatusSuspended
}

// Credentials is the auth identity behind a profile
type Credentials struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
}
