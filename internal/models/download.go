package models

import "time"

// DownloadRecord marks a lead as paid for by a user; later downloads are free
type DownloadRecord struct {
	UserID       string    `json:"user_id" db:"user_id"`
	LeadID       string    `json:"lead_id" db:"lead_id"`
	DownloadedAt time.Time `json:"downloaded_at" db:"downloaded_at"`
}
