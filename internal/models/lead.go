package models

import "time"

// LeadStatusAvailable marks a lead that can be browsed and downloaded
const LeadStatusAvailable = "available"

// Lead represents a sales prospect offered for distribution
type Lead struct {
	ID           string    `json:"id" db:"id"`
	LeadID       string    `json:"lead_id" db:"lead_id"`
	CompanyName  string    `json:"company_name" db:"company_name"`
	ContactName  string    `json:"contact_name" db:"contact_name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	Industry     string    `json:"industry" db:"industry"`
	Location     string    `json:"location" db:"location"`
	CompanySize  string    `json:"company_size" db:"company_size"`
	RevenueRange string    `json:"revenue_range" db:"revenue_range"`
	CapitalNeed  string    `json:"capital_need" db:"capital_need"`
	Status       string    `json:"status" db:"status"`
	CreatedDate  time.Time `json:"created_date" db:"created_date"`
}
