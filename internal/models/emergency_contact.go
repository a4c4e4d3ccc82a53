package models

import "time"

// EmergencyContact is a regional hotline shown on every public page.
type EmergencyContact struct {
	ID              string    `json:"id" db:"id"`
	Region          string    `json:"region" db:"region"`
	Name            string    `json:"name" db:"name"`
	PrimaryNumber   string    `json:"primaryNumber" db:"primary_number"`
	SecondaryNumber *string   `json:"secondaryNumber" db:"secondary_number"`
	Description     *string   `json:"description" db:"description"`
	Available       string    `json:"available" db:"available"`
	Order           int       `json:"order" db:"order"`
	IsActive        bool      `json:"isActive" db:"is_active"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}
