package models

import "time"

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID         string           `json:"id" db:"id"`
	Name       string           `json:"name" db:"name"`
	Email      string           `json:"email" db:"email"`
	Phone      *string          `json:"phone,omitempty" db:"phone"`
	Subject    string           `json:"subject" db:"subject"`
	Message    string           `json:"message" db:"message"`
	Status     SubmissionStatus `json:"status" db:"status"`
	AssignedTo *string          `json:"assignedTo,omitempty" db:"assigned_to"`
	Notes      *string          `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time        `json:"updatedAt" db:"updated_at"`
}
