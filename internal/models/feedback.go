package models

import "time"

type FeedbackType string

const (
	FeedbackTypeComplaint  FeedbackType = "complaint"
	FeedbackTypeSuggestion FeedbackType = "suggestion"
	FeedbackTypeCompliment FeedbackType = "compliment"
	FeedbackTypeGeneral    FeedbackType = "general"
)

func (t FeedbackType) IsValid() bool {
	switch t {
	case FeedbackTypeComplaint, FeedbackTypeSuggestion, FeedbackTypeCompliment, FeedbackTypeGeneral:
		return true
	}
	return false
}

// Feedback is an optionally anonymous comment on the utility's service.
type Feedback struct {
	ID        string           `json:"id" db:"id"`
	Type      FeedbackType     `json:"type" db:"type"`
	Message   string           `json:"message" db:"message"`
	Name      *string          `json:"name,omitempty" db:"name"`
	Email     *string          `json:"email,omitempty" db:"email"`
	Rating    *int             `json:"rating,omitempty" db:"rating"`
	Status    SubmissionStatus `json:"status" db:"status"`
	Notes     *string          `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time        `json:"updatedAt" db:"updated_at"`
}
