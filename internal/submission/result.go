package submission

import (
	"fmt"

	"github.com/stanstork/gpl-website-api/internal/validation"
)

type Kind string

const (
	KindContact        Kind = "contact"
	KindServiceRequest Kind = "service_request"
	KindOutage         Kind = "outage"
	KindStreetlight    Kind = "streetlight"
	KindFeedback       Kind = "feedback"
)

// Result is the acknowledgment returned to the submitter.
type Result struct {
	Success         bool                    `json:"success"`
	ID              string                  `json:"id,omitempty"`
	ReferenceNumber string                  `json:"referenceNumber,omitempty"`
	Message         string                  `json:"message"`
	EmergencyNote   string                  `json:"emergencyNote,omitempty"`
	Errors          []validation.FieldError `json:"errors,omitempty"`
}

// PersistenceError reports that a valid submission could not be stored.
type PersistenceError struct {
	Kind Kind
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s submission: %v", e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

const (
	contactAccepted        = "Thank you for contacting us. We will respond within 2 business days."
	serviceRequestAccepted = "Your service request has been submitted. Reference: %s"
	outageAccepted         = "Outage reported. Reference: %s. We will investigate promptly."
	streetlightAccepted    = "Streetlight issue reported. Reference: %s. Thank you for helping keep Guyana safe."
	feedbackAccepted       = "Thank you for your feedback. We value your input!"

	hazardNote = "HAZARD REPORTED: Please stay away from the area and call %s immediately if downed lines are present."

	genericFailure     = "An error occurred. Please try again or call our hotline."
	outageFailure      = "Unable to submit report. Please call %s for immediate assistance."
	streetlightFailure = "Unable to submit report. Please try again."
	feedbackFailure    = "Unable to submit feedback. Please try again."
)
