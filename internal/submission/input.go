package submission

import (
	"strings"

	"github.com/stanstork/gpl-website-api/internal/models"
)

type ContactInput struct {
	Name    string  `json:"name" validate:"required,min=2,max=100"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Subject string  `json:"subject" validate:"required,min=5,max=200"`
	Message string  `json:"message" validate:"required,min=10,max=5000"`
}

func (in *ContactInput) normalize() {
	trim(&in.Name, &in.Email, &in.Subject, &in.Message)
	trimOptional(&in.Phone)
}

type ServiceRequestInput struct {
	Type                   models.ServiceRequestType `json:"type" validate:"required,oneof=new_connection disconnection reconnection meter_issue billing_inquiry streetlight other"`
	Name                   string                    `json:"name" validate:"required,min=2,max=100"`
	Email                  string                    `json:"email" validate:"required,email"`
	Phone                  string                    `json:"phone" validate:"required,min=7,max=20"`
	Address                string                    `json:"address" validate:"required,min=10,max=500"`
	AccountNumber          *string                   `json:"accountNumber" validate:"omitempty,max=50"`
	Details                string                    `json:"details" validate:"required,min=10,max=5000"`
	PreferredContactMethod models.ContactMethod      `json:"preferredContactMethod" validate:"required,oneof=email phone"`
}

func (in *ServiceRequestInput) normalize() {
	trim(&in.Name, &in.Email, &in.Phone, &in.Address, &in.Details)
	trimOptional(&in.AccountNumber)
	in.Type = models.ServiceRequestType(strings.TrimSpace(string(in.Type)))
	in.PreferredContactMethod = models.ContactMethod(strings.TrimSpace(string(in.PreferredContactMethod)))
	if in.PreferredContactMethod == "" {
		in.PreferredContactMethod = models.ContactMethodEmail
	}
}

type OutageInput struct {
	Name          string  `json:"name" validate:"required,min=2,max=100"`
	Phone         string  `json:"phone" validate:"required,min=7,max=20"`
	Address       string  `json:"address" validate:"required,min=10,max=500"`
	AccountNumber *string `json:"accountNumber" validate:"omitempty,max=50"`
	AffectedArea  string  `json:"affectedArea" validate:"required,min=5,max=200"`
	Description   string  `json:"description" validate:"required,min=10,max=2000"`
	HazardPresent bool    `json:"hazardPresent"`
}

func (in *OutageInput) normalize() {
	trim(&in.Name, &in.Phone, &in.Address, &in.AffectedArea, &in.Description)
	trimOptional(&in.AccountNumber)
}

type StreetlightInput struct {
	ReporterName      string                  `json:"reporterName" validate:"required,min=2,max=100"`
	ReporterPhone     string                  `json:"reporterPhone" validate:"required,min=7,max=20"`
	PoleNumber        *string                 `json:"poleNumber" validate:"omitempty,max=50"`
	Location          string                  `json:"location" validate:"required,min=10,max=500"`
	IssueType         models.StreetlightIssue `json:"issueType" validate:"required,oneof=not_working flickering daylight_burning damaged other"`
	AdditionalDetails *string                 `json:"additionalDetails" validate:"omitempty,max=1000"`
}

func (in *StreetlightInput) normalize() {
	trim(&in.ReporterName, &in.ReporterPhone, &in.Location)
	trimOptional(&in.PoleNumber, &in.AdditionalDetails)
	in.IssueType = models.StreetlightIssue(strings.TrimSpace(string(in.IssueType)))
}

type FeedbackInput struct {
	Type    models.FeedbackType `json:"type" validate:"required,oneof=complaint suggestion compliment general"`
	Message string              `json:"message" validate:"required,min=10,max=5000"`
	Name    *string             `json:"name" validate:"omitempty,max=100"`
	Email   *string             `json:"email" validate:"omitempty,email"`
	Rating  *int                `json:"rating" validate:"omitempty,min=1,max=5"`
}

func (in *FeedbackInput) normalize() {
	trim(&in.Message)
	trimOptional(&in.Name, &in.Email)
	in.Type = models.FeedbackType(strings.TrimSpace(string(in.Type)))
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// trimOptional trims optional fields and treats blank values as absent.
func trimOptional(fields ...**string) {
	for _, f := range fields {
		if *f == nil {
			continue
		}
		v := strings.TrimSpace(**f)
		if v == "" {
			*f = nil
			continue
		}
		*f = &v
	}
}
