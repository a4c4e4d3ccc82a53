package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type ServiceRequestType string

const (
	ServiceRequestNewConnection  ServiceRequestType = "new_connection"
	ServiceRequestDisconnection  ServiceRequestType = "disconnection"
	ServiceRequestReconnection   ServiceRequestType = "reconnection"
	ServiceRequestMeterIssue     ServiceRequestType = "meter_issue"
	ServiceRequestBillingInquiry ServiceRequestType = "billing_inquiry"
	ServiceRequestStreetlight    ServiceRequestType = "streetlight"
	ServiceRequestOther          ServiceRequestType = "other"
)

var serviceRequestTypes = []ServiceRequestType{
	ServiceRequestNewConnection,
	ServiceRequestDisconnection,
	ServiceRequestReconnection,
	ServiceRequestMeterIssue,
	ServiceRequestBillingInquiry,
	ServiceRequestStreetlight,
	ServiceRequestOther,
}

func (t ServiceRequestType) IsValid() bool {
	for _, known := range serviceRequestTypes {
		if t == known {
			return true
		}
	}
	return false
}

type ContactMethod string

const (
	ContactMethodEmail ContactMethod = "email"
	ContactMethodPhone ContactMethod = "phone"
)

// ServiceRequest is the shared row for generic requests, outage reports and
// streetlight reports. Details distinguishes the three.
type ServiceRequest struct {
	ID                     string             `json:"id" db:"id"`
	Type                   ServiceRequestType `json:"type" db:"type"`
	Name                   string             `json:"name" db:"name"`
	Email                  *string            `json:"email" db:"email"`
	Phone                  string             `json:"phone" db:"phone"`
	Address                string             `json:"address" db:"address"`
	AccountNumber          *string            `json:"accountNumber" db:"account_number"`
	Details                RequestDetails     `json:"-" db:"details"`
	PreferredContactMethod ContactMethod      `json:"preferredContactMethod" db:"preferred_contact_method"`
	ReferenceNumber        string             `json:"referenceNumber" db:"reference_number"`
	Status                 SubmissionStatus   `json:"status" db:"status"`
	AssignedTo             *string            `json:"assignedTo,omitempty" db:"assigned_to"`
	Notes                  *string            `json:"notes,omitempty" db:"notes"`
	CreatedAt              time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt              time.Time          `json:"updatedAt" db:"updated_at"`
}

func (r ServiceRequest) MarshalJSON() ([]byte, error) {
	type alias ServiceRequest
	details := json.RawMessage("null")
	if r.Details != nil {
		var err error
		if details, err = MarshalDetails(r.Details); err != nil {
			return nil, err
		}
	}
	return json.Marshal(struct {
		alias
		Details json.RawMessage `json:"details"`
	}{alias: alias(r), Details: details})
}

type DetailKind string

const (
	DetailKindGeneric     DetailKind = "generic"
	DetailKindOutage      DetailKind = "outage"
	DetailKindStreetlight DetailKind = "streetlight"
)

// RequestDetails is the kind-specific payload of a service request. The
// concrete types are GenericDetails, OutageDetails and StreetlightDetails.
type RequestDetails interface {
	Kind() DetailKind
}

type GenericDetails struct {
	Text string `json:"text"`
}

func (GenericDetails) Kind() DetailKind { return DetailKindGeneric }

type OutageDetails struct {
	AffectedArea  string `json:"affectedArea"`
	Description   string `json:"description"`
	HazardPresent bool   `json:"hazardPresent"`
}

func (OutageDetails) Kind() DetailKind { return DetailKindOutage }

type StreetlightIssue string

const (
	StreetlightNotWorking      StreetlightIssue = "not_working"
	StreetlightFlickering      StreetlightIssue = "flickering"
	StreetlightDaylightBurning StreetlightIssue = "daylight_burning"
	StreetlightDamaged         StreetlightIssue = "damaged"
	StreetlightOther           StreetlightIssue = "other"
)

type StreetlightDetails struct {
	PoleNumber        *string          `json:"poleNumber,omitempty"`
	IssueType         StreetlightIssue `json:"issueType"`
	AdditionalDetails *string          `json:"additionalDetails,omitempty"`
}

func (StreetlightDetails) Kind() DetailKind { return DetailKindStreetlight }

type detailsEnvelope struct {
	Kind DetailKind      `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalDetails encodes details as {"kind": ..., "data": {...}}, the form
// stored in the service_requests.details JSONB column.
func MarshalDetails(d RequestDetails) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("service request details are required")
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal %s details: %w", d.Kind(), err)
	}
	return json.Marshal(detailsEnvelope{Kind: d.Kind(), Data: data})
}

// UnmarshalDetails decodes the envelope written by MarshalDetails.
func UnmarshalDetails(raw []byte) (RequestDetails, error) {
	var env detailsEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode details envelope: %w", err)
	}

	var (
		target RequestDetails
		err    error
	)
	switch env.Kind {
	case DetailKindGeneric:
		var d GenericDetails
		err = json.Unmarshal(env.Data, &d)
		target = d
	case DetailKindOutage:
		var d OutageDetails
		err = json.Unmarshal(env.Data, &d)
		target = d
	case DetailKindStreetlight:
		var d StreetlightDetails
		err = json.Unmarshal(env.Data, &d)
		target = d
	default:
		return nil, fmt.Errorf("unknown details kind %q", env.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s details: %w", env.Kind, err)
	}
	return target, nil
}
