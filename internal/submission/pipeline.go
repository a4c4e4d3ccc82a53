package submission

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stanstork/gpl-website-api/internal/models"
	"github.com/stanstork/gpl-website-api/internal/monitoring"
	"github.com/stanstork/gpl-website-api/internal/notification"
	"github.com/stanstork/gpl-website-api/internal/reference"
	"github.com/stanstork/gpl-website-api/internal/repository"
	"github.com/stanstork/gpl-website-api/internal/validation"
)

type ReferenceGenerator interface {
	Next(prefix reference.Prefix) string
}

type AlertPublisher interface {
	Publish(ctx context.Context, alert notification.Alert)
}

type Dependencies struct {
	Contacts        repository.ContactRepository
	ServiceRequests repository.ServiceRequestRepository
	Feedback        repository.FeedbackRepository
	References      ReferenceGenerator
	Alerts          AlertPublisher
	Metrics         *monitoring.Metrics
	// Hotline is quoted to outage reporters whenever a report cannot be taken.
	Hotline string
}

// Pipeline validates, stores and acknowledges public form submissions.
// Every method returns a Result suitable for the client; a non-nil error is
// either *validation.Error or *PersistenceError.
type Pipeline struct {
	deps   Dependencies
	logger zerolog.Logger
}

func NewPipeline(deps Dependencies, logger zerolog.Logger) *Pipeline {
	if deps.References == nil {
		deps.References = reference.NewGenerator()
	}
	if deps.Hotline == "" {
		deps.Hotline = "0475"
	}
	return &Pipeline{
		deps:   deps,
		logger: logger.With().Str("component", "submission_pipeline").Logger(),
	}
}

func (p *Pipeline) SubmitContact(ctx context.Context, in ContactInput) (Result, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return p.rejected(KindContact, genericFailure, err)
	}

	rec, err := p.deps.Contacts.Create(ctx, repository.CreateContactParams{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	})
	if err != nil {
		return p.failed(KindContact, genericFailure, err)
	}

	p.accepted(ctx, notification.Alert{
		Kind:     string(KindContact),
		RecordID: rec.ID,
		Title:    "New contact message: " + rec.Subject,
		Message:  rec.Message,
		Fields:   map[string]string{"name": rec.Name, "email": rec.Email},
	})
	return Result{Success: true, ID: rec.ID, Message: contactAccepted}, nil
}

func (p *Pipeline) SubmitServiceRequest(ctx context.Context, in ServiceRequestInput) (Result, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return p.rejected(KindServiceRequest, genericFailure, err)
	}

	email := in.Email
	ref := p.deps.References.Next(reference.PrefixServiceRequest)
	rec, err := p.deps.ServiceRequests.Create(ctx, repository.CreateServiceRequestParams{
		Type:                   in.Type,
		Name:                   in.Name,
		Email:                  &email,
		Phone:                  in.Phone,
		Address:                in.Address,
		AccountNumber:          in.AccountNumber,
		Details:                models.GenericDetails{Text: in.Details},
		PreferredContactMethod: in.PreferredContactMethod,
		ReferenceNumber:        ref,
	})
	if err != nil {
		return p.failed(KindServiceRequest, genericFailure, err)
	}

	p.accepted(ctx, notification.Alert{
		Kind:            string(KindServiceRequest),
		RecordID:        rec.ID,
		ReferenceNumber: ref,
		Title:           fmt.Sprintf("New service request (%s)", in.Type),
		Message:         in.Details,
		Fields:          map[string]string{"name": in.Name, "phone": in.Phone, "address": in.Address},
	})
	return Result{
		Success:         true,
		ID:              rec.ID,
		ReferenceNumber: ref,
		Message:         fmt.Sprintf(serviceRequestAccepted, ref),
	}, nil
}

func (p *Pipeline) SubmitOutage(ctx context.Context, in OutageInput) (Result, error) {
	failure := p.FailureMessage(KindOutage)

	in.normalize()
	if err := validation.Struct(in); err != nil {
		return p.rejected(KindOutage, failure, err)
	}

	ref := p.deps.References.Next(reference.PrefixOutage)
	rec, err := p.deps.ServiceRequests.Create(ctx, repository.CreateServiceRequestParams{
		Type:          models.ServiceRequestOther,
		Name:          in.Name,
		Phone:         in.Phone,
		Address:       in.Address,
		AccountNumber: in.AccountNumber,
		Details: models.OutageDetails{
			AffectedArea:  in.AffectedArea,
			Description:   in.Description,
			HazardPresent: in.HazardPresent,
		},
		PreferredContactMethod: models.ContactMethodPhone,
		ReferenceNumber:        ref,
	})
	if err != nil {
		return p.failed(KindOutage, failure, err)
	}

	alert := notification.Alert{
		Kind:            string(KindOutage),
		RecordID:        rec.ID,
		ReferenceNumber: ref,
		Severity:        notification.SeverityInfo,
		Title:           "Outage reported in " + in.AffectedArea,
		Message:         in.Description,
		Fields:          map[string]string{"name": in.Name, "phone": in.Phone, "address": in.Address},
	}
	result := Result{
		Success:         true,
		ReferenceNumber: ref,
		Message:         fmt.Sprintf(outageAccepted, ref),
	}
	if in.HazardPresent {
		alert.Severity = notification.SeverityUrgent
		alert.Title = "HAZARD: " + alert.Title
		result.EmergencyNote = fmt.Sprintf(hazardNote, p.deps.Hotline)
	}
	p.accepted(ctx, alert)
	return result, nil
}

func (p *Pipeline) SubmitStreetlight(ctx context.Context, in StreetlightInput) (Result, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return p.rejected(KindStreetlight, streetlightFailure, err)
	}

	ref := p.deps.References.Next(reference.PrefixStreetlight)
	rec, err := p.deps.ServiceRequests.Create(ctx, repository.CreateServiceRequestParams{
		Type:    models.ServiceRequestStreetlight,
		Name:    in.ReporterName,
		Phone:   in.ReporterPhone,
		Address: in.Location,
		Details: models.StreetlightDetails{
			PoleNumber:        in.PoleNumber,
			IssueType:         in.IssueType,
			AdditionalDetails: in.AdditionalDetails,
		},
		PreferredContactMethod: models.ContactMethodPhone,
		ReferenceNumber:        ref,
	})
	if err != nil {
		return p.failed(KindStreetlight, streetlightFailure, err)
	}

	fields := map[string]string{"issue": string(in.IssueType), "phone": in.ReporterPhone}
	if in.PoleNumber != nil {
		fields["pole"] = *in.PoleNumber
	}
	p.accepted(ctx, notification.Alert{
		Kind:            string(KindStreetlight),
		RecordID:        rec.ID,
		ReferenceNumber: ref,
		Title:           "Streetlight issue at " + in.Location,
		Message:         fmt.Sprintf("Reported by %s.", in.ReporterName),
		Fields:          fields,
	})
	return Result{
		Success:         true,
		ReferenceNumber: ref,
		Message:         fmt.Sprintf(streetlightAccepted, ref),
	}, nil
}

func (p *Pipeline) SubmitFeedback(ctx context.Context, in FeedbackInput) (Result, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return p.rejected(KindFeedback, feedbackFailure, err)
	}

	rec, err := p.deps.Feedback.Create(ctx, repository.CreateFeedbackParams{
		Type:    in.Type,
		Message: in.Message,
		Name:    in.Name,
		Email:   in.Email,
		Rating:  in.Rating,
	})
	if err != nil {
		return p.failed(KindFeedback, feedbackFailure, err)
	}

	fields := map[string]string{}
	if in.Rating != nil {
		fields["rating"] = fmt.Sprint(*in.Rating)
	}
	p.accepted(ctx, notification.Alert{
		Kind:     string(KindFeedback),
		RecordID: rec.ID,
		Title:    fmt.Sprintf("New %s feedback", in.Type),
		Message:  in.Message,
		Fields:   fields,
	})
	return Result{Success: true, Message: feedbackAccepted}, nil
}

func (p *Pipeline) rejected(kind Kind, message string, err error) (Result, error) {
	verr, ok := validation.AsError(err)
	if !ok {
		// Not a field violation: the validator itself failed.
		return p.failed(kind, message, err)
	}
	p.deps.Metrics.ObserveSubmission(string(kind), monitoring.OutcomeInvalid)
	p.logger.Debug().Str("kind", string(kind)).Err(verr).Msg("submission rejected")
	return Result{Success: false, Message: message, Errors: verr.Fields}, verr
}

func (p *Pipeline) failed(kind Kind, message string, err error) (Result, error) {
	p.deps.Metrics.ObserveSubmission(string(kind), monitoring.OutcomeFailed)
	p.logger.Error().Str("kind", string(kind)).Err(err).Msg("failed to persist submission")
	return Result{Success: false, Message: message}, &PersistenceError{Kind: kind, Err: err}
}

func (p *Pipeline) accepted(ctx context.Context, alert notification.Alert) {
	p.deps.Metrics.ObserveSubmission(alert.Kind, monitoring.OutcomeAccepted)
	p.logger.Info().
		Str("kind", alert.Kind).
		Str("record_id", alert.RecordID).
		Str("reference_number", alert.ReferenceNumber).
		Msg("submission accepted")
	if p.deps.Alerts != nil {
		p.deps.Alerts.Publish(ctx, alert)
	}
}

// FailureMessage is the client-facing text for a submission of kind that
// could not be read or stored.
func (p *Pipeline) FailureMessage(kind Kind) string {
	switch kind {
	case KindOutage:
		return fmt.Sprintf(outageFailure, p.deps.Hotline)
	case KindStreetlight:
		return streetlightFailure
	case KindFeedback:
		return feedbackFailure
	default:
		return genericFailure
	}
}
