package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/stanstork/gpl-website-api/internal/submission"
	"github.com/stanstork/gpl-website-api/internal/validation"
)

type SubmissionPipeline interface {
	SubmitContact(ctx context.Context, in submission.ContactInput) (submission.Result, error)
	SubmitServiceRequest(ctx context.Context, in submission.ServiceRequestInput) (submission.Result, error)
	SubmitOutage(ctx context.Context, in submission.OutageInput) (submission.Result, error)
	SubmitStreetlight(ctx context.Context, in submission.StreetlightInput) (submission.Result, error)
	SubmitFeedback(ctx context.Context, in submission.FeedbackInput) (submission.Result, error)
	FailureMessage(kind submission.Kind) string
}

// SubmissionHandler exposes the public forms.
type SubmissionHandler struct {
	pipeline SubmissionPipeline
	logger   zerolog.Logger
}

func NewSubmissionHandler(pipeline SubmissionPipeline, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		pipeline: pipeline,
		logger:   logger.With().Str("handler", "submission").Logger(),
	}
}

func (h *SubmissionHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var in submission.ContactInput
	if !h.decode(w, r, submission.KindContact, &in) {
		return
	}
	res, err := h.pipeline.SubmitContact(r.Context(), in)
	h.respond(w, res, err)
}

func (h *SubmissionHandler) ServiceRequest(w http.ResponseWriter, r *http.Request) {
	var in submission.ServiceRequestInput
	if !h.decode(w, r, submission.KindServiceRequest, &in) {
		return
	}
	res, err := h.pipeline.SubmitServiceRequest(r.Context(), in)
	h.respond(w, res, err)
}

func (h *SubmissionHandler) Outage(w http.ResponseWriter, r *http.Request) {
	var in submission.OutageInput
	if !h.decode(w, r, submission.KindOutage, &in) {
		return
	}
	res, err := h.pipeline.SubmitOutage(r.Context(), in)
	h.respond(w, res, err)
}

func (h *SubmissionHandler) Streetlight(w http.ResponseWriter, r *http.Request) {
	var in submission.StreetlightInput
	if !h.decode(w, r, submission.KindStreetlight, &in) {
		return
	}
	res, err := h.pipeline.SubmitStreetlight(r.Context(), in)
	h.respond(w, res, err)
}

func (h *SubmissionHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var in submission.FeedbackInput
	if !h.decode(w, r, submission.KindFeedback, &in) {
		return
	}
	res, err := h.pipeline.SubmitFeedback(r.Context(), in)
	h.respond(w, res, err)
}

func (h *SubmissionHandler) decode(w http.ResponseWriter, r *http.Request, kind submission.Kind, dst interface{}) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		h.logger.Debug().Err(err).Str("kind", string(kind)).Msg("malformed submission body")
		writeJSON(w, http.StatusBadRequest, submission.Result{
			Success: false,
			Message: h.pipeline.FailureMessage(kind),
		})
		return false
	}
	return true
}

func (h *SubmissionHandler) respond(w http.ResponseWriter, res submission.Result, err error) {
	if err == nil {
		writeJSON(w, http.StatusCreated, res)
		return
	}

	var perr *submission.PersistenceError
	switch {
	case errors.As(err, new(*validation.Error)):
		writeJSON(w, http.StatusBadRequest, res)
	case errors.As(err, &perr):
		writeJSON(w, http.StatusInternalServerError, res)
	default:
		h.logger.Error().Err(err).Msg("unexpected submission error")
		writeJSON(w, http.StatusInternalServerError, res)
	}
}
