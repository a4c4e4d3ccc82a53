package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stanstork/gpl-website-api/internal/models"
	"github.com/stanstork/gpl-website-api/internal/repository"
	"github.com/stanstork/gpl-website-api/internal/validation"
)

// AdminSubmissionHandler lets staff triage inbound submissions.
type AdminSubmissionHandler struct {
	contacts        repository.ContactRepository
	serviceRequests repository.ServiceRequestRepository
	feedback        repository.FeedbackRepository
	logger          zerolog.Logger
}

func NewAdminSubmissionHandler(
	contacts repository.ContactRepository,
	serviceRequests repository.ServiceRequestRepository,
	feedback repository.FeedbackRepository,
	logger zerolog.Logger,
) *AdminSubmissionHandler {
	return &AdminSubmissionHandler{
		contacts:        contacts,
		serviceRequests: serviceRequests,
		feedback:        feedback,
		logger:          logger.With().Str("handler", "admin_submissions").Logger(),
	}
}

type submissionUpdateRequest struct {
	Status     *string `json:"status" validate:"omitempty,oneof=pending in_progress resolved closed"`
	Notes      *string `json:"notes" validate:"omitempty,max=5000"`
	AssignedTo *string `json:"assignedTo" validate:"omitempty,uuid"`
}

func (req submissionUpdateRequest) toUpdate() models.SubmissionUpdate {
	var update models.SubmissionUpdate
	if req.Status != nil {
		s := models.SubmissionStatus(*req.Status)
		update.Status = &s
	}
	update.Notes = req.Notes
	update.AssignedTo = req.AssignedTo
	return update
}

// listOptions parses ?status=&type=&limit=&offset=. typeValid may be nil when
// the listing has no type filter.
func listOptions(w http.ResponseWriter, r *http.Request, typeValid func(string) bool) (models.SubmissionListOptions, bool) {
	q := r.URL.Query()
	opts := models.SubmissionListOptions{
		Status: models.SubmissionStatus(strings.TrimSpace(q.Get("status"))),
		Limit:  queryInt(r, "limit", 25),
		Offset: queryInt(r, "offset", 0),
	}
	if opts.Status != "" && !opts.Status.IsValid() {
		writeValidationError(w, validation.NewError("status", "Unknown status"))
		return opts, false
	}
	if typeValid != nil {
		opts.Type = strings.TrimSpace(q.Get("type"))
		if opts.Type != "" && !typeValid(opts.Type) {
			writeValidationError(w, validation.NewError("type", "Unknown type"))
			return opts, false
		}
	}
	return opts, true
}

func (h *AdminSubmissionHandler) decodeUpdate(w http.ResponseWriter, r *http.Request, allowAssign bool) (string, models.SubmissionUpdate, bool) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Submission not found")
		return "", models.SubmissionUpdate{}, false
	}

	var req submissionUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return "", models.SubmissionUpdate{}, false
	}
	if !allowAssign && req.AssignedTo != nil {
		writeValidationError(w, validation.NewError("assignedTo", "Feedback cannot be assigned"))
		return "", models.SubmissionUpdate{}, false
	}
	if req.Status == nil && req.Notes == nil && req.AssignedTo == nil {
		writeError(w, http.StatusBadRequest, "Nothing to update")
		return "", models.SubmissionUpdate{}, false
	}
	if err := validation.Struct(req); err != nil {
		if verr, ok := validation.AsError(err); ok {
			writeValidationError(w, verr)
			return "", models.SubmissionUpdate{}, false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return "", models.SubmissionUpdate{}, false
	}
	return id, req.toUpdate(), true
}

func (h *AdminSubmissionHandler) writeUpdateError(w http.ResponseWriter, err error, id, what string) {
	if repository.IsNotFound(err) {
		writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	h.logger.Error().Err(err).Str("id", id).Msgf("failed to update %s", strings.ToLower(what))
	writeError(w, http.StatusInternalServerError, "Failed to update "+strings.ToLower(what))
}

func (h *AdminSubmissionHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	opts, ok := listOptions(w, r, nil)
	if !ok {
		return
	}
	items, err := h.contacts.List(r.Context(), opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list contact submissions")
		writeError(w, http.StatusInternalServerError, "Failed to list contact submissions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"contacts": items})
}

func (h *AdminSubmissionHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, update, ok := h.decodeUpdate(w, r, true)
	if !ok {
		return
	}
	item, err := h.contacts.Update(r.Context(), id, update)
	if err != nil {
		h.writeUpdateError(w, err, id, "Contact submission")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *AdminSubmissionHandler) ListServiceRequests(w http.ResponseWriter, r *http.Request) {
	opts, ok := listOptions(w, r, func(t string) bool { return models.ServiceRequestType(t).IsValid() })
	if !ok {
		return
	}
	items, err := h.serviceRequests.List(r.Context(), opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list service requests")
		writeError(w, http.StatusInternalServerError, "Failed to list service requests")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"serviceRequests": items})
}

func (h *AdminSubmissionHandler) UpdateServiceRequest(w http.ResponseWriter, r *http.Request) {
	id, update, ok := h.decodeUpdate(w, r, true)
	if !ok {
		return
	}
	item, err := h.serviceRequests.Update(r.Context(), id, update)
	if err != nil {
		h.writeUpdateError(w, err, id, "Service request")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *AdminSubmissionHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	opts, ok := listOptions(w, r, func(t string) bool { return models.FeedbackType(t).IsValid() })
	if !ok {
		return
	}
	items, err := h.feedback.List(r.Context(), opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list feedback")
		writeError(w, http.StatusInternalServerError, "Failed to list feedback")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"feedback": items})
}

func (h *AdminSubmissionHandler) UpdateFeedback(w http.ResponseWriter, r *http.Request) {
	id, update, ok := h.decodeUpdate(w, r, false)
	if !ok {
		return
	}
	item, err := h.feedback.Update(r.Context(), id, update)
	if err != nil {
		h.writeUpdateError(w, err, id, "Feedback")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Dashboard summarises every queue by status.
func (h *AdminSubmissionHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		stats models.DashboardStats
		err   error
	)
	if stats.Contacts, err = h.contacts.CountByStatus(ctx); err != nil {
		h.dashboardError(w, err)
		return
	}
	if stats.ServiceRequests, err = h.serviceRequests.CountByStatus(ctx); err != nil {
		h.dashboardError(w, err)
		return
	}
	if stats.Feedback, err = h.feedback.CountByStatus(ctx); err != nil {
		h.dashboardError(w, err)
		return
	}
	stats.PendingTotal = stats.Contacts.Pending() + stats.ServiceRequests.Pending() + stats.Feedback.Pending()
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminSubmissionHandler) dashboardError(w http.ResponseWriter, err error) {
	h.logger.Error().Err(err).Msg("failed to build dashboard")
	writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
}
