package handlers

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stanstork/gpl-website-api/internal/models"
	"github.com/stanstork/gpl-website-api/internal/repository"
	"github.com/stanstork/gpl-website-api/internal/submission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubmissionHandler(contacts repository.ContactRepository, requests repository.ServiceRequestRepository) *SubmissionHandler {
	pipeline := submission.NewPipeline(submission.Dependencies{
		Contacts:        contacts,
		ServiceRequests: requests,
		Hotline:         "0475",
	}, zerolog.Nop())
	return NewSubmissionHandler(pipeline, zerolog.Nop())
}

func storedRequests() *fakeServiceRequests {
	return &fakeServiceRequests{createFunc: func(_ context.Context, p repository.CreateServiceRequestParams) (models.ServiceRequest, error) {
		return models.ServiceRequest{ID: "sr-1", Type: p.Type, ReferenceNumber: p.ReferenceNumber}, nil
	}}
}

var validOutage = map[string]interface{}{
	"name":         "Ravi Persaud",
	"phone":        "592-555-0101",
	"address":      "12 Main Street, Georgetown",
	"affectedArea": "Kitty",
	"description":  "No power on the whole street since 9pm",
}

func TestSubmissionHandler_ContactStatusCodes(t *testing.T) {
	valid := map[string]interface{}{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"subject": "Billing question",
		"message": "Why is my bill higher this month?",
	}

	t.Run("accepted", func(t *testing.T) {
		h := newSubmissionHandler(&fakeContacts{createFunc: func(context.Context, repository.CreateContactParams) (models.ContactSubmission, error) {
			return models.ContactSubmission{ID: "c-1"}, nil
		}}, nil)
		rec := serve(http.MethodPost, "/api/contact", "/api/contact", h.Contact, valid)

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "c-1", body["id"])
	})

	t.Run("short message", func(t *testing.T) {
		h := newSubmissionHandler(&fakeContacts{createFunc: func(context.Context, repository.CreateContactParams) (models.ContactSubmission, error) {
			t.Fatal("must not persist")
			return models.ContactSubmission{}, nil
		}}, nil)
		invalid := map[string]interface{}{}
		for k, v := range valid {
			invalid[k] = v
		}
		invalid["message"] = "too short"
		rec := serve(http.MethodPost, "/api/contact", "/api/contact", h.Contact, invalid)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.NotEmpty(t, body["errors"])
	})

	t.Run("store down", func(t *testing.T) {
		h := newSubmissionHandler(&fakeContacts{createFunc: func(context.Context, repository.CreateContactParams) (models.ContactSubmission, error) {
			return models.ContactSubmission{}, errors.New("connection refused")
		}}, nil)
		rec := serve(http.MethodPost, "/api/contact", "/api/contact", h.Contact, valid)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("malformed body", func(t *testing.T) {
		h := newSubmissionHandler(nil, nil)
		rec := serve(http.MethodPost, "/api/contact", "/api/contact", h.Contact, "{not json")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, decodeBody(t, rec)["success"])
	})
}

func TestSubmissionHandler_OutageHazardNote(t *testing.T) {
	h := newSubmissionHandler(nil, storedRequests())

	rec := serve(http.MethodPost, "/api/outage", "/api/outage", h.Outage, validOutage)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Regexp(t, regexp.MustCompile(`^OUT-[A-Z0-9]+$`), body["referenceNumber"])
	_, hasNote := body["emergencyNote"]
	assert.False(t, hasNote)

	hazard := map[string]interface{}{"hazardPresent": true}
	for k, v := range validOutage {
		hazard[k] = v
	}
	rec = serve(http.MethodPost, "/api/outage", "/api/outage", h.Outage, hazard)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["emergencyNote"], "0475")
}

func TestSubmissionHandler_OutageFailureQuotesHotline(t *testing.T) {
	requests := &fakeServiceRequests{createFunc: func(context.Context, repository.CreateServiceRequestParams) (models.ServiceRequest, error) {
		return models.ServiceRequest{}, errors.New("timeout")
	}}
	h := newSubmissionHandler(nil, requests)

	rec := serve(http.MethodPost, "/api/outage", "/api/outage", h.Outage, validOutage)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["message"], "0475")

	rec = serve(http.MethodPost, "/api/outage", "/api/outage", h.Outage, "[]")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["message"], "0475")
}

func TestSubmissionHandler_StreetlightReference(t *testing.T) {
	h := newSubmissionHandler(nil, storedRequests())
	rec := serve(http.MethodPost, "/api/streetlight", "/api/streetlight", h.Streetlight, map[string]interface{}{
		"reporterName":  "Asha Singh",
		"reporterPhone": "592-555-0199",
		"location":      "Corner of Camp and Church Street",
		"issueType":     "flickering",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Regexp(t, regexp.MustCompile(`^SL-[A-Z0-9]+$`), decodeBody(t, rec)["referenceNumber"])
}
