package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stanstork/gpl-website-api/internal/models"
	"github.com/stanstork/gpl-website-api/internal/repository"
	"github.com/stretchr/testify/require"
)

type fakeContacts struct {
	repository.ContactRepository
	createFunc func(ctx context.Context, p repository.CreateContactParams) (models.ContactSubmission, error)
	updateFunc func(ctx context.Context, id string, u models.SubmissionUpdate) (models.ContactSubmission, error)
	counts     models.StatusCounts
}

func (f *fakeContacts) Create(ctx context.Context, p repository.CreateContactParams) (models.ContactSubmission, error) {
	return f.createFunc(ctx, p)
}

func (f *fakeContacts) Update(ctx context.Context, id string, u models.SubmissionUpdate) (models.ContactSubmission, error) {
	return f.updateFunc(ctx, id, u)
}

func (f *fakeContacts) CountByStatus(context.Context) (models.StatusCounts, error) {
	return f.counts, nil
}

type fakeServiceRequests struct {
	repository.ServiceRequestRepository
	createFunc func(ctx context.Context, p repository.CreateServiceRequestParams) (models.ServiceRequest, error)
	counts     models.StatusCounts
}

func (f *fakeServiceRequests) Create(ctx context.Context, p repository.CreateServiceRequestParams) (models.ServiceRequest, error) {
	return f.createFunc(ctx, p)
}

func (f *fakeServiceRequests) CountByStatus(context.Context) (models.StatusCounts, error) {
	return f.counts, nil
}

type fakeFeedback struct {
	repository.FeedbackRepository
	updateCalls int
	counts      models.StatusCounts
}

func (f *fakeFeedback) Update(context.Context, string, models.SubmissionUpdate) (models.Feedback, error) {
	f.updateCalls++
	return models.Feedback{}, nil
}

func (f *fakeFeedback) CountByStatus(context.Context) (models.StatusCounts, error) {
	return f.counts, nil
}

// serve routes a single request through a mux router so path variables resolve.
func serve(method, pattern, target string, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc(pattern, handler).Methods(method)

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
