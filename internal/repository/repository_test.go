package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stanstork/gpl-website-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var fixedTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func TestContactRepository_CreateAlwaysPending(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "subject", "message", "status", "assigned_to", "notes", "created_at", "updated_at"}).
		AddRow("c-1", "Jane Doe", "jane@example.com", nil, "Billing", "Why is my bill high this month?", "pending", nil, nil, fixedTime, fixedTime)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO contact_submissions")).
		WithArgs("Jane Doe", "jane@example.com", nil, "Billing", "Why is my bill high this month?").
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), CreateContactParams{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   strPtr("   "),
		Subject: "Billing",
		Message: "Why is my bill high this month?",
	})
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ID)
	assert.Equal(t, models.SubmissionStatusPending, got.Status)
	assert.Nil(t, got.Phone)
}

func TestContactRepository_UpdateMissingRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepository(db)

	status := models.SubmissionStatusResolved
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE contact_submissions")).
		WithArgs("missing", "resolved", nil, nil).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "missing", models.SubmissionUpdate{Status: &status})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestContactRepository_ListFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "subject", "message", "status", "assigned_to", "notes", "created_at", "updated_at"}).
		AddRow("c-2", "Ravi", "ravi@example.com", "592-600-0000", "Meter", "Meter box is open", "in_progress", "u-1", "visited", fixedTime, fixedTime)
	mock.ExpectQuery(regexp.QuoteMeta("FROM contact_submissions WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs("in_progress", int64(25), int64(0)).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), models.SubmissionListOptions{Status: models.SubmissionStatusInProgress, Offset: -4})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "592-600-0000", *got[0].Phone)
	assert.Equal(t, "u-1", *got[0].AssignedTo)
}

func TestCountByStatus_FillsMissingStatuses(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFeedbackRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) FROM feedback GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("pending", 4).AddRow("closed", 1))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, counts.Pending())
	assert.Equal(t, 1, counts[models.SubmissionStatusClosed])
	assert.Equal(t, 0, counts[models.SubmissionStatusResolved])
	assert.Len(t, counts, 4)
}

func TestServiceRequestRepository_CreateStoresDetails(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServiceRequestRepository(db)

	details := models.OutageDetails{AffectedArea: "Kitty", Description: "No power since 6am", HazardPresent: true}
	encoded, err := models.MarshalDetails(details)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "type", "name", "email", "phone", "address", "account_number", "details",
		"preferred_contact_method", "reference_number", "status", "assigned_to", "notes", "created_at", "updated_at"}).
		AddRow("sr-1", "other", "Asha", nil, "592-611-1111", "Lot 4 Kitty", nil, encoded,
			"phone", "OUT-ABC123", "pending", nil, nil, fixedTime, fixedTime)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO service_requests")).
		WithArgs("other", "Asha", nil, "592-611-1111", "Lot 4 Kitty", nil, sqlmock.AnyArg(), "phone", "OUT-ABC123").
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), CreateServiceRequestParams{
		Type:                   models.ServiceRequestOther,
		Name:                   "Asha",
		Phone:                  "592-611-1111",
		Address:                "Lot 4 Kitty",
		Details:                details,
		PreferredContactMethod: models.ContactMethodPhone,
		ReferenceNumber:        "OUT-ABC123",
	})
	require.NoError(t, err)
	assert.Nil(t, got.Email)
	assert.Equal(t, "OUT-ABC123", got.ReferenceNumber)
	assert.Equal(t, details, got.Details)
}

func TestServiceRequestRepository_CreateRequiresDetails(t *testing.T) {
	db, _ := newMock(t)
	repo := NewServiceRequestRepository(db)

	_, err := repo.Create(context.Background(), CreateServiceRequestParams{Type: models.ServiceRequestOther})
	assert.Error(t, err)
}

func TestFAQRepository_ListPublishedFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFAQRepository(db)

	rows := sqlmock.NewRows([]string{"id", "question", "answer", "category", "order", "is_published", "created_at", "updated_at"}).
		AddRow("f-1", "How do I pay?", "Online or in person.", "billing", 1, true, fixedTime, fixedTime)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE is_published = TRUE AND category = $1 AND (question ILIKE $2 OR answer ILIKE $2) ORDER BY "order" ASC, category ASC LIMIT $3`)).
		WithArgs("billing", `%100\%%`, int64(100)).
		WillReturnRows(rows)

	got, err := repo.ListPublished(context.Background(), models.FAQFilter{
		Category: models.FAQCategoryBilling,
		Search:   " 100% ",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsPublished)
}

func TestNewsRepository_GetPublishedBySlugNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNewsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE slug = $1 AND status = 'published'")).
		WithArgs("draft-article").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetPublishedBySlug(context.Background(), "draft-article")
	assert.True(t, IsNotFound(err))
}

func TestNewsRepository_ListPublishedOmitsContent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNewsRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "slug", "excerpt", "featured_image", "published_at", "created_at", "updated_at"}).
		AddRow("n-1", "New substation", "new-substation", "Short", nil, fixedTime, fixedTime, fixedTime)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'published'")).
		WithArgs(int64(10), int64(20)).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM news WHERE status = 'published'")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))

	articles, err := repo.ListPublished(context.Background(), 10, 20)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Empty(t, articles[0].Content)
	assert.Equal(t, fixedTime, *articles[0].PublishedAt)

	total, err := repo.CountPublished(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 21, total)
}

func TestEmergencyContactRepository_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEmergencyContactRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM emergency_contacts WHERE id = $1")).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "gone")
	assert.True(t, IsNotFound(err))
}

func TestEmergencyContactRepository_ListActive(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEmergencyContactRepository(db)

	rows := sqlmock.NewRows([]string{"id", "region", "name", "primary_number", "secondary_number", "description", "available", "order", "is_active", "created_at", "updated_at"}).
		AddRow("e-1", "Demerara", "Demerara Emergency", "0475", "226-2600", nil, "24/7", 1, true, fixedTime, fixedTime)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE is_active = TRUE")).WillReturnRows(rows)

	got, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "226-2600", *got[0].SecondaryNumber)
	assert.Nil(t, got[0].Description)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(errors.Wrap(&pq.Error{Code: "23505"}, "insert news")))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(sql.ErrNoRows))
}

func TestContactRepository_UpdateClearsNotes(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "subject", "message", "status", "assigned_to", "notes", "created_at", "updated_at"}).
		AddRow("c-3", "Jane", "jane@example.com", nil, "Billing", "Why is my bill high?", "pending", nil, nil, fixedTime, fixedTime)
	mock.ExpectQuery(regexp.QuoteMeta("NULLIF($3::text, '')")).
		WithArgs("c-3", nil, "", nil).
		WillReturnRows(rows)

	got, err := repo.Update(context.Background(), "c-3", models.SubmissionUpdate{Notes: strPtr("   ")})
	require.NoError(t, err)
	assert.Nil(t, got.Notes)
}

func TestFeedbackRepository_UpdateLeavesNotesWhenAbsent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFeedbackRepository(db)

	status := models.SubmissionStatusClosed
	mock.ExpectQuery(regexp.QuoteMeta("CASE WHEN $3::text IS NULL THEN notes")).
		WithArgs("f-1", "closed", nil).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "f-1", models.SubmissionUpdate{Status: &status})
	assert.True(t, IsNotFound(err))
}

func TestClampLimit(t *testing.T) {
	cases := map[int]int{-1: defaultListLimit, 0: defaultListLimit, 1: 1, 100: maxListLimit, 101: maxListLimit, 500: maxListLimit}
	for in, want := range cases {
		assert.Equal(t, want, clampLimit(in), "limit %d", in)
	}
}

func TestContactRepository_ListCapsLargeLimit(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT $1 OFFSET $2")).
		WithArgs(int64(100), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "subject", "message", "status", "assigned_to", "notes", "created_at", "updated_at"}))

	got, err := repo.List(context.Background(), models.SubmissionListOptions{Limit: 500})
	require.NoError(t, err)
	assert.Empty(t, got)
}
