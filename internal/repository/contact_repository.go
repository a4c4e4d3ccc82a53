package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/stanstork/gpl-website-api/internal/models"
)

// CreateContactParams has no status field: new submissions always start pending.
type CreateContactParams struct {
	Name    string
	Email   string
	Phone   *string
	Subject string
	Message string
}

type ContactRepository interface {
	Create(ctx context.Context, params CreateContactParams) (models.ContactSubmission, error)
	Get(ctx context.Context, id string) (models.ContactSubmission, error)
	List(ctx context.Context, opts models.SubmissionListOptions) ([]models.ContactSubmission, error)
	Update(ctx context.Context, id string, update models.SubmissionUpdate) (models.ContactSubmission, error)
	CountByStatus(ctx context.Context) (models.StatusCounts, error)
}

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `id, name, email, phone, subject, message, status, assigned_to, notes, created_at, updated_at`

func scanContact(s scanner) (models.ContactSubmission, error) {
	var (
		c          models.ContactSubmission
		phone      sql.NullString
		status     string
		assignedTo sql.NullString
		notes      sql.NullString
	)
	err := s.Scan(&c.ID, &c.Name, &c.Email, &phone, &c.Subject, &c.Message, &status, &assignedTo, &notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.ContactSubmission{}, err
	}
	c.Phone = stringPtr(phone)
	c.Status = models.SubmissionStatus(status)
	c.AssignedTo = stringPtr(assignedTo)
	c.Notes = stringPtr(notes)
	return c, nil
}

func (r *contactRepository) Create(ctx context.Context, params CreateContactParams) (models.ContactSubmission, error) {
	query := `
		INSERT INTO contact_submissions (name, email, phone, subject, message, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING ` + contactColumns
	c, err := scanContact(r.db.QueryRowContext(ctx, query,
		params.Name, params.Email, nullableString(params.Phone), params.Subject, params.Message))
	if err != nil {
		return models.ContactSubmission{}, errors.Wrap(err, "insert contact submission")
	}
	return c, nil
}

func (r *contactRepository) Get(ctx context.Context, id string) (models.ContactSubmission, error) {
	query := `SELECT ` + contactColumns + ` FROM contact_submissions WHERE id = $1`
	c, err := scanContact(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return models.ContactSubmission{}, errors.Wrap(err, "get contact submission")
	}
	return c, nil
}

func (r *contactRepository) List(ctx context.Context, opts models.SubmissionListOptions) ([]models.ContactSubmission, error) {
	filter, args := submissionFilter(opts, "")
	rows, err := r.db.QueryContext(ctx, `SELECT `+contactColumns+` FROM contact_submissions `+filter, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list contact submissions")
	}
	defer rows.Close()

	out := []models.ContactSubmission{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan contact submission")
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "iterate contact submissions")
}

func (r *contactRepository) Update(ctx context.Context, id string, update models.SubmissionUpdate) (models.ContactSubmission, error) {
	query := `
		UPDATE contact_submissions
		SET status = COALESCE($2::submission_status, status),
		    notes = CASE WHEN $3::text IS NULL THEN notes ELSE NULLIF($3::text, '') END,
		    assigned_to = COALESCE($4::uuid, assigned_to),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + contactColumns
	c, err := scanContact(r.db.QueryRowContext(ctx, query,
		id, statusArg(update.Status), textArg(update.Notes), nullableString(update.AssignedTo)))
	if err != nil {
		return models.ContactSubmission{}, errors.Wrap(err, "update contact submission")
	}
	return c, nil
}

func (r *contactRepository) CountByStatus(ctx context.Context) (models.StatusCounts, error) {
	return countByStatus(ctx, r.db, "contact_submissions")
}

func statusArg(s *models.SubmissionStatus) interface{} {
	if s == nil {
		return nil
	}
	return string(*s)
}
