package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/stanstork/gpl-website-api/internal/models"
)

type CreateFeedbackParams struct {
	Type    models.FeedbackType
	Message string
	Name    *string
	Email   *string
	Rating  *int
}

type FeedbackRepository interface {
	Create(ctx context.Context, params CreateFeedbackParams) (models.Feedback, error)
	Get(ctx context.Context, id string) (models.Feedback, error)
	List(ctx context.Context, opts models.SubmissionListOptions) ([]models.Feedback, error)
	// Update applies status and notes. Feedback is never assigned.
	Update(ctx context.Context, id string, update models.SubmissionUpdate) (models.Feedback, error)
	CountByStatus(ctx context.Context) (models.StatusCounts, error)
}

type feedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

const feedbackColumns = `id, type, message, name, email, rating, status, notes, created_at, updated_at`

func scanFeedback(s scanner) (models.Feedback, error) {
	var (
		f      models.Feedback
		fbType string
		name   sql.NullString
		email  sql.NullString
		rating sql.NullInt64
		status string
		notes  sql.NullString
	)
	if err := s.Scan(&f.ID, &fbType, &f.Message, &name, &email, &rating, &status, &notes, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return models.Feedback{}, err
	}
	f.Type = models.FeedbackType(fbType)
	f.Name = stringPtr(name)
	f.Email = stringPtr(email)
	if rating.Valid {
		v := int(rating.Int64)
		f.Rating = &v
	}
	f.Status = models.SubmissionStatus(status)
	f.Notes = stringPtr(notes)
	return f, nil
}

func (r *feedbackRepository) Create(ctx context.Context, params CreateFeedbackParams) (models.Feedback, error) {
	var rating interface{}
	if params.Rating != nil {
		rating = *params.Rating
	}

	query := `
		INSERT INTO feedback (type, message, name, email, rating, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING ` + feedbackColumns
	f, err := scanFeedback(r.db.QueryRowContext(ctx, query,
		string(params.Type), params.Message, nullableString(params.Name), nullableString(params.Email), rating))
	if err != nil {
		return models.Feedback{}, errors.Wrap(err, "insert feedback")
	}
	return f, nil
}

func (r *feedbackRepository) Get(ctx context.Context, id string) (models.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = $1`
	f, err := scanFeedback(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return models.Feedback{}, errors.Wrap(err, "get feedback")
	}
	return f, nil
}

func (r *feedbackRepository) List(ctx context.Context, opts models.SubmissionListOptions) ([]models.Feedback, error) {
	filter, args := submissionFilter(opts, "type")
	rows, err := r.db.QueryContext(ctx, `SELECT `+feedbackColumns+` FROM feedback `+filter, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list feedback")
	}
	defer rows.Close()

	out := []models.Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan feedback")
		}
		out = append(out, f)
	}
	return out, errors.Wrap(rows.Err(), "iterate feedback")
}

func (r *feedbackRepository) Update(ctx context.Context, id string, update models.SubmissionUpdate) (models.Feedback, error) {
	query := `
		UPDATE feedback
		SET status = COALESCE($2::submission_status, status),
		    notes = CASE WHEN $3::text IS NULL THEN notes ELSE NULLIF($3::text, '') END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + feedbackColumns
	f, err := scanFeedback(r.db.QueryRowContext(ctx, query, id, statusArg(update.Status), textArg(update.Notes)))
	if err != nil {
		return models.Feedback{}, errors.Wrap(err, "update feedback")
	}
	return f, nil
}

func (r *feedbackRepository) CountByStatus(ctx context.Context) (models.StatusCounts, error) {
	return countByStatus(ctx, r.db, "feedback")
}
