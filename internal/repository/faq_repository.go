package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/stanstork/gpl-website-api/internal/models"
)

type FAQParams struct {
	Question    string
	Answer      string
	Category    models.FAQCategory
	Order       int
	IsPublished bool
}

type FAQRepository interface {
	// ListPublished never returns unpublished rows regardless of filter.
	ListPublished(ctx context.Context, filter models.FAQFilter) ([]models.FAQ, error)
	ListAll(ctx context.Context) ([]models.FAQ, error)
	Create(ctx context.Context, params FAQParams) (models.FAQ, error)
	Update(ctx context.Context, id string, params FAQParams) (models.FAQ, error)
	Delete(ctx context.Context, id string) error
}

type faqRepository struct {
	db *sql.DB
}

func NewFAQRepository(db *sql.DB) FAQRepository {
	return &faqRepository{db: db}
}

const faqColumns = `id, question, answer, category, "order", is_published, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanFAQ(s scanner) (models.FAQ, error) {
	var (
		f        models.FAQ
		category string
	)
	if err := s.Scan(&f.ID, &f.Question, &f.Answer, &category, &f.Order, &f.IsPublished, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return models.FAQ{}, err
	}
	f.Category = models.FAQCategory(category)
	return f, nil
}

func (r *faqRepository) ListPublished(ctx context.Context, filter models.FAQFilter) ([]models.FAQ, error) {
	var (
		conditions = []string{"is_published = TRUE"}
		args       []interface{}
	)
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		conditions = append(conditions, fmt.Sprintf("(question ILIKE $%d OR answer ILIKE $%d)", len(args), len(args)))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = maxListLimit
	}
	args = append(args, limit)

	query := `SELECT ` + faqColumns + ` FROM faqs WHERE ` + strings.Join(conditions, " AND ") +
		fmt.Sprintf(` ORDER BY "order" ASC, category ASC LIMIT $%d`, len(args))
	return r.query(ctx, query, args...)
}

func (r *faqRepository) ListAll(ctx context.Context) ([]models.FAQ, error) {
	return r.query(ctx, `SELECT `+faqColumns+` FROM faqs ORDER BY "order" ASC, category ASC`)
}

func (r *faqRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.FAQ, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list faqs")
	}
	defer rows.Close()

	out := []models.FAQ{}
	for rows.Next() {
		f, err := scanFAQ(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan faq")
		}
		out = append(out, f)
	}
	return out, errors.Wrap(rows.Err(), "iterate faqs")
}

func (r *faqRepository) Create(ctx context.Context, params FAQParams) (models.FAQ, error) {
	query := `
		INSERT INTO faqs (question, answer, category, "order", is_published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + faqColumns
	f, err := scanFAQ(r.db.QueryRowContext(ctx, query,
		params.Question, params.Answer, string(params.Category), params.Order, params.IsPublished))
	if err != nil {
		return models.FAQ{}, errors.Wrap(err, "insert faq")
	}
	return f, nil
}

func (r *faqRepository) Update(ctx context.Context, id string, params FAQParams) (models.FAQ, error) {
	query := `
		UPDATE faqs
		SET question = $2, answer = $3, category = $4, "order" = $5, is_published = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + faqColumns
	f, err := scanFAQ(r.db.QueryRowContext(ctx, query,
		id, params.Question, params.Answer, string(params.Category), params.Order, params.IsPublished))
	if err != nil {
		return models.FAQ{}, errors.Wrap(err, "update faq")
	}
	return f, nil
}

func (r *faqRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "faqs", id)
}
