package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/stanstork/gpl-website-api/internal/models"
)

type NewsParams struct {
	Title         string
	Slug          string
	Excerpt       *string
	Content       string
	FeaturedImage *string
	Status        models.ContentStatus
	PublishedAt   *time.Time
	AuthorID      *string
}

type NewsRepository interface {
	// ListPublished returns summaries without content, newest first.
	ListPublished(ctx context.Context, limit, offset int) ([]models.NewsArticle, error)
	CountPublished(ctx context.Context) (int, error)
	// GetPublishedBySlug returns sql.ErrNoRows for drafts and archived articles.
	GetPublishedBySlug(ctx context.Context, slug string) (models.NewsArticle, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.NewsArticle, error)
	Create(ctx context.Context, params NewsParams) (models.NewsArticle, error)
	Update(ctx context.Context, id string, params NewsParams) (models.NewsArticle, error)
	Delete(ctx context.Context, id string) error
}

type newsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) NewsRepository {
	return &newsRepository{db: db}
}

const (
	newsSummaryColumns = `id, title, slug, excerpt, featured_image, published_at, created_at, updated_at`
	newsColumns        = `id, title, slug, excerpt, content, featured_image, status, published_at, created_at, updated_at`
)

func scanNewsSummary(s scanner) (models.NewsArticle, error) {
	var (
		a             models.NewsArticle
		excerpt       sql.NullString
		featuredImage sql.NullString
		publishedAt   sql.NullTime
	)
	if err := s.Scan(&a.ID, &a.Title, &a.Slug, &excerpt, &featuredImage, &publishedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return models.NewsArticle{}, err
	}
	a.Excerpt = stringPtr(excerpt)
	a.FeaturedImage = stringPtr(featuredImage)
	a.PublishedAt = timePtr(publishedAt)
	return a, nil
}

func scanNews(s scanner) (models.NewsArticle, error) {
	var (
		a             models.NewsArticle
		excerpt       sql.NullString
		featuredImage sql.NullString
		status        string
		publishedAt   sql.NullTime
	)
	err := s.Scan(&a.ID, &a.Title, &a.Slug, &excerpt, &a.Content, &featuredImage, &status, &publishedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return models.NewsArticle{}, err
	}
	a.Excerpt = stringPtr(excerpt)
	a.FeaturedImage = stringPtr(featuredImage)
	a.Status = models.ContentStatus(status)
	a.PublishedAt = timePtr(publishedAt)
	return a, nil
}

func (r *newsRepository) ListPublished(ctx context.Context, limit, offset int) ([]models.NewsArticle, error) {
	query := `
		SELECT ` + newsSummaryColumns + `
		FROM news
		WHERE status = 'published'
		ORDER BY published_at DESC NULLS LAST, created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "list published news")
	}
	defer rows.Close()

	out := []models.NewsArticle{}
	for rows.Next() {
		a, err := scanNewsSummary(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan news summary")
		}
		out = append(out, a)
	}
	return out, errors.Wrap(rows.Err(), "iterate published news")
}

func (r *newsRepository) CountPublished(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news WHERE status = 'published'`).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "count published news")
	}
	return total, nil
}

func (r *newsRepository) GetPublishedBySlug(ctx context.Context, slug string) (models.NewsArticle, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE slug = $1 AND status = 'published'`
	a, err := scanNews(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		return models.NewsArticle{}, errors.Wrap(err, "get news by slug")
	}
	return a, nil
}

func (r *newsRepository) ListAll(ctx context.Context, limit, offset int) ([]models.NewsArticle, error) {
	query := `SELECT ` + newsColumns + ` FROM news ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, clampLimit(limit), maxInt(offset, 0))
	if err != nil {
		return nil, errors.Wrap(err, "list news")
	}
	defer rows.Close()

	out := []models.NewsArticle{}
	for rows.Next() {
		a, err := scanNews(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan news")
		}
		out = append(out, a)
	}
	return out, errors.Wrap(rows.Err(), "iterate news")
}

// Create stamps published_at when an article is created already published.
func (r *newsRepository) Create(ctx context.Context, params NewsParams) (models.NewsArticle, error) {
	query := `
		INSERT INTO news (title, slug, excerpt, content, featured_image, status, published_at, author_id)
		VALUES ($1, $2, $3, $4, $5, $6::content_status,
		        COALESCE($7, CASE WHEN $6::content_status = 'published' THEN NOW() END), $8::uuid)
		RETURNING ` + newsColumns
	a, err := scanNews(r.db.QueryRowContext(ctx, query,
		params.Title,
		params.Slug,
		nullableString(params.Excerpt),
		params.Content,
		nullableString(params.FeaturedImage),
		string(contentStatusOrDraft(params.Status)),
		nullableTime(params.PublishedAt),
		nullableString(params.AuthorID),
	))
	if err != nil {
		return models.NewsArticle{}, errors.Wrap(err, "insert news")
	}
	return a, nil
}

// Update keeps an existing published_at so republishing does not reorder the feed.
func (r *newsRepository) Update(ctx context.Context, id string, params NewsParams) (models.NewsArticle, error) {
	query := `
		UPDATE news
		SET title = $2, slug = $3, excerpt = $4, content = $5, featured_image = $6,
		    status = $7::content_status,
		    published_at = COALESCE($8, published_at, CASE WHEN $7::content_status = 'published' THEN NOW() END),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + newsColumns
	a, err := scanNews(r.db.QueryRowContext(ctx, query,
		id,
		params.Title,
		params.Slug,
		nullableString(params.Excerpt),
		params.Content,
		nullableString(params.FeaturedImage),
		string(contentStatusOrDraft(params.Status)),
		nullableTime(params.PublishedAt),
	))
	if err != nil {
		return models.NewsArticle{}, errors.Wrap(err, "update news")
	}
	return a, nil
}

func (r *newsRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "news", id)
}

func contentStatusOrDraft(s models.ContentStatus) models.ContentStatus {
	if s == "" {
		return models.ContentStatusDraft
	}
	return s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time
	return &v
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
