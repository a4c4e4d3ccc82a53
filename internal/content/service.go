package content

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stanstork/gpl-website-api/internal/models"
	"github.com/stanstork/gpl-website-api/internal/monitoring"
	"github.com/stanstork/gpl-website-api/internal/repository"
)

// ContactsSnapshot stores the last emergency contact list read from the database.
type ContactsSnapshot interface {
	Load(ctx context.Context) ([]models.EmergencyContact, error)
	Store(ctx context.Context, contacts []models.EmergencyContact) error
}

type Config struct {
	FAQPageSize      int
	NewsDefaultLimit int
	NewsMaxLimit     int
}

type Dependencies struct {
	FAQs              repository.FAQRepository
	News              repository.NewsRepository
	EmergencyContacts repository.EmergencyContactRepository
	// Snapshot is optional.
	Snapshot ContactsSnapshot
	Metrics  *monitoring.Metrics
}

type FAQList struct {
	FAQs  []models.FAQ `json:"faqs"`
	Total int          `json:"total"`
}

type NewsPage struct {
	News  []models.NewsArticle `json:"news"`
	Total int                  `json:"total"`
}

// PublicContact is the emergency contact shape served to visitors.
type PublicContact struct {
	ID              string  `json:"id"`
	Region          string  `json:"region"`
	Name            string  `json:"name"`
	PrimaryNumber   string  `json:"primaryNumber"`
	SecondaryNumber *string `json:"secondaryNumber"`
	Description     *string `json:"description"`
	Available       string  `json:"available"`
}

// Service serves published content to anonymous visitors.
type Service struct {
	deps   Dependencies
	cfg    Config
	logger zerolog.Logger
}

func NewService(deps Dependencies, cfg Config, logger zerolog.Logger) *Service {
	if cfg.FAQPageSize <= 0 {
		cfg.FAQPageSize = 100
	}
	if cfg.NewsDefaultLimit <= 0 {
		cfg.NewsDefaultLimit = 10
	}
	if cfg.NewsMaxLimit < cfg.NewsDefaultLimit {
		cfg.NewsMaxLimit = cfg.NewsDefaultLimit
	}
	return &Service{
		deps:   deps,
		cfg:    cfg,
		logger: logger.With().Str("component", "content_service").Logger(),
	}
}

// ListFAQs returns published FAQs, optionally narrowed by category and a
// case-insensitive search over question and answer.
func (s *Service) ListFAQs(ctx context.Context, category, search string) (FAQList, error) {
	filter := models.FAQFilter{
		Category: models.FAQCategory(strings.TrimSpace(category)),
		Search:   strings.TrimSpace(search),
		Limit:    s.cfg.FAQPageSize,
	}
	if filter.Category != "" && !filter.Category.IsValid() {
		return FAQList{FAQs: []models.FAQ{}}, nil
	}

	faqs, err := s.deps.FAQs.ListPublished(ctx, filter)
	if err != nil {
		return FAQList{}, err
	}

	published := make([]models.FAQ, 0, len(faqs))
	for _, f := range faqs {
		if f.IsPublished {
			published = append(published, f)
		}
	}
	return FAQList{FAQs: published, Total: len(published)}, nil
}

// ListNews returns one page of published article summaries. Total counts
// every published article, not just the page.
func (s *Service) ListNews(ctx context.Context, limit, offset int) (NewsPage, error) {
	if limit <= 0 {
		limit = s.cfg.NewsDefaultLimit
	}
	if limit > s.cfg.NewsMaxLimit {
		limit = s.cfg.NewsMaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	articles, err := s.deps.News.ListPublished(ctx, limit, offset)
	if err != nil {
		return NewsPage{}, err
	}
	total, err := s.deps.News.CountPublished(ctx)
	if err != nil {
		return NewsPage{}, err
	}
	return NewsPage{News: articles, Total: total}, nil
}

// NewsBySlug reports found=false for malformed slugs, missing rows and rows
// that are not published alike.
func (s *Service) NewsBySlug(ctx context.Context, slug string) (models.NewsArticle, bool, error) {
	if !models.IsValidSlug(slug) {
		return models.NewsArticle{}, false, nil
	}

	article, err := s.deps.News.GetPublishedBySlug(ctx, slug)
	if err != nil {
		if repository.IsNotFound(err) {
			return models.NewsArticle{}, false, nil
		}
		return models.NewsArticle{}, false, err
	}
	if !article.IsPublished() {
		return models.NewsArticle{}, false, nil
	}
	return article, true, nil
}

// EmergencyContacts always answers. It tries the database, then the
// last-known-good snapshot, then the built-in regional list, and reports
// which one served the request.
func (s *Service) EmergencyContacts(ctx context.Context) ([]PublicContact, string) {
	sources := []contactSource{{name: SourceDatabase, fetch: s.activeContactsFromStore}}
	if s.deps.Snapshot != nil {
		sources = append(sources, contactSource{name: SourceLastKnownGood, fetch: s.deps.Snapshot.Load})
	}

	contacts, source := firstAvailable(ctx, sources, func(name string, err error) {
		s.logger.Warn().Err(err).Str("source", name).Msg("emergency contact source unavailable")
	})
	if source != SourceDatabase {
		s.deps.Metrics.ObserveContactsFallback(source)
	}
	return toPublic(contacts), source
}

func (s *Service) activeContactsFromStore(ctx context.Context) (contacts []models.EmergencyContact, err error) {
	defer func() {
		// A panic counts as a failed read.
		if r := recover(); r != nil {
			contacts, err = nil, errPanic
			s.logger.Error().Interface("panic", r).Msg("emergency contact read panicked")
		}
	}()

	contacts, err = s.deps.EmergencyContacts.ListActive(ctx)
	if err != nil || len(contacts) == 0 || s.deps.Snapshot == nil {
		return contacts, err
	}
	if storeErr := s.deps.Snapshot.Store(ctx, contacts); storeErr != nil {
		s.logger.Warn().Err(storeErr).Msg("failed to refresh emergency contacts snapshot")
	}
	return contacts, nil
}

func toPublic(contacts []models.EmergencyContact) []PublicContact {
	out := make([]PublicContact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, PublicContact{
			ID:              c.ID,
			Region:          c.Region,
			Name:            c.Name,
			PrimaryNumber:   c.PrimaryNumber,
			SecondaryNumber: c.SecondaryNumber,
			Description:     c.Description,
			Available:       c.Available,
		})
	}
	return out
}
