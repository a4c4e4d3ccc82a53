package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stanstork/gpl-website-api/internal/content"
	"github.com/stanstork/gpl-website-api/internal/models"
)

type ContentService interface {
	ListFAQs(ctx context.Context, category, search string) (content.FAQList, error)
	ListNews(ctx context.Context, limit, offset int) (content.NewsPage, error)
	NewsBySlug(ctx context.Context, slug string) (models.NewsArticle, bool, error)
	EmergencyContacts(ctx context.Context) ([]content.PublicContact, string)
}

// ContentHandler serves published content to anonymous visitors.
type ContentHandler struct {
	content ContentService
	logger  zerolog.Logger
}

func NewContentHandler(svc ContentService, logger zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		content: svc,
		logger:  logger.With().Str("handler", "content").Logger(),
	}
}

func (h *ContentHandler) FAQs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.content.ListFAQs(r.Context(), q.Get("category"), q.Get("search"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list faqs")
		writeError(w, http.StatusInternalServerError, "Failed to load FAQs")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ContentHandler) News(w http.ResponseWriter, r *http.Request) {
	page, err := h.content.ListNews(r.Context(), queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list news")
		writeError(w, http.StatusInternalServerError, "Failed to load news")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type newsDetailResponse struct {
	Found   bool                `json:"found"`
	Article *models.NewsArticle `json:"article"`
}

func (h *ContentHandler) NewsBySlug(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(mux.Vars(r)["slug"])
	article, found, err := h.content.NewsBySlug(r.Context(), slug)
	if err != nil {
		h.logger.Error().Err(err).Str("slug", slug).Msg("failed to load news article")
		writeError(w, http.StatusInternalServerError, "Failed to load article")
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, newsDetailResponse{Found: false})
		return
	}
	writeJSON(w, http.StatusOK, newsDetailResponse{Found: true, Article: &article})
}

// EmergencyContacts never fails; the source header tells operators when a
// fallback answered.
func (h *ContentHandler) EmergencyContacts(w http.ResponseWriter, r *http.Request) {
	contacts, source := h.content.EmergencyContacts(r.Context())
	w.Header().Set("X-Contacts-Source", source)
	writeJSON(w, http.StatusOK, map[string]interface{}{"contacts": contacts})
}
