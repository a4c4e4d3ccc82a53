package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stanstork/gpl-website-api/internal/authz"
	"github.com/stanstork/gpl-website-api/internal/models"
	"github.com/stanstork/gpl-website-api/internal/repository"
)

// ContactsInvalidator drops any cached copy of the emergency contact list.
type ContactsInvalidator interface {
	Invalidate(ctx context.Context) error
}

// AdminContentHandler manages FAQs, news and emergency contacts.
type AdminContentHandler struct {
	faqs        repository.FAQRepository
	news        repository.NewsRepository
	contacts    repository.EmergencyContactRepository
	invalidator ContactsInvalidator
	logger      zerolog.Logger
}

func NewAdminContentHandler(
	faqs repository.FAQRepository,
	news repository.NewsRepository,
	contacts repository.EmergencyContactRepository,
	invalidator ContactsInvalidator,
	logger zerolog.Logger,
) *AdminContentHandler {
	return &AdminContentHandler{
		faqs:        faqs,
		news:        news,
		contacts:    contacts,
		invalidator: invalidator,
		logger:      logger.With().Str("handler", "admin_content").Logger(),
	}
}

type faqRequest struct {
	Question    string `json:"question" validate:"required,min=5,max=500"`
	Answer      string `json:"answer" validate:"required,min=10"`
	Category    string `json:"category" validate:"required,oneof=billing connections outages streetlights safety customer_service technical account emergency"`
	Order       int    `json:"order" validate:"min=0"`
	IsPublished *bool  `json:"isPublished"`
}

func (req *faqRequest) params() repository.FAQParams {
	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}
	return repository.FAQParams{
		Question:    strings.TrimSpace(req.Question),
		Answer:      strings.TrimSpace(req.Answer),
		Category:    models.FAQCategory(req.Category),
		Order:       req.Order,
		IsPublished: published,
	}
}

type newsRequest struct {
	Title         string     `json:"title" validate:"required,min=1,max=200"`
	Slug          string     `json:"slug" validate:"required,max=200,slug"`
	Excerpt       *string    `json:"excerpt" validate:"omitempty,max=500"`
	Content       string     `json:"content" validate:"required"`
	FeaturedImage *string    `json:"featuredImage" validate:"omitempty,max=500"`
	Status        string     `json:"status" validate:"omitempty,oneof=draft published archived"`
	PublishedAt   *time.Time `json:"publishedAt"`
}

func (req *newsRequest) params(authorID string) repository.NewsParams {
	p := repository.NewsParams{
		Title:         strings.TrimSpace(req.Title),
		Slug:          strings.TrimSpace(req.Slug),
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		Status:        models.ContentStatus(req.Status),
		PublishedAt:   req.PublishedAt,
	}
	if authorID != "" {
		p.AuthorID = &authorID
	}
	return p
}

type emergencyContactRequest struct {
	Region          string  `json:"region" validate:"required,min=1,max=100"`
	Name            string  `json:"name" validate:"required,min=1,max=200"`
	PrimaryNumber   string  `json:"primaryNumber" validate:"required,min=3,max=20"`
	SecondaryNumber *string `json:"secondaryNumber" validate:"omitempty,max=20"`
	Description     *string `json:"description" validate:"omitempty,max=500"`
	Available       string  `json:"available" validate:"omitempty,max=100"`
	Order           int     `json:"order" validate:"min=0"`
	IsActive        *bool   `json:"isActive"`
}

func (req *emergencyContactRequest) params() repository.EmergencyContactParams {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return repository.EmergencyContactParams{
		Region:          strings.TrimSpace(req.Region),
		Name:            strings.TrimSpace(req.Name),
		PrimaryNumber:   strings.TrimSpace(req.PrimaryNumber),
		SecondaryNumber: req.SecondaryNumber,
		Description:     req.Description,
		Available:       strings.TrimSpace(req.Available),
		Order:           req.Order,
		IsActive:        active,
	}
}

// writeStoreError maps repository failures to responses.
func (h *AdminContentHandler) writeStoreError(w http.ResponseWriter, err error, what, action string) {
	switch {
	case repository.IsNotFound(err):
		writeError(w, http.StatusNotFound, what+" not found")
	case repository.IsUniqueViolation(err):
		writeError(w, http.StatusConflict, what+" already exists")
	default:
		h.logger.Error().Err(err).Str("entity", what).Msgf("failed to %s", action)
		writeError(w, http.StatusInternalServerError, "Failed to "+action+" "+strings.ToLower(what))
	}
}

// FAQs

func (h *AdminContentHandler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.faqs.ListAll(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "FAQ", "list")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"faqs": faqs})
}

func (h *AdminContentHandler) CreateFAQ(w http.ResponseWriter, r *http.Request) {
	var req faqRequest
	if !decodeValid(w, r, &req) {
		return
	}
	faq, err := h.faqs.Create(r.Context(), req.params())
	if err != nil {
		h.writeStoreError(w, err, "FAQ", "create")
		return
	}
	writeJSON(w, http.StatusCreated, faq)
}

func (h *AdminContentHandler) UpdateFAQ(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "FAQ not found")
		return
	}
	var req faqRequest
	if !decodeValid(w, r, &req) {
		return
	}
	faq, err := h.faqs.Update(r.Context(), id, req.params())
	if err != nil {
		h.writeStoreError(w, err, "FAQ", "update")
		return
	}
	writeJSON(w, http.StatusOK, faq)
}

func (h *AdminContentHandler) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "FAQ not found")
		return
	}
	if err := h.faqs.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "FAQ", "delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// News

func (h *AdminContentHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	articles, err := h.news.ListAll(r.Context(), queryInt(r, "limit", 25), queryInt(r, "offset", 0))
	if err != nil {
		h.writeStoreError(w, err, "Article", "list")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"news": articles})
}

func (h *AdminContentHandler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var req newsRequest
	if !decodeValid(w, r, &req) {
		return
	}
	authorID, _ := authz.UserIDFromRequest(r)
	article, err := h.news.Create(r.Context(), req.params(authorID))
	if err != nil {
		h.writeStoreError(w, err, "Article", "create")
		return
	}
	writeJSON(w, http.StatusCreated, article)
}

func (h *AdminContentHandler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	var req newsRequest
	if !decodeValid(w, r, &req) {
		return
	}
	article, err := h.news.Update(r.Context(), id, req.params(""))
	if err != nil {
		h.writeStoreError(w, err, "Article", "update")
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (h *AdminContentHandler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	if err := h.news.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "Article", "delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Emergency contacts

func (h *AdminContentHandler) ListEmergencyContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.ListAll(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "Emergency contact", "list")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"contacts": contacts})
}

func (h *AdminContentHandler) CreateEmergencyContact(w http.ResponseWriter, r *http.Request) {
	var req emergencyContactRequest
	if !decodeValid(w, r, &req) {
		return
	}
	contact, err := h.contacts.Create(r.Context(), req.params())
	if err != nil {
		h.writeStoreError(w, err, "Emergency contact", "create")
		return
	}
	h.invalidateContacts(r.Context())
	writeJSON(w, http.StatusCreated, contact)
}

func (h *AdminContentHandler) UpdateEmergencyContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Emergency contact not found")
		return
	}
	var req emergencyContactRequest
	if !decodeValid(w, r, &req) {
		return
	}
	contact, err := h.contacts.Update(r.Context(), id, req.params())
	if err != nil {
		h.writeStoreError(w, err, "Emergency contact", "update")
		return
	}
	h.invalidateContacts(r.Context())
	writeJSON(w, http.StatusOK, contact)
}

func (h *AdminContentHandler) DeleteEmergencyContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Emergency contact not found")
		return
	}
	if err := h.contacts.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "Emergency contact", "delete")
		return
	}
	h.invalidateContacts(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminContentHandler) invalidateContacts(ctx context.Context) {
	if h.invalidator == nil {
		return
	}
	if err := h.invalidator.Invalidate(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("failed to invalidate emergency contacts cache")
	}
}
