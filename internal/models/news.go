package models

import (
	"regexp"
	"time"
)

type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// IsValidSlug reports whether s only uses lowercase letters, digits and hyphens.
func IsValidSlug(s string) bool {
	return s != "" && slugPattern.MatchString(s)
}

type NewsArticle struct {
	ID            string        `json:"id" db:"id"`
	Title         string        `json:"title" db:"title"`
	Slug          string        `json:"slug" db:"slug"`
	Excerpt       *string       `json:"excerpt" db:"excerpt"`
	Content       string        `json:"content,omitempty" db:"content"`
	FeaturedImage *string       `json:"featuredImage" db:"featured_image"`
	Status        ContentStatus `json:"status,omitempty" db:"status"`
	PublishedAt   *time.Time    `json:"publishedAt" db:"published_at"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
}

// IsPublished reports whether the article may be shown to anonymous readers.
func (a NewsArticle) IsPublished() bool {
	return a.Status == ContentStatusPublished
}
