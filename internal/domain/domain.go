package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a record does not exist for the
// requesting user.
var ErrNotFound = errors.New("not found")

// Source is a user-registered website being monitored for new articles.
// FeedURL is resolved once at creation time and never re-discovered.
type Source struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	SiteURL   string    `json:"site_url"`
	FeedURL   string    `json:"feed_url"`
	Category  string    `json:"category"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Article is a persisted, deduplicated feed entry. Fingerprint is derived
// from title+description at ingestion time and is immutable; per user no
// two articles share a fingerprint.
type Article struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	SourceID    string    `json:"source_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    string    `json:"category"`
	Bookmarked  bool      `json:"bookmarked"`
	Read        bool      `json:"read"`
	Fingerprint string    `json:"-"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Candidate is a parsed-but-not-yet-deduplicated article extracted from
// raw feed content.
type Candidate struct {
	Title       string
	Description string
	URL         string
	PublishedAt time.Time
}

// ShareEvent records a single share of an article to a social platform.
type ShareEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	ArticleID string    `json:"article_id"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

type PlatformShareCount struct {
	Platform string `json:"platform"`
	Count    int64  `json:"count"`
}

type ArticleShareCount struct {
	ArticleID string `json:"article_id"`
	Title     string `json:"title"`
	Count     int64  `json:"count"`
}

type ShareStats struct {
	Total       int64                `json:"total"`
	ByPlatform  []PlatformShareCount `json:"by_platform"`
	TopArticles []ArticleShareCount  `json:"top_articles"`
}
