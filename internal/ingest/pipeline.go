package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"newsdeck/internal/auth"
	"newsdeck/internal/domain"
	"newsdeck/internal/feed"
	"newsdeck/internal/metrics"
)

// Store is the slice of article storage the pipeline needs. All lookups
// and writes are scoped by the owning user.
type Store interface {
	GetSource(ctx context.Context, userID, sourceID string) (*domain.Source, error)
	HasFingerprint(ctx context.Context, userID, fingerprint string) (bool, error)
	CreateArticle(ctx context.Context, article domain.Article) (bool, error)
}

// Fetcher retrieves raw feed content.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Status int

const (
	StatusOK Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports which path an ingestion call took. Skips and failures are
// explicit here rather than silently swallowed, but callers still treat
// them as non-fatal: ingestion never aborts the surrounding operation.
type Result struct {
	SourceID   string `json:"source_id"`
	Status     Status `json:"-"`
	Reason     string `json:"reason,omitempty"`
	Fetched    int    `json:"fetched"`
	Created    int    `json:"created"`
	Duplicates int    `json:"duplicates"`
	Failed     int    `json:"failed"`
	Err        error  `json:"-"`
}

func skipped(sourceID, reason string) Result {
	return Result{SourceID: sourceID, Status: StatusSkipped, Reason: reason}
}

// Pipeline turns a source's feed content into persisted, deduplicated
// articles: resolve source, fetch, parse, fingerprint, persist new rows.
type Pipeline struct {
	store   Store
	fetcher Fetcher
	log     *slog.Logger
}

func New(store Store, fetcher Fetcher, log *slog.Logger) *Pipeline {
	return &Pipeline{
		store:   store,
		fetcher: fetcher,
		log:     log,
	}
}

// Ingest runs one ingestion pass for the given source. Candidates are
// processed strictly in parse order and sequentially, so two candidates
// colliding on fingerprint within one batch cannot both be inserted. A
// failure on one candidate is counted and the batch continues.
func (p *Pipeline) Ingest(ctx context.Context, sess auth.Session, sourceID string) Result {
	if sess.Anonymous() {
		return skipped(sourceID, "unauthenticated")
	}

	src, err := p.store.GetSource(ctx, sess.UserID, sourceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return skipped(sourceID, "source not found")
		}

		metrics.IngestFailures.WithLabelValues("resolve").Inc()

		return Result{
			SourceID: sourceID,
			Status:   StatusFailed,
			Err:      fmt.Errorf("get source: %w", err),
		}
	}

	if src.FeedURL == "" {
		return skipped(sourceID, "no feed URL")
	}

	raw, err := p.fetcher.Fetch(ctx, src.FeedURL)
	if err != nil {
		metrics.IngestFailures.WithLabelValues("fetch").Inc()

		return Result{
			SourceID: sourceID,
			Status:   StatusFailed,
			Err:      fmt.Errorf("fetch feed: %w", err),
		}
	}

	candidates := feed.Parse(raw, feed.MaxArticles)
	res := Result{SourceID: sourceID, Status: StatusOK, Fetched: len(candidates)}

	for _, c := range candidates {
		fp := Fingerprint(c.Title, c.Description)

		exists, err := p.store.HasFingerprint(ctx, sess.UserID, fp)
		if err != nil {
			res.Failed++
			metrics.IngestFailures.WithLabelValues("dedup").Inc()
			p.log.WarnContext(ctx, "Failed to check fingerprint",
				"error", err,
				"sourceID", sourceID,
				"fingerprint", fp)

			continue
		}
		if exists {
			res.Duplicates++
			metrics.DuplicatesSkipped.Inc()

			continue
		}

		article := domain.Article{
			ID:          uuid.NewString(),
			UserID:      sess.UserID,
			SourceID:    src.ID,
			Title:       c.Title,
			Description: c.Description,
			URL:         c.URL,
			Category:    src.Category,
			Fingerprint: fp,
			PublishedAt: c.PublishedAt,
			CreatedAt:   time.Now().UTC(),
		}

		created, err := p.store.CreateArticle(ctx, article)
		if err != nil {
			res.Failed++
			metrics.IngestFailures.WithLabelValues("persist").Inc()
			p.log.WarnContext(ctx, "Failed to persist article",
				"error", err,
				"sourceID", sourceID,
				"articleURL", c.URL)

			continue
		}
		if !created {
			// The unique index caught a concurrent writer.
			res.Duplicates++
			metrics.DuplicatesSkipped.Inc()

			continue
		}

		res.Created++
		metrics.ArticlesIngested.Inc()
	}

	p.log.InfoContext(ctx, "Ingestion finished",
		"sourceID", sourceID,
		"status", res.Status.String(),
		"fetched", res.Fetched,
		"created", res.Created,
		"duplicates", res.Duplicates,
		"failed", res.Failed)

	return res
}
