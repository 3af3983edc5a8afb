package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"mvdan.cc/xurls/v2"

	"newsdeck/internal/auth"
	"newsdeck/internal/domain"
	"newsdeck/internal/feed"
	"newsdeck/internal/ingest"
)

const (
	defaultCategory  = "general"
	defaultListLimit = 50
	maxListLimit     = 100
	searchFetchLimit = 100
)

var ErrUnauthenticated = errors.New("unauthenticated")

// Store covers the persistence the service needs beyond the pipeline's own
// store slice.
type Store interface {
	CreateSource(ctx context.Context, src domain.Source) error
	ListSources(ctx context.Context, userID string) ([]domain.Source, error)
	ListActiveSources(ctx context.Context, userID string) ([]domain.Source, error)
	DeactivateSource(ctx context.Context, userID, sourceID string) error
	ListArticles(ctx context.Context, userID, category string, limit int) ([]domain.Article, error)
	ToggleBookmark(ctx context.Context, userID, articleID string) error
	MarkRead(ctx context.Context, userID, articleID string) error
}

type Discoverer interface {
	Discover(ctx context.Context, siteURL string) (string, error)
}

type Ingester interface {
	Ingest(ctx context.Context, sess auth.Session, sourceID string) ingest.Result
}

// Service exposes the user-facing aggregation operations.
type Service struct {
	store      Store
	discoverer Discoverer
	pipeline   Ingester
	log        *slog.Logger
}

func New(store Store, discoverer Discoverer, pipeline Ingester, log *slog.Logger) *Service {
	return &Service{
		store:      store,
		discoverer: discoverer,
		pipeline:   pipeline,
		log:        log,
	}
}

// AddSource registers a new source. Feed discovery must succeed or the
// call fails with feed.ErrFeedNotFound and nothing is persisted. On
// success an initial ingestion runs; its failures are logged, never
// surfaced.
func (s *Service) AddSource(
	ctx context.Context,
	sess auth.Session,
	name, rawURL, category string,
) (*domain.Source, error) {
	if sess.Anonymous() {
		return nil, ErrUnauthenticated
	}

	siteURL := extractSiteURL(rawURL)
	if siteURL == "" {
		return nil, feed.ErrFeedNotFound
	}

	feedURL, err := s.discoverer.Discover(ctx, siteURL)
	if err != nil {
		if !errors.Is(err, feed.ErrFeedNotFound) {
			s.log.WarnContext(ctx, "Feed discovery failed",
				"error", err,
				"siteURL", siteURL)
		}

		return nil, feed.ErrFeedNotFound
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = defaultCategory
	}

	now := time.Now().UTC()
	src := domain.Source{
		ID:        uuid.NewString(),
		UserID:    sess.UserID,
		Name:      strings.TrimSpace(name),
		SiteURL:   siteURL,
		FeedURL:   feedURL,
		Category:  category,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateSource(ctx, src); err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}

	res := s.pipeline.Ingest(ctx, sess, src.ID)
	if res.Err != nil {
		s.log.WarnContext(ctx, "Initial ingestion failed",
			"error", res.Err,
			"sourceID", src.ID)
	}

	return &src, nil
}

func (s *Service) ListSources(ctx context.Context, sess auth.Session) ([]domain.Source, error) {
	if sess.Anonymous() {
		return nil, ErrUnauthenticated
	}

	return s.store.ListSources(ctx, sess.UserID)
}

func (s *Service) DeactivateSource(ctx context.Context, sess auth.Session, sourceID string) error {
	if sess.Anonymous() {
		return ErrUnauthenticated
	}

	return s.store.DeactivateSource(ctx, sess.UserID, sourceID)
}

func (s *Service) ListArticles(
	ctx context.Context,
	sess auth.Session,
	category string,
	limit int,
) ([]domain.Article, error) {
	if sess.Anonymous() {
		return nil, ErrUnauthenticated
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	return s.store.ListArticles(ctx, sess.UserID, strings.TrimSpace(category), limit)
}

// RefreshSource runs one ingestion for the source. The result reports
// skips and failures explicitly; it never returns an error to the caller.
func (s *Service) RefreshSource(ctx context.Context, sess auth.Session, sourceID string) ingest.Result {
	return s.pipeline.Ingest(ctx, sess, sourceID)
}

// RefreshAll ingests every active source of the user, strictly
// sequentially: one source's ingestion fully completes before the next
// begins.
func (s *Service) RefreshAll(ctx context.Context, sess auth.Session) ([]ingest.Result, error) {
	if sess.Anonymous() {
		return nil, ErrUnauthenticated
	}

	sources, err := s.store.ListActiveSources(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("list active sources: %w", err)
	}

	results := make([]ingest.Result, 0, len(sources))
	for _, src := range sources {
		results = append(results, s.pipeline.Ingest(ctx, sess, src.ID))
	}

	return results, nil
}

func (s *Service) ToggleBookmark(ctx context.Context, sess auth.Session, articleID string) error {
	if sess.Anonymous() {
		return ErrUnauthenticated
	}

	return s.store.ToggleBookmark(ctx, sess.UserID, articleID)
}

func (s *Service) MarkRead(ctx context.Context, sess auth.Session, articleID string) error {
	if sess.Anonymous() {
		return ErrUnauthenticated
	}

	return s.store.MarkRead(ctx, sess.UserID, articleID)
}

// SearchArticles fetches the user's most recent articles and filters them
// by case-insensitive substring match on title or description. Not a
// full-text search; the fetch window is capped at 100 rows.
func (s *Service) SearchArticles(
	ctx context.Context,
	sess auth.Session,
	query string,
) ([]domain.Article, error) {
	if sess.Anonymous() {
		return nil, ErrUnauthenticated
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []domain.Article{}, nil
	}

	articles, err := s.store.ListArticles(ctx, sess.UserID, "", searchFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	matched := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), q) ||
			strings.Contains(strings.ToLower(a.Description), q) {
			matched = append(matched, a)
		}
	}

	return matched, nil
}

// extractSiteURL pulls the site URL out of pasted text. A bare https URL
// anywhere in the text wins; otherwise the trimmed text itself is used
// when it looks like an http(s) URL.
func extractSiteURL(text string) string {
	text = strings.TrimSpace(text)

	httpsURLRe, err := xurls.StrictMatchingScheme("https://")
	if err == nil {
		if match := httpsURLRe.FindString(text); match != "" {
			return strings.TrimSpace(match)
		}
	}

	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		return text
	}

	return ""
}
