package share

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"newsdeck/internal/auth"
	"newsdeck/internal/domain"
	"newsdeck/internal/metrics"
)

var ErrInvalidPlatform = errors.New("invalid platform")

type Store interface {
	GetArticle(ctx context.Context, userID, articleID string) (*domain.Article, error)
	CreateShareEvent(ctx context.Context, e domain.ShareEvent) error
	ShareStats(ctx context.Context, userID string) (*domain.ShareStats, error)
}

// Tracker builds share links and records share events for analytics.
type Tracker struct {
	store Store
	log   *slog.Logger
}

func NewTracker(store Store, log *slog.Logger) *Tracker {
	return &Tracker{store: store, log: log}
}

// Share returns the share-intent link for the article and records the
// event. A failure to record is logged but does not withhold the link.
func (t *Tracker) Share(
	ctx context.Context,
	sess auth.Session,
	articleID string,
	platform Platform,
) (string, error) {
	if !platform.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlatform, platform)
	}

	article, err := t.store.GetArticle(ctx, sess.UserID, articleID)
	if err != nil {
		return "", fmt.Errorf("get article: %w", err)
	}

	link, err := BuildShareLink(platform, *article)
	if err != nil {
		return "", fmt.Errorf("build share link: %w", err)
	}

	event := domain.ShareEvent{
		ID:        uuid.NewString(),
		UserID:    sess.UserID,
		ArticleID: article.ID,
		Platform:  string(platform),
		CreatedAt: time.Now().UTC(),
	}

	if err := t.store.CreateShareEvent(ctx, event); err != nil {
		t.log.WarnContext(ctx, "Failed to record share event",
			"error", err,
			"articleID", article.ID,
			"platform", platform)
	} else {
		metrics.SharesTracked.WithLabelValues(string(platform)).Inc()
	}

	return link, nil
}

func (t *Tracker) Stats(ctx context.Context, sess auth.Session) (*domain.ShareStats, error) {
	return t.store.ShareStats(ctx, sess.UserID)
}
