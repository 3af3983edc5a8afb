package share

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"newsdeck/internal/auth"
	"newsdeck/internal/domain"
)

type fakeShareStore struct {
	article *domain.Article
	events  []domain.ShareEvent
	stats   *domain.ShareStats
}

func (s *fakeShareStore) GetArticle(_ context.Context, userID, articleID string) (*domain.Article, error) {
	if s.article == nil || s.article.ID != articleID || s.article.UserID != userID {
		return nil, domain.ErrNotFound
	}

	return s.article, nil
}

func (s *fakeShareStore) CreateShareEvent(_ context.Context, e domain.ShareEvent) error {
	s.events = append(s.events, e)

	return nil
}

func (s *fakeShareStore) ShareStats(context.Context, string) (*domain.ShareStats, error) {
	return s.stats, nil
}

func TestShareRecordsEvent(t *testing.T) {
	article := testArticle()
	article.UserID = "user-1"
	store := &fakeShareStore{article: &article}
	tracker := NewTracker(store, slog.Default())

	sess := auth.Session{UserID: "user-1"}

	link, err := tracker.Share(context.Background(), sess, "art-1", PlatformReddit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link == "" {
		t.Fatal("expected share link")
	}

	if len(store.events) != 1 {
		t.Fatalf("expected 1 share event, got %d", len(store.events))
	}
	if store.events[0].Platform != string(PlatformReddit) {
		t.Fatalf("unexpected platform %q", store.events[0].Platform)
	}
	if store.events[0].ArticleID != "art-1" || store.events[0].UserID != "user-1" {
		t.Fatalf("unexpected event %+v", store.events[0])
	}
}

func TestShareInvalidPlatform(t *testing.T) {
	tracker := NewTracker(&fakeShareStore{}, slog.Default())

	_, err := tracker.Share(context.Background(), auth.Session{UserID: "user-1"}, "art-1", Platform("myspace"))
	if !errors.Is(err, ErrInvalidPlatform) {
		t.Fatalf("expected ErrInvalidPlatform, got %v", err)
	}
}

func TestShareUnknownArticle(t *testing.T) {
	tracker := NewTracker(&fakeShareStore{}, slog.Default())

	_, err := tracker.Share(context.Background(), auth.Session{UserID: "user-1"}, "missing", PlatformTwitter)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected domain.ErrNotFound, got %v", err)
	}
}
