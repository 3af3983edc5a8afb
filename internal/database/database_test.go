package database

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"newsdeck/internal/domain"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := New(context.Background(), filepath.Join(t.TempDir(), "test.sqlite"), slog.Default())
	if err != nil {
		t.Fatalf("failed to initialize db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close db: %v", err)
		}
	})

	return db
}

func testSource(id, userID string) domain.Source {
	now := time.Now().UTC()

	return domain.Source{
		ID:        id,
		UserID:    userID,
		Name:      "Example",
		SiteURL:   "https://example.com",
		FeedURL:   "https://example.com/rss",
		Category:  "tech",
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testArticle(id, userID, fingerprint string) domain.Article {
	now := time.Now().UTC()

	return domain.Article{
		ID:          id,
		UserID:      userID,
		SourceID:    "src-1",
		Title:       "Example Article Title",
		Description: "An example description.",
		URL:         "http://example.com/a",
		Category:    "tech",
		Fingerprint: fingerprint,
		PublishedAt: now,
		CreatedAt:   now,
	}
}

func TestSourceRoundtrip(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	src := testSource("src-1", "user-1")
	if err := db.CreateSource(ctx, src); err != nil {
		t.Fatalf("failed to create source: %v", err)
	}

	got, err := db.GetSource(ctx, "user-1", "src-1")
	if err != nil {
		t.Fatalf("failed to get source: %v", err)
	}
	if got.Name != src.Name || got.FeedURL != src.FeedURL || !got.Active {
		t.Fatalf("unexpected source %+v", got)
	}

	if _, err := db.GetSource(ctx, "user-2", "src-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
}

func TestDeactivateSource(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	if err := db.CreateSource(ctx, testSource("src-1", "user-1")); err != nil {
		t.Fatalf("failed to create source: %v", err)
	}

	if err := db.DeactivateSource(ctx, "user-1", "src-1"); err != nil {
		t.Fatalf("failed to deactivate source: %v", err)
	}

	active, err := db.ListActiveSources(ctx, "user-1")
	if err != nil {
		t.Fatalf("failed to list active sources: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active sources, got %d", len(active))
	}

	all, err := db.ListSources(ctx, "user-1")
	if err != nil {
		t.Fatalf("failed to list sources: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected soft-deactivated source to remain, got %d sources", len(all))
	}

	if err := db.DeactivateSource(ctx, "user-1", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateArticleFingerprintBackstop(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	created, err := db.CreateArticle(ctx, testArticle("art-1", "user-1", "12345"))
	if err != nil {
		t.Fatalf("failed to create article: %v", err)
	}
	if !created {
		t.Fatal("expected first insert to create a row")
	}

	created, err = db.CreateArticle(ctx, testArticle("art-2", "user-1", "12345"))
	if err != nil {
		t.Fatalf("unexpected error on duplicate insert: %v", err)
	}
	if created {
		t.Fatal("expected duplicate fingerprint to be ignored")
	}

	// Same fingerprint under another user is a different article.
	created, err = db.CreateArticle(ctx, testArticle("art-3", "user-2", "12345"))
	if err != nil {
		t.Fatalf("failed to create article for second user: %v", err)
	}
	if !created {
		t.Fatal("expected insert for second user to create a row")
	}
}

func TestHasFingerprint(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	if _, err := db.CreateArticle(ctx, testArticle("art-1", "user-1", "12345")); err != nil {
		t.Fatalf("failed to create article: %v", err)
	}

	exists, err := db.HasFingerprint(ctx, "user-1", "12345")
	if err != nil {
		t.Fatalf("failed to check fingerprint: %v", err)
	}
	if !exists {
		t.Fatal("expected fingerprint to exist")
	}

	exists, err = db.HasFingerprint(ctx, "user-2", "12345")
	if err != nil {
		t.Fatalf("failed to check fingerprint: %v", err)
	}
	if exists {
		t.Fatal("expected fingerprint check to be scoped by user")
	}
}

func TestListArticlesCategoryFilterAndLimit(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	for i, category := range []string{"tech", "tech", "sports"} {
		a := testArticle("art-"+string(rune('a'+i)), "user-1", "fp-"+string(rune('a'+i)))
		a.Category = category
		if _, err := db.CreateArticle(ctx, a); err != nil {
			t.Fatalf("failed to create article: %v", err)
		}
	}

	tech, err := db.ListArticles(ctx, "user-1", "tech", 10)
	if err != nil {
		t.Fatalf("failed to list articles: %v", err)
	}
	if len(tech) != 2 {
		t.Fatalf("expected 2 tech articles, got %d", len(tech))
	}

	all, err := db.ListArticles(ctx, "user-1", "", 10)
	if err != nil {
		t.Fatalf("failed to list articles: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(all))
	}

	limited, err := db.ListArticles(ctx, "user-1", "", 2)
	if err != nil {
		t.Fatalf("failed to list articles: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestToggleBookmarkAndMarkRead(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	if _, err := db.CreateArticle(ctx, testArticle("art-1", "user-1", "12345")); err != nil {
		t.Fatalf("failed to create article: %v", err)
	}

	if err := db.ToggleBookmark(ctx, "user-1", "art-1"); err != nil {
		t.Fatalf("failed to toggle bookmark: %v", err)
	}

	got, err := db.GetArticle(ctx, "user-1", "art-1")
	if err != nil {
		t.Fatalf("failed to get article: %v", err)
	}
	if !got.Bookmarked {
		t.Fatal("expected article to be bookmarked")
	}

	if err := db.ToggleBookmark(ctx, "user-1", "art-1"); err != nil {
		t.Fatalf("failed to toggle bookmark: %v", err)
	}

	got, err = db.GetArticle(ctx, "user-1", "art-1")
	if err != nil {
		t.Fatalf("failed to get article: %v", err)
	}
	if got.Bookmarked {
		t.Fatal("expected bookmark to be toggled off")
	}

	if err := db.MarkRead(ctx, "user-1", "art-1"); err != nil {
		t.Fatalf("failed to mark read: %v", err)
	}

	got, err = db.GetArticle(ctx, "user-1", "art-1")
	if err != nil {
		t.Fatalf("failed to get article: %v", err)
	}
	if !got.Read {
		t.Fatal("expected article to be read")
	}

	if err := db.MarkRead(ctx, "user-1", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestShareStats(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	if _, err := db.CreateArticle(ctx, testArticle("art-1", "user-1", "fp-1")); err != nil {
		t.Fatalf("failed to create article: %v", err)
	}
	if _, err := db.CreateArticle(ctx, testArticle("art-2", "user-1", "fp-2")); err != nil {
		t.Fatalf("failed to create article: %v", err)
	}

	events := []struct {
		id        string
		articleID string
		platform  string
	}{
		{"ev-1", "art-1", "twitter"},
		{"ev-2", "art-1", "twitter"},
		{"ev-3", "art-1", "reddit"},
		{"ev-4", "art-2", "reddit"},
	}
	for _, ev := range events {
		err := db.CreateShareEvent(ctx, domain.ShareEvent{
			ID:        ev.id,
			UserID:    "user-1",
			ArticleID: ev.articleID,
			Platform:  ev.platform,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("failed to create share event: %v", err)
		}
	}

	stats, err := db.ShareStats(ctx, "user-1")
	if err != nil {
		t.Fatalf("failed to fetch share stats: %v", err)
	}

	if stats.Total != 4 {
		t.Fatalf("expected 4 total shares, got %d", stats.Total)
	}
	if len(stats.ByPlatform) != 2 {
		t.Fatalf("expected 2 platforms, got %d", len(stats.ByPlatform))
	}
	if len(stats.TopArticles) != 2 {
		t.Fatalf("expected 2 top articles, got %d", len(stats.TopArticles))
	}
	if stats.TopArticles[0].ArticleID != "art-1" || stats.TopArticles[0].Count != 3 {
		t.Fatalf("unexpected top article %+v", stats.TopArticles[0])
	}

	other, err := db.ShareStats(ctx, "user-2")
	if err != nil {
		t.Fatalf("failed to fetch share stats: %v", err)
	}
	if other.Total != 0 {
		t.Fatalf("expected stats to be scoped by user, got total %d", other.Total)
	}
}
