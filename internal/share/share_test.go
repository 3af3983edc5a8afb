package share

import (
	"net/url"
	"strings"
	"testing"

	"newsdeck/internal/domain"
)

func testArticle() domain.Article {
	return domain.Article{
		ID:    "art-1",
		Title: "Go 1.26 released with a faster garbage collector",
		URL:   "https://example.com/articles/go-1-26",
	}
}

func TestPlatformValid(t *testing.T) {
	for _, p := range []Platform{
		PlatformTwitter, PlatformFacebook, PlatformLinkedIn,
		PlatformReddit, PlatformTelegram, PlatformWhatsApp, PlatformEmail,
	} {
		if !p.Valid() {
			t.Fatalf("expected %q to be valid", p)
		}
	}

	if Platform("myspace").Valid() {
		t.Fatal("expected unknown platform to be invalid")
	}
}

func TestBuildShareLinkAllPlatforms(t *testing.T) {
	a := testArticle()

	for p := range platforms {
		link, err := BuildShareLink(p, a)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", p, err)
		}
		if link == "" {
			t.Fatalf("expected non-empty link for %q", p)
		}

		if _, err := url.Parse(link); err != nil {
			t.Fatalf("link for %q does not parse: %v", p, err)
		}
	}
}

func TestBuildShareLinkUnsupportedPlatform(t *testing.T) {
	if _, err := BuildShareLink(Platform("myspace"), testArticle()); err == nil {
		t.Fatal("expected error for unsupported platform")
	}
}

func TestTweetTextFitsBudgetWithURL(t *testing.T) {
	a := testArticle()
	a.Title = strings.Repeat("A very long headline indeed ", 20)

	link, err := BuildShareLink(PlatformTwitter, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}

	text := parsed.Query().Get("text")
	total := len([]rune(text)) + 1 + len([]rune(a.URL))
	if total > tweetMaxChars {
		t.Fatalf("tweet text plus URL is %d chars, budget is %d", total, tweetMaxChars)
	}
	if !strings.HasSuffix(text, ellipsis) {
		t.Fatalf("expected truncated text to end with %q, got %q", ellipsis, text)
	}
}

func TestShortTitleNotTruncated(t *testing.T) {
	a := testArticle()

	link, err := BuildShareLink(PlatformTwitter, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}

	if got := parsed.Query().Get("text"); got != a.Title {
		t.Fatalf("expected untruncated title, got %q", got)
	}
}
