package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrFeedNotFound means no usable feed URL could be located for a site.
var ErrFeedNotFound = errors.New("feed not found")

var feedKeywords = []string{"rss", "feed", "atom"}

// Probed in this order once link scraping yields nothing.
var commonFeedPaths = []string{"/rss", "/feed", "/rss.xml", "/feed.xml", "/atom.xml"}

type scrapedLink struct {
	href string
	text string
}

// Discoverer locates a feed URL for a website via link-scraping heuristics
// with a fallback list of conventional feed paths.
type Discoverer struct {
	fetcher *Fetcher
	log     *slog.Logger
}

func NewDiscoverer(fetcher *Fetcher, log *slog.Logger) *Discoverer {
	return &Discoverer{fetcher: fetcher, log: log}
}

// Discover returns the first feed URL found for siteURL. Errors on
// individual candidates are swallowed; ErrFeedNotFound is returned only
// once every candidate is exhausted.
func (d *Discoverer) Discover(ctx context.Context, siteURL string) (string, error) {
	siteURL = strings.TrimSpace(siteURL)

	base, err := url.Parse(siteURL)
	if err != nil {
		return "", fmt.Errorf("parse site URL %q: %w", siteURL, err)
	}

	links, err := d.scrapeLinks(ctx, siteURL)
	if err != nil {
		d.log.WarnContext(ctx, "Failed to scrape site links",
			"error", err,
			"siteURL", siteURL)
	}

	for _, link := range links {
		if !looksLikeFeedLink(link) {
			continue
		}

		ref, parseErr := url.Parse(strings.TrimSpace(link.href))
		if parseErr != nil {
			continue
		}

		return base.ResolveReference(ref).String(), nil
	}

	for _, path := range commonFeedPaths {
		probeURL := base.ResolveReference(&url.URL{Path: path}).String()

		if _, fetchErr := d.fetcher.Fetch(ctx, probeURL); fetchErr != nil {
			continue
		}

		return probeURL, nil
	}

	return "", ErrFeedNotFound
}

func (d *Discoverer) scrapeLinks(ctx context.Context, pageURL string) ([]scrapedLink, error) {
	page, err := d.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse page %q: %w", pageURL, err)
	}

	var links []scrapedLink
	doc.Find("a[href], link[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		links = append(links, scrapedLink{
			href: href,
			text: sel.Text(),
		})
	})

	return links, nil
}

func looksLikeFeedLink(link scrapedLink) bool {
	target := strings.ToLower(link.href)
	if u, err := url.Parse(strings.TrimSpace(link.href)); err == nil && u.Path != "" {
		target = strings.ToLower(u.Path)
	}

	text := strings.ToLower(link.text)

	for _, kw := range feedKeywords {
		if strings.Contains(target, kw) || strings.Contains(text, kw) {
			return true
		}
	}

	return false
}
