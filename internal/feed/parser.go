package feed

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"newsdeck/internal/domain"
)

const (
	// MaxArticles caps the number of candidates emitted per parse call.
	MaxArticles = 20

	maxDescriptionChars = 300
	minTitleChars       = 10
	minDescriptionChars = 20
)

var markupTagRe = regexp.MustCompile(`<[^>]*>`)

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse extracts up to maxArticles candidate articles from raw feed
// content. This is a deliberate line-oriented heuristic scan, not a
// structural XML parse: it assumes one tag of interest per line, strips
// markup with a regexp, and applies noise filters on the remaining text.
// Malformed feeds degrade to fewer candidates, never to an error.
func Parse(raw string, maxArticles int) []domain.Candidate {
	if maxArticles <= 0 {
		maxArticles = MaxArticles
	}

	var (
		candidates []domain.Candidate
		current    domain.Candidate
	)

	for _, line := range strings.Split(raw, "\n") {
		lower := lowerASCII(line)

		if strings.Contains(lower, "<title") && !strings.Contains(line, "CDATA") {
			title := strings.TrimSpace(tagText(line, lower, "title"))
			if title != "" && title != "RSS" && utf8.RuneCountInString(title) > minTitleChars {
				current.Title = title
			}
		}

		if strings.Contains(lower, "<description") {
			current.Description = descriptionText(line, lower, "description", current.Description)
		} else if strings.Contains(lower, "<summary") {
			current.Description = descriptionText(line, lower, "summary", current.Description)
		}

		if strings.Contains(lower, "<link") {
			link := strings.TrimSpace(tagText(line, lower, "link"))
			if strings.HasPrefix(link, "http") {
				current.URL = link
			}
		}

		if strings.Contains(lower, "pubdate") {
			current.PublishedAt = parseDate(tagText(line, lower, "pubdate"))
		} else if strings.Contains(lower, "published") {
			current.PublishedAt = parseDate(tagText(line, lower, "published"))
		}

		if current.Title != "" && current.URL != "" && len(candidates) < maxArticles {
			if current.PublishedAt.IsZero() {
				current.PublishedAt = time.Now()
			}

			candidates = append(candidates, current)
			current = domain.Candidate{}
		}
	}

	return candidates
}

func descriptionText(line, lower, tag, previous string) string {
	desc := strings.TrimSpace(tagText(line, lower, tag))
	if utf8.RuneCountInString(desc) <= minDescriptionChars {
		return previous
	}

	return truncateRunes(desc, maxDescriptionChars)
}

// tagText returns the markup-stripped text of the first occurrence of tag
// within the line. The segment ends at the tag's closing marker when it
// appears on the same line, so a line carrying several elements still
// yields per-tag text.
func tagText(line, lower, tag string) string {
	start := strings.Index(lower, "<"+tag)
	if start < 0 {
		// Date tags match on the bare tag name (pubDate vs. atom published).
		start = strings.Index(lower, tag)
		if start < 0 {
			return ""
		}
	}

	segment := line[start:]
	if end := strings.Index(lower[start:], "</"+tag); end >= 0 {
		segment = segment[:end]
	}

	return markupTagRe.ReplaceAllString(segment, "")
}

func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	// Unparseable dates silently fall back to the current time.
	return time.Now()
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}

// lowerASCII lowercases ASCII letters only, so byte offsets into the
// original line stay valid.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}

	return string(b)
}
