package share

import (
	"fmt"
	"net/url"
	"strings"

	"newsdeck/internal/domain"
)

// Platform is a social destination articles can be shared to.
type Platform string

const (
	PlatformTwitter  Platform = "twitter"
	PlatformFacebook Platform = "facebook"
	PlatformLinkedIn Platform = "linkedin"
	PlatformReddit   Platform = "reddit"
	PlatformTelegram Platform = "telegram"
	PlatformWhatsApp Platform = "whatsapp"
	PlatformEmail    Platform = "email"
)

const (
	tweetMaxChars   = 280
	defaultMaxChars = 400
	ellipsis        = "..."
)

var platforms = map[Platform]struct{}{
	PlatformTwitter:  {},
	PlatformFacebook: {},
	PlatformLinkedIn: {},
	PlatformReddit:   {},
	PlatformTelegram: {},
	PlatformWhatsApp: {},
	PlatformEmail:    {},
}

func (p Platform) Valid() bool {
	_, ok := platforms[p]

	return ok
}

// BuildShareLink returns the platform's share-intent URL for an article.
// Share text is the article title, truncated per platform: tweets must fit
// text plus article URL in 280 characters, everything else caps at 400.
func BuildShareLink(p Platform, a domain.Article) (string, error) {
	switch p {
	case PlatformTwitter:
		return "https://twitter.com/intent/tweet?" + url.Values{
			"text": {tweetText(a)},
			"url":  {a.URL},
		}.Encode(), nil
	case PlatformFacebook:
		return "https://www.facebook.com/sharer/sharer.php?" + url.Values{
			"u":     {a.URL},
			"quote": {shareText(a)},
		}.Encode(), nil
	case PlatformLinkedIn:
		return "https://www.linkedin.com/sharing/share-offsite/?" + url.Values{
			"url": {a.URL},
		}.Encode(), nil
	case PlatformReddit:
		return "https://www.reddit.com/submit?" + url.Values{
			"url":   {a.URL},
			"title": {shareText(a)},
		}.Encode(), nil
	case PlatformTelegram:
		return "https://t.me/share/url?" + url.Values{
			"url":  {a.URL},
			"text": {shareText(a)},
		}.Encode(), nil
	case PlatformWhatsApp:
		return "https://wa.me/?" + url.Values{
			"text": {shareText(a) + " " + a.URL},
		}.Encode(), nil
	case PlatformEmail:
		return "mailto:?" + url.Values{
			"subject": {shareText(a)},
			"body":    {shareText(a) + "\n\n" + a.URL},
		}.Encode(), nil
	default:
		return "", fmt.Errorf("unsupported platform %q", p)
	}
}

func shareText(a domain.Article) string {
	return truncate(strings.TrimSpace(a.Title), defaultMaxChars)
}

// tweetText leaves room for the article URL and a separating space within
// the tweet budget.
func tweetText(a domain.Article) string {
	budget := tweetMaxChars - len([]rune(a.URL)) - 1
	if budget < 0 {
		budget = 0
	}

	return truncate(strings.TrimSpace(a.Title), budget)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	cut := limit - len([]rune(ellipsis))
	if cut <= 0 {
		return string(runes[:limit])
	}

	return strings.TrimSpace(string(runes[:cut])) + ellipsis
}
