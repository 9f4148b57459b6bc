package core

import (
	"strings"
	"unicode/utf8"

	"github.com/amityadav/newsdigest/internal/feed"
)

// Category records which provider shape an article was normalized from
type Category string

const (
	CategoryNews Category = "news"
	CategoryWeb  Category = "web"
)

// NoLink marks an article without a real URL
const NoLink = feed.NoLink

// Published is either the provider's timestamp text or the qualitative
// "recently" sentinel used when no exact time is known
type Published struct {
	Text        string
	Qualitative bool
}

// PublishedAt wraps provider timestamp text
func PublishedAt(text string) Published {
	return Published{Text: text}
}

// PublishedRecently is the qualitative sentinel
func PublishedRecently() Published {
	return Published{Qualitative: true}
}

func (p Published) String() string {
	if p.Qualitative {
		return feed.RecentlyLabel
	}
	return p.Text
}

// Article is the canonical record built from one provider entry
type Article struct {
	Title     string
	URL       string
	Source    string
	Published Published
	Snippet   string
	Category  Category
}

// HasLink reports whether the article carries a real URL
func (a Article) HasLink() bool {
	return a.URL != "" && a.URL != NoLink
}

// truncateSnippet limits s to maxLen characters and appends the marker when cut
func truncateSnippet(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + feed.TruncationMarker
}

// extractDomain returns the host part of a URL (its third slash-delimited segment)
func extractDomain(u string) string {
	if !strings.Contains(u, "://") {
		return feed.UnknownSource
	}
	parts := strings.Split(u, "/")
	if len(parts) < 3 || parts[2] == "" {
		return feed.UnknownSource
	}
	return parts[2]
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
