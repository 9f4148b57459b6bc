// Package gnews searches Google News through its public RSS endpoint.
package gnews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/amityadav/newsdigest/internal/search"
	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"
)

const feedURL = "https://news.google.com/rss/search"

// Client fetches the Google News RSS search feed
type Client struct {
	baseURL string
	parser  *gofeed.Parser
	now     func() time.Time
}

// NewClient creates a new Google News RSS client
func NewClient(timeout time.Duration) *Client {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	return &Client{
		baseURL: feedURL,
		parser:  parser,
		now:     time.Now,
	}
}

// WithBaseURL points the client at another feed endpoint
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "gnews"
}

// Search implements search.Provider. Feed items are converted to the news
// shape with a relative "N hours ago" date so recency filtering stays in one
// place.
func (c *Client) Search(ctx context.Context, sess search.Session, req search.Request) ([]search.RawItem, error) {
	q := url.Values{}
	q.Set("q", req.NewsQuery)
	q.Set("hl", "en-US")
	q.Set("gl", "US")
	q.Set("ceid", "US:en")
	target := c.baseURL + "?" + q.Encode()

	log.Infof("[GoogleNews] Fetching feed for: %q", req.NewsQuery)
	feed, err := c.parser.ParseURLWithContext(target, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &search.StatusError{
				Provider:   c.Name(),
				Operation:  "fetch feed",
				StatusCode: httpErr.StatusCode,
			}
		}
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	now := c.now()
	entries := make([]json.RawMessage, 0, len(feed.Items))
	for _, item := range feed.Items {
		title, source := splitSource(item.Title)
		r := search.NewsResult{
			Title:   title,
			Link:    item.Link,
			Source:  source,
			Snippet: stripHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			r.Date = humanizeAge(now.Sub(*item.PublishedParsed))
		} else if item.UpdatedParsed != nil {
			r.Date = humanizeAge(now.Sub(*item.UpdatedParsed))
		}

		b, err := json.Marshal(r)
		if err != nil {
			log.Warnf("[GoogleNews] Skipping item %q: %v", item.Link, err)
			continue
		}
		entries = append(entries, b)
	}

	log.Infof("[GoogleNews] Found %d feed items", len(entries))
	return []search.RawItem{{Provider: c.Name(), News: entries}}, nil
}

// splitSource separates the "Headline - Publisher" form Google News uses
func splitSource(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
}

func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// humanizeAge renders an age the way news search providers do
func humanizeAge(age time.Duration) string {
	if age < 0 {
		age = 0
	}
	switch {
	case age < time.Hour:
		m := int(age.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case age < 24*time.Hour:
		h := int(age.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	default:
		d := int(age.Hours() / 24)
		if d == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", d)
	}
}
