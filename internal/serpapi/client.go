package serpapi

import (
	"context"
	"fmt"

	"github.com/amityadav/newsdigest/internal/search"
	g "github.com/serpapi/google-search-results-golang"
	log "github.com/sirupsen/logrus"
)

// SearchFunc runs one SerpApi query and returns the decoded JSON response
type SearchFunc func(parameter map[string]string, apiKey string) (map[string]interface{}, error)

// Client is a wrapper around the SerpApi Google News search
type Client struct {
	apiKey   string
	searchFn SearchFunc
}

// NewClient creates a new SerpApi client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		searchFn: googleSearch,
	}
}

// WithSearchFunc replaces the SerpApi transport, mainly for tests
func (c *Client) WithSearchFunc(fn SearchFunc) *Client {
	c.searchFn = fn
	return c
}

func googleSearch(parameter map[string]string, apiKey string) (map[string]interface{}, error) {
	query := g.NewGoogleSearch(parameter, apiKey)
	results, err := query.GetJSON()
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "serpapi"
}

// Search implements search.Provider using Google News (tbm=nws); results use
// the news shape
func (c *Client) Search(ctx context.Context, sess search.Session, req search.Request) ([]search.RawItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("SerpApi API key is not set")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parameter := map[string]string{
		"engine": "google",
		"q":      req.NewsQuery,
		"tbm":    "nws",
		"gl":     "us",
		"hl":     "en",
	}

	log.Infof("[SerpApi] Searching news for: %q", req.NewsQuery)
	results, err := c.searchWithContext(ctx, parameter)
	if err != nil {
		return nil, fmt.Errorf("serpapi search failed: %w", err)
	}

	if msg, ok := results["error"].(string); ok && msg != "" {
		return nil, fmt.Errorf("serpapi search failed: %s", msg)
	}

	newsResults, ok := results["news_results"].([]interface{})
	if !ok {
		log.Infof("[SerpApi] No news_results found in response")
		return []search.RawItem{{Provider: c.Name()}}, nil
	}

	entries, err := search.MarshalEntries(newsResults)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode news results: %w", err)
	}

	log.Infof("[SerpApi] Found %d news results", len(entries))
	return []search.RawItem{{Provider: c.Name(), News: entries}}, nil
}

type searchOutcome struct {
	results map[string]interface{}
	err     error
}

// searchWithContext bounds the SDK call by ctx. The SDK takes no context, so
// on cancellation the request is abandoned and finishes in the background.
func (c *Client) searchWithContext(ctx context.Context, parameter map[string]string) (map[string]interface{}, error) {
	done := make(chan searchOutcome, 1)
	go func() {
		results, err := c.searchFn(parameter, c.apiKey)
		done <- searchOutcome{results: results, err: err}
	}()

	select {
	case <-ctx.Done():
		log.Warnf("[SerpApi] Abandoning search: %v", ctx.Err())
		return nil, ctx.Err()
	case out := <-done:
		return out.results, out.err
	}
}
