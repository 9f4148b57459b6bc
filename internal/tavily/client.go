package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/amityadav/newsdigest/internal/search"
	log "github.com/sirupsen/logrus"
)

const apiURL = "https://api.tavily.com/search"

// Client is a Tavily Search API client
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a new Tavily API client
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: apiURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithBaseURL points the client at another endpoint
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// SearchRequest represents the Tavily search request payload
type SearchRequest struct {
	Query       string `json:"query"`
	APIKey      string `json:"api_key"`
	SearchDepth string `json:"search_depth,omitempty"` // "basic" or "advanced"
	Topic       string `json:"topic,omitempty"`        // "general" or "news"
	MaxResults  int    `json:"max_results,omitempty"`
}

// SearchResponse represents the Tavily search response. Results stay raw so
// the normalizer can decode them one by one.
type SearchResponse struct {
	Query        string            `json:"query"`
	Results      []json.RawMessage `json:"results"`
	ResponseTime float64           `json:"response_time"`
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "tavily"
}

// Search implements search.Provider; results use the web-search shape
func (c *Client) Search(ctx context.Context, sess search.Session, req search.Request) ([]search.RawItem, error) {
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	reqBody := SearchRequest{
		Query:       req.WebQuery,
		APIKey:      c.apiKey,
		SearchDepth: req.Depth,
		MaxResults:  maxResults,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	log.Infof("[Tavily] Searching for: %q (max %d results, depth=%s)", req.WebQuery, maxResults, req.Depth)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Infof("[Tavily] Response status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &search.StatusError{
			Provider:   c.Name(),
			Operation:  "search",
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Infof("[Tavily] Found %d results for query: %s", len(searchResp.Results), req.WebQuery)
	return []search.RawItem{{Provider: c.Name(), Web: searchResp.Results}}, nil
}
