// Package composio talks to the Composio tool-execution backend, which fronts
// both the news search tools and the Gmail draft tools.
package composio

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

const DefaultBaseURL = "https://backend.composio.dev/api/v1"

// Tool slugs
const (
	ToolNewsSearch   = "COMPOSIO_SEARCH_NEWS_SEARCH"
	ToolTavilySearch = "COMPOSIO_SEARCH_TAVILY_SEARCH"
	ToolCreateDraft  = "GMAIL_CREATE_EMAIL_DRAFT"
	ToolSendDraft    = "GMAIL_SEND_DRAFT"
)

// Client is a Composio API client
type Client struct {
	apiKey        string
	baseURL       string
	recipient     string
	windowHours   int
	client        *http.Client
	searchTimeout time.Duration
}

// Options configures a Client
type Options struct {
	APIKey        string
	BaseURL       string
	Recipient     string
	WindowHours   int
	Timeout       time.Duration
	SearchTimeout time.Duration
}

// NewClient creates a new Composio client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:        opts.APIKey,
		baseURL:       opts.BaseURL,
		recipient:     opts.Recipient,
		windowHours:   opts.WindowHours,
		client:        &http.Client{Timeout: opts.Timeout},
		searchTimeout: opts.SearchTimeout,
	}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "composio"
}

// ToolCall is one tool invocation in an execute request
type ToolCall struct {
	ToolSlug  string                 `json:"tool_slug"`
	Arguments map[string]interface{} `json:"arguments"`
}

type executeRequest struct {
	Tools                   []ToolCall             `json:"tools"`
	SyncResponseToWorkbench bool                   `json:"sync_response_to_workbench"`
	SessionID               string                 `json:"session_id"`
	Memory                  map[string]interface{} `json:"memory"`
	Thought                 string                 `json:"thought"`
}

// executeResponse holds one result per executed tool, in request order
type executeResponse struct {
	Data struct {
		Data struct {
			Results []json.RawMessage `json:"results"`
		} `json:"data"`
	} `json:"data"`
}

type toolResult struct {
	Response struct {
		Data json.RawMessage `json:"data"`
	} `json:"response"`
}

// execute runs tools inside the session and returns the undecoded per-tool
// results
func (c *Client) execute(ctx context.Context, sess search.Session, operation, thought string, tools ...ToolCall) ([]json.RawMessage, error) {
	payload := executeRequest{
		Tools:     tools,
		SessionID: sess.ID,
		Memory:    map[string]interface{}{},
		Thought:   thought,
	}

	var resp executeResponse
	if err := c.post(ctx, "/tools/execute", operation, payload, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Data.Results, nil
}

// post sends a JSON request and decodes a JSON response
func (c *Client) post(ctx context.Context, path, operation string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	log.Debugf("[Composio] %s response status: %d", operation, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &search.StatusError{
			Provider:   c.Name(),
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}
