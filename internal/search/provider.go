package search

import (
	"context"
	"encoding/json"
	"fmt"
)

// Session identifies one pipeline run against a provider backend
type Session struct {
	ID string
}

// SessionOpener acquires the session used by every call in a run
type SessionOpener interface {
	OpenSession(ctx context.Context) (Session, error)
}

// Request describes one topic search
type Request struct {
	Topic      string
	NewsQuery  string
	WebQuery   string
	Depth      string // "basic" or "advanced"
	MaxResults int
}

// RawItem is one provider result item. Entries stay undecoded so that a
// malformed entry only costs itself during normalization.
type RawItem struct {
	Provider string
	News     []json.RawMessage // news-shape entries
	Web      []json.RawMessage // web-search-shape entries
}

// Empty reports whether the item carries no entries of either shape
func (r RawItem) Empty() bool {
	return len(r.News) == 0 && len(r.Web) == 0
}

// NewsResult is the news-search shape
type NewsResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Source  string `json:"source"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

// WebResult is the general web-search shape
type WebResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Provider is the interface all search providers must implement
type Provider interface {
	// Name returns the provider identifier (e.g., "tavily", "serpapi")
	Name() string

	// Search runs the request and returns raw result items in provider order
	Search(ctx context.Context, sess Session, req Request) ([]RawItem, error)
}

// StatusError is returned when a provider answers with a non-success status
type StatusError struct {
	Provider   string
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Provider, e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Provider, e.Operation, e.StatusCode, e.Body)
}

// MarshalEntries re-encodes decoded entries (e.g. from a map-based SDK
// response) so they can travel in a RawItem.
func MarshalEntries(entries []interface{}) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(entries))
	for i, e := range entries {
		b, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal entry %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}
