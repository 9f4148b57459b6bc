package composio

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/amityadav/newsdigest/internal/search"
	log "github.com/sirupsen/logrus"
)

// Branches of the "response.data" object of one search tool result. News
// search nests its entries under results.news_results, Tavily under
// response_data.results. Each branch decodes on its own.
type newsBranch struct {
	NewsResults []json.RawMessage `json:"news_results"`
}

type webBranch struct {
	Results []json.RawMessage `json:"results"`
}

// Search implements search.Provider. Both search tools run in one execute
// call; each tool result becomes one RawItem.
func (c *Client) Search(ctx context.Context, sess search.Session, req search.Request) ([]search.RawItem, error) {
	if c.searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.searchTimeout)
		defer cancel()
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	tools := []ToolCall{
		{
			ToolSlug:  ToolNewsSearch,
			Arguments: map[string]interface{}{"query": req.NewsQuery},
		},
		{
			ToolSlug: ToolTavilySearch,
			Arguments: map[string]interface{}{
				"query":        req.WebQuery,
				"search_depth": req.Depth,
				"max_results":  maxResults,
			},
		},
	}

	thought := fmt.Sprintf("Searching for fresh %s news from the last %d hours", req.Topic, c.windowHours)
	results, err := c.execute(ctx, sess, "news search", thought, tools...)
	if err != nil {
		return nil, err
	}
	log.Infof("[Composio] News search completed: %d tool results", len(results))

	return decodeSearchResults(results), nil
}

// decodeSearchResults maps tool results to raw items. A result that does not
// decode is logged and skipped, and so is a malformed branch within one.
func decodeSearchResults(results []json.RawMessage) []search.RawItem {
	items := make([]search.RawItem, 0, len(results))
	for i, raw := range results {
		var tr toolResult
		if err := json.Unmarshal(raw, &tr); err != nil {
			log.WithField("index", i).Warnf("[Composio] Skipping malformed tool result: %v", err)
			continue
		}
		if len(tr.Response.Data) == 0 || string(tr.Response.Data) == "null" {
			continue
		}

		var data map[string]json.RawMessage
		if err := json.Unmarshal(tr.Response.Data, &data); err != nil {
			log.WithField("index", i).Warnf("[Composio] Skipping malformed tool data: %v", err)
			continue
		}

		item := search.RawItem{Provider: fmt.Sprintf("composio[%d]", i)}
		if raw, ok := data["results"]; ok {
			var news newsBranch
			if err := json.Unmarshal(raw, &news); err != nil {
				log.WithFields(log.Fields{"index": i, "branch": "results"}).Warnf("[Composio] Skipping malformed news branch: %v", err)
			} else {
				item.News = news.NewsResults
			}
		}
		if raw, ok := data["response_data"]; ok {
			var web webBranch
			if err := json.Unmarshal(raw, &web); err != nil {
				log.WithFields(log.Fields{"index": i, "branch": "response_data"}).Warnf("[Composio] Skipping malformed web branch: %v", err)
			} else {
				item.Web = web.Results
			}
		}
		items = append(items, item)
	}
	return items
}
