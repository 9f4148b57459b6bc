package composio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/amityadav/newsdigest/internal/mail"
	"github.com/amityadav/newsdigest/internal/search"
	log "github.com/sirupsen/logrus"
)

// ErrNoDraftID is returned when the draft tool answers without an id
var ErrNoDraftID = errors.New("no draft id in response")

type draftData struct {
	ResponseData struct {
		ID json.RawMessage `json:"id"`
	} `json:"response_data"`
}

// draftID accepts the id as a JSON string or number
func (d draftData) draftID() string {
	var s string
	if err := json.Unmarshal(d.ResponseData.ID, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(d.ResponseData.ID, &n); err == nil {
		return n.String()
	}
	return ""
}

// CreateDraft implements mail.Provider
func (c *Client) CreateDraft(ctx context.Context, sess search.Session, msg mail.Message) (string, error) {
	tool := ToolCall{
		ToolSlug: ToolCreateDraft,
		Arguments: map[string]interface{}{
			"recipient_email": msg.To,
			"subject":         msg.Subject,
			"body":            msg.Body,
			"is_html":         msg.IsHTML,
		},
	}

	results, err := c.execute(ctx, sess, "create draft", "Creating email draft with news digest", tool)
	if err != nil {
		return "", err
	}

	id, err := extractDraftID(results)
	if err != nil {
		return "", fmt.Errorf("failed to extract draft id: %w", err)
	}
	return id, nil
}

// SendDraft implements mail.Provider
func (c *Client) SendDraft(ctx context.Context, sess search.Session, draftID string) error {
	tool := ToolCall{
		ToolSlug:  ToolSendDraft,
		Arguments: map[string]interface{}{"draft_id": draftID},
	}

	if _, err := c.execute(ctx, sess, "send draft", "Sending email digest draft", tool); err != nil {
		return err
	}
	log.Infof("[Composio] Email sent, draft %s", draftID)
	return nil
}

// extractDraftID returns the first response_data.id among the tool results
func extractDraftID(results []json.RawMessage) (string, error) {
	for i, raw := range results {
		var tr toolResult
		if err := json.Unmarshal(raw, &tr); err != nil {
			log.WithField("index", i).Warnf("[Composio] Skipping malformed draft result: %v", err)
			continue
		}
		var data draftData
		if err := json.Unmarshal(tr.Response.Data, &data); err != nil {
			log.WithField("index", i).Warnf("[Composio] Skipping malformed draft data: %v", err)
			continue
		}
		if id := data.draftID(); id != "" {
			return id, nil
		}
	}
	return "", ErrNoDraftID
}
