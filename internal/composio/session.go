package composio

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/amityadav/newsdigest/internal/search"
	log "github.com/sirupsen/logrus"
)

const sessionAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type toolsSearchRequest struct {
	UseCase          string          `json:"use_case"`
	KnownFields      string          `json:"known_fields"`
	Session          map[string]bool `json:"session"`
	ExploratoryQuery bool            `json:"exploratory_query"`
}

type toolsSearchResponse struct {
	Data struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	} `json:"data"`
}

// OpenSession implements search.SessionOpener. The server-issued session id
// wins; a client-generated one is kept when the server returns none.
func (c *Client) OpenSession(ctx context.Context) (search.Session, error) {
	sess := search.Session{ID: generateSessionID()}
	log.Infof("[Composio] Generated session id: %s", sess.ID)

	payload := toolsSearchRequest{
		UseCase:          fmt.Sprintf("Search for fresh news from the last %d hours and send email digest", c.windowHours),
		KnownFields:      fmt.Sprintf("recipient_email:%s, period:last %d hours", c.recipient, c.windowHours),
		Session:          map[string]bool{"generate_id": true},
		ExploratoryQuery: false,
	}

	var resp toolsSearchResponse
	if err := c.post(ctx, "/tools/search", "tools search", payload, &resp); err != nil {
		return search.Session{}, err
	}

	if id := resp.Data.Session.ID; id != "" {
		sess.ID = id
	}
	log.Infof("[Composio] Tools initialized. Session: %s", sess.ID)
	return sess, nil
}

// generateSessionID returns an id in the TTT-RRRRR form
func generateSessionID() string {
	return randomToken(3) + "-" + randomToken(5)
}

func randomToken(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = sessionAlphabet[rand.IntN(len(sessionAlphabet))]
	}
	return string(b)
}
