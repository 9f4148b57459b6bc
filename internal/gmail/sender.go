// Package gmail sends digests through the Gmail API using a user OAuth token.
package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/amityadav/newsdigest/internal/mail"
	"github.com/amityadav/newsdigest/internal/search"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gm "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Sender handles draft creation and sending via the Gmail API
type Sender struct {
	service *gm.Service
	user    string
}

// NewSender creates a Sender from an OAuth client credentials file and a
// previously authorized token file
func NewSender(ctx context.Context, credentialsPath, tokenPath, user string) (*Sender, error) {
	creds, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read gmail credentials: %w", err)
	}

	cfg, err := google.ConfigFromJSON(creds, gm.GmailComposeScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gmail credentials: %w", err)
	}

	tok, err := loadToken(tokenPath)
	if err != nil {
		return nil, err
	}

	return NewSenderWithClient(ctx, cfg.Client(ctx, tok), user)
}

// NewSenderWithClient creates a Sender on top of an already authorized HTTP
// client. Extra options such as option.WithEndpoint are passed through.
func NewSenderWithClient(ctx context.Context, client *http.Client, user string, opts ...option.ClientOption) (*Sender, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	service, err := gm.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	if user == "" {
		user = "me"
	}

	log.Infof("[Gmail] Initialized sender for user %q", user)
	return &Sender{service: service, user: user}, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gmail token: %w", err)
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode gmail token: %w", err)
	}
	return tok, nil
}

// CreateDraft implements mail.Provider. The session is unused; Gmail needs no
// run-scoped state.
func (s *Sender) CreateDraft(ctx context.Context, sess search.Session, msg mail.Message) (string, error) {
	raw, err := buildRaw(msg)
	if err != nil {
		return "", err
	}

	draft, err := s.service.Users.Drafts.Create(s.user, &gm.Draft{
		Message: &gm.Message{Raw: raw},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create draft: %w", err)
	}

	log.Infof("[Gmail] Draft created: %s", draft.Id)
	return draft.Id, nil
}

// SendDraft implements mail.Provider
func (s *Sender) SendDraft(ctx context.Context, sess search.Session, draftID string) error {
	sent, err := s.service.Users.Drafts.Send(s.user, &gm.Draft{Id: draftID}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send draft %s: %w", draftID, err)
	}

	log.Infof("[Gmail] Email sent, message %s", sent.Id)
	return nil
}
