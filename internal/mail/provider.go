package mail

import (
	"context"
	"fmt"

	"github.com/amityadav/newsdigest/internal/search"
)

// Message is one outbound email
type Message struct {
	To      string
	Subject string
	Body    string
	IsHTML  bool
}

// Provider sends mail with the draft-then-send pattern
type Provider interface {
	// CreateDraft stores the message as a draft and returns its id
	CreateDraft(ctx context.Context, sess search.Session, msg Message) (string, error)

	// SendDraft sends a previously created draft
	SendDraft(ctx context.Context, sess search.Session, draftID string) error
}

// Subject builds the digest subject line from the number of articles found
func Subject(topic string, count, windowHours int) string {
	switch count {
	case 0:
		return fmt.Sprintf("%s News Digest - no fresh news found", topic)
	case 1:
		return fmt.Sprintf("%s News Digest - 1 fresh story in the last %d hours", topic, windowHours)
	default:
		return fmt.Sprintf("%s News Digest - %d stories in the last %d hours", topic, count, windowHours)
	}
}
