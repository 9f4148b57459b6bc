package core

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/amityadav/newsdigest/internal/mail"
	"github.com/amityadav/newsdigest/internal/search"
	log "github.com/sirupsen/logrus"
)

// Pipeline step names, used in errors and logs
const (
	StepSession = "open_session"
	StepSearch  = "search"
	StepRender  = "render"
	StepDraft   = "create_draft"
	StepSend    = "send_draft"
)

// StepError records which step of a run failed
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Renderer turns the final article list into a document
type Renderer interface {
	Render(articles []Article, generatedAt time.Time) (string, error)
}

// DigestConfig holds the per-run inputs read once at startup
type DigestConfig struct {
	Topic       string
	Recipient   string
	WindowHours int
	Request     search.Request
}

// RunResult contains the outcome of a digest run
type RunResult struct {
	SessionID string
	Found     int
	Subject   string
	DraftID   string
}

// DigestCore sequences one digest run: session, search, normalize, dedupe,
// render, draft, send
type DigestCore struct {
	cfg        DigestConfig
	sessions   search.SessionOpener
	searcher   search.Provider
	mailer     mail.Provider
	renderer   Renderer
	normalizer *Normalizer
	now        func() time.Time
}

// NewDigestCore creates a new DigestCore instance
func NewDigestCore(cfg DigestConfig, sessions search.SessionOpener, searcher search.Provider, mailer mail.Provider, renderer Renderer) *DigestCore {
	classifier := NewRecencyClassifier(cfg.WindowHours)
	cfg.WindowHours = classifier.WindowHours

	return &DigestCore{
		cfg:        cfg,
		sessions:   sessions,
		searcher:   searcher,
		mailer:     mailer,
		renderer:   renderer,
		normalizer: NewNormalizer(cfg.Topic, classifier),
		now:        time.Now,
	}
}

// Articles runs the pure part of the pipeline over raw provider items
func (c *DigestCore) Articles(items []search.RawItem) []Article {
	for _, item := range items {
		if item.Empty() {
			log.Debugf("[DigestCore] %s returned an item with no entries", item.Provider)
		}
	}
	candidates := c.normalizer.NormalizeAll(items)
	articles := Dedupe(candidates)
	log.Infof("[DigestCore] %d candidates, %d unique articles", len(candidates), len(articles))
	return articles
}

// Run executes one digest run. Any failing step aborts the remaining ones.
func (c *DigestCore) Run(ctx context.Context) (*RunResult, error) {
	started := c.now()
	log.Infof("[DigestCore] %s digest run started at %s", c.cfg.Topic, started.UTC().Format(time.RFC3339))
	log.Infof("[DigestCore] Target email: %s", c.cfg.Recipient)

	sess, err := c.sessions.OpenSession(ctx)
	if err != nil {
		return nil, c.fail(StepSession, err)
	}
	log.Infof("[DigestCore] Session: %s", sess.ID)

	result := &RunResult{SessionID: sess.ID}

	items, err := c.searcher.Search(ctx, sess, c.cfg.Request)
	if err != nil {
		return nil, c.fail(StepSearch, err)
	}

	articles := c.Articles(items)
	result.Found = len(articles)
	for i, a := range articles {
		log.Infof("[DigestCore]   %d. %s - %s", i+1, shorten(a.Title, 60), a.Published)
	}

	body, err := c.renderer.Render(articles, c.now())
	if err != nil {
		return nil, c.fail(StepRender, err)
	}

	result.Subject = mail.Subject(c.cfg.Topic, len(articles), c.cfg.WindowHours)
	draftID, err := c.mailer.CreateDraft(ctx, sess, mail.Message{
		To:      c.cfg.Recipient,
		Subject: result.Subject,
		Body:    body,
		IsHTML:  true,
	})
	if err != nil {
		return nil, c.fail(StepDraft, err)
	}
	result.DraftID = draftID
	log.Infof("[DigestCore] Draft created: %s", draftID)

	if err := c.mailer.SendDraft(ctx, sess, draftID); err != nil {
		return nil, c.fail(StepSend, err)
	}

	log.Infof("[DigestCore] Digest sent: %d articles in %v", result.Found, c.now().Sub(started))
	return result, nil
}

func (c *DigestCore) fail(step string, err error) error {
	fields := log.Fields{"step": step}
	var statusErr *search.StatusError
	if errors.As(err, &statusErr) {
		fields["provider"] = statusErr.Provider
		fields["status"] = statusErr.StatusCode
	}
	log.WithFields(fields).Errorf("[DigestCore] Run aborted: %v", err)
	return &StepError{Step: step, Err: err}
}

func shorten(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
