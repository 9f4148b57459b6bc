// Package render turns a deduplicated article list into the HTML digest.
package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/amityadav/newsdigest/internal/core"
	"github.com/amityadav/newsdigest/templates"
)

// TimestampLayout is used for the generation time in the digest header
const TimestampLayout = "2006-01-02 15:04:05 UTC"

// Renderer renders digests for one topic
type Renderer struct {
	topic       string
	windowHours int
	tmpl        *template.Template
}

type digestView struct {
	Topic       string
	GeneratedAt string
	WindowHours int
	Count       int
	Articles    []articleView
}

type articleView struct {
	Index     int
	Title     string
	URL       string
	HasLink   bool
	Source    string
	Published string
	Snippet   string
	Category  string
}

// NewRenderer parses the embedded digest template
func NewRenderer(topic string, windowHours int) (*Renderer, error) {
	tmpl, err := template.New("digest").Parse(templates.DigestHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse digest template: %w", err)
	}
	return &Renderer{
		topic:       topic,
		windowHours: windowHours,
		tmpl:        tmpl,
	}, nil
}

// Render produces the HTML document. Every article field is escaped by the
// template engine, links included.
func (r *Renderer) Render(articles []core.Article, generatedAt time.Time) (string, error) {
	view := digestView{
		Topic:       r.topic,
		GeneratedAt: generatedAt.UTC().Format(TimestampLayout),
		WindowHours: r.windowHours,
		Count:       len(articles),
		Articles:    make([]articleView, len(articles)),
	}
	for i, a := range articles {
		view.Articles[i] = articleView{
			Index:     i + 1,
			Title:     a.Title,
			URL:       a.URL,
			HasLink:   a.HasLink(),
			Source:    a.Source,
			Published: a.Published.String(),
			Snippet:   a.Snippet,
			Category:  string(a.Category),
		}
	}

	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("failed to render digest: %w", err)
	}
	return sb.String(), nil
}
