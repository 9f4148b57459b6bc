package core

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/amityadav/newsdigest/internal/search"
	"github.com/google/go-cmp/cmp"
)

func rawEntries(t *testing.T, entries ...interface{}) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, 0, len(entries))
	for _, e := range entries {
		if s, ok := e.(string); ok {
			out = append(out, json.RawMessage(s))
			continue
		}
		b, err := json.Marshal(e)
		if err != nil {
			t.Fatalf("marshal entry: %v", err)
		}
		out = append(out, b)
	}
	return out
}

func newTestNormalizer() *Normalizer {
	return NewNormalizer("Roblox", NewRecencyClassifier(4))
}

func TestNormalizer_NewsRecency(t *testing.T) {
	n := newTestNormalizer()
	item := search.RawItem{
		Provider: "test",
		News: rawEntries(t,
			search.NewsResult{Title: "Old", Link: "https://n.test/old", Source: "Paper", Date: "10 hours ago", Snippet: "s"},
			search.NewsResult{Title: "Fresh", Link: "https://n.test/fresh", Source: "Paper", Date: "2 hours ago", Snippet: "s"},
		),
	}

	got := n.Normalize(item)
	want := []Article{{
		Title:     "Fresh",
		URL:       "https://n.test/fresh",
		Source:    "Paper",
		Published: PublishedAt("2 hours ago"),
		Snippet:   "s",
		Category:  CategoryNews,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizer_NewsPlaceholders(t *testing.T) {
	n := newTestNormalizer()
	item := search.RawItem{News: rawEntries(t, `{"date": "15 minutes ago"}`)}

	got := n.Normalize(item)
	if len(got) != 1 {
		t.Fatalf("Normalize() returned %d articles, want 1", len(got))
	}
	a := got[0]
	if a.Title != "Untitled" || a.URL != "#" || a.Source != "Unknown source" || a.Snippet != "No description available" {
		t.Errorf("placeholders not applied: %+v", a)
	}
	if a.HasLink() {
		t.Error("HasLink() = true for placeholder URL")
	}
}

func TestNormalizer_Web(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name    string
		entry   search.WebResult
		include bool
	}{
		{
			name:    "topic in title, freshness in content",
			entry:   search.WebResult{Title: "Roblox outage", URL: "https://www.example.com/a", Content: "This just happened today"},
			include: true,
		},
		{
			name:    "topic in content only",
			entry:   search.WebResult{Title: "Outage", URL: "https://example.com/b", Content: "Breaking: ROBLOX servers down"},
			include: true,
		},
		{
			name:    "no freshness keyword",
			entry:   search.WebResult{Title: "Roblox history", URL: "https://example.com/c", Content: "A look back at Roblox in 2006"},
			include: false,
		},
		{
			name:    "freshness keyword only in title",
			entry:   search.WebResult{Title: "Roblox news today", URL: "https://example.com/d", Content: "An overview"},
			include: false,
		},
		{
			name:    "no topic",
			entry:   search.WebResult{Title: "Minecraft update", URL: "https://example.com/e", Content: "Released today"},
			include: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(search.RawItem{Web: rawEntries(t, tt.entry)})
			if (len(got) == 1) != tt.include {
				t.Fatalf("Normalize() returned %d articles, include = %v", len(got), tt.include)
			}
		})
	}
}

func TestNormalizer_WebFields(t *testing.T) {
	n := newTestNormalizer()
	content := "Roblox announced new features today. " + strings.Repeat("x", 300)
	got := n.Normalize(search.RawItem{Web: rawEntries(t,
		search.WebResult{Title: "Roblox update", URL: "https://www.example.com/path/page", Content: content},
		search.WebResult{Title: "Roblox relative", URL: "not-a-url", Content: "just in"},
	)})
	if len(got) != 2 {
		t.Fatalf("Normalize() returned %d articles, want 2", len(got))
	}

	a := got[0]
	if a.Category != CategoryWeb {
		t.Errorf("Category = %q, want %q", a.Category, CategoryWeb)
	}
	if a.Source != "www.example.com" {
		t.Errorf("Source = %q, want www.example.com", a.Source)
	}
	if !a.Published.Qualitative || a.Published.String() != "Recently" {
		t.Errorf("Published = %+v, want the qualitative sentinel", a.Published)
	}
	if want := content[:200] + "..."; a.Snippet != want {
		t.Errorf("Snippet = %q, want %q", a.Snippet, want)
	}

	if got[1].Source != "Unknown source" {
		t.Errorf("Source for relative URL = %q, want Unknown source", got[1].Source)
	}
}

func TestNormalizer_MalformedEntriesSkipped(t *testing.T) {
	n := newTestNormalizer()
	item := search.RawItem{
		Provider: "test",
		News: rawEntries(t,
			`42`,
			`{"title": 5, "date": "1 hour ago"}`,
			search.NewsResult{Title: "Good", Link: "https://n.test/good", Date: "1 hour ago"},
		),
		Web: rawEntries(t,
			`"just a string"`,
			search.WebResult{Title: "Roblox", URL: "https://w.test/good", Content: "new today"},
		),
	}

	got := urls(n.Normalize(item))
	want := []string{"https://n.test/good", "https://w.test/good"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizer_NormalizeAllOrder(t *testing.T) {
	n := newTestNormalizer()
	items := []search.RawItem{
		{
			News: rawEntries(t, search.NewsResult{Link: "https://a.test/1", Date: "1 hour ago"}),
			Web:  rawEntries(t, search.WebResult{Title: "Roblox", URL: "https://a.test/2", Content: "breaking"}),
		},
		{},
		{
			News: rawEntries(t, search.NewsResult{Link: "https://b.test/3", Date: "2 minutes ago"}),
		},
	}

	got := urls(n.NormalizeAll(items))
	want := []string{"https://a.test/1", "https://a.test/2", "https://b.test/3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NormalizeAll() mismatch (-want +got):\n%s", diff)
	}
}
