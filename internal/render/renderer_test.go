package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/amityadav/newsdigest/internal/core"
)

var generatedAt = time.Date(2025, 3, 4, 9, 30, 0, 0, time.FixedZone("IST", 5*60*60+30*60))

func mustRender(t *testing.T, articles []core.Article) *goquery.Document {
	t.Helper()
	r, err := NewRenderer("Roblox", 4)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	html, err := r.Render(articles, generatedAt)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	return doc
}

func TestRender_NoArticles(t *testing.T) {
	doc := mustRender(t, nil)

	if n := doc.Find(".no-news").Length(); n != 1 {
		t.Errorf("no results blocks = %d, want 1", n)
	}
	if n := doc.Find(".news-item.article").Length(); n != 0 {
		t.Errorf("article blocks = %d, want 0", n)
	}
	if got := doc.Find(".header .total").Text(); got != "0" {
		t.Errorf("total = %q, want 0", got)
	}
}

func TestRender_Header(t *testing.T) {
	doc := mustRender(t, nil)

	if got, want := doc.Find(".generated-at").Text(), "2025-03-04 04:00:00 UTC"; got != want {
		t.Errorf("generated-at = %q, want %q", got, want)
	}
	if !strings.Contains(doc.Find(".header").Text(), "last 4 hours") {
		t.Error("header does not state the period")
	}
	if got := doc.Find("h1").Text(); got != "Roblox News Digest" {
		t.Errorf("h1 = %q", got)
	}
}

func TestRender_IndexedBlocks(t *testing.T) {
	var articles []core.Article
	for i := 0; i < 5; i++ {
		articles = append(articles, core.Article{
			Title:     fmt.Sprintf("Story %d", i+1),
			URL:       fmt.Sprintf("https://news.test/%d", i+1),
			Source:    "Wire",
			Published: core.PublishedAt("1 hour ago"),
			Snippet:   "snippet",
			Category:  core.CategoryNews,
		})
	}
	doc := mustRender(t, articles)

	blocks := doc.Find(".news-item.article")
	if blocks.Length() != 5 {
		t.Fatalf("article blocks = %d, want 5", blocks.Length())
	}
	blocks.Each(func(i int, s *goquery.Selection) {
		if got, want := s.Find(".index").Text(), fmt.Sprintf("#%d", i+1); got != want {
			t.Errorf("block %d index = %q, want %q", i, got, want)
		}
		if got, want := s.Find(".title a").Text(), fmt.Sprintf("Story %d", i+1); got != want {
			t.Errorf("block %d title = %q, want %q", i, got, want)
		}
		if href, _ := s.Find(".title a").Attr("href"); href != fmt.Sprintf("https://news.test/%d", i+1) {
			t.Errorf("block %d href = %q", i, href)
		}
	})
	if doc.Find(".no-news").Length() != 0 {
		t.Error("no results block rendered alongside articles")
	}
	if got := doc.Find(".header .total").Text(); got != "5" {
		t.Errorf("total = %q, want 5", got)
	}
}

func TestRender_PlaceholderLinkNotClickable(t *testing.T) {
	doc := mustRender(t, []core.Article{{
		Title:     "No link",
		URL:       core.NoLink,
		Source:    "example.com",
		Published: core.PublishedRecently(),
		Category:  core.CategoryWeb,
	}})

	block := doc.Find(".news-item.article")
	if block.Find(".title a").Length() != 0 {
		t.Error("placeholder URL rendered as a link")
	}
	if got := block.Find(".title span").Text(); got != "No link" {
		t.Errorf("title = %q", got)
	}
	if got := block.Find(".published").Text(); got != "Recently" {
		t.Errorf("published = %q, want Recently", got)
	}
}

func TestRender_EscapesProviderText(t *testing.T) {
	hostile := `</div><script>alert("x")</script><div class="news-item article">`
	doc := mustRender(t, []core.Article{{
		Title:     hostile,
		URL:       `javascript:alert(1)`,
		Source:    "<b>bold</b>",
		Published: core.PublishedAt("1 hour ago"),
		Snippet:   hostile,
		Category:  core.CategoryNews,
	}})

	if n := doc.Find(".news-item.article").Length(); n != 1 {
		t.Fatalf("article blocks = %d, want 1", n)
	}
	if doc.Find("script").Length() != 0 {
		t.Error("provider text injected a script element")
	}
	if doc.Find(".source b").Length() != 0 {
		t.Error("provider text injected markup into source")
	}
	if got := doc.Find(".snippet").Text(); got != hostile {
		t.Errorf("snippet text = %q, want literal %q", got, hostile)
	}
	if href, _ := doc.Find(".title a").Attr("href"); strings.HasPrefix(href, "javascript:") {
		t.Errorf("unsafe href kept: %q", href)
	}
}

func TestPlainText(t *testing.T) {
	r, err := NewRenderer("Roblox", 4)
	if err != nil {
		t.Fatal(err)
	}
	html, err := r.Render([]core.Article{{
		Title:     "Big update",
		URL:       "https://news.test/1",
		Source:    "Wire",
		Published: core.PublishedAt("2 hours ago"),
		Snippet:   "Details &amp; more",
		Category:  core.CategoryNews,
	}}, generatedAt)
	if err != nil {
		t.Fatal(err)
	}

	text, err := PlainText(html)
	if err != nil {
		t.Fatalf("PlainText failed: %v", err)
	}
	for _, want := range []string{"Big update", "https://news.test/1", "Source: Wire", "2 hours ago", "Details &amp; more", "2025-03-04 04:00:00 UTC"} {
		if !strings.Contains(text, want) {
			t.Errorf("plain text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "<") {
		t.Errorf("plain text contains markup:\n%s", text)
	}
}

func TestRender_FooterCadence(t *testing.T) {
	doc := mustRender(t, nil)

	if got, want := doc.Find(".footer .cadence").Text(), "Next check in 4 hours"; got != want {
		t.Errorf("cadence = %q, want %q", got, want)
	}
}
