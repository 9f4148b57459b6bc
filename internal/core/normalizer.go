package core

import (
	"encoding/json"
	"strings"

	"github.com/amityadav/newsdigest/internal/feed"
	"github.com/amityadav/newsdigest/internal/search"
	log "github.com/sirupsen/logrus"
)

// Normalizer converts raw provider items into candidate articles
type Normalizer struct {
	Topic      string
	Classifier RecencyClassifier
}

// NewNormalizer creates a normalizer for one topic
func NewNormalizer(topic string, classifier RecencyClassifier) *Normalizer {
	return &Normalizer{
		Topic:      topic,
		Classifier: classifier,
	}
}

// NormalizeAll normalizes items in order, news entries before web entries
// within each item
func (n *Normalizer) NormalizeAll(items []search.RawItem) []Article {
	var articles []Article
	for _, item := range items {
		articles = append(articles, n.Normalize(item)...)
	}
	return articles
}

// Normalize returns the candidates found in one raw item. Entries that fail
// to decode are logged and skipped.
func (n *Normalizer) Normalize(item search.RawItem) []Article {
	var articles []Article

	for i, raw := range item.News {
		var r search.NewsResult
		if err := json.Unmarshal(raw, &r); err != nil {
			log.WithFields(log.Fields{
				"provider": item.Provider,
				"shape":    "news",
				"index":    i,
			}).Warnf("[Normalizer] Skipping malformed entry: %v", err)
			continue
		}
		if a, ok := n.fromNews(r); ok {
			articles = append(articles, a)
		}
	}

	for i, raw := range item.Web {
		var r search.WebResult
		if err := json.Unmarshal(raw, &r); err != nil {
			log.WithFields(log.Fields{
				"provider": item.Provider,
				"shape":    "web",
				"index":    i,
			}).Warnf("[Normalizer] Skipping malformed entry: %v", err)
			continue
		}
		if a, ok := n.fromWeb(r); ok {
			articles = append(articles, a)
		}
	}

	return articles
}

func (n *Normalizer) fromNews(r search.NewsResult) (Article, bool) {
	if !n.Classifier.IsRecent(r.Date) {
		return Article{}, false
	}
	return Article{
		Title:     orDefault(r.Title, feed.UntitledTitle),
		URL:       orDefault(r.Link, NoLink),
		Source:    orDefault(r.Source, feed.UnknownSource),
		Published: PublishedAt(r.Date),
		Snippet:   truncateSnippet(orDefault(r.Snippet, feed.NoDescription), feed.MaxSnippetLength),
		Category:  CategoryNews,
	}, true
}

func (n *Normalizer) fromWeb(r search.WebResult) (Article, bool) {
	content := strings.ToLower(r.Content)
	if !strings.Contains(content+strings.ToLower(r.Title), strings.ToLower(n.Topic)) {
		return Article{}, false
	}
	if !containsAny(content, feed.FreshnessKeywords) {
		return Article{}, false
	}
	return Article{
		Title:     orDefault(r.Title, feed.UntitledTitle),
		URL:       orDefault(r.URL, NoLink),
		Source:    extractDomain(r.URL),
		Published: PublishedRecently(),
		Snippet:   truncateSnippet(orDefault(r.Content, feed.NoDescription), feed.MaxSnippetLength),
		Category:  CategoryWeb,
	}, true
}
