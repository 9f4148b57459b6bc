package render

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText derives a text/plain alternative from a rendered digest
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var sb strings.Builder
	doc.Find(".header p, .news-item, .footer p").Each(func(i int, s *goquery.Selection) {
		if s.HasClass("news-item") {
			sb.WriteString("\n")
			s.Find(".title, .meta, .snippet, p").Each(func(j int, part *goquery.Selection) {
				writeLine(&sb, part.Text())
			})
			if href, ok := s.Find(".title a").Attr("href"); ok {
				writeLine(&sb, href)
			}
			return
		}
		writeLine(&sb, s.Text())
	})

	return strings.TrimSpace(sb.String()), nil
}

func writeLine(sb *strings.Builder, text string) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return
	}
	sb.WriteString(text)
	sb.WriteString("\n")
}
