// internal/engine/metadata/extractor.go
package metadata

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Metadata is the page-level information published alongside the article
type Metadata struct {
	Title         string
	Description   string
	Canonical     string
	PublishedTime string
}

// publishedKeys are checked in order for the article date
var publishedKeys = []string{
	"article:published_time",
	"og:published_time",
	"datePublished",
	"date",
}

// Extract reads title, description, canonical link and publish time from doc
func Extract(doc *goquery.Document) Metadata {
	var md Metadata
	if doc == nil {
		return md
	}

	md.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		md.Canonical = strings.TrimSpace(href)
	}

	meta := make(map[string]string)
	doc.Find("meta").Each(func(i int, sel *goquery.Selection) {
		content, ok := sel.Attr("content")
		if !ok {
			return
		}
		for _, attr := range []string{"name", "property", "itemprop"} {
			if key, exists := sel.Attr(attr); exists {
				if _, seen := meta[key]; !seen {
					meta[key] = strings.TrimSpace(content)
				}
			}
		}
	})

	md.Description = meta["description"]
	if md.Description == "" {
		md.Description = meta["og:description"]
	}
	if md.Title == "" {
		md.Title = meta["og:title"]
	}

	for _, key := range publishedKeys {
		if v := meta[key]; v != "" {
			md.PublishedTime = v
			break
		}
	}
	if md.PublishedTime == "" {
		if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
			md.PublishedTime = strings.TrimSpace(v)
		}
	}

	return md
}

// ArticleDate returns the publish date as YYYY-MM-DD, or "" when it is
// missing or unparseable
func (m Metadata) ArticleDate() string {
	if m.PublishedTime == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, m.PublishedTime); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
