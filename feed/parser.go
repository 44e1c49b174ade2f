package feed

import (
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// DefaultFetchLimit caps how many entries one ingestion pass takes from a feed.
const DefaultFetchLimit = 10

// Generic tag removal, not full HTML parsing. Good enough to keep markup out
// of the scored body text.
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Article is one normalized feed entry ready for the ingestion pipeline.
type Article struct {
	Title     string
	Content   string
	Source    string
	SourceURL string
	Published time.Time
}

// Parse turns a raw RSS or Atom document into normalized articles, newest
// first as given by the source, at most limit entries. Malformed or empty
// input yields no articles, never an error: a bad feed must not take down an
// ingestion pass.
func Parse(raw []byte, sourceName, sourceURL string, limit int) []Article {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}

	parsed, err := gofeed.NewParser().ParseString(string(raw))
	if err != nil {
		log.Printf("Failed to parse feed from %s: %v", sourceName, err)
		return nil
	}

	items := parsed.Items
	if len(items) > limit {
		items = items[:limit]
	}

	now := time.Now().UTC()
	articles := make([]Article, 0, len(items))

	for _, item := range items {
		// Full content wins over the summary/description field. gofeed folds
		// RSS descriptions and Atom summaries into Description.
		content := item.Content
		if content == "" {
			content = item.Description
		}
		content = strings.TrimSpace(tagPattern.ReplaceAllString(content, ""))

		published := now
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		title := item.Title
		if title == "" {
			title = "No Title"
		}

		link := item.Link
		if link == "" {
			link = sourceURL
		}

		articles = append(articles, Article{
			Title:     title,
			Content:   content,
			Source:    sourceName,
			SourceURL: link,
			Published: published,
		})
	}

	return articles
}
