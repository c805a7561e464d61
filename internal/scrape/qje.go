// Copyright the finance-papers authors, 2025. All rights reserved.

package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/anbrog/finance-papers/pkg/types"
)

// QJEFeedURL is the Quarterly Journal of Economics advance-article RSS
// feed. OUP blocks direct page scraping, so the feed is the data source.
var QJEFeedURL = "https://academic.oup.com/rss/site_5504/3365.xml"

// FetchQJE reads the QJE RSS feed and returns its items as article
// listings. Feed items predate issue assignment, so volume and issue are
// recorded as "forthcoming".
func (s *Scraper) FetchQJE(ctx context.Context) ([]types.ScrapedArticle, error) {
	fp := gofeed.NewParser()
	fp.Client = s.HTTP
	if s.UserAgent != "" {
		fp.UserAgent = s.UserAgent
	}

	feed, err := fp.ParseURLWithContext(QJEFeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching QJE feed: %w", err)
	}

	articles := make([]types.ScrapedArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := types.ScrapedArticle{
			Title:   strings.TrimSpace(item.Title),
			Link:    item.Link,
			Volume:  "forthcoming",
			Issue:   "forthcoming",
			Authors: parseByline(item.Description),
		}
		if item.PublishedParsed != nil {
			a.Date = item.PublishedParsed.Format("2006-01-02")
		} else {
			a.Date = item.Published
		}
		if a.Title != "" {
			articles = append(articles, a)
		}
	}
	return articles, nil
}

// parseByline pulls an author list out of a feed item description of the
// form "... by First Last, First Last. ...". Returns empty when no byline
// is recognizable.
func parseByline(description string) string {
	lower := strings.ToLower(description)
	idx := strings.Index(lower, "by ")
	if idx < 0 {
		return ""
	}
	// Require a word boundary so "standby " does not match.
	if idx > 0 && lower[idx-1] != ' ' && lower[idx-1] != '>' && lower[idx-1] != '\n' {
		return ""
	}

	rest := description[idx+len("by "):]
	for _, stop := range []string{".", "<", "\n"} {
		if i := strings.Index(rest, stop); i >= 0 {
			rest = rest[:i]
		}
	}
	return strings.TrimSpace(rest)
}
