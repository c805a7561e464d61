// Copyright the finance-papers authors, 2025. All rights reserved.

// Package scrape extracts article listings from publisher issue pages and
// RSS feeds.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/anbrog/finance-papers/internal/httputil"
	"github.com/anbrog/finance-papers/pkg/types"
)

// Issue page and resolved-link bases. Vars so tests can point at httptest.
var (
	JFIssueBase = "https://afajof.org/issue"
	wileyDOIURL = "https://onlinelibrary.wiley.com/doi/"
)

// Wiley article hrefs on afajof.org wrap the DOI in a javascript call; the
// DOI sits between the first pair of single quotes.
var singleQuoted = regexp.MustCompile(`'([^']+)'`)

// Scraper fetches publisher pages with polite pacing between requests.
type Scraper struct {
	HTTP      *http.Client
	UserAgent string

	// Delay is slept between successive issue fetches.
	Delay time.Duration
}

// FetchIssue downloads one Journal of Finance issue page and returns its
// article listings. Anti-bot responses that survive header rotation come
// back as an empty list, not an error.
func (s *Scraper) FetchIssue(ctx context.Context, volume, issue int) ([]types.ScrapedArticle, error) {
	url := fmt.Sprintf("%s/volume-%d-issue-%d/", JFIssueBase, volume, issue)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, s.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching issue page %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	return ParseIssuePage(resp.Body, volume, issue)
}

// FetchIssues walks the given issues of one volume, pausing Delay between
// pages, and concatenates the results. Issues that fail to parse are
// reported to w and skipped.
func (s *Scraper) FetchIssues(ctx context.Context, volume int, issues []int, w io.Writer) ([]types.ScrapedArticle, error) {
	var all []types.ScrapedArticle
	for i, issue := range issues {
		if i > 0 && s.Delay > 0 {
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			case <-time.After(s.Delay):
			}
		}

		articles, err := s.FetchIssue(ctx, volume, issue)
		if err != nil {
			if w != nil {
				fmt.Fprintf(w, "  volume %d issue %d failed: %v\n", volume, issue, err)
			}
			continue
		}
		if w != nil {
			fmt.Fprintf(w, "  volume %d issue %d: %d articles\n", volume, issue, len(articles))
		}
		all = append(all, articles...)
	}
	return all, nil
}

// ParseIssuePage extracts article listings from issue page HTML. Each
// article container carries its fields as positional paragraphs: title,
// date, authors, abstract.
func ParseIssuePage(r io.Reader, volume, issue int) ([]types.ScrapedArticle, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing issue page: %w", err)
	}

	var articles []types.ScrapedArticle
	doc.Find(".article-result-container").Each(func(_ int, sel *goquery.Selection) {
		a := types.ScrapedArticle{
			Volume: strconv.Itoa(volume),
			Issue:  strconv.Itoa(issue),
		}

		sel.Find("p").Each(func(i int, p *goquery.Selection) {
			text := strings.TrimSpace(p.Text())
			switch i {
			case 0:
				a.Title = text
			case 1:
				a.Date = text
			case 2:
				a.Authors = text
			case 3:
				a.Abstract = text
			}
		})

		sel.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
			href, _ := link.Attr("href")
			a.AllLinks = append(a.AllLinks, href)
			if a.Link == "" {
				a.Link = resolveWileyLink(href)
			}
		})

		if a.Title != "" {
			articles = append(articles, a)
		}
	})
	return articles, nil
}

// resolveWileyLink turns a DOI-bearing href into the Wiley article URL, or
// returns empty for hrefs that do not reference the journal.
func resolveWileyLink(href string) string {
	if !strings.Contains(href, "jofi") {
		return ""
	}
	if m := singleQuoted.FindStringSubmatch(href); m != nil {
		return wileyDOIURL + strings.TrimPrefix(m[1], "https://doi.org/")
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return ""
}
