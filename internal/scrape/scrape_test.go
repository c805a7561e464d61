// Copyright the finance-papers authors, 2025. All rights reserved.

package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anbrog/finance-papers/pkg/types"
)

const issuePageHTML = `<!DOCTYPE html>
<html><body>
<div class="issue-listing">
  <div class="article-result-container">
    <p>A Theory of Dividend Smoothing</p>
    <p>June 2023</p>
    <p>JANE DOE and BOB ROE</p>
    <p>We show that dividends are sticky because managers smooth payouts.</p>
    <a href="javascript:void(window.open('https://doi.org/10.1111/jofi.13001','_blank'))">Full Article</a>
    <a href="/issue/volume-78-issue-3/">Back to Issue</a>
  </div>
  <div class="article-result-container">
    <p>Momentum Crashes Revisited</p>
    <p>June 2023</p>
    <p>CARLA SMITH</p>
    <p>Momentum strategies crash in panic states.</p>
  </div>
  <div class="article-result-container">
    <p></p>
  </div>
</div>
</body></html>`

func TestParseIssuePage(t *testing.T) {
	articles, err := ParseIssuePage(strings.NewReader(issuePageHTML), 78, 3)
	if err != nil {
		t.Fatalf("ParseIssuePage: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2 (empty container dropped)", len(articles))
	}

	a := articles[0]
	if a.Title != "A Theory of Dividend Smoothing" {
		t.Errorf("Title = %q", a.Title)
	}
	if a.Date != "June 2023" {
		t.Errorf("Date = %q", a.Date)
	}
	if a.Authors != "JANE DOE and BOB ROE" {
		t.Errorf("Authors = %q", a.Authors)
	}
	if !strings.Contains(a.Abstract, "dividends are sticky") {
		t.Errorf("Abstract = %q", a.Abstract)
	}
	if a.Volume != "78" || a.Issue != "3" {
		t.Errorf("Volume/Issue = %s/%s", a.Volume, a.Issue)
	}
	if a.Link != "https://onlinelibrary.wiley.com/doi/10.1111/jofi.13001" {
		t.Errorf("Link = %q, want resolved Wiley URL", a.Link)
	}
	if len(a.AllLinks) != 2 {
		t.Errorf("AllLinks = %v, want both hrefs preserved", a.AllLinks)
	}

	if articles[1].Link != "" {
		t.Errorf("linkless article Link = %q, want empty", articles[1].Link)
	}
}

func TestResolveWileyLink(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{
			"javascript:void(window.open('https://doi.org/10.1111/jofi.13001','_blank'))",
			"https://onlinelibrary.wiley.com/doi/10.1111/jofi.13001",
		},
		{"https://onlinelibrary.wiley.com/doi/10.1111/jofi.12999", "https://onlinelibrary.wiley.com/doi/10.1111/jofi.12999"},
		{"/issue/volume-78-issue-3/", ""},
		{"https://example.com/other-journal", ""},
	}
	for _, tt := range tests {
		if got := resolveWileyLink(tt.href); got != tt.want {
			t.Errorf("resolveWileyLink(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestFetchIssue(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volume-78-issue-3/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, issuePageHTML)
	}))
	defer ts.Close()

	old := JFIssueBase
	JFIssueBase = ts.URL
	defer func() { JFIssueBase = old }()

	s := &Scraper{HTTP: ts.Client(), UserAgent: "finance-papers/0.1"}
	articles, err := s.FetchIssue(context.Background(), 78, 3)
	if err != nil {
		t.Fatalf("FetchIssue: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("len(articles) = %d, want 2", len(articles))
	}
}

func TestFetchIssueNotFoundIsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	old := JFIssueBase
	JFIssueBase = ts.URL
	defer func() { JFIssueBase = old }()

	s := &Scraper{HTTP: ts.Client()}
	articles, err := s.FetchIssue(context.Background(), 99, 9)
	if err != nil {
		t.Fatalf("FetchIssue: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("len(articles) = %d, want 0 for missing issue", len(articles))
	}
}

// --- QJE feed ---

const qjeFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
  <title>The Quarterly Journal of Economics Advance Access</title>
  <item>
    <title>Labor Market Power and Wage Inequality</title>
    <link>https://academic.oup.com/qje/advance-article/doi/10.1093/qje/qjad001</link>
    <description>A study of monopsony by David Berger, Kyle Herkenhoff. Published ahead of print.</description>
    <pubDate>Mon, 06 Jan 2025 00:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Untitled Methods Note</title>
    <link>https://academic.oup.com/qje/advance-article/doi/10.1093/qje/qjad002</link>
    <description>No byline here.</description>
  </item>
</channel></rss>`

func TestFetchQJE(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, qjeFeedXML)
	}))
	defer ts.Close()

	old := QJEFeedURL
	QJEFeedURL = ts.URL
	defer func() { QJEFeedURL = old }()

	s := &Scraper{HTTP: ts.Client()}
	articles, err := s.FetchQJE(context.Background())
	if err != nil {
		t.Fatalf("FetchQJE: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(articles))
	}

	a := articles[0]
	if a.Title != "Labor Market Power and Wage Inequality" {
		t.Errorf("Title = %q", a.Title)
	}
	if a.Authors != "David Berger, Kyle Herkenhoff" {
		t.Errorf("Authors = %q", a.Authors)
	}
	if a.Volume != "forthcoming" || a.Issue != "forthcoming" {
		t.Errorf("Volume/Issue = %s/%s, want forthcoming", a.Volume, a.Issue)
	}
	if a.Date != "2025-01-06" {
		t.Errorf("Date = %q, want 2025-01-06", a.Date)
	}
	if articles[1].Authors != "" {
		t.Errorf("Authors = %q, want empty when no byline", articles[1].Authors)
	}
}

func TestParseByline(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"A study of monopsony by David Berger, Kyle Herkenhoff. More text.", "David Berger, Kyle Herkenhoff"},
		{"No byline here", ""},
		{"Standby power consumption in households", ""},
		{"<p>Written by Jane Doe</p>", "Jane Doe"},
	}
	for _, tt := range tests {
		if got := parseByline(tt.desc); got != tt.want {
			t.Errorf("parseByline(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}
}

// --- CSV append ---

func TestAppendCSVDeduplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles_jf.csv")

	batch := []types.ScrapedArticle{
		{Title: "A", Date: "June 2023", Link: "https://onlinelibrary.wiley.com/doi/10.1111/jofi.13001",
			Volume: "78", Issue: "3"},
		{Title: "B", Date: "June 2023", Volume: "78", Issue: "3"},
	}

	added, err := AppendCSV(path, batch)
	if err != nil {
		t.Fatalf("AppendCSV: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	// Re-appending the same batch plus one new row adds only the new row.
	batch = append(batch, types.ScrapedArticle{
		Title: "C", Link: "https://onlinelibrary.wiley.com/doi/10.1111/jofi.13002"})
	added, err = AppendCSV(path, batch)
	if err != nil {
		t.Fatalf("second AppendCSV: %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Errorf("file has %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	if lines[0] != "Title,Date,Authors,Abstract,Volume,Issue,Link" {
		t.Errorf("header = %q", lines[0])
	}
}
