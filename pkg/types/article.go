// Copyright the finance-papers authors, 2025. All rights reserved.

// Package types defines shared data structures for the finance-papers pipeline:
// article and working-paper rows, the journal registry, ranking entries, and
// stage configuration.
package types

import (
	"encoding/json"
	"time"
)

// Author is one entry in an article's denormalized author list, stored as
// JSON in the authors_json column.
type Author struct {
	// Name is the author display name as returned by OpenAlex.
	Name string `json:"name"`

	// ORCID is the author's ORCID URL, empty when OpenAlex has none.
	ORCID string `json:"orcid,omitempty"`

	// Institutions lists institution display names at publication time.
	Institutions []string `json:"institutions,omitempty"`
}

// Article is one row of an openalex_articles table. Rows are created by a
// fetch and never updated in place; re-fetching skips duplicates by
// OpenAlexID.
type Article struct {
	// RowID is the database-assigned primary key, zero before insertion.
	RowID int64 `json:"-"`

	// OpenAlexID is the natural key (e.g. "https://openalex.org/W2741809807").
	OpenAlexID string `json:"openalex_id"`

	Title           string   `json:"title"`
	PublicationDate string   `json:"publication_date"`
	DOI             string   `json:"doi"`
	CitedByCount    int      `json:"cited_by_count"`
	Abstract        string   `json:"abstract,omitempty"`
	Authors         []Author `json:"authors"`

	// ScrapedAt is when the row was written, RFC 3339.
	ScrapedAt string `json:"scraped_at,omitempty"`
}

// AuthorsJSON serializes the author list for the authors_json column.
func (a *Article) AuthorsJSON() string {
	data, err := json.Marshal(a.Authors)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// ParseAuthors decodes an authors_json column value. A malformed value
// yields an empty list rather than an error; callers treat it as "no
// authors" the same way they treat an empty list.
func ParseAuthors(authorsJSON string) []Author {
	var authors []Author
	if err := json.Unmarshal([]byte(authorsJSON), &authors); err != nil {
		return nil
	}
	return authors
}

// WorkingPaper is one row of a working_papers table: a non-journal work
// (preprint, report, dissertation) attributed to a single tracked author.
type WorkingPaper struct {
	RowID int64 `json:"-"`

	// OpenAlexID is the natural key.
	OpenAlexID string `json:"openalex_id"`

	Title           string `json:"title"`
	PublicationDate string `json:"publication_date"`
	DOI             string `json:"doi"`

	// AuthorName is the tracked author this paper was fetched for, not
	// necessarily the full author list.
	AuthorName        string `json:"author_name"`
	AuthorAffiliation string `json:"author_affiliation,omitempty"`

	// Type is the OpenAlex work type (e.g. "preprint", "report").
	Type string `json:"type"`

	// PrimaryLocation is the display name of the hosting source (e.g. "SSRN").
	PrimaryLocation string `json:"primary_location"`

	CitedByCount int    `json:"cited_by_count"`
	ScrapedAt    string `json:"scraped_at,omitempty"`
}

// ScrapedArticle is one row extracted from a publisher issue page or RSS
// feed. Fields are positional text as they appear on the page; Link is the
// natural key for duplicate checking.
type ScrapedArticle struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Authors  string `json:"authors"`
	Abstract string `json:"abstract"`
	Volume   string `json:"volume"`
	Issue    string `json:"issue"`

	// Link is the resolved article URL (Wiley DOI page for JF, feed link
	// for RSS sources). Empty when the page carried no recognizable link.
	Link string `json:"link"`

	// AllLinks preserves every href found in the article container.
	AllLinks []string `json:"all_links,omitempty"`
}

// Timestamp returns t formatted the way scraped_at columns store it.
func Timestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
