// Copyright the finance-papers authors, 2025. All rights reserved.

package types

// RankingEntry is one row of an author ranking: papers counted across the
// queried databases with citation totals and the author's most recent paper.
type RankingEntry struct {
	Rank   int    `json:"rank"`
	Author string `json:"author"`

	// Papers is the number of distinct article rows whose author list
	// contains this name.
	Papers int `json:"papers"`

	// Citations is the sum of cited_by_count over those rows.
	Citations int `json:"citations"`

	// LatestDate and LatestTitle describe the author's most recent paper
	// by publication date.
	LatestDate  string `json:"latest_date,omitempty"`
	LatestTitle string `json:"latest_title,omitempty"`

	// Affiliation is set for working-paper rankings only.
	Affiliation string `json:"affiliation,omitempty"`

	// PapersByYear maps publication year to paper count (website export).
	PapersByYear map[int]int `json:"papers_by_year,omitempty"`
}

// AgendaResult is the cached classification output for a single author,
// written once per run and not synchronized with later article changes.
type AgendaResult struct {
	Author              string        `json:"author"`
	PaperCount          int           `json:"paper_count"`
	PapersWithAbstracts int           `json:"papers_with_abstracts"`
	TotalCitations      int           `json:"total_citations"`
	AvgCitations        float64       `json:"avg_citations"`
	MaxCitations        int           `json:"max_citations"`
	Themes              []string      `json:"themes"`
	Keywords            []string      `json:"keywords"`
	RecentPapers        []AgendaPaper `json:"recent_papers"`
}

// AgendaPaper is a compact paper reference inside an AgendaResult.
type AgendaPaper struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	Citations int    `json:"citations"`
}

// AuthorAgenda is one entry of a batch agenda extraction keyed by author name.
type AuthorAgenda struct {
	ResearchAgenda      string `json:"research_agenda"`
	PaperCount          int    `json:"paper_count"`
	TotalCitations      int    `json:"total_citations"`
	PapersWithAbstracts int    `json:"papers_with_abstracts"`
	LatestPaper         string `json:"latest_paper"`
}
