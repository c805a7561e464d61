// Copyright the finance-papers authors, 2025. All rights reserved.

// Package report renders rankings and article listings as tables, CSV
// files, and website JSON exports.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/anbrog/finance-papers/pkg/types"
)

// FormatRankingTable writes a ranking as a human-readable table to w.
func FormatRankingTable(entries []types.RankingEntry, w io.Writer) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No authors found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-30s  %-6s  %-9s  %-10s  %s\n",
		"Rank", "Author", "Papers", "Citations", "Latest", "Latest Title")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, e := range entries {
		fmt.Fprintf(w, "%-4d  %-30s  %-6d  %-9d  %-10s  %s\n",
			e.Rank, truncate(e.Author, 30), e.Papers, e.Citations,
			e.LatestDate, truncate(e.LatestTitle, 50))
	}

	fmt.Fprintf(w, "\n%d authors\n", len(entries))
}

// FormatWorkingPaperTable writes tracked authors' working papers to w,
// grouped under per-author headings.
func FormatWorkingPaperTable(papers []types.WorkingPaper, w io.Writer) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No working papers found.")
		return
	}

	var current string
	for _, p := range papers {
		if p.AuthorName != current {
			current = p.AuthorName
			fmt.Fprintf(w, "\n%s", current)
			if p.AuthorAffiliation != "" {
				fmt.Fprintf(w, " (%s)", p.AuthorAffiliation)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, strings.Repeat("-", 80))
		}
		fmt.Fprintf(w, "  %-10s  %-9s  %s\n", p.PublicationDate, p.Type, truncate(p.Title, 55))
		if p.PrimaryLocation != "" {
			fmt.Fprintf(w, "  %-10s  %s\n", "", p.PrimaryLocation)
		}
	}
	fmt.Fprintf(w, "\n%d working papers\n", len(papers))
}

// FormatArticleList writes articles as a compact listing to w.
func FormatArticleList(articles []types.Article, w io.Writer) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles found.")
		return
	}

	for i, a := range articles {
		fmt.Fprintf(w, "%3d. %s\n", i+1, a.Title)
		fmt.Fprintf(w, "     %s  %s  cited %d\n", a.PublicationDate, a.OpenAlexID, a.CitedByCount)
		if names := authorNames(a.Authors); names != "" {
			fmt.Fprintf(w, "     %s\n", names)
		}
	}
	fmt.Fprintf(w, "\n%d articles\n", len(articles))
}

// FormatArticle writes one article in full, including its abstract, to w.
func FormatArticle(a *types.Article, w io.Writer) {
	fmt.Fprintln(w, a.Title)
	fmt.Fprintln(w, strings.Repeat("=", min(len(a.Title), 110)))
	fmt.Fprintf(w, "Published:  %s\n", a.PublicationDate)
	fmt.Fprintf(w, "DOI:        %s\n", a.DOI)
	fmt.Fprintf(w, "OpenAlex:   %s\n", a.OpenAlexID)
	fmt.Fprintf(w, "Citations:  %d\n", a.CitedByCount)
	if names := authorNames(a.Authors); names != "" {
		fmt.Fprintf(w, "Authors:    %s\n", names)
	}
	if a.Abstract != "" {
		fmt.Fprintf(w, "\n%s\n", a.Abstract)
	}
}

// WriteRankingJSON writes entries as indented JSON to w.
func WriteRankingJSON(entries []types.RankingEntry, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func authorNames(authors []types.Author) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, "; ")
}

// truncate shortens s to max characters, counting runes so names with
// diacritics are never cut mid-sequence.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
