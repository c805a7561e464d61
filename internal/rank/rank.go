// Copyright the finance-papers authors, 2025. All rights reserved.

// Package rank aggregates article rows into author rankings.
package rank

import (
	"sort"
	"strconv"

	"github.com/anbrog/finance-papers/pkg/types"
)

// accumulator carries per-author totals while rows are folded in.
type accumulator struct {
	papers       int
	citations    int
	latestDate   string
	latestTitle  string
	affiliation  string
	papersByYear map[int]int
}

// Authors ranks every author appearing in articles by paper count, with
// total citations as the tie-break. Each article counts once for each of
// its authors, so the sum of Papers over all entries equals the sum of
// author-list lengths. A positive topN truncates the result.
func Authors(articles []types.Article, topN int) []types.RankingEntry {
	acc := make(map[string]*accumulator)
	for i := range articles {
		a := &articles[i]
		for _, author := range a.Authors {
			if author.Name == "" {
				continue
			}
			fold(acc, author.Name, a.PublicationDate, a.Title, a.CitedByCount, firstInstitution(author))
		}
	}
	return sortEntries(acc, topN)
}

// WorkingPaperAuthors ranks tracked authors by working-paper count. Each
// row carries a single author, so no fan-out happens here.
func WorkingPaperAuthors(papers []types.WorkingPaper, topN int) []types.RankingEntry {
	acc := make(map[string]*accumulator)
	for i := range papers {
		p := &papers[i]
		if p.AuthorName == "" {
			continue
		}
		fold(acc, p.AuthorName, p.PublicationDate, p.Title, p.CitedByCount, p.AuthorAffiliation)
	}
	return sortEntries(acc, topN)
}

func fold(acc map[string]*accumulator, name, date, title string, citations int, affiliation string) {
	a := acc[name]
	if a == nil {
		a = &accumulator{papersByYear: make(map[int]int)}
		acc[name] = a
	}
	a.papers++
	a.citations += citations
	if date > a.latestDate {
		a.latestDate = date
		a.latestTitle = title
	}
	if a.affiliation == "" {
		a.affiliation = affiliation
	}
	if year := publicationYear(date); year != 0 {
		a.papersByYear[year]++
	}
}

func sortEntries(acc map[string]*accumulator, topN int) []types.RankingEntry {
	entries := make([]types.RankingEntry, 0, len(acc))
	for name, a := range acc {
		entries = append(entries, types.RankingEntry{
			Author:       name,
			Papers:       a.papers,
			Citations:    a.citations,
			LatestDate:   a.latestDate,
			LatestTitle:  a.latestTitle,
			Affiliation:  a.affiliation,
			PapersByYear: a.papersByYear,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Papers != entries[j].Papers {
			return entries[i].Papers > entries[j].Papers
		}
		if entries[i].Citations != entries[j].Citations {
			return entries[i].Citations > entries[j].Citations
		}
		return entries[i].Author < entries[j].Author
	})

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// publicationYear extracts the year from a YYYY-MM-DD date, returning zero
// when the date is missing or malformed.
func publicationYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func firstInstitution(a types.Author) string {
	if len(a.Institutions) > 0 {
		return a.Institutions[0]
	}
	return ""
}
