// Copyright the finance-papers authors, 2025. All rights reserved.

package rank

import (
	"testing"

	"github.com/anbrog/finance-papers/pkg/types"
)

func article(id, date, title string, citations int, authors ...string) types.Article {
	a := types.Article{
		OpenAlexID:      id,
		Title:           title,
		PublicationDate: date,
		CitedByCount:    citations,
	}
	for _, name := range authors {
		a.Authors = append(a.Authors, types.Author{Name: name})
	}
	return a
}

func TestAuthorsOrdering(t *testing.T) {
	articles := []types.Article{
		article("W1", "2023-01-10", "Alpha", 10, "Ann", "Ben"),
		article("W2", "2023-05-20", "Beta", 30, "Ann"),
		article("W3", "2023-03-01", "Gamma", 50, "Ben"),
		article("W4", "2023-07-07", "Delta", 5, "Cleo"),
	}

	entries := Authors(articles, 0)
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}

	// Ann and Ben both have 2 papers; Ben's 60 citations beat Ann's 40.
	if entries[0].Author != "Ben" || entries[0].Rank != 1 {
		t.Errorf("entries[0] = %+v, want Ben at rank 1", entries[0])
	}
	if entries[1].Author != "Ann" || entries[1].Rank != 2 {
		t.Errorf("entries[1] = %+v, want Ann at rank 2", entries[1])
	}
	if entries[2].Author != "Cleo" {
		t.Errorf("entries[2] = %+v, want Cleo last", entries[2])
	}

	if entries[0].Citations != 60 {
		t.Errorf("Ben citations = %d, want 60", entries[0].Citations)
	}
	if entries[1].LatestTitle != "Beta" || entries[1].LatestDate != "2023-05-20" {
		t.Errorf("Ann latest = %q/%q, want Beta/2023-05-20", entries[1].LatestTitle, entries[1].LatestDate)
	}
}

func TestAuthorsPaperCountInvariant(t *testing.T) {
	articles := []types.Article{
		article("W1", "2022-01-01", "A", 1, "X", "Y", "Z"),
		article("W2", "2022-02-01", "B", 2, "X"),
		article("W3", "2022-03-01", "C", 3, "Y", "Z"),
	}

	var authorSlots int
	for _, a := range articles {
		authorSlots += len(a.Authors)
	}

	var ranked int
	for _, e := range Authors(articles, 0) {
		ranked += e.Papers
	}
	if ranked != authorSlots {
		t.Errorf("sum of Papers = %d, want %d (one count per author slot)", ranked, authorSlots)
	}
}

func TestAuthorsTopNTruncation(t *testing.T) {
	articles := []types.Article{
		article("W1", "2023-01-01", "A", 0, "P", "Q", "R", "S"),
	}
	entries := Authors(articles, 2)
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	// Identical counts fall back to name order.
	if entries[0].Author != "P" || entries[1].Author != "Q" {
		t.Errorf("entries = %v, want P then Q", entries)
	}
}

func TestAuthorsPapersByYear(t *testing.T) {
	articles := []types.Article{
		article("W1", "2022-06-01", "A", 0, "Ann"),
		article("W2", "2023-01-01", "B", 0, "Ann"),
		article("W3", "2023-12-31", "C", 0, "Ann"),
		article("W4", "", "No Date", 0, "Ann"),
	}
	entries := Authors(articles, 0)
	if len(entries) != 1 {
		t.Fatal("expected single author")
	}
	byYear := entries[0].PapersByYear
	if byYear[2022] != 1 || byYear[2023] != 2 {
		t.Errorf("PapersByYear = %v, want 2022:1 2023:2", byYear)
	}
	if entries[0].Papers != 4 {
		t.Errorf("Papers = %d, want 4 (undated paper still counts)", entries[0].Papers)
	}
}

func TestAuthorsSkipsEmptyNames(t *testing.T) {
	articles := []types.Article{
		{OpenAlexID: "W1", Title: "A", Authors: []types.Author{{Name: ""}, {Name: "Ann"}}},
	}
	entries := Authors(articles, 0)
	if len(entries) != 1 || entries[0].Author != "Ann" {
		t.Errorf("entries = %v, want only Ann", entries)
	}
}

func TestWorkingPaperAuthors(t *testing.T) {
	papers := []types.WorkingPaper{
		{OpenAlexID: "W1", Title: "WP1", PublicationDate: "2024-02-01", AuthorName: "Ann",
			AuthorAffiliation: "MIT", CitedByCount: 3},
		{OpenAlexID: "W2", Title: "WP2", PublicationDate: "2024-06-01", AuthorName: "Ann", CitedByCount: 1},
		{OpenAlexID: "W3", Title: "WP3", PublicationDate: "2024-03-01", AuthorName: "Ben", CitedByCount: 9},
	}

	entries := WorkingPaperAuthors(papers, 0)
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Author != "Ann" || entries[0].Papers != 2 {
		t.Errorf("entries[0] = %+v, want Ann with 2 papers", entries[0])
	}
	if entries[0].Affiliation != "MIT" {
		t.Errorf("Affiliation = %q, want MIT carried from first row that has one", entries[0].Affiliation)
	}
	if entries[0].LatestTitle != "WP2" {
		t.Errorf("LatestTitle = %q, want WP2", entries[0].LatestTitle)
	}
}
