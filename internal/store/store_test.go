// Copyright the finance-papers authors, 2025. All rights reserved.

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/anbrog/finance-papers/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "openalex_jf_2023.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSchemaIndexes(t *testing.T) {
	s := testStore(t)

	rows, err := s.db.Query(`SELECT name FROM sqlite_master WHERE type = 'index' AND name LIKE 'idx_%'`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	got := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatal(err)
		}
		got[name] = true
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"idx_articles_openalex_id",
		"idx_articles_doi",
		"idx_articles_publication_date",
		"idx_wp_openalex_id",
		"idx_wp_author_name",
		"idx_wp_publication_date",
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("index %s missing from schema", name)
		}
	}
}

func sampleArticles() []types.Article {
	return []types.Article{
		{
			OpenAlexID:      "W1111111111",
			Title:           "A Theory of Dividend Smoothing",
			PublicationDate: "2023-03-15",
			DOI:             "https://doi.org/10.1111/jofi.13001",
			CitedByCount:    42,
			Abstract:        "Dividends are sticky because managers smooth payouts.",
			Authors: []types.Author{
				{Name: "Jane Doe", Institutions: []string{"MIT Sloan"}},
				{Name: "Bob Roe"},
			},
		},
		{
			OpenAlexID:      "W2222222222",
			Title:           "Momentum Crashes Revisited",
			PublicationDate: "2023-06-01",
			CitedByCount:    7,
			Authors:         []types.Author{{Name: "Jane Doe"}},
		},
	}
}

// --- articles ---

func TestSaveArticlesAndReload(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	summary, err := s.SaveArticles(ctx, sampleArticles())
	if err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}
	if summary.New != 2 || summary.Duplicates != 0 {
		t.Fatalf("summary = %+v, want 2 new", summary)
	}

	articles, err := s.AllArticles(ctx)
	if err != nil {
		t.Fatalf("AllArticles: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(articles))
	}
	// Newest first.
	if articles[0].OpenAlexID != "W2222222222" {
		t.Errorf("articles[0] = %s, want W2222222222 (newest first)", articles[0].OpenAlexID)
	}

	a := articles[1]
	if a.Title != "A Theory of Dividend Smoothing" {
		t.Errorf("Title = %q", a.Title)
	}
	if len(a.Authors) != 2 || a.Authors[0].Name != "Jane Doe" {
		t.Fatalf("Authors = %+v, want Jane Doe first", a.Authors)
	}
	if len(a.Authors[0].Institutions) != 1 || a.Authors[0].Institutions[0] != "MIT Sloan" {
		t.Errorf("Institutions = %v", a.Authors[0].Institutions)
	}
	if a.ScrapedAt == "" {
		t.Error("ScrapedAt not set on insert")
	}
}

func TestSaveArticlesIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.SaveArticles(ctx, sampleArticles()); err != nil {
		t.Fatal(err)
	}
	summary, err := s.SaveArticles(ctx, sampleArticles())
	if err != nil {
		t.Fatalf("second SaveArticles: %v", err)
	}
	if summary.New != 0 || summary.Duplicates != 2 {
		t.Errorf("summary = %+v, want 2 duplicates", summary)
	}

	n, err := s.CountArticles(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("CountArticles = %d, want 2 after re-save", n)
	}
}

func TestGetArticle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if _, err := s.SaveArticles(ctx, sampleArticles()); err != nil {
		t.Fatal(err)
	}

	a, err := s.GetArticle(ctx, "W1111111111")
	if err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if a.CitedByCount != 42 {
		t.Errorf("CitedByCount = %d, want 42", a.CitedByCount)
	}

	_, err = s.GetArticle(ctx, "W0000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetArticle(missing) = %v, want ErrNotFound", err)
	}
}

func TestSearchArticles(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if _, err := s.SaveArticles(ctx, sampleArticles()); err != nil {
		t.Fatal(err)
	}

	// Term appears only in an abstract.
	hits, err := s.SearchArticles(ctx, "managers smooth")
	if err != nil {
		t.Fatalf("SearchArticles: %v", err)
	}
	if len(hits) != 1 || hits[0].OpenAlexID != "W1111111111" {
		t.Errorf("hits = %+v, want only W1111111111", hits)
	}

	hits, err = s.SearchArticles(ctx, "momentum")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].OpenAlexID != "W2222222222" {
		t.Errorf("case-insensitive title search failed: %+v", hits)
	}
}

func TestArticlesByAuthor(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if _, err := s.SaveArticles(ctx, sampleArticles()); err != nil {
		t.Fatal(err)
	}

	articles, err := s.ArticlesByAuthor(ctx, "Jane Doe")
	if err != nil {
		t.Fatalf("ArticlesByAuthor: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("len = %d, want 2", len(articles))
	}

	articles, err = s.ArticlesByAuthor(ctx, "Bob Roe")
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 1 || articles[0].OpenAlexID != "W1111111111" {
		t.Errorf("Bob Roe articles = %+v", articles)
	}
}

func TestListArticlesLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if _, err := s.SaveArticles(ctx, sampleArticles()); err != nil {
		t.Fatal(err)
	}

	articles, err := s.ListArticles(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 1 {
		t.Errorf("len = %d, want 1", len(articles))
	}
}

// --- working papers ---

func TestSaveWorkingPapers(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	papers := []types.WorkingPaper{
		{
			OpenAlexID:        "W9999999999",
			Title:             "Intermediary Asset Pricing at the ZLB",
			PublicationDate:   "2024-11-02",
			AuthorName:        "John Campbell",
			AuthorAffiliation: "Harvard University",
			Type:              "preprint",
			PrimaryLocation:   "SSRN Electronic Journal",
			CitedByCount:      5,
		},
		{
			OpenAlexID:      "W8888888888",
			Title:           "Household Finance Survey Notes",
			PublicationDate: "2024-05-10",
			AuthorName:      "John Campbell",
			Type:            "report",
		},
	}

	summary, err := s.SaveWorkingPapers(ctx, papers)
	if err != nil {
		t.Fatalf("SaveWorkingPapers: %v", err)
	}
	if summary.New != 2 {
		t.Fatalf("summary = %+v, want 2 new", summary)
	}

	summary, err = s.SaveWorkingPapers(ctx, papers)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Duplicates != 2 {
		t.Errorf("re-save summary = %+v, want 2 duplicates", summary)
	}

	got, err := s.WorkingPapersByAuthor(ctx, "John Campbell")
	if err != nil {
		t.Fatalf("WorkingPapersByAuthor: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].OpenAlexID != "W9999999999" {
		t.Errorf("got[0] = %s, want newest first", got[0].OpenAlexID)
	}
	if got[0].AuthorAffiliation != "Harvard University" {
		t.Errorf("AuthorAffiliation = %q", got[0].AuthorAffiliation)
	}
}

// --- locator ---

func TestFindArticleDBs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"openalex_jf_2022.db",
		"openalex_jf_2023.db",
		"openalex_rfs_2023.db",
		"working_papers.db",
		"working_papers_2023.db",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		journal string
		year    int
		want    int
	}{
		{"jf", 2023, 1},
		{"jf", 0, 2},
		{"", 2023, 2},
		{"", 0, 3},
		{"qje", 2023, 0},
	}
	for _, tt := range tests {
		got, err := FindArticleDBs(dir, tt.journal, tt.year)
		if err != nil {
			t.Fatalf("FindArticleDBs(%q, %d): %v", tt.journal, tt.year, err)
		}
		if len(got) != tt.want {
			t.Errorf("FindArticleDBs(%q, %d) matched %d files, want %d",
				tt.journal, tt.year, len(got), tt.want)
		}
	}

	wps, err := FindWorkingPaperDBs(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(wps) != 2 {
		t.Errorf("FindWorkingPaperDBs matched %d, want 2", len(wps))
	}
	wps, err = FindWorkingPaperDBs(dir, 2023)
	if err != nil {
		t.Fatal(err)
	}
	if len(wps) != 1 {
		t.Errorf("FindWorkingPaperDBs(2023) matched %d, want 1", len(wps))
	}
}
