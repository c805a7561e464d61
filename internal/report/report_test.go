// Copyright the finance-papers authors, 2025. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/anbrog/finance-papers/pkg/types"
)

func sampleRanking() []types.RankingEntry {
	return []types.RankingEntry{
		{Rank: 1, Author: "Jane Doe", Papers: 5, Citations: 120,
			LatestDate: "2023-09-01", LatestTitle: "Credit Spreads and Business Cycles"},
		{Rank: 2, Author: "Bob Roe", Papers: 3, Citations: 80,
			LatestDate: "2023-02-11", LatestTitle: "Momentum Crashes Revisited"},
	}
}

// --- tables ---

func TestFormatRankingTable(t *testing.T) {
	var buf bytes.Buffer
	FormatRankingTable(sampleRanking(), &buf)

	out := buf.String()
	for _, want := range []string{"Rank", "Jane Doe", "Bob Roe", "120", "2 authors"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{"short", "momentum", 20, "momentum"},
		{"exact", "momentum", 8, "momentum"},
		{"ascii cut", "momentum crashes", 10, "momentu..."},
		{"multibyte kept whole", "Kovács Ágnes és tőkepiacok", 12, "Kovács Ág..."},
		{"multibyte never split", "ésésésésés", 7, "ésés..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.s, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.s, tt.max)
			}
		})
	}
}

func TestFormatRankingTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatRankingTable(nil, &buf)
	if !strings.Contains(buf.String(), "No authors found.") {
		t.Errorf("empty table output = %q", buf.String())
	}
}

func TestFormatWorkingPaperTableGroupsByAuthor(t *testing.T) {
	papers := []types.WorkingPaper{
		{AuthorName: "Ann", AuthorAffiliation: "MIT", Title: "WP1", PublicationDate: "2024-06-01", Type: "preprint"},
		{AuthorName: "Ann", Title: "WP2", PublicationDate: "2024-02-01", Type: "report"},
		{AuthorName: "Ben", Title: "WP3", PublicationDate: "2024-03-01", Type: "preprint"},
	}

	var buf bytes.Buffer
	FormatWorkingPaperTable(papers, &buf)
	out := buf.String()

	if strings.Count(out, "Ann (MIT)") != 1 {
		t.Errorf("Ann heading should appear once:\n%s", out)
	}
	if !strings.Contains(out, "Ben") || !strings.Contains(out, "3 working papers") {
		t.Errorf("output missing Ben group or total:\n%s", out)
	}
}

// --- CSV round trip ---

func TestAuthorListCSVRoundTrip(t *testing.T) {
	entries := sampleRanking()

	var buf bytes.Buffer
	if err := WriteAuthorListCSV(entries, &buf); err != nil {
		t.Fatalf("WriteAuthorListCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Rank,Author Name,Paper Count" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("CSV has %d lines, want 3", len(lines))
	}

	got, err := ReadAuthorListCSV(&buf)
	if err != nil {
		t.Fatalf("ReadAuthorListCSV: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	for i := range got {
		if got[i].Rank != entries[i].Rank || got[i].Author != entries[i].Author || got[i].Papers != entries[i].Papers {
			t.Errorf("row %d = %+v, want rank/author/papers of %+v", i, got[i], entries[i])
		}
	}
}

func TestReadAuthorListCSVRejectsMalformed(t *testing.T) {
	_, err := ReadAuthorListCSV(strings.NewReader("Rank,Author Name,Paper Count\nx,Jane Doe,5\n"))
	if err == nil {
		t.Error("expected error for non-numeric rank")
	}
	_, err = ReadAuthorListCSV(strings.NewReader(""))
	if err == nil {
		t.Error("expected error for empty input")
	}
}

func TestAuthorListFilename(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	got := AuthorListFilename([]string{"jf", "rfs"}, 2023, 40, now)
	want := "author_list_jf_rfs_2023_top40_20250314_150926.csv"
	if got != want {
		t.Errorf("AuthorListFilename = %q, want %q", got, want)
	}

	got = AuthorListFilename([]string{"jf"}, 0, 10, now)
	if strings.Contains(got, "_0_") {
		t.Errorf("zero year should be omitted: %q", got)
	}
}

func TestSaveAndLatestAuthorList(t *testing.T) {
	dir := t.TempDir()

	// An older list that LatestAuthorList must skip.
	old := filepath.Join(dir, "author_list_jf_2023_top40_20200101_000000.csv")
	if err := os.WriteFile(old, []byte("Rank,Author Name,Paper Count\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, err := SaveAuthorList(sampleRanking(), dir, []string{"jf"}, 2023, 40)
	if err != nil {
		t.Fatalf("SaveAuthorList: %v", err)
	}

	latest, err := LatestAuthorList(dir)
	if err != nil {
		t.Fatalf("LatestAuthorList: %v", err)
	}
	if latest != path {
		t.Errorf("LatestAuthorList = %q, want %q", latest, path)
	}
}

// --- website export ---

func TestWriteWebsiteExport(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteWebsiteExport(sampleRanking(), nil, []string{"jf", "rfs", "jfe"}, dir)
	if err != nil {
		t.Fatalf("WriteWebsiteExport: %v", err)
	}
	if filepath.Base(path) != "rankings.json" {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc WebsiteExport
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(doc.Authors) != 2 || doc.Authors[0].Author != "Jane Doe" {
		t.Errorf("Authors = %+v", doc.Authors)
	}
	if doc.LastUpdated == "" {
		t.Error("LastUpdated not set")
	}
	if len(doc.Journals) != 3 {
		t.Errorf("Journals = %v", doc.Journals)
	}
}
