// Copyright the finance-papers authors, 2025. All rights reserved.

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/anbrog/finance-papers/pkg/types"
)

var csvHeader = []string{"Rank", "Author Name", "Paper Count"}

// AuthorListFilename builds the canonical author-list CSV name:
// author_list_<journals>_<year>_top<N>_<timestamp>.csv. A zero year is
// omitted from the name.
func AuthorListFilename(journals []string, year, topN int, now time.Time) string {
	parts := []string{"author_list", strings.Join(journals, "_")}
	if year != 0 {
		parts = append(parts, strconv.Itoa(year))
	}
	parts = append(parts, fmt.Sprintf("top%d", topN), now.Format("20060102_150405"))
	return strings.Join(parts, "_") + ".csv"
}

// WriteAuthorListCSV writes a ranking to w in author-list CSV form.
func WriteAuthorListCSV(entries []types.RankingEntry, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, e := range entries {
		record := []string{strconv.Itoa(e.Rank), e.Author, strconv.Itoa(e.Papers)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", e.Author, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveAuthorList writes the ranking to its canonical file under dir and
// returns the path.
func SaveAuthorList(entries []types.RankingEntry, dir string, journals []string, year, topN int) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, AuthorListFilename(journals, year, topN, time.Now()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteAuthorListCSV(entries, f); err != nil {
		return "", err
	}
	return path, nil
}

// ReadAuthorListCSV parses an author-list CSV back into ranking entries.
// Only the columns the CSV carries are populated.
func ReadAuthorListCSV(r io.Reader) ([]types.RankingEntry, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading author list CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("author list CSV is empty")
	}

	var entries []types.RankingEntry
	for i, record := range records[1:] {
		if len(record) < 3 {
			return nil, fmt.Errorf("author list CSV row %d: want 3 columns, got %d", i+2, len(record))
		}
		rank, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("author list CSV row %d: bad rank %q", i+2, record[0])
		}
		papers, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("author list CSV row %d: bad paper count %q", i+2, record[2])
		}
		entries = append(entries, types.RankingEntry{
			Rank:   rank,
			Author: record[1],
			Papers: papers,
		})
	}
	return entries, nil
}

// LatestAuthorList returns the most recent author-list CSV under dir, or
// an error when none exists. Timestamped names sort lexically, so the last
// match is the newest.
func LatestAuthorList(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "author_list_*.csv"))
	if err != nil {
		return "", fmt.Errorf("globbing author lists: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no author list CSV found in %s", dir)
	}
	latest := matches[0]
	for _, m := range matches[1:] {
		if m > latest {
			latest = m
		}
	}
	return latest, nil
}
