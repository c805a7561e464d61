// Copyright the finance-papers authors, 2025. All rights reserved.

package store

import (
	"fmt"
	"path/filepath"
	"sort"
)

// ArticleDBPath returns the canonical database file path for a journal/year
// pair, e.g. out/data/openalex_jf_2023.db.
func ArticleDBPath(dataDir, journal string, year int) string {
	return filepath.Join(dataDir, fmt.Sprintf("openalex_%s_%d.db", journal, year))
}

// WorkingPaperDBPath returns the working-papers database path. A zero year
// selects the unversioned working_papers.db.
func WorkingPaperDBPath(dataDir string, year int) string {
	if year == 0 {
		return filepath.Join(dataDir, "working_papers.db")
	}
	return filepath.Join(dataDir, fmt.Sprintf("working_papers_%d.db", year))
}

// FindArticleDBs globs dataDir for article databases matching the journal
// and year. Empty journal or zero year act as wildcards. Results are sorted
// for deterministic processing order.
func FindArticleDBs(dataDir, journal string, year int) ([]string, error) {
	j := journal
	if j == "" {
		j = "*"
	}
	y := "*"
	if year != 0 {
		y = fmt.Sprintf("%d", year)
	}

	pattern := filepath.Join(dataDir, fmt.Sprintf("openalex_%s_%s.db", j, y))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// FindWorkingPaperDBs globs dataDir for working-paper databases. A zero
// year matches both the unversioned and all versioned files.
func FindWorkingPaperDBs(dataDir string, year int) ([]string, error) {
	if year != 0 {
		path := WorkingPaperDBPath(dataDir, year)
		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, fmt.Errorf("globbing %s: %w", path, err)
		}
		return matches, nil
	}

	pattern := filepath.Join(dataDir, "working_papers*.db")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}
