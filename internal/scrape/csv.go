// Copyright the finance-papers authors, 2025. All rights reserved.

package scrape

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anbrog/finance-papers/pkg/types"
)

var scrapeCSVHeader = []string{"Title", "Date", "Authors", "Abstract", "Volume", "Issue", "Link"}

// AppendCSV appends scraped articles to the CSV at path, creating it with
// a header when missing. Articles whose link (or title, when linkless)
// already appears in the file are skipped. Returns the number of rows
// written.
func AppendCSV(path string, articles []types.ScrapedArticle) (int, error) {
	seen, err := existingKeys(path)
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating output directory: %w", err)
		}
	}

	isNew := seen == nil
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(scrapeCSVHeader); err != nil {
			return 0, fmt.Errorf("writing CSV header: %w", err)
		}
		seen = make(map[string]bool)
	}

	added := 0
	for _, a := range articles {
		key := dedupKey(a)
		if key == "" || seen[key] {
			continue
		}
		record := []string{a.Title, a.Date, a.Authors, a.Abstract, a.Volume, a.Issue, a.Link}
		if err := w.Write(record); err != nil {
			return added, fmt.Errorf("writing CSV row for %q: %w", a.Title, err)
		}
		seen[key] = true
		added++
	}

	w.Flush()
	return added, w.Error()
}

// existingKeys reads the dedup keys already present in the CSV. A missing
// file returns a nil map, which signals that the header must be written.
func existingKeys(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	seen := make(map[string]bool)
	first := true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if first {
			first = false
			continue
		}
		if len(record) >= 7 && record[6] != "" {
			seen[record[6]] = true
		} else if len(record) >= 1 {
			seen[strings.TrimSpace(record[0])] = true
		}
	}
	return seen, nil
}

func dedupKey(a types.ScrapedArticle) string {
	if a.Link != "" {
		return a.Link
	}
	return strings.TrimSpace(a.Title)
}
