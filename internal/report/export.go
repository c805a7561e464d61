// Copyright the finance-papers authors, 2025. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anbrog/finance-papers/pkg/types"
)

// WebsiteExport is the document written to docs/data/rankings.json for the
// static ranking site.
type WebsiteExport struct {
	LastUpdated   string               `json:"last_updated"`
	Journals      []string             `json:"journals"`
	Authors       []types.RankingEntry `json:"authors"`
	WorkingPapers []types.RankingEntry `json:"working_paper_authors,omitempty"`
}

// WriteWebsiteExport writes the export document to dir/rankings.json,
// creating dir as needed, and returns the file path.
func WriteWebsiteExport(authors, workingPapers []types.RankingEntry, journals []string, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	doc := WebsiteExport{
		LastUpdated:   types.Timestamp(time.Now()),
		Journals:      journals,
		Authors:       authors,
		WorkingPapers: workingPapers,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding rankings export: %w", err)
	}

	path := filepath.Join(dir, "rankings.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
