// Copyright the finance-papers authors, 2025. All rights reserved.

package agenda

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/anbrog/finance-papers/pkg/types"
)

var batchCSVHeader = []string{"Rank", "Author", "Research Agenda", "Papers", "Citations"}

// rankedAgendaAuthors orders the batch for output: paper count descending,
// ties broken by name so repeated runs produce identical files.
func rankedAgendaAuthors(agendas map[string]types.AuthorAgenda) []string {
	authors := make([]string, 0, len(agendas))
	for author := range agendas {
		authors = append(authors, author)
	}
	sort.Slice(authors, func(i, j int) bool {
		a, b := agendas[authors[i]], agendas[authors[j]]
		if a.PaperCount != b.PaperCount {
			return a.PaperCount > b.PaperCount
		}
		return authors[i] < authors[j]
	})
	return authors
}

// WriteBatchCSV writes the batch as CSV rows ranked by paper count.
func WriteBatchCSV(agendas map[string]types.AuthorAgenda, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(batchCSVHeader); err != nil {
		return err
	}
	for i, author := range rankedAgendaAuthors(agendas) {
		entry := agendas[author]
		row := []string{
			strconv.Itoa(i + 1),
			author,
			entry.ResearchAgenda,
			strconv.Itoa(entry.PaperCount),
			strconv.Itoa(entry.TotalCitations),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveBatchCSV writes the CSV companion of SaveBatch, under the same name
// with a .csv extension, and returns the path.
func SaveBatchCSV(agendas map[string]types.AuthorAgenda, dir string, journals []string, year, topN int, usedLLM bool) (string, error) {
	name := strings.TrimSuffix(BatchFilename(journals, year, topN, usedLLM), ".json") + ".csv"
	path := filepath.Join(dir, name)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteBatchCSV(agendas, f); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// FormatBatchSummary renders the batch grouped by agenda. Groups are ordered
// by combined citations, authors within a group by paper count; at most five
// authors print per group.
func FormatBatchSummary(agendas map[string]types.AuthorAgenda, w io.Writer) {
	groups := make(map[string][]string)
	for author, entry := range agendas {
		groups[entry.ResearchAgenda] = append(groups[entry.ResearchAgenda], author)
	}

	names := make([]string, 0, len(groups))
	cites := make(map[string]int, len(groups))
	for agenda, authors := range groups {
		for _, author := range authors {
			cites[agenda] += agendas[author].TotalCitations
		}
		names = append(names, agenda)
	}
	sort.Slice(names, func(i, j int) bool {
		if cites[names[i]] != cites[names[j]] {
			return cites[names[i]] > cites[names[j]]
		}
		return names[i] < names[j]
	})

	for _, agenda := range names {
		authors := groups[agenda]
		sort.Slice(authors, func(i, j int) bool {
			a, b := agendas[authors[i]], agendas[authors[j]]
			if a.PaperCount != b.PaperCount {
				return a.PaperCount > b.PaperCount
			}
			return authors[i] < authors[j]
		})

		papers := 0
		for _, author := range authors {
			papers += agendas[author].PaperCount
		}
		fmt.Fprintf(w, "\n%s (%d authors, %d papers, %d citations)\n",
			agenda, len(authors), papers, cites[agenda])

		shown := authors
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, author := range shown {
			entry := agendas[author]
			fmt.Fprintf(w, "  %-45s Papers: %2d  Citations: %4d\n",
				author, entry.PaperCount, entry.TotalCitations)
		}
	}
}
