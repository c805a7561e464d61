// Copyright the finance-papers authors, 2025. All rights reserved.

package agenda

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/anbrog/finance-papers/pkg/types"
)

const recentPaperCount = 5

// Classify builds the agenda classification for one author from their
// articles. keywordCount bounds the extracted keyword list; themes supplies
// the dictionary from LoadThemes.
func Classify(author string, articles []types.Article, keywordCount int, themes []Theme) types.AgendaResult {
	result := types.AgendaResult{
		Author:     author,
		PaperCount: len(articles),
	}

	maxCitations := 0
	for _, a := range articles {
		result.TotalCitations += a.CitedByCount
		if a.CitedByCount > maxCitations {
			maxCitations = a.CitedByCount
		}
		if a.Abstract != "" {
			result.PapersWithAbstracts++
		}
	}
	result.MaxCitations = maxCitations
	if len(articles) > 0 {
		result.AvgCitations = float64(result.TotalCitations) / float64(len(articles))
	}

	result.Keywords = ExtractKeywords(articles, keywordCount)
	result.Themes = InferThemes(result.Keywords, themes)

	sorted := make([]types.Article, len(articles))
	copy(sorted, articles)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PublicationDate > sorted[j].PublicationDate
	})
	for i, a := range sorted {
		if i == recentPaperCount {
			break
		}
		result.RecentPapers = append(result.RecentPapers, types.AgendaPaper{
			Title:     a.Title,
			Date:      a.PublicationDate,
			Citations: a.CitedByCount,
		})
	}
	return result
}

// KeywordSummary renders a one-line agenda description from a
// classification, used when no LLM is configured or the call fails.
func KeywordSummary(result types.AgendaResult) string {
	themes := result.Themes
	if len(themes) > 3 {
		themes = themes[:3]
	}
	keywords := result.Keywords
	if len(keywords) > 5 {
		keywords = keywords[:5]
	}

	var b strings.Builder
	b.WriteString("Research focused on ")
	b.WriteString(strings.Join(themes, "; "))
	if len(keywords) > 0 {
		fmt.Fprintf(&b, ". Recurring topics: %s.", strings.Join(keywords, ", "))
	}
	return b.String()
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SafeName converts an author name into a filename fragment.
func SafeName(author string) string {
	name := unsafeChars.ReplaceAllString(author, "_")
	return strings.Trim(strings.ToLower(name), "_")
}

// ResultFilename builds research_agenda_<safe_name>[_<year>].json.
func ResultFilename(author string, year int) string {
	name := "research_agenda_" + SafeName(author)
	if year != 0 {
		name += fmt.Sprintf("_%d", year)
	}
	return name + ".json"
}

// BatchFilename builds the batch output name:
// author_research_agendas_<journals>[_<year>]_top<N>_<llm|keywords>.json.
func BatchFilename(journals []string, year, topN int, usedLLM bool) string {
	parts := []string{"author_research_agendas", strings.Join(journals, "_")}
	if year != 0 {
		parts = append(parts, fmt.Sprintf("%d", year))
	}
	parts = append(parts, fmt.Sprintf("top%d", topN))
	if usedLLM {
		parts = append(parts, "llm")
	} else {
		parts = append(parts, "keywords")
	}
	return strings.Join(parts, "_") + ".json"
}

// SaveResult writes a classification to dir under its canonical name and
// returns the path.
func SaveResult(result types.AgendaResult, dir string, year int) (string, error) {
	return writeJSON(filepath.Join(dir, ResultFilename(result.Author, year)), result)
}

// SaveBatch writes a batch of author agendas to dir and returns the path.
func SaveBatch(agendas map[string]types.AuthorAgenda, dir string, journals []string, year, topN int, usedLLM bool) (string, error) {
	return writeJSON(filepath.Join(dir, BatchFilename(journals, year, topN, usedLLM)), agendas)
}

func writeJSON(path string, v any) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
