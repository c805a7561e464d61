// Copyright the finance-papers authors, 2025. All rights reserved.

package agenda

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/anbrog/finance-papers/pkg/types"
)

// BatchOptions controls a batch agenda extraction run.
type BatchOptions struct {
	KeywordCount int
	Themes       []Theme

	// Summarizer writes the agenda prose; nil uses keyword summaries.
	Summarizer *Summarizer

	// Delay is slept between LLM calls.
	Delay time.Duration

	// Progress receives one line per author when non-nil.
	Progress io.Writer
}

// BuildBatch classifies every author and produces their agenda entries.
// fetch supplies each author's articles. An author whose LLM call fails
// falls back to the keyword summary; the run keeps going.
func BuildBatch(ctx context.Context, authors []string, fetch func(author string) ([]types.Article, error), opts BatchOptions) (map[string]types.AuthorAgenda, error) {
	agendas := make(map[string]types.AuthorAgenda, len(authors))

	for i, author := range authors {
		select {
		case <-ctx.Done():
			return agendas, ctx.Err()
		default:
		}

		articles, err := fetch(author)
		if err != nil {
			return agendas, fmt.Errorf("loading articles for %s: %w", author, err)
		}
		if len(articles) == 0 {
			if opts.Progress != nil {
				fmt.Fprintf(opts.Progress, "  %s: no papers found, skipped\n", author)
			}
			continue
		}

		result := Classify(author, articles, opts.KeywordCount, opts.Themes)

		summary := ""
		if opts.Summarizer != nil {
			if i > 0 && opts.Delay > 0 {
				select {
				case <-ctx.Done():
					return agendas, ctx.Err()
				case <-time.After(opts.Delay):
				}
			}
			summary, err = opts.Summarizer.Summarize(ctx, result)
			if err != nil {
				if opts.Progress != nil {
					fmt.Fprintf(opts.Progress, "  %s: LLM call failed (%v), using keywords\n", author, err)
				}
				summary = ""
			}
		}
		if summary == "" {
			summary = KeywordSummary(result)
		}

		entry := types.AuthorAgenda{
			ResearchAgenda:      summary,
			PaperCount:          result.PaperCount,
			TotalCitations:      result.TotalCitations,
			PapersWithAbstracts: result.PapersWithAbstracts,
		}
		if len(result.RecentPapers) > 0 {
			entry.LatestPaper = result.RecentPapers[0].Title
		}
		agendas[author] = entry

		if opts.Progress != nil {
			fmt.Fprintf(opts.Progress, "  %s: %d papers, themes: %v\n", author, result.PaperCount, result.Themes)
		}
	}
	return agendas, nil
}
