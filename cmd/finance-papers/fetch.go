// Copyright the finance-papers authors, 2025. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/anbrog/finance-papers/internal/openalex"
	"github.com/anbrog/finance-papers/internal/store"
	"github.com/anbrog/finance-papers/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <journal|top3> [year]",
	Short: "Fetch journal articles from OpenAlex into SQLite",
	Long: `Fetch retrieves every article a journal published in the given year from
the OpenAlex API and stores it in out/data/openalex_<journal>_<year>.db.

Re-running a fetch is safe: articles already stored are skipped, so a fetch
can be repeated to pick up late-indexed papers. With "top3" all tracked
journals are fetched in sequence. The year defaults to the current year.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	journals, err := types.ExpandJournals(args[0])
	if err != nil {
		return err
	}
	if journals == nil {
		return fmt.Errorf("a journal or %q is required", types.Top3)
	}

	year := time.Now().Year()
	if len(args) == 2 {
		year, err = strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("year must be numeric: %q", args[1])
		}
	}

	client := openalexClient()
	dir := dataDir(cmd)
	ctx := context.Background()

	for _, code := range journals {
		if _, err := fetchJournal(ctx, client, dir, code, year); err != nil {
			return err
		}
	}
	return nil
}

// fetchJournal runs one journal/year fetch-and-store cycle and reports the
// outcome on stdout. The dashboard's update endpoint reuses it.
func fetchJournal(ctx context.Context, client *openalex.Client, dir, code string, year int) (store.SaveSummary, error) {
	journal := types.Journals[code]
	fmt.Printf("Fetching %s (%d) from OpenAlex...\n", journal.Name, year)

	articles, err := client.FetchJournalYear(ctx, journal, year, os.Stdout)
	if err != nil {
		return store.SaveSummary{}, err
	}

	st, err := store.Open(store.ArticleDBPath(dir, code, year))
	if err != nil {
		return store.SaveSummary{}, err
	}
	defer st.Close()

	summary, err := st.SaveArticles(ctx, articles)
	if err != nil {
		return summary, err
	}

	fmt.Printf("%s %d: %d new, %d already stored (%s)\n",
		code, year, summary.New, summary.Duplicates, st.Path())
	return summary, nil
}
