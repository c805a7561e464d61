// Copyright the finance-papers authors, 2025. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anbrog/finance-papers/internal/openalex"
	"github.com/anbrog/finance-papers/internal/rank"
	"github.com/anbrog/finance-papers/internal/report"
	"github.com/anbrog/finance-papers/internal/store"
	"github.com/anbrog/finance-papers/pkg/types"
)

var wpCmd = &cobra.Command{
	Use:   "wp",
	Short: "Track authors' working papers",
	Long: `Wp follows the working papers (preprints, reports, other non-journal
works) of tracked authors on OpenAlex.

Authors come from the most recent author-list CSV produced by "rank --csv",
from an explicit CSV via --list, or from name arguments. A name argument may
carry an explicit OpenAlex ID as "Name|A123456"; otherwise the ID is
resolved by display-name search.`,
}

var wpFetchCmd = &cobra.Command{
	Use:   "fetch [author ...]",
	Short: "Fetch working papers for tracked authors",
	RunE:  runWpFetch,
}

var wpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored working papers grouped by author",
	RunE:  runWpList,
}

var wpRankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank tracked authors by working-paper count",
	RunE:  runWpRank,
}

func init() {
	wpFetchCmd.Flags().Int("year", 0, "limit to papers published since January of the prior year")
	wpFetchCmd.Flags().String("list", "", "author-list CSV (default: newest author_list_*.csv in the output directory)")

	wpListCmd.Flags().String("author", "", "show a single author")
	wpListCmd.Flags().Int("year", 0, "working-paper database year (0 = unversioned)")

	wpRankCmd.Flags().Int("top", 0, "number of authors to include (0 = all)")
	wpRankCmd.Flags().Int("year", 0, "working-paper database year (0 = all)")

	wpCmd.AddCommand(wpFetchCmd, wpListCmd, wpRankCmd)
	rootCmd.AddCommand(wpCmd)
}

// wpAuthors resolves the author specs for a wp fetch run: explicit
// arguments win, then --list, then the newest author-list CSV.
func wpAuthors(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	listPath, _ := cmd.Flags().GetString("list")
	if listPath == "" {
		var err error
		listPath, err = report.LatestAuthorList(outputDir())
		if err != nil {
			return nil, fmt.Errorf("no authors given and %w; run \"rank --csv\" first", err)
		}
	}

	f, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("opening author list: %w", err)
	}
	defer f.Close()

	entries, err := report.ReadAuthorListCSV(f)
	if err != nil {
		return nil, err
	}

	authors := make([]string, 0, len(entries))
	for _, e := range entries {
		authors = append(authors, e.Author)
	}
	fmt.Printf("Using author list %s (%d authors)\n", listPath, len(authors))
	return authors, nil
}

func runWpFetch(cmd *cobra.Command, args []string) error {
	authors, err := wpAuthors(cmd, args)
	if err != nil {
		return err
	}
	year, _ := cmd.Flags().GetInt("year")

	client := openalexClient()
	delay := viper.GetDuration("working_papers.request_delay")

	st, err := store.Open(store.WorkingPaperDBPath(dataDir(cmd), year))
	if err != nil {
		return err
	}
	defer st.Close()

	total, err := fetchAuthorWorkingPapers(context.Background(), client, st, authors, year, delay, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("Done: %d new, %d already stored (%s)\n", total.New, total.Duplicates, st.Path())
	return nil
}

// fetchAuthorWorkingPapers fetches and stores working papers for each author
// in turn. An author whose lookup or fetch fails is reported and skipped so a
// long list survives a transient API error; only storage failures abort.
func fetchAuthorWorkingPapers(ctx context.Context, client *openalex.Client, st *store.Store, authors []string, year int, delay time.Duration, out io.Writer) (store.SaveSummary, error) {
	var total store.SaveSummary
	for i, spec := range authors {
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}

		name, id := openalex.ParseAuthorSpec(spec)
		if id == "" {
			var err error
			id, err = client.ResolveAuthorID(ctx, name)
			if errors.Is(err, openalex.ErrAuthorNotFound) {
				fmt.Fprintf(out, "  %s: no OpenAlex author found, skipped\n", name)
				continue
			}
			if err != nil {
				fmt.Fprintf(out, "  %s: %v, skipped\n", name, err)
				continue
			}
		}

		papers, err := client.WorkingPapers(ctx, id, name, year)
		if err != nil {
			fmt.Fprintf(out, "  %s: %v, skipped\n", name, err)
			continue
		}

		summary, err := st.SaveWorkingPapers(ctx, papers)
		if err != nil {
			return total, err
		}
		total.New += summary.New
		total.Duplicates += summary.Duplicates
		fmt.Fprintf(out, "  %s: %d working papers, %d new\n", name, len(papers), summary.New)
	}
	return total, nil
}

func runWpList(cmd *cobra.Command, args []string) error {
	year, _ := cmd.Flags().GetInt("year")
	author, _ := cmd.Flags().GetString("author")

	papers, err := loadWorkingPapers(context.Background(), dataDir(cmd), year, author)
	if err != nil {
		return err
	}

	// Group rows per author for display, newest paper first within a group.
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].AuthorName < papers[j].AuthorName
	})

	report.FormatWorkingPaperTable(papers, os.Stdout)
	return nil
}

func runWpRank(cmd *cobra.Command, args []string) error {
	year, _ := cmd.Flags().GetInt("year")
	top, _ := cmd.Flags().GetInt("top")

	papers, err := loadWorkingPapers(context.Background(), dataDir(cmd), year, "")
	if err != nil {
		return err
	}

	entries := rank.WorkingPaperAuthors(papers, top)
	report.FormatRankingTable(entries, os.Stdout)
	return nil
}

func loadWorkingPapers(ctx context.Context, dir string, year int, author string) ([]types.WorkingPaper, error) {
	paths, err := store.FindWorkingPaperDBs(dir, year)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no working-paper databases found in %s; run \"wp fetch\" first", dir)
	}

	var papers []types.WorkingPaper
	for _, path := range paths {
		st, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		var batch []types.WorkingPaper
		if author != "" {
			batch, err = st.WorkingPapersByAuthor(ctx, author)
		} else {
			batch, err = st.AllWorkingPapers(ctx)
		}
		st.Close()
		if err != nil {
			return nil, err
		}
		papers = append(papers, batch...)
	}
	return papers, nil
}
