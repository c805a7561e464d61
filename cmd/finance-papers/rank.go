// Copyright the finance-papers authors, 2025. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anbrog/finance-papers/internal/rank"
	"github.com/anbrog/finance-papers/internal/report"
	"github.com/anbrog/finance-papers/internal/store"
	"github.com/anbrog/finance-papers/pkg/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank [journal|top3] [year]",
	Short: "Rank authors by publication count",
	Long: `Rank aggregates every matching article database and ranks authors by
paper count, breaking ties by total citations. Each paper counts once per
author, so the ranking favors prolific authors over long author lists.

With --csv the ranking is also written to an author-list CSV that the
wp and agenda commands consume.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runRank,
}

var rankPapersCmd = &cobra.Command{
	Use:   "papers --author <name>",
	Short: "List one author's papers across the databases",
	RunE:  runRankPapers,
}

func init() {
	rankCmd.Flags().Int("top", 40, "number of authors to include (0 = all)")
	rankCmd.Flags().Bool("csv", false, "write the author-list CSV to the output directory")

	rankPapersCmd.Flags().String("author", "", "author display name (required)")
	rankPapersCmd.Flags().String("journal", "", "journal code ("+types.JournalCodes()+")")
	rankPapersCmd.Flags().Int("year", 0, "publication year")
	rankCmd.AddCommand(rankPapersCmd)

	rootCmd.AddCommand(rankCmd)
}

// loadArticles opens every database matching journals/year and concatenates
// their articles.
func loadArticles(ctx context.Context, dir string, journals []string, year int) ([]types.Article, error) {
	var paths []string
	if journals == nil {
		var err error
		paths, err = store.FindArticleDBs(dir, "", year)
		if err != nil {
			return nil, err
		}
	} else {
		for _, code := range journals {
			matches, err := store.FindArticleDBs(dir, code, year)
			if err != nil {
				return nil, err
			}
			paths = append(paths, matches...)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no article databases found in %s; run a fetch first", dir)
	}

	var articles []types.Article
	for _, path := range paths {
		st, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		batch, err := st.AllArticles(ctx)
		st.Close()
		if err != nil {
			return nil, err
		}
		articles = append(articles, batch...)
	}
	return articles, nil
}

func runRank(cmd *cobra.Command, args []string) error {
	journalArg := ""
	if len(args) >= 1 {
		journalArg = args[0]
	}
	journals, err := types.ExpandJournals(journalArg)
	if err != nil {
		return err
	}

	year := 0
	if len(args) == 2 {
		year, err = strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("year must be numeric: %q", args[1])
		}
	}

	top, _ := cmd.Flags().GetInt("top")
	writeCSV, _ := cmd.Flags().GetBool("csv")

	articles, err := loadArticles(context.Background(), dataDir(cmd), journals, year)
	if err != nil {
		return err
	}

	entries := rank.Authors(articles, top)
	report.FormatRankingTable(entries, os.Stdout)

	if writeCSV {
		names := journals
		if names == nil {
			names = []string{"all"}
		}
		path, err := report.SaveAuthorList(entries, outputDir(), names, year, top)
		if err != nil {
			return err
		}
		fmt.Printf("\nAuthor list written to %s\n", path)
	}
	return nil
}

func runRankPapers(cmd *cobra.Command, args []string) error {
	author, _ := cmd.Flags().GetString("author")
	if strings.TrimSpace(author) == "" {
		return fmt.Errorf("--author is required")
	}

	journal, _ := cmd.Flags().GetString("journal")
	journals, err := types.ExpandJournals(journal)
	if err != nil {
		return err
	}
	year, _ := cmd.Flags().GetInt("year")

	ctx := context.Background()
	articles, err := loadArticles(ctx, dataDir(cmd), journals, year)
	if err != nil {
		return err
	}

	var matched []types.Article
	for _, a := range articles {
		for _, au := range a.Authors {
			if strings.EqualFold(au.Name, author) {
				matched = append(matched, a)
				break
			}
		}
	}

	fmt.Printf("Papers by %s:\n\n", author)
	report.FormatArticleList(matched, os.Stdout)
	return nil
}
