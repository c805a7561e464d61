// Copyright the finance-papers authors, 2025. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anbrog/finance-papers/internal/rank"
	"github.com/anbrog/finance-papers/internal/report"
	"github.com/anbrog/finance-papers/pkg/types"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run the full refresh pipeline interactively",
	Long: `Update walks the whole pipeline for the tracked journals: fetch the
current year from OpenAlex, show what arrived, rebuild the author ranking
and its CSV, refresh working papers for the ranked authors, and offer the
website export. Each stage asks before running; a failed stage is reported
and the run moves on to the next prompt.`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().Bool("force", false, "also re-fetch the previous year")
	updateCmd.Flags().Int("top", 40, "ranking size for the author list")
	rootCmd.AddCommand(updateCmd)
}

// confirm asks a yes/no question on stdin. Empty input means yes.
func confirm(in *bufio.Scanner, prompt string) bool {
	fmt.Printf("%s [Y/n] ", prompt)
	if !in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(in.Text()))
	return answer == "" || answer == "y" || answer == "yes"
}

// stage runs one pipeline step, reporting failure without aborting the run.
func stage(name string, fn func() error) {
	if err := fn(); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", name, err)
	}
}

func runUpdate(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	top, _ := cmd.Flags().GetInt("top")

	in := bufio.NewScanner(os.Stdin)
	ctx := context.Background()
	dir := dataDir(cmd)
	client := openalexClient()

	years := []int{time.Now().Year()}
	if force {
		years = append(years, time.Now().Year()-1)
	}
	journals, _ := types.ExpandJournals(types.Top3)

	if confirm(in, fmt.Sprintf("Fetch %v for %v from OpenAlex?", years, journals)) {
		stage("fetch", func() error {
			for _, year := range years {
				for _, code := range journals {
					if _, err := fetchJournal(ctx, client, dir, code, year); err != nil {
						return err
					}
				}
			}
			return nil
		})
		stage("recent articles", func() error {
			return showRecentArticles(ctx, dir, time.Now().Add(-time.Hour))
		})
	}

	if confirm(in, "Rebuild the author ranking and write the author-list CSV?") {
		stage("rank", func() error {
			articles, err := loadArticles(ctx, dir, journals, 0)
			if err != nil {
				return err
			}
			entries := rank.Authors(articles, top)
			report.FormatRankingTable(entries, os.Stdout)

			path, err := report.SaveAuthorList(entries, outputDir(), journals, 0, top)
			if err != nil {
				return err
			}
			fmt.Printf("Author list written to %s\n", path)
			return nil
		})
	}

	if confirm(in, "Fetch working papers for the ranked authors?") {
		stage("wp fetch", func() error { return runWpFetch(wpFetchCmd, nil) })
		stage("wp rank", func() error { return runWpRank(wpRankCmd, nil) })
	}

	if confirm(in, "Export rankings for the website?") {
		stage("export", func() error { return runExport(exportCmd, nil) })
	}

	fmt.Println("Update complete.")
	return nil
}

// showRecentArticles lists articles stored after the cutoff, so a fetch
// that found nothing new is immediately visible.
func showRecentArticles(ctx context.Context, dir string, since time.Time) error {
	articles, err := loadArticles(ctx, dir, nil, 0)
	if err != nil {
		return err
	}

	var recent []types.Article
	for _, a := range articles {
		stored, err := time.Parse(time.RFC3339, a.ScrapedAt)
		if err != nil {
			continue
		}
		if !stored.Before(since) {
			recent = append(recent, a)
		}
	}

	if len(recent) == 0 {
		fmt.Println("No new articles this run.")
		return nil
	}
	fmt.Printf("%d new articles:\n", len(recent))
	report.FormatArticleList(recent, os.Stdout)
	return nil
}
