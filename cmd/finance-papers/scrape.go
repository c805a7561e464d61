// Copyright the finance-papers authors, 2025. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anbrog/finance-papers/internal/scrape"
	"github.com/anbrog/finance-papers/internal/store"
	"github.com/anbrog/finance-papers/pkg/types"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape publisher issue pages and feeds",
	Long: `Scrape collects article listings straight from the publishers, which
carry new issues before OpenAlex indexes them. Results land in a per-journal
scrape database (articles_<journal>.db) and a CSV alongside it.`,
}

var scrapeJFCmd = &cobra.Command{
	Use:   "jf <volume> [issue|first-last]",
	Short: "Scrape Journal of Finance issue pages",
	Long: `Scrape jf reads afajof.org issue pages for one volume. The second
argument selects a single issue or a range like "1-6"; omitted, issues 1
through 6 are scraped.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runScrapeJF,
}

var scrapeQJECmd = &cobra.Command{
	Use:   "qje",
	Short: "Read the QJE advance-article RSS feed",
	RunE:  runScrapeQJE,
}

func init() {
	scrapeCmd.AddCommand(scrapeJFCmd, scrapeQJECmd)
	rootCmd.AddCommand(scrapeCmd)
}

// parseIssueArg parses the issue selector: "3" or a range "1-6".
func parseIssueArg(arg string) ([]int, error) {
	if first, last, ok := strings.Cut(arg, "-"); ok {
		lo, err := strconv.Atoi(first)
		if err != nil {
			return nil, fmt.Errorf("bad issue range %q", arg)
		}
		hi, err := strconv.Atoi(last)
		if err != nil || hi < lo {
			return nil, fmt.Errorf("bad issue range %q", arg)
		}
		issues := make([]int, 0, hi-lo+1)
		for i := lo; i <= hi; i++ {
			issues = append(issues, i)
		}
		return issues, nil
	}

	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("issue must be numeric or a range: %q", arg)
	}
	return []int{n}, nil
}

func newScraper() *scrape.Scraper {
	return &scrape.Scraper{
		HTTP:      newHTTPClient(),
		UserAgent: httpConfig().UserAgent,
		Delay:     viper.GetDuration("scrape.request_delay"),
	}
}

// saveScraped persists articles to the journal's scrape database and CSV.
func saveScraped(ctx context.Context, dir, journal string, articles []types.ScrapedArticle) error {
	st, err := store.OpenScraped(store.ScrapedDBPath(dir, journal))
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := st.Save(ctx, articles)
	if err != nil {
		return err
	}

	csvPath := filepath.Join(dir, fmt.Sprintf("articles_%s.csv", journal))
	added, err := scrape.AppendCSV(csvPath, articles)
	if err != nil {
		return err
	}

	fmt.Printf("Stored %d new articles (%d already known); %d CSV rows appended\n",
		summary.New, summary.Duplicates, added)
	return nil
}

func runScrapeJF(cmd *cobra.Command, args []string) error {
	volume, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("volume must be numeric: %q", args[0])
	}

	issues := []int{1, 2, 3, 4, 5, 6}
	if len(args) == 2 {
		issues, err = parseIssueArg(args[1])
		if err != nil {
			return err
		}
	}

	fmt.Printf("Scraping The Journal of Finance volume %d, issues %v\n", volume, issues)

	ctx := context.Background()
	articles, err := newScraper().FetchIssues(ctx, volume, issues, os.Stdout)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		fmt.Println("No articles found; the publisher may be blocking requests.")
		return nil
	}

	return saveScraped(ctx, dataDir(cmd), "jf", articles)
}

func runScrapeQJE(cmd *cobra.Command, args []string) error {
	fmt.Println("Reading the QJE advance-article feed")

	ctx := context.Background()
	articles, err := newScraper().FetchQJE(ctx)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		fmt.Println("Feed returned no items.")
		return nil
	}
	fmt.Printf("  %d feed items\n", len(articles))

	return saveScraped(ctx, dataDir(cmd), "qje", articles)
}
