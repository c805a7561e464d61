// Copyright the finance-papers authors, 2025. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anbrog/finance-papers/internal/report"
	"github.com/anbrog/finance-papers/internal/store"
	"github.com/anbrog/finance-papers/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the stored article databases",
	Long: `Query reads the per-journal SQLite databases. Use --journal and --year
to narrow which database files are opened; by default every
openalex_*.db under the data directory is searched.`,
}

var queryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored articles, newest first",
	RunE:  runQueryList,
}

var queryGetCmd = &cobra.Command{
	Use:   "get <openalex-id>",
	Short: "Show one article in full, including its abstract",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueryGet,
}

var querySearchCmd = &cobra.Command{
	Use:   "search <term...>",
	Short: "Search titles and abstracts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuerySearch,
}

var queryAuthorCmd = &cobra.Command{
	Use:   "author <name...>",
	Short: "List articles by author name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQueryAuthor,
}

var queryCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count stored articles per database",
	RunE:  runQueryCount,
}

func init() {
	for _, c := range []*cobra.Command{queryListCmd, queryGetCmd, querySearchCmd, queryAuthorCmd, queryCountCmd} {
		c.Flags().String("journal", "", "journal code ("+types.JournalCodes()+")")
		c.Flags().Int("year", 0, "publication year")
		queryCmd.AddCommand(c)
	}
	queryListCmd.Flags().Int("limit", 20, "maximum articles to list (0 = all)")

	rootCmd.AddCommand(queryCmd)
}

// openQueryStores opens every database matching the --journal/--year flags.
// The caller must close each returned store.
func openQueryStores(cmd *cobra.Command) ([]*store.Store, error) {
	journal, _ := cmd.Flags().GetString("journal")
	year, _ := cmd.Flags().GetInt("year")

	if journal != "" {
		if _, ok := types.Journals[journal]; !ok {
			return nil, fmt.Errorf("unknown journal %q: available: %s", journal, types.JournalCodes())
		}
	}

	paths, err := store.FindArticleDBs(dataDir(cmd), journal, year)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no article databases found in %s; run a fetch first", dataDir(cmd))
	}

	stores := make([]*store.Store, 0, len(paths))
	for _, path := range paths {
		st, err := store.Open(path)
		if err != nil {
			for _, open := range stores {
				open.Close()
			}
			return nil, err
		}
		stores = append(stores, st)
	}
	return stores, nil
}

func closeAll(stores []*store.Store) {
	for _, st := range stores {
		st.Close()
	}
}

func runQueryList(cmd *cobra.Command, args []string) error {
	stores, err := openQueryStores(cmd)
	if err != nil {
		return err
	}
	defer closeAll(stores)

	limit, _ := cmd.Flags().GetInt("limit")
	ctx := context.Background()

	var articles []types.Article
	for _, st := range stores {
		batch, err := st.ListArticles(ctx, limit)
		if err != nil {
			return err
		}
		articles = append(articles, batch...)
	}
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}

	report.FormatArticleList(articles, os.Stdout)
	return nil
}

func runQueryGet(cmd *cobra.Command, args []string) error {
	stores, err := openQueryStores(cmd)
	if err != nil {
		return err
	}
	defer closeAll(stores)

	ctx := context.Background()
	for _, st := range stores {
		article, err := st.GetArticle(ctx, args[0])
		if err == nil {
			report.FormatArticle(article, os.Stdout)
			return nil
		}
	}
	return fmt.Errorf("article %s not found in any database", args[0])
}

func runQuerySearch(cmd *cobra.Command, args []string) error {
	stores, err := openQueryStores(cmd)
	if err != nil {
		return err
	}
	defer closeAll(stores)

	term := strings.Join(args, " ")
	ctx := context.Background()

	var articles []types.Article
	for _, st := range stores {
		batch, err := st.SearchArticles(ctx, term)
		if err != nil {
			return err
		}
		articles = append(articles, batch...)
	}

	report.FormatArticleList(articles, os.Stdout)
	return nil
}

func runQueryAuthor(cmd *cobra.Command, args []string) error {
	stores, err := openQueryStores(cmd)
	if err != nil {
		return err
	}
	defer closeAll(stores)

	name := strings.Join(args, " ")
	ctx := context.Background()

	var articles []types.Article
	for _, st := range stores {
		batch, err := st.ArticlesByAuthor(ctx, name)
		if err != nil {
			return err
		}
		articles = append(articles, batch...)
	}

	report.FormatArticleList(articles, os.Stdout)
	return nil
}

func runQueryCount(cmd *cobra.Command, args []string) error {
	stores, err := openQueryStores(cmd)
	if err != nil {
		return err
	}
	defer closeAll(stores)

	ctx := context.Background()
	total := 0
	for _, st := range stores {
		n, err := st.CountArticles(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%-40s  %d\n", st.Path(), n)
		total += n
	}
	fmt.Printf("%-40s  %d\n", "total", total)
	return nil
}
