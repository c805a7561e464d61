// Copyright the finance-papers authors, 2025. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anbrog/finance-papers/internal/rank"
	"github.com/anbrog/finance-papers/internal/report"
	"github.com/anbrog/finance-papers/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export rankings for the static website",
	Long: `Export aggregates every article and working-paper database and writes
docs/data/rankings.json for the static ranking site: per-author paper and
citation totals, papers by year, and the latest paper.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Int("top", 100, "number of authors to export (0 = all)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	top, _ := cmd.Flags().GetInt("top")
	dir := dataDir(cmd)
	ctx := context.Background()

	articles, err := loadArticles(ctx, dir, nil, 0)
	if err != nil {
		return err
	}
	authors := rank.Authors(articles, top)

	// Working papers are optional: a missing database just leaves the
	// section empty.
	var wpAuthors []types.RankingEntry
	if papers, err := loadWorkingPapers(ctx, dir, 0, ""); err == nil {
		wpAuthors = rank.WorkingPaperAuthors(papers, top)
	}

	journals, _ := types.ExpandJournals(types.Top3)
	path, err := report.WriteWebsiteExport(authors, wpAuthors, journals, viper.GetString("export_dir"))
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d authors to %s\n", len(authors), path)
	return nil
}
