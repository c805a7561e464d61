// Copyright the finance-papers authors, 2025. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anbrog/finance-papers/internal/agenda"
	"github.com/anbrog/finance-papers/internal/report"
	"github.com/anbrog/finance-papers/internal/secrets"
	"github.com/anbrog/finance-papers/pkg/types"
)

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Classify authors' research agendas",
	Long: `Agenda analyzes an author's paper titles and abstracts: TF-IDF keyword
extraction over uni- to tri-grams, theme inference from a finance keyword
dictionary, and citation statistics. Abstract terms count double.

"classify" handles one author; "extract" walks a ranked author list and
writes one agenda per author, using an LLM summary when an OpenAI key is
configured and keyword summaries otherwise.`,
}

var agendaClassifyCmd = &cobra.Command{
	Use:   "classify <author> [journal|top3] [year]",
	Short: "Classify one author's research agenda",
	Args:  cobra.RangeArgs(1, 3),
	RunE:  runAgendaClassify,
}

var agendaExtractCmd = &cobra.Command{
	Use:   "extract [topN] [journal|top3] [year]",
	Short: "Extract agendas for every author on the latest author list",
	RunE:  runAgendaExtract,
}

func init() {
	agendaClassifyCmd.Flags().Bool("save", true, "write the classification JSON to the output directory")

	agendaExtractCmd.Flags().Int("top", 40, "number of ranked authors to process")
	agendaExtractCmd.Flags().Bool("no-llm", false, "skip the LLM and use keyword summaries")
	agendaExtractCmd.Flags().Bool("display", false, "print each agenda as it is produced")
	agendaExtractCmd.Flags().String("list", "", "author-list CSV (default: newest author_list_*.csv)")

	agendaCmd.AddCommand(agendaClassifyCmd, agendaExtractCmd)
	rootCmd.AddCommand(agendaCmd)
}

func agendaThemes() ([]agenda.Theme, error) {
	return agenda.LoadThemes(viper.GetString("agenda.themes_file"))
}

func agendaSummarizer() *agenda.Summarizer {
	key := viper.GetString("agenda.api_key")
	if key == "" {
		key = loadedSecrets[secrets.KeyOpenAIAPIKey]
	}
	if key == "" {
		return nil
	}
	return &agenda.Summarizer{
		HTTP:       newHTTPClient(),
		APIKey:     key,
		Model:      viper.GetString("agenda.model"),
		MaxRetries: viper.GetInt("agenda.max_retries"),
	}
}

// journalYearArgs parses the trailing [journal|top3] [year] arguments used
// by both agenda subcommands.
func journalYearArgs(args []string) ([]string, int, error) {
	journalArg := ""
	if len(args) >= 1 {
		journalArg = args[0]
	}
	journals, err := types.ExpandJournals(journalArg)
	if err != nil {
		return nil, 0, err
	}

	year := 0
	if len(args) == 2 {
		year, err = strconv.Atoi(args[1])
		if err != nil {
			return nil, 0, fmt.Errorf("year must be numeric: %q", args[1])
		}
	}
	return journals, year, nil
}

func runAgendaClassify(cmd *cobra.Command, args []string) error {
	author := args[0]
	journals, year, err := journalYearArgs(args[1:])
	if err != nil {
		return err
	}

	themes, err := agendaThemes()
	if err != nil {
		return err
	}

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
	if len(matched) == 0 {
		return fmt.Errorf("no papers found for %q", author)
	}

	result := agenda.Classify(author, matched, viper.GetInt("agenda.keyword_count"), themes)
	printAgendaResult(result)

	if save, _ := cmd.Flags().GetBool("save"); save {
		path, err := agenda.SaveResult(result, outputDir(), year)
		if err != nil {
			return err
		}
		fmt.Printf("\nSaved to %s\n", path)
	}
	return nil
}

func printAgendaResult(result types.AgendaResult) {
	fmt.Printf("Research agenda: %s\n", result.Author)
	fmt.Printf("  Papers: %d (%d with abstracts)\n", result.PaperCount, result.PapersWithAbstracts)
	fmt.Printf("  Citations: %d total, %.1f avg, %d max\n",
		result.TotalCitations, result.AvgCitations, result.MaxCitations)

	fmt.Println("  Themes:")
	for i, theme := range result.Themes {
		if i == 3 {
			break
		}
		fmt.Printf("    %d. %s\n", i+1, theme)
	}

	keywords := result.Keywords
	if len(keywords) > 10 {
		keywords = keywords[:10]
	}
	fmt.Printf("  Keywords: %s\n", strings.Join(keywords, ", "))

	if len(result.RecentPapers) > 0 {
		fmt.Println("  Recent papers:")
		for _, p := range result.RecentPapers {
			fmt.Printf("    %s  %s (cited %d)\n", p.Date, p.Title, p.Citations)
		}
	}
}

func runAgendaExtract(cmd *cobra.Command, args []string) error {
	top, _ := cmd.Flags().GetInt("top")
	// A leading integer argument is the author count, before journal/year.
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			top = n
			args = args[1:]
		}
	}

	journals, year, err := journalYearArgs(args)
	if err != nil {
		return err
	}

	themes, err := agendaThemes()
	if err != nil {
		return err
	}
	noLLM, _ := cmd.Flags().GetBool("no-llm")
	display, _ := cmd.Flags().GetBool("display")

	authors, err := rankedAuthors(cmd, top)
	if err != nil {
		return err
	}

	ctx := context.Background()
	dir := dataDir(cmd)

	// One pass over the databases; per-author slices come from memory.
	articles, err := loadArticles(ctx, dir, journals, year)
	if err != nil {
		return err
	}
	byAuthor := make(map[string][]types.Article)
	for _, a := range articles {
		for _, au := range a.Authors {
			if au.Name != "" {
				byAuthor[au.Name] = append(byAuthor[au.Name], a)
			}
		}
	}

	var summarizer *agenda.Summarizer
	if !noLLM {
		summarizer = agendaSummarizer()
		if summarizer == nil {
			fmt.Println("No OpenAI key configured; using keyword summaries.")
		}
	}

	opts := agenda.BatchOptions{
		KeywordCount: viper.GetInt("agenda.keyword_count"),
		Themes:       themes,
		Summarizer:   summarizer,
		Delay:        viper.GetDuration("agenda.request_delay"),
		Progress:     os.Stdout,
	}

	agendas, err := agenda.BuildBatch(ctx, authors, func(author string) ([]types.Article, error) {
		return byAuthor[author], nil
	}, opts)
	if err != nil {
		return err
	}

	if display {
		agenda.FormatBatchSummary(agendas, os.Stdout)
	}

	names := journals
	if names == nil {
		names = []string{"all"}
	}
	path, err := agenda.SaveBatch(agendas, outputDir(), names, year, top, summarizer != nil)
	if err != nil {
		return err
	}
	csvPath, err := agenda.SaveBatchCSV(agendas, outputDir(), names, year, top, summarizer != nil)
	if err != nil {
		return err
	}
	fmt.Printf("\n%d agendas written to %s and %s\n", len(agendas), path, csvPath)
	return nil
}

// rankedAuthors loads the author names for a batch run from the CSV
// selected by --list or the newest author list.
func rankedAuthors(cmd *cobra.Command, top int) ([]string, error) {
	listPath, _ := cmd.Flags().GetString("list")
	if listPath == "" {
		var err error
		listPath, err = report.LatestAuthorList(outputDir())
		if err != nil {
			return nil, fmt.Errorf("%w; run \"rank --csv\" first", err)
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
		if top > 0 && len(authors) == top {
			break
		}
		authors = append(authors, e.Author)
	}
	return authors, nil
}
