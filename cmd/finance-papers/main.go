// Copyright the finance-papers authors, 2025. All rights reserved.

// Package main is the entry point for the finance-papers CLI: fetching
// journal metadata from OpenAlex, scraping publisher pages, ranking
// authors, and classifying research agendas.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anbrog/finance-papers/internal/openalex"
	"github.com/anbrog/finance-papers/internal/secrets"
	"github.com/anbrog/finance-papers/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ and .env at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the finance-papers CLI.
var rootCmd = &cobra.Command{
	Use:   "finance-papers",
	Short: "Collect and rank academic finance paper metadata",
	Long: `finance-papers tracks publications in the top finance journals (The Journal
of Finance, Review of Financial Studies, Journal of Financial Economics).

It fetches article metadata from the OpenAlex API into per-journal SQLite
databases, scrapes publisher issue pages where OpenAlex lags, ranks authors
by publication count, follows their working papers, and classifies research
agendas from titles and abstracts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.LoadWithEnv(".secrets/", ".env")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./finance-papers.yaml or ~/.config/finance-papers/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "database directory (default: out/data)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("finance-papers")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "finance-papers"))
		}
	}

	viper.SetEnvPrefix("FINANCE_PAPERS")
	viper.AutomaticEnv()

	viper.SetDefault("data_dir", filepath.Join("out", "data"))
	viper.SetDefault("output_dir", "out")
	viper.SetDefault("export_dir", filepath.Join("docs", "data"))
	viper.SetDefault("http.timeout", "30s")
	viper.SetDefault("http.user_agent", "finance-papers/"+version)
	viper.SetDefault("fetch.per_page", 200)
	viper.SetDefault("working_papers.request_delay", "100ms")
	viper.SetDefault("scrape.request_delay", "1s")
	viper.SetDefault("agenda.model", "gpt-4o-mini")
	viper.SetDefault("agenda.max_retries", 3)
	viper.SetDefault("agenda.request_delay", "500ms")
	viper.SetDefault("agenda.keyword_count", 30)
	viper.SetDefault("dashboard.addr", ":8080")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dataDir resolves the database directory: flag, then config, then default.
func dataDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		return dir
	}
	if dir, _ := rootCmd.PersistentFlags().GetString("data-dir"); dir != "" {
		return dir
	}
	return viper.GetString("data_dir")
}

func outputDir() string {
	return viper.GetString("output_dir")
}

func httpConfig() types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}
}

func newHTTPClient() *http.Client {
	timeout := viper.GetDuration("http.timeout")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// openalexClient builds the shared API client with the polite-pool email
// from config or secrets.
func openalexClient() *openalex.Client {
	mailto := viper.GetString("fetch.mailto")
	if mailto == "" {
		mailto = loadedSecrets[secrets.KeyOpenAlexEmail]
	}
	return &openalex.Client{
		HTTP:      newHTTPClient(),
		UserAgent: httpConfig().UserAgent,
		Mailto:    mailto,
		PerPage:   viper.GetInt("fetch.per_page"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
