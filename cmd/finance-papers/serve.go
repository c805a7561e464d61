// Copyright the finance-papers authors, 2025. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anbrog/finance-papers/internal/dashboard"
	"github.com/anbrog/finance-papers/internal/store"
	"github.com/anbrog/finance-papers/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ranking dashboard over HTTP",
	Long: `Serve starts the HTTP dashboard on the configured address. It reads
rankings straight from the SQLite databases in the data directory and can
trigger fresh OpenAlex fetches through its update endpoint.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = viper.GetString("dashboard.addr")
	}
	dir := dataDir(cmd)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	client := openalexClient()
	fetch := func(ctx context.Context, journal string, year int) (store.SaveSummary, error) {
		return fetchJournal(ctx, client, dir, journal, year)
	}

	srv := dashboard.NewServer(types.DashboardConfig{Addr: addr, DataDir: dir}, fetch, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", addr).Str("data_dir", dir).Msg("dashboard starting")
	return srv.Start(ctx)
}
