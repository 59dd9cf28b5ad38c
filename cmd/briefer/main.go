package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/briefer/config"
	"github.com/mohammad-safakhou/briefer/internal/ingest"
	srv "github.com/mohammad-safakhou/briefer/internal/server"
	"github.com/mohammad-safakhou/briefer/internal/store"
	"github.com/mohammad-safakhou/briefer/provider"
	"github.com/mohammad-safakhou/briefer/tools/web_fetch"
)

func main() {
	var cfgPath string

	root := &cobra.Command{Use: "briefer"}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (json)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return srv.Run(config.LoadConfig(cfgPath))
		},
	}

	var migDir string
	var direction string
	var steps int
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			dsn := ""
			if cfg.Storage.Postgres.Configured() {
				dsn, _ = cfg.Storage.Postgres.DSN()
			}
			return srv.Migrate(migDir, dsn, direction, steps)
		},
	}
	migrate.Flags().StringVar(&migDir, "dir", "file://migrations", "migrations source (file://migrations)")
	migrate.Flags().StringVar(&direction, "direction", "up", "up or down")
	migrate.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = all)")

	ingestCmd := &cobra.Command{
		Use:   "ingest URL [URL...]",
		Short: "Fetch pages into the briefing document store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			return runIngest(cmd.Context(), cfg, args)
		},
	}

	root.AddCommand(serve, migrate, ingestCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runIngest(ctx context.Context, cfg *config.Config, urls []string) error {
	dsn, err := cfg.Storage.Postgres.DSN()
	if err != nil {
		return err
	}
	st, err := store.NewWithDSN(ctx, dsn)
	if err != nil {
		return err
	}
	defer st.DB.Close()

	fetcher, err := web_fetch.NewWebFetcher(web_fetch.ChromedpFetcherType, cfg.Ingest.FetchTimeout, cfg.Ingest.MaxChars)
	if err != nil {
		return err
	}

	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil && err != provider.ErrNotConfigured {
		return err
	}

	ing := ingest.New(fetcher, llm, st, nil)
	for _, u := range urls {
		id, err := ing.IngestURL(ctx, u)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ingest %s: %v\n", u, err)
			continue
		}
		fmt.Printf("%s\t%s\n", id, u)
	}
	return nil
}
