// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-index/internal/graphstore"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Load a YAML graph fixture into the embedded SQLite store",
	Long: `Seed reads a fixture of nodes and edges and upserts it into the SQLite
database at graph.sqlite_path in one transaction. Nodes are keyed by label
and id, so seeding the same fixture twice leaves the graph unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(os.Stderr)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd, logger)
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening fixture: %w", err)
		}
		defer f.Close()

		store, err := graphstore.NewSQLiteStore(cfg.Graph.SQLitePath)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		summary, err := graphstore.LoadFixture(cmd.Context(), store, f)
		if err != nil {
			return err
		}
		logger.Info("fixture loaded", "path", store.Path(), "nodes", summary.Nodes, "edges", summary.Edges)
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d nodes and %d edges into %s\n", summary.Nodes, summary.Edges, store.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
