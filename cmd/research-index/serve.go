// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/pdiddy/research-index/internal/api"
	"github.com/pdiddy/research-index/internal/graphstore"
	"github.com/pdiddy/research-index/internal/repository"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query operations over REST",
	Long: `Serve starts the HTTP server. Queries are answered under /api, store
health under /health and prometheus metrics under /metrics (unless
server.metrics is false). The server shuts down gracefully on SIGINT or
SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, cfg, raw, err := setup(ctx, cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer raw.Close(context.Background())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := graphstore.NewMetrics()
	if err := metrics.Register(reg); err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	store := graphstore.Instrument(raw, metrics)

	opts := api.Options{Gatherer: reg}
	if p, ok := store.(graphstore.Pinger); ok {
		opts.Health = p.Ping
	}

	srv := api.NewServer(cfg.Server, repository.New(store, logger), logger, opts)
	return srv.Run(ctx)
}

func init() {
	serveCmd.Flags().String("address", "", "listen address (default :8000)")
	serveCmd.Flags().Bool("metrics", true, "expose prometheus metrics on /metrics")
	bindFlags(serveCmd.Flags(), map[string]string{
		"server.address": "address",
		"server.metrics": "metrics",
	})

	rootCmd.AddCommand(serveCmd)
}
