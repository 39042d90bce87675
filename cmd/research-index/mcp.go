// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/pdiddy/research-index/internal/mcptools"
	"github.com/pdiddy/research-index/internal/repository"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the query operations as MCP tools over stdio",
	Long: `MCP runs a Model Context Protocol server on stdin/stdout. Every query
operation is a tool returning the same JSON as the REST route. Logs go to
stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger, _, store, err := setup(ctx, cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		srv := mcptools.NewServer(mcptools.New(repository.New(store, logger), logger), version)
		logger.Info("starting MCP server", "transport", "stdio")
		return srv.Run(ctx, &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
