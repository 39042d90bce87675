// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-index CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-index/internal/graphstore"
	"github.com/pdiddy/research-index/internal/logging"
	"github.com/pdiddy/research-index/internal/secrets"
	"github.com/pdiddy/research-index/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the research-index CLI.
var rootCmd = &cobra.Command{
	Use:   "research-index",
	Short: "Read-only query service over a research knowledge graph",
	Long: `research-index answers queries over a graph of authors, research outputs,
countries and workstreams. It serves the queries over REST (serve) and MCP
(mcp), and runs them directly from the command line.

The graph lives in a Bolt-protocol engine (Memgraph, Neo4j) or in an embedded
SQLite file that seed loads from a YAML fixture.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./research-index.yaml or ~/.config/research-index/research-index.yaml)")
	pf.String("secrets-dir", ".secrets", "directory holding graph-username and graph-password files")
	pf.String("backend", "", "graph backend: bolt or sqlite")
	pf.String("uri", "", "Bolt endpoint, e.g. bolt://localhost:7687")
	pf.String("sqlite-path", "", "database file for the sqlite backend")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")

	bindFlags(pf, map[string]string{
		"graph.backend":     "backend",
		"graph.uri":         "uri",
		"graph.sqlite_path": "sqlite-path",
		"log.level":         "log-level",
		"log.format":        "log-format",
	})
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-index")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-index"))
		}
	}

	setDefaults(types.DefaultServiceConfig())
	viper.SetEnvPrefix("RESEARCH_INDEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal.
func setDefaults(d types.ServiceConfig) {
	viper.SetDefault("graph.backend", string(d.Graph.Backend))
	viper.SetDefault("graph.uri", d.Graph.URI)
	viper.SetDefault("graph.username", d.Graph.Username)
	viper.SetDefault("graph.password", d.Graph.Password)
	viper.SetDefault("graph.database", d.Graph.Database)
	viper.SetDefault("graph.sqlite_path", d.Graph.SQLitePath)
	viper.SetDefault("graph.connect_retries", d.Graph.ConnectRetries)
	viper.SetDefault("graph.connect_backoff", d.Graph.ConnectBackoff)

	viper.SetDefault("server.address", d.Server.Address)
	viper.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	viper.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	viper.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	viper.SetDefault("server.metrics", d.Server.Metrics)

	viper.SetDefault("log.format", d.Log.Format)
	viper.SetDefault("log.level", d.Log.Level)
}

// bindFlags binds viper keys to the named flags of fs.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

// loadConfig resolves the service configuration and fills missing graph
// credentials from the secrets directory.
func loadConfig(cmd *cobra.Command, logger *slog.Logger) (types.ServiceConfig, error) {
	var cfg types.ServiceConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}

	dir, _ := cmd.Flags().GetString("secrets-dir")
	set, err := secrets.Load(dir, logger)
	if err != nil {
		return cfg, err
	}
	set.ApplyGraph(&cfg.Graph)
	return cfg, nil
}

// newLogger builds the command logger from the log.* keys.
func newLogger(w io.Writer) (*slog.Logger, error) {
	return logging.New("research-index", types.LogConfig{
		Format: viper.GetString("log.format"),
		Level:  viper.GetString("log.level"),
	}, w)
}

// setup returns the logger, configuration and a reachable store.
func setup(ctx context.Context, cmd *cobra.Command, logw io.Writer) (*slog.Logger, types.ServiceConfig, graphstore.Store, error) {
	logger, err := newLogger(logw)
	if err != nil {
		return nil, types.ServiceConfig{}, nil, err
	}
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return nil, cfg, nil, err
	}
	store, err := graphstore.Dial(ctx, cfg.Graph, logger)
	if err != nil {
		return nil, cfg, nil, err
	}
	return logger, cfg, store, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
