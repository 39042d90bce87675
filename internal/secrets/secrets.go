// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads graph credentials from a directory of plain-text
// files. The filename is the key and the trimmed contents are the value.
//
// Supported key files: graph-username, graph-password.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/research-index/pkg/types"
)

// Key files read by ApplyGraph.
const (
	GraphUsername = "graph-username"
	GraphPassword = "graph-password"
)

// Set maps secret names to values.
type Set map[string]string

// Get returns the secret named key, or fallback when it is absent.
func (s Set) Get(key, fallback string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return fallback
}

// ApplyGraph fills empty graph credentials in cfg from the set. Values
// already configured through flags, files or environment win.
func (s Set) ApplyGraph(cfg *types.GraphConfig) {
	if cfg.Username == "" {
		cfg.Username = s.Get(GraphUsername, "")
	}
	if cfg.Password == "" {
		cfg.Password = s.Get(GraphPassword, "")
	}
}

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error and yields an empty set. Unreadable files are logged and
// skipped.
func Load(dir string, logger *slog.Logger) (Set, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := make(Set)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			set[name] = value
		}
	}
	return set, nil
}
