// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphstore

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pdiddy/research-index/pkg/types"
)

// Pinger is implemented by stores that can check reachability without
// opening a session.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Open constructs the store selected by cfg.Backend without contacting it.
func Open(cfg types.GraphConfig) (Store, error) {
	switch cfg.Backend {
	case types.BackendBolt, "":
		return NewBoltStore(cfg)
	case types.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	}
	return nil, fmt.Errorf("unknown graph backend %q (want bolt or sqlite)", cfg.Backend)
}

// Dial opens the configured store and waits until it answers. Reachability
// is retried with exponential backoff starting at cfg.ConnectBackoff; this
// happens once at startup, never inside a request.
func Dial(ctx context.Context, cfg types.GraphConfig, logger *slog.Logger) (Store, error) {
	store, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	p, ok := store.(Pinger)
	if !ok {
		return store, nil
	}
	if err := WaitReady(ctx, p, cfg.ConnectRetries, cfg.ConnectBackoff, logger); err != nil {
		store.Close(ctx)
		return nil, err
	}
	return store, nil
}

// WaitReady pings p until it succeeds, retries are exhausted or ctx is
// done. The delay doubles after each failed attempt: base, 2*base, 4*base.
func WaitReady(ctx context.Context, p Pinger, retries int, base time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if retries < 0 {
		retries = 0
	}
	for attempt := 0; ; attempt++ {
		err := p.Ping(ctx)
		if err == nil {
			return nil
		}
		if attempt >= retries {
			return fmt.Errorf("graph store not reachable after %d attempts: %w", attempt+1, err)
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * base
		logger.Warn("graph store not reachable, retrying",
			"attempt", attempt+1, "max_retries", retries, "backoff", backoff, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
