// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graphstore is the boundary between the query layer and the
// property graph. A Store hands out Sessions; a Session executes read-only
// traversal statements and returns ordered records.
//
// Two stores are provided: BoltStore for Bolt-protocol engines (Memgraph,
// Neo4j) and SQLiteStore, an embedded property graph used for local
// development and tests.
package graphstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrStoreUnavailable reports that the graph store could not be reached or
// a traversal failed for infrastructure reasons. It is never retried by the
// query layer.
var ErrStoreUnavailable = errors.New("graph store unavailable")

// Params maps statement parameter names to scalar or list values.
type Params map[string]any

// Statement is one read-only traversal. Each store executes the rendition
// written for its engine.
type Statement struct {
	// Name identifies the statement in logs, metrics and test fakes.
	Name string

	// Cypher is the rendition executed by Bolt engines.
	Cypher string

	// SQL is the rendition executed by the embedded SQLite store.
	SQL string

	// JSONFields lists the result fields the SQL rendition returns as JSON
	// text (collected node lists, node records).
	JSONFields []string
}

// Session is a connection held for the traversals of one logical request.
type Session interface {
	Execute(ctx context.Context, stmt Statement, params Params) ([]Record, error)
	Close(ctx context.Context) error
}

// Store acquires sessions.
type Store interface {
	// Acquire opens and verifies a session. Failures wrap ErrStoreUnavailable.
	Acquire(ctx context.Context) (Session, error)
	Close(ctx context.Context) error
}

// WithSession acquires a session from store, runs fn on it and releases the
// session on every exit path, including a panic inside fn. A release error
// is returned only when fn itself succeeded.
func WithSession[T any](ctx context.Context, store Store, fn func(Session) (T, error)) (result T, err error) {
	sess, err := store.Acquire(ctx)
	if err != nil {
		return result, err
	}
	defer func() {
		if cerr := sess.Close(ctx); cerr != nil && err == nil {
			err = fmt.Errorf("%w: releasing session: %v", ErrStoreUnavailable, cerr)
		}
	}()
	return fn(sess)
}

// unavailable wraps err as ErrStoreUnavailable, keeping err in the chain.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
