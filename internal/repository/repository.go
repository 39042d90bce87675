// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package repository composes graph traversals into entity views. Each
// repository owns the statements for one entity and its neighbourhoods;
// a public operation acquires one session, runs its traversals on it in
// order and releases it on every exit path.
//
// Filters are validated before a session is acquired. Errors wrap
// ErrNotFound, ErrEmptyResult, filter.ErrInvalidFilter or
// graphstore.ErrStoreUnavailable.
package repository

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pdiddy/research-index/internal/filter"
	"github.com/pdiddy/research-index/internal/graphstore"
	"github.com/pdiddy/research-index/pkg/types"
)

var (
	// ErrNotFound reports that the root node of an entity fetch does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyResult reports a workstream listing that matched nothing.
	ErrEmptyResult = errors.New("empty result")
)

// Repositories groups the four entity repositories over one store.
type Repositories struct {
	Authors     *AuthorRepository
	Outputs     *OutputRepository
	Countries   *CountryRepository
	Workstreams *WorkstreamRepository
}

// New wires the repositories to store. A nil logger discards logs.
func New(store graphstore.Store, logger *slog.Logger) *Repositories {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	authors := &AuthorRepository{store: store, logger: logger.With("repository", "author")}
	outputs := &OutputRepository{store: store, logger: logger.With("repository", "output")}
	return &Repositories{
		Authors:     authors,
		Outputs:     outputs,
		Countries:   &CountryRepository{store: store, outputs: outputs, logger: logger.With("repository", "country")},
		Workstreams: &WorkstreamRepository{store: store, authors: authors, logger: logger.With("repository", "workstream")},
	}
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}

func requireID(entity, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s id is required", filter.ErrInvalidFilter, entity)
	}
	return nil
}

// resultTypeParam maps the unfiltered result type to a null parameter.
func resultTypeParam(rt types.ResultType) any {
	if rt == "" {
		return nil
	}
	return string(rt)
}

func pageParams(p graphstore.Params, page filter.Page) graphstore.Params {
	p["skip"] = page.Skip
	p["limit"] = page.Limit
	return p
}
