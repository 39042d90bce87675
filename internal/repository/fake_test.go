// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import (
	"context"
	"sync"

	"github.com/pdiddy/research-index/internal/graphstore"
)

// scriptedStore answers statements by name from a fixed script and records
// every traversal and session lifecycle event.
type scriptedStore struct {
	mu       sync.Mutex
	script   map[string][]graphstore.Record
	fail     map[string]error
	acquired int
	released int
	calls    []string
	params   []graphstore.Params
}

func newScriptedStore() *scriptedStore {
	return &scriptedStore{
		script: map[string][]graphstore.Record{},
		fail:   map[string]error{},
	}
}

func (s *scriptedStore) on(name string, recs ...graphstore.Record) *scriptedStore {
	s.script[name] = recs
	return s
}

func (s *scriptedStore) failOn(name string, err error) *scriptedStore {
	s.fail[name] = err
	return s
}

func (s *scriptedStore) Acquire(context.Context) (graphstore.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail["acquire"]; err != nil {
		return nil, err
	}
	s.acquired++
	return &scriptedSession{store: s}, nil
}

func (s *scriptedStore) Close(context.Context) error { return nil }

func (s *scriptedStore) lastParams(name string) graphstore.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.calls) - 1; i >= 0; i-- {
		if s.calls[i] == name {
			return s.params[i]
		}
	}
	return nil
}

type scriptedSession struct {
	store *scriptedStore
}

func (t *scriptedSession) Execute(_ context.Context, stmt graphstore.Statement, params graphstore.Params) ([]graphstore.Record, error) {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, stmt.Name)
	s.params = append(s.params, params)
	if err := s.fail[stmt.Name]; err != nil {
		return nil, err
	}
	return s.script[stmt.Name], nil
}

func (t *scriptedSession) Close(context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.released++
	return nil
}

func node(props ...any) graphstore.Record {
	rec := graphstore.Record{}
	for i := 0; i+1 < len(props); i += 2 {
		rec[props[i].(string)] = props[i+1]
	}
	return rec
}

func authorNode(id, first, last string) graphstore.Record {
	return node("uuid", id, "first_name", first, "last_name", last)
}

func rankEntry(author graphstore.Record, rank int) any {
	return map[string]any{"node": map[string]any(author), "rank": int64(rank)}
}
