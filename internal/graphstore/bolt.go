// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphstore

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pdiddy/research-index/pkg/types"
)

// BoltStore executes Cypher statements against a Bolt-protocol engine.
// The driver owns the connection pool; each Session is one driver session
// in read access mode.
type BoltStore struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewBoltStore creates the driver for cfg.URI. It does not contact the
// server; Acquire verifies connectivity.
func NewBoltStore(cfg types.GraphConfig) (*BoltStore, error) {
	auth := neo4j.NoAuth()
	if cfg.Username != "" || cfg.Password != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("creating bolt driver for %s: %w", cfg.URI, err)
	}
	return &BoltStore{driver: driver, database: cfg.Database}, nil
}

// Ping verifies that the server is reachable.
func (s *BoltStore) Ping(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return unavailable("verifying connectivity", err)
	}
	return nil
}

// Acquire verifies connectivity and opens a read session.
func (s *BoltStore) Acquire(ctx context.Context) (Session, error) {
	if err := s.Ping(ctx); err != nil {
		return nil, err
	}
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.database,
	})
	return &boltSession{session: sess}, nil
}

// Close shuts down the driver and its pool.
func (s *BoltStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

type boltSession struct {
	session neo4j.SessionWithContext
}

func (b *boltSession) Execute(ctx context.Context, stmt Statement, params Params) ([]Record, error) {
	result, err := b.session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, stmt.Cypher, map[string]any(params))
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, unavailable("executing "+stmt.Name, err)
	}

	raw, _ := result.([]*neo4j.Record)
	return fromBoltRecords(raw), nil
}

// fromBoltRecords maps each driver record onto a Record keyed by the
// RETURN aliases.
func fromBoltRecords(raw []*neo4j.Record) []Record {
	records := make([]Record, 0, len(raw))
	for _, r := range raw {
		if r == nil {
			continue
		}
		rec := make(Record, len(r.Keys))
		for i, key := range r.Keys {
			if i < len(r.Values) {
				rec[key] = fromBolt(r.Values[i])
			}
		}
		records = append(records, rec)
	}
	return records
}

func (b *boltSession) Close(ctx context.Context) error {
	return b.session.Close(ctx)
}

// fromBolt converts driver values into the plain shapes Record accessors
// understand: nodes and relationships become property maps.
func fromBolt(v any) any {
	switch val := v.(type) {
	case neo4j.Node:
		return copyProps(val.Props)
	case neo4j.Relationship:
		return copyProps(val.Props)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromBolt(item)
		}
		return out
	case map[string]any:
		return copyProps(val)
	}
	return v
}

func copyProps(props map[string]any) Record {
	rec := make(Record, len(props))
	for k, v := range props {
		rec[k] = fromBolt(v)
	}
	return rec
}
