// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Fixture is a graph snapshot in YAML form. Edge endpoints are written as
// "Label:id", for example "Author:A1".
type Fixture struct {
	Nodes []FixtureNode `yaml:"nodes"`
	Edges []FixtureEdge `yaml:"edges"`
}

// FixtureNode is one labelled node. ID is stored under the label's
// identity property (uuid for authors and outputs, id otherwise) unless
// Props already sets it.
type FixtureNode struct {
	Label string         `yaml:"label"`
	ID    string         `yaml:"id"`
	Props map[string]any `yaml:"props"`
}

// FixtureEdge is one typed relationship.
type FixtureEdge struct {
	From string `yaml:"from"`
	Type string `yaml:"type"`
	To   string `yaml:"to"`
	Rank *int   `yaml:"rank,omitempty"`
}

// FixtureSummary reports what LoadFixture wrote.
type FixtureSummary struct {
	Nodes int
	Edges int
}

// IdentityKey returns the property that identifies nodes of label.
func IdentityKey(label string) string {
	switch label {
	case "Author", "Output":
		return "uuid"
	}
	return "id"
}

// LoadFixture parses a YAML fixture from r and writes it into store in a
// single transaction. Existing nodes with the same label and id are
// replaced. Nothing is written when any node or edge is invalid.
func LoadFixture(ctx context.Context, store *SQLiteStore, r io.Reader) (FixtureSummary, error) {
	var fx Fixture
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil && err != io.EOF {
		return FixtureSummary{}, fmt.Errorf("parsing fixture: %w", err)
	}

	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return FixtureSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var summary FixtureSummary
	for i, n := range fx.Nodes {
		if n.Label == "" || n.ID == "" {
			return FixtureSummary{}, fmt.Errorf("node %d: label and id are required", i)
		}
		props := make(map[string]any, len(n.Props)+1)
		for k, v := range n.Props {
			props[k] = v
		}
		if _, ok := props[IdentityKey(n.Label)]; !ok {
			props[IdentityKey(n.Label)] = n.ID
		}
		data, err := json.Marshal(props)
		if err != nil {
			return FixtureSummary{}, fmt.Errorf("encoding node %s:%s: %w", n.Label, n.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (label, uid, props) VALUES (?, ?, ?)
			 ON CONFLICT(label, uid) DO UPDATE SET props = excluded.props`,
			n.Label, n.ID, string(data),
		); err != nil {
			return FixtureSummary{}, fmt.Errorf("inserting node %s:%s: %w", n.Label, n.ID, err)
		}
		summary.Nodes++
	}

	for i, e := range fx.Edges {
		if e.Type == "" {
			return FixtureSummary{}, fmt.Errorf("edge %d: type is required", i)
		}
		src, err := lookupNode(ctx, tx, e.From)
		if err != nil {
			return FixtureSummary{}, fmt.Errorf("edge %d source: %w", i, err)
		}
		dst, err := lookupNode(ctx, tx, e.To)
		if err != nil {
			return FixtureSummary{}, fmt.Errorf("edge %d target: %w", i, err)
		}
		var rank any
		if e.Rank != nil {
			rank = int64(*e.Rank)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO edges (src, dst, type, rank) VALUES (?, ?, ?, ?)
			 ON CONFLICT(src, dst, type) DO UPDATE SET rank = excluded.rank`,
			src, dst, e.Type, rank,
		); err != nil {
			return FixtureSummary{}, fmt.Errorf("inserting edge %s-%s->%s: %w", e.From, e.Type, e.To, err)
		}
		summary.Edges++
	}

	if err := tx.Commit(); err != nil {
		return FixtureSummary{}, fmt.Errorf("committing fixture: %w", err)
	}
	return summary, nil
}

func lookupNode(ctx context.Context, tx *sql.Tx, ref string) (int64, error) {
	label, id, ok := strings.Cut(ref, ":")
	if !ok || label == "" || id == "" {
		return 0, fmt.Errorf("malformed node reference %q (want Label:id)", ref)
	}
	var rowID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM nodes WHERE label = ? AND uid = ?`, label, id).Scan(&rowID); err != nil {
		return 0, fmt.Errorf("node %s not found: %w", ref, err)
	}
	return rowID, nil
}
