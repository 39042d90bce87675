// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphstore

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-index/pkg/types"
)

// --- test helpers ---

type countingSession struct {
	closed int
	err    error
}

func (s *countingSession) Execute(context.Context, Statement, Params) ([]Record, error) {
	return []Record{{"n": int64(1)}}, s.err
}

func (s *countingSession) Close(context.Context) error {
	s.closed++
	return nil
}

type countingStore struct {
	session  *countingSession
	acquired int
	fail     error
}

func (s *countingStore) Acquire(context.Context) (Session, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	s.acquired++
	return s.session, nil
}

func (s *countingStore) Close(context.Context) error { return nil }

const sampleFixture = `
nodes:
  - label: Author
    id: A1
    props: {first_name: Ada, last_name: Lovelace}
  - label: Output
    id: P1
    props: {title: Notes, result_type: publication, publication_year: 1843}
edges:
  - {from: "Author:A1", type: author_of, to: "Output:P1", rank: 1}
`

func sqliteSetup(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "graph.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close(context.Background()) })
	return store
}

// --- WithSession ---

func TestWithSessionReleasesOnSuccess(t *testing.T) {
	store := &countingStore{session: &countingSession{}}
	n, err := WithSession(context.Background(), store, func(s Session) (int, error) {
		recs, err := s.Execute(context.Background(), Statement{Name: "x"}, nil)
		return len(recs), err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, store.session.closed)
}

func TestWithSessionReleasesOnError(t *testing.T) {
	store := &countingStore{session: &countingSession{}}
	boom := errors.New("boom")
	_, err := WithSession(context.Background(), store, func(Session) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, store.session.closed)
}

func TestWithSessionReleasesOnPanic(t *testing.T) {
	store := &countingStore{session: &countingSession{}}
	func() {
		defer func() { _ = recover() }()
		_, _ = WithSession(context.Background(), store, func(Session) (int, error) {
			panic("traversal panicked")
		})
	}()
	assert.Equal(t, 1, store.session.closed)
}

func TestWithSessionAcquireFailure(t *testing.T) {
	store := &countingStore{fail: unavailable("connecting", errors.New("refused"))}
	called := false
	_, err := WithSession(context.Background(), store, func(Session) (int, error) {
		called = true
		return 0, nil
	})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.False(t, called)
}

// --- Record ---

func TestRecordAccessors(t *testing.T) {
	rec := Record{
		"name":   "Kenya",
		"year":   float64(2020),
		"count":  int64(3),
		"lat":    float64(0.5),
		"flag":   int64(1),
		"node":   map[string]any{"id": "KEN"},
		"nodes":  []any{map[string]any{"id": "A"}, nil, Record{"id": "B"}},
		"ids":    []any{"x", nil, "y"},
		"absent": nil,
	}

	assert.Equal(t, "Kenya", rec.String("name"))
	assert.Equal(t, "", rec.String("absent"))
	assert.Equal(t, 2020, rec.Int("year"))
	assert.Equal(t, 3, rec.Int("count"))
	assert.Nil(t, rec.IntPtr("absent"))
	require.NotNil(t, rec.FloatPtr("lat"))
	assert.InDelta(t, 0.5, *rec.FloatPtr("lat"), 1e-9)
	require.NotNil(t, rec.BoolPtr("flag"))
	assert.True(t, *rec.BoolPtr("flag"))
	assert.Equal(t, "KEN", rec.Node("node").String("id"))
	assert.Nil(t, rec.Node("absent"))

	nodes := rec.Nodes("nodes")
	require.Len(t, nodes, 2)
	assert.Equal(t, "B", nodes[1].String("id"))
	assert.Equal(t, []string{"x", "y"}, rec.Strings("ids"))
}

// --- SQLite ---

func TestNewSQLiteStoreCreatesSchema(t *testing.T) {
	store := sqliteSetup(t)
	for _, table := range []string{"nodes", "edges"} {
		var name string
		err := store.db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestLoadFixtureAndExecute(t *testing.T) {
	store := sqliteSetup(t)
	ctx := context.Background()

	summary, err := LoadFixture(ctx, store, strings.NewReader(sampleFixture))
	require.NoError(t, err)
	assert.Equal(t, FixtureSummary{Nodes: 2, Edges: 1}, summary)

	stmt := Statement{
		Name: "test.authors_of",
		SQL: `SELECT json(a.props) AS author, e.rank AS rank
FROM nodes o
JOIN edges e ON e.dst = o.id AND e.type = 'author_of'
JOIN nodes a ON a.id = e.src
WHERE o.label = 'Output' AND o.uid = $uuid`,
		JSONFields: []string{"author"},
	}

	recs, err := WithSession(ctx, Store(store), func(s Session) ([]Record, error) {
		return s.Execute(ctx, stmt, Params{"uuid": "P1", "unused": 1})
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Lovelace", recs[0].Node("author").String("last_name"))
	assert.Equal(t, "A1", recs[0].Node("author").String("uuid"))
	assert.Equal(t, 1, recs[0].Int("rank"))
}

func TestExecuteBindsListParameters(t *testing.T) {
	store := sqliteSetup(t)
	ctx := context.Background()
	_, err := LoadFixture(ctx, store, strings.NewReader(sampleFixture))
	require.NoError(t, err)

	stmt := Statement{
		Name: "test.in_list",
		SQL: `SELECT count(*) AS total FROM nodes
WHERE uid IN (SELECT value FROM json_each($ids)) AND ($label IS NULL OR label = $label)`,
	}
	recs, err := WithSession(ctx, Store(store), func(s Session) ([]Record, error) {
		return s.Execute(ctx, stmt, Params{"ids": []string{"A1", "P1", "ZZ"}})
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 2, recs[0].Int("total"))
}

func TestLoadFixtureRejectsDanglingEdge(t *testing.T) {
	store := sqliteSetup(t)
	ctx := context.Background()

	bad := `
nodes:
  - {label: Author, id: A1}
edges:
  - {from: "Author:A1", type: author_of, to: "Output:missing"}
`
	_, err := LoadFixture(ctx, store, strings.NewReader(bad))
	require.Error(t, err)

	var n int
	require.NoError(t, store.db.QueryRow(`SELECT count(*) FROM nodes`).Scan(&n))
	assert.Equal(t, 0, n, "a failed fixture must not leave partial data")
}

func TestExecuteWithoutSQLRendition(t *testing.T) {
	store := sqliteSetup(t)
	ctx := context.Background()
	_, err := WithSession(ctx, Store(store), func(s Session) ([]Record, error) {
		return s.Execute(ctx, Statement{Name: "cypher.only", Cypher: "RETURN 1"}, nil)
	})
	assert.Error(t, err)
}

// --- Dial ---

type flakyPinger struct {
	failures int
	calls    int
}

func (p *flakyPinger) Ping(context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestWaitReadyRetriesThenSucceeds(t *testing.T) {
	p := &flakyPinger{failures: 2}
	err := WaitReady(context.Background(), p, 5, time.Millisecond, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, p.calls)
}

func TestWaitReadyExhaustsRetries(t *testing.T) {
	p := &flakyPinger{failures: 100}
	err := WaitReady(context.Background(), p, 3, time.Millisecond, nil)
	require.Error(t, err)
	// 1 initial + 3 retries = 4 total calls.
	assert.Equal(t, 4, p.calls)
}

func TestWaitReadyContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &flakyPinger{failures: 100}
	err := WaitReady(ctx, p, 5, time.Hour, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDialSQLite(t *testing.T) {
	cfg := types.GraphConfig{
		Backend:    types.BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "dial.db"),
	}
	store, err := Dial(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer store.Close(context.Background())
	assert.IsType(t, &SQLiteStore{}, store)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(types.GraphConfig{Backend: "oracle"})
	assert.Error(t, err)
}

// --- Metrics ---

func TestInstrumentRecordsTraversals(t *testing.T) {
	inner := &countingStore{session: &countingSession{}}
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))

	store := Instrument(inner, m)
	_, err := WithSession(context.Background(), store, func(s Session) ([]Record, error) {
		if _, err := s.Execute(context.Background(), Statement{Name: "author.node"}, nil); err != nil {
			return nil, err
		}
		assert.Equal(t, 1.0, testutil.ToFloat64(m.OpenSessions))
		return s.Execute(context.Background(), Statement{Name: "author.node"}, nil)
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Traversals.WithLabelValues("author.node", "ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.OpenSessions))
	assert.Equal(t, 1, inner.session.closed)
}

func TestInstrumentCountsAcquireFailures(t *testing.T) {
	m := NewMetrics()
	store := Instrument(&countingStore{fail: ErrStoreUnavailable}, m)
	_, err := store.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AcquireFails))
}

func TestFromBolt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"scalar", int64(7), int64(7)},
		{"nil", nil, nil},
		{"node", neo4j.Node{Labels: []string{"Author"}, Props: map[string]any{"uuid": "A1"}}, Record{"uuid": "A1"}},
		{"relationship", neo4j.Relationship{Type: "author_of", Props: map[string]any{"rank": int64(1)}}, Record{"rank": int64(1)}},
		{"list of nodes", []any{neo4j.Node{Props: map[string]any{"id": "KEN"}}, nil}, []any{Record{"id": "KEN"}, nil}},
		{"map with node", map[string]any{"node": neo4j.Node{Props: map[string]any{"uuid": "A2"}}, "rank": int64(3)},
			Record{"node": Record{"uuid": "A2"}, "rank": int64(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fromBolt(tt.in))
		})
	}
}

func TestFromBoltRecordsRankedAuthors(t *testing.T) {
	raw := []*neo4j.Record{{
		Keys: []string{"output", "authors"},
		Values: []any{
			neo4j.Node{Labels: []string{"Output"}, Props: map[string]any{"uuid": "P1", "year": int64(2020)}},
			[]any{
				map[string]any{"node": neo4j.Node{Props: map[string]any{"uuid": "A2", "last_name": "Babbage"}}, "rank": int64(2)},
				map[string]any{"node": nil, "rank": nil},
				map[string]any{"node": neo4j.Node{Props: map[string]any{"uuid": "A1", "last_name": "Lovelace"}}, "rank": int64(1)},
			},
		},
	}}

	recs := fromBoltRecords(raw)
	require.Len(t, recs, 1)
	rec := recs[0]

	assert.Equal(t, "P1", rec.Node("output").String("uuid"))
	assert.Equal(t, 2020, rec.Node("output").Int("year"))

	entries := rec.Nodes("authors")
	require.Len(t, entries, 3, "entries without a node are kept for the assembler to skip")
	assert.Equal(t, "A2", entries[0].Node("node").String("uuid"))
	require.NotNil(t, entries[0].IntPtr("rank"))
	assert.Equal(t, 2, *entries[0].IntPtr("rank"))
	assert.Nil(t, entries[1].Node("node"))
	assert.Nil(t, entries[1].IntPtr("rank"))
	assert.Equal(t, "Lovelace", entries[2].Node("node").String("last_name"))
	assert.Equal(t, 1, *entries[2].IntPtr("rank"))
}

func TestFromBoltRecordsKeys(t *testing.T) {
	raw := []*neo4j.Record{
		{Keys: []string{"total", "result_type"}, Values: []any{int64(4), "dataset"}},
		nil,
		{Keys: []string{"total", "result_type"}, Values: []any{int64(1), "software"}},
	}

	recs := fromBoltRecords(raw)
	require.Len(t, recs, 2)
	assert.Equal(t, Record{"total": int64(4), "result_type": "dataset"}, recs[0])
	assert.Equal(t, 1, recs[1].Int("total"))
	assert.Equal(t, "software", recs[1].String("result_type"))
	assert.Empty(t, fromBoltRecords(nil))
}
