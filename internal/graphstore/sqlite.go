// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is an embedded property graph. Nodes carry a label, the
// identifier used by queries (uid) and a JSON object of properties; edges
// carry a type and the optional authorship rank.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens or creates the database at path and creates the
// schema if it does not exist.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS nodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			label TEXT NOT NULL,
			uid TEXT NOT NULL,
			props TEXT NOT NULL DEFAULT '{}',
			UNIQUE(label, uid)
		)`,
		`CREATE TABLE IF NOT EXISTS edges (
			src INTEGER NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
			dst INTEGER NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			rank INTEGER,
			UNIQUE(src, dst, type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_label ON nodes(label)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_src ON edges(src, type)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_dst ON edges(dst, type)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// Ping verifies the database can be reached.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable("pinging sqlite", err)
	}
	return nil
}

// Acquire takes a dedicated connection and opens a transaction on it so
// every traversal of the session reads the same snapshot.
func (s *SQLiteStore) Acquire(ctx context.Context) (Session, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, unavailable("acquiring sqlite connection", err)
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		conn.Close()
		return nil, unavailable("beginning read transaction", err)
	}
	return &sqliteSession{conn: conn, tx: tx}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close(context.Context) error {
	return s.db.Close()
}

type sqliteSession struct {
	conn *sql.Conn
	tx   *sql.Tx
}

func (s *sqliteSession) Execute(ctx context.Context, stmt Statement, params Params) ([]Record, error) {
	if stmt.SQL == "" {
		return nil, fmt.Errorf("statement %s has no SQL rendition", stmt.Name)
	}
	args, err := bindArgs(stmt.SQL, params)
	if err != nil {
		return nil, fmt.Errorf("binding %s: %w", stmt.Name, err)
	}

	rows, err := s.tx.QueryContext(ctx, stmt.SQL, args...)
	if err != nil {
		return nil, unavailable("executing "+stmt.Name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, unavailable("reading columns of "+stmt.Name, err)
	}

	var records []Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, unavailable("scanning "+stmt.Name, err)
		}

		rec := make(Record, len(cols))
		for i, col := range cols {
			v := values[i]
			if slices.Contains(stmt.JSONFields, col) {
				decoded, err := decodeJSONField(v)
				if err != nil {
					return nil, fmt.Errorf("decoding %s.%s: %w", stmt.Name, col, err)
				}
				v = decoded
			}
			rec[col] = v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating "+stmt.Name, err)
	}
	return records, nil
}

func (s *sqliteSession) Close(context.Context) error {
	// The transaction only ever reads; rolling back ends it.
	rerr := s.tx.Rollback()
	cerr := s.conn.Close()
	if rerr != nil && rerr != sql.ErrTxDone {
		return rerr
	}
	return cerr
}

var paramPattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// bindArgs binds exactly the parameters the SQL text references. List
// values are passed as JSON arrays for use with json_each.
func bindArgs(query string, params Params) ([]any, error) {
	var (
		args []any
		seen = map[string]bool{}
	)
	for _, m := range paramPattern.FindAllStringSubmatch(query, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true

		v := params[name]
		switch val := v.(type) {
		case []string, []any, []int:
			data, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("encoding parameter %s: %w", name, err)
			}
			v = string(data)
		case int:
			v = int64(val)
		}
		args = append(args, sql.Named(name, v))
	}
	return args, nil
}

func decodeJSONField(v any) (any, error) {
	var data []byte
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		data = []byte(val)
	case []byte:
		data = val
	default:
		return v, nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
