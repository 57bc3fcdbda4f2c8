// Package store is a thin read-only shim over the telecom SQLite database.
// It runs parametrized queries and returns rows as ordered column/value
// mappings, which the context builders render into prompt text.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	errx "github.com/telecom-assist-poc/server/internal/core/error"
)

// Row is one result row. Columns preserves the SELECT order so rendered
// snapshots are stable; Values maps column name to the scanned value.
type Row struct {
	Columns []string
	Values  map[string]any
}

// Get returns the value for a column, nil when absent.
func (r Row) Get(column string) any {
	if r.Values == nil {
		return nil
	}
	return r.Values[column]
}

// GetString renders the value for a column as a string, "" when absent or NULL.
func (r Row) GetString(column string) string {
	v := r.Get(column)
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// Store executes read queries against a single file-backed SQLite database.
// The connection is opened and closed per call; there is no pooling, no
// transactions and no writes, so concurrent read-only use is safe.
type Store struct {
	path string
}

// Open returns a Store for the database file at path. The file is not
// touched until the first query.
func Open(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Query runs a parametrized read query and returns all rows.
func (s *Store) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, errx.WrapStore(err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errx.WrapStore(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errx.WrapStore(err)
	}

	var out []Row
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errx.WrapStore(err)
		}

		values := make(map[string]any, len(cols))
		for i, col := range cols {
			values[col] = normalize(raw[i])
		}
		out = append(out, Row{Columns: cols, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapStore(err)
	}
	return out, nil
}

// Tables lists all table names in the database, sorted by name.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.Query(ctx, "SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		if n := r.GetString("name"); n != "" {
			names = append(names, n)
		}
	}
	return names, nil
}

// normalize converts driver byte slices to strings so rendered snapshots
// stay readable.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
