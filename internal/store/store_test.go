package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB creates a throwaway SQLite file with a small customer dataset.
func newTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "telecom.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE customers (customer_id TEXT, name TEXT, email TEXT, service_plan_id TEXT)`,
		`INSERT INTO customers VALUES ('C001', 'Asha Rao', 'asha@example.com', 'P01')`,
		`INSERT INTO customers VALUES ('C002', 'Vik Shah', 'vik@example.com', 'P02')`,
		`CREATE TABLE service_plans (plan_id TEXT, name TEXT, monthly_cost REAL)`,
		`INSERT INTO service_plans VALUES ('P01', 'Saver', 299)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return path
}

func TestStore_Query(t *testing.T) {
	s := Open(newTestDB(t))

	rows, err := s.Query(context.Background(), "SELECT * FROM customers WHERE email = ?", "asha@example.com")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, []string{"customer_id", "name", "email", "service_plan_id"}, row.Columns)
	assert.Equal(t, "C001", row.GetString("customer_id"))
	assert.Equal(t, "Asha Rao", row.GetString("name"))
}

func TestStore_Query_NoRows(t *testing.T) {
	s := Open(newTestDB(t))

	rows, err := s.Query(context.Background(), "SELECT * FROM customers WHERE email = ?", "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStore_Query_BadSQL(t *testing.T) {
	s := Open(newTestDB(t))

	_, err := s.Query(context.Background(), "SELECT * FROM missing_table")
	assert.Error(t, err)
}

func TestStore_Tables(t *testing.T) {
	s := Open(newTestDB(t))

	tables, err := s.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "service_plans"}, tables)
}

func TestRow_Get(t *testing.T) {
	row := Row{
		Columns: []string{"a", "b"},
		Values:  map[string]any{"a": int64(7), "b": nil},
	}
	assert.Equal(t, int64(7), row.Get("a"))
	assert.Nil(t, row.Get("b"))
	assert.Nil(t, row.Get("missing"))
	assert.Equal(t, "7", row.GetString("a"))
	assert.Equal(t, "", row.GetString("b"))
}
