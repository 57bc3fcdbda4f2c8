package handlers

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/require"

	"github.com/telecom-assist-poc/server/internal/agent/model"
	"github.com/telecom-assist-poc/server/internal/knowledge"
	"github.com/telecom-assist-poc/server/internal/store"
)

// stubModel replays scripted replies and records every Generate input.
type stubModel struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]*schema.Message
}

var _ einomodel.BaseChatModel = (*stubModel)(nil)

func (m *stubModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, in)
	if m.err != nil {
		return nil, m.err
	}
	idx := len(m.calls) - 1
	if idx >= len(m.replies) {
		idx = len(m.replies) - 1
	}
	if idx < 0 {
		return nil, errors.New("stub has no replies")
	}
	return schema.AssistantMessage(m.replies[idx], nil), nil
}

func (m *stubModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (m *stubModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// userContent returns the user message content of call i.
func (m *stubModel) userContent(t *testing.T, i int) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.Less(t, i, len(m.calls))
	for _, msg := range m.calls[i] {
		if msg != nil && msg.Role == schema.User {
			return msg.Content
		}
	}
	t.Fatalf("call %d has no user message", i)
	return ""
}

// seedTelecomDB creates a SQLite file with the three telecom tables.
func seedTelecomDB(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "telecom.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE service_plans (
			plan_id TEXT, name TEXT, monthly_cost REAL,
			data_limit_gb REAL, voice_minutes INTEGER, sms_count INTEGER,
			unlimited_data INTEGER, unlimited_voice INTEGER, unlimited_sms INTEGER)`,
		`INSERT INTO service_plans VALUES ('P01', 'Saver', 299, 2, 300, 100, 0, 0, 0)`,
		`INSERT INTO service_plans VALUES ('P02', 'Max', 999, 0, 0, 0, 1, 1, 1)`,
		`CREATE TABLE customers (customer_id TEXT, name TEXT, email TEXT, phone TEXT, service_plan_id TEXT)`,
		`INSERT INTO customers VALUES ('C001', 'Asha Rao', 'asha@example.com', '9000000001', 'P01')`,
		`CREATE TABLE customer_usage (
			customer_id TEXT, billing_period_start TEXT, billing_period_end TEXT,
			data_used_gb REAL, voice_minutes_used INTEGER, sms_count_used INTEGER, total_bill_amount REAL)`,
		`INSERT INTO customer_usage VALUES ('C001', '2026-06-01', '2026-06-30', 1.2, 120, 10, 299)`,
		`INSERT INTO customer_usage VALUES ('C001', '2026-07-01', '2026-07-31', 4.5, 210, 25, 478)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return store.Open(path)
}

func seedDocs(t *testing.T) *knowledge.Library {
	t.Helper()
	dir := t.TempDir()
	content := "# APN Setup\n\nTo configure APN settings open mobile network settings and enter the operator APN."
	require.NoError(t, os.WriteFile(filepath.Join(dir, "apn.md"), []byte(content), 0o644))
	return knowledge.NewLibrary(dir)
}

func newTestDeps(t *testing.T, analysis, advisory *stubModel) Deps {
	t.Helper()
	return Deps{
		Store:             seedTelecomDB(t),
		Library:           seedDocs(t),
		Analysis:          analysis,
		Advisory:          advisory,
		AnalysisModelName: "stub-analysis",
		AdvisoryModelName: "stub-advisory",
		Prompt:            model.PromptConfig{OperatorName: "IndiTel", Currency: "₹"},
		TopK:              3,
	}
}
