package graph

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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telecom-assist-poc/server/internal/agent/graph/aggregate"
	"github.com/telecom-assist-poc/server/internal/agent/graph/route"
	"github.com/telecom-assist-poc/server/internal/agent/handlers"
	"github.com/telecom-assist-poc/server/internal/agent/model"
	errx "github.com/telecom-assist-poc/server/internal/core/error"
	"github.com/telecom-assist-poc/server/internal/knowledge"
	"github.com/telecom-assist-poc/server/internal/store"
)

// stubModel replies with a fixed text for every Generate call.
type stubModel struct {
	mu    sync.Mutex
	reply string
	calls int
}

var _ einomodel.BaseChatModel = (*stubModel)(nil)

func (m *stubModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func seedWorld(t *testing.T) (*store.Store, *knowledge.Library) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "telecom.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()
	stmts := []string{
		`CREATE TABLE customers (customer_id TEXT, name TEXT, email TEXT, service_plan_id TEXT)`,
		`INSERT INTO customers VALUES ('C001', 'Asha Rao', 'asha@example.com', 'P01')`,
		`CREATE TABLE service_plans (plan_id TEXT, name TEXT, monthly_cost REAL)`,
		`INSERT INTO service_plans VALUES ('P01', 'Saver', 299)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	docsDir := t.TempDir()
	doc := "# APN Setup\n\nTo configure APN settings open mobile network settings."
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "apn.md"), []byte(doc), 0o644))

	return store.Open(dbPath), knowledge.NewLibrary(docsDir)
}

// newTestRunner compiles the graph over stub models so no network is involved.
func newTestRunner(t *testing.T, analysis, advisory *stubModel) Runner {
	t.Helper()

	db, library := seedWorld(t)
	deps := handlers.Deps{
		Store:             db,
		Library:           library,
		Analysis:          analysis,
		Advisory:          advisory,
		AnalysisModelName: "stub-analysis",
		AdvisoryModelName: "stub-advisory",
		Prompt:            model.PromptConfig{OperatorName: "IndiTel", Currency: "₹"},
		TopK:              3,
	}

	runnable, err := BuildGraph(context.Background(), &GraphConfig{
		Handlers: map[string]handlers.Handler{
			route.NodeBillingHandler:   handlers.NewBilling(deps),
			route.NodeNetworkHandler:   handlers.NewNetwork(deps),
			route.NodePlanHandler:      handlers.NewPlan(deps),
			route.NodeKnowledgeHandler: handlers.NewKnowledge(deps),
			route.NodeFallbackHandler:  handlers.NewFallback(),
		},
	})
	require.NoError(t, err)
	return &graphRunner{runnable: runnable}
}

func TestGraph_BillingQueryEndToEnd(t *testing.T) {
	analysis := &stubModel{reply: "bill driven by data overage"}
	advisory := &stubModel{reply: "Your July bill is higher due to extra data."}
	runner := newTestRunner(t, analysis, advisory)

	out, err := runner.Invoke(context.Background(), model.QueryInput{
		SessionID: "s1",
		Query:     "Why is my bill higher this month?",
		Customer:  model.Customer{Email: "asha@example.com"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Your July bill is higher due to extra data.", out)
	assert.Equal(t, 1, analysis.calls)
	assert.Equal(t, 1, advisory.calls)
}

func TestGraph_KnowledgeQueryEndToEnd(t *testing.T) {
	analysis := &stubModel{reply: "Open mobile network settings and enter the APN."}
	advisory := &stubModel{reply: "unused"}
	runner := newTestRunner(t, analysis, advisory)

	out, err := runner.Invoke(context.Background(), model.QueryInput{
		SessionID: "s2",
		Query:     "how do I configure apn settings",
	})

	require.NoError(t, err)
	assert.Equal(t, "Open mobile network settings and enter the APN.", out)
	assert.Equal(t, 0, advisory.calls)
}

func TestGraph_UnclassifiableQueryHitsFallback(t *testing.T) {
	analysis := &stubModel{reply: "unused"}
	advisory := &stubModel{reply: "unused"}
	runner := newTestRunner(t, analysis, advisory)

	out, err := runner.Invoke(context.Background(), model.QueryInput{
		SessionID: "s3",
		Query:     "xyzzy gibberish",
	})

	require.NoError(t, err)
	assert.Equal(t, handlers.FallbackText, out)
	assert.Equal(t, 0, analysis.calls)
	assert.Equal(t, 0, advisory.calls)
}

func TestGraph_NetworkQueryContainsBothSections(t *testing.T) {
	analysis := &stubModel{reply: "congestion on the local tower"}
	advisory := &stubModel{reply: "Restart your phone and retry after peak hours."}
	runner := newTestRunner(t, analysis, advisory)

	out, err := runner.Invoke(context.Background(), model.QueryInput{
		SessionID: "s4",
		Query:     "my internet is very slow",
	})

	require.NoError(t, err)
	assert.Contains(t, out, handlers.SectionDiagnostics)
	assert.Contains(t, out, handlers.SectionResolution)
	assert.Contains(t, out, "congestion on the local tower")
}

func TestBuildAssistantGraph_MissingAPIKeyDegrades(t *testing.T) {
	db, library := seedWorld(t)

	runner, err := BuildAssistantGraph(context.Background(), Config{
		APIKey:  "",
		Store:   db,
		Library: library,
	})
	require.NoError(t, err, "a missing API key must not abort the build")

	out, err := runner.Invoke(context.Background(), model.QueryInput{
		SessionID: "s5",
		Query:     "explain my bill please",
	})

	require.NoError(t, err)
	assert.Contains(t, out, "⚠️")
	assert.Contains(t, out, errx.ConfigErrorMessage)
}

func TestBuildAssistantGraph_MissingAPIKeyFallbackStillWorks(t *testing.T) {
	db, library := seedWorld(t)

	runner, err := BuildAssistantGraph(context.Background(), Config{
		APIKey:  "",
		Store:   db,
		Library: library,
	})
	require.NoError(t, err)

	out, err := runner.Invoke(context.Background(), model.QueryInput{Query: "xyzzy"})
	require.NoError(t, err)
	assert.Equal(t, handlers.FallbackText, out)
}

func TestBuildGraph_MissingHandlerRejected(t *testing.T) {
	_, err := BuildGraph(context.Background(), &GraphConfig{
		Handlers: map[string]handlers.Handler{
			route.NodeFallbackHandler: handlers.NewFallback(),
		},
	})
	assert.Error(t, err)
}

func TestAggregateFailureTextIsStable(t *testing.T) {
	assert.Equal(t, "Something went wrong while generating a response.", aggregate.FailureText)
}
