package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telecom-assist-poc/server/internal/agent/model"
	errx "github.com/telecom-assist-poc/server/internal/core/error"
	"github.com/telecom-assist-poc/server/internal/store"
)

func TestBuildBillingSnapshot_FiltersByIdentifier(t *testing.T) {
	s := seedTelecomDB(t)

	snapshot := BuildBillingSnapshot(context.Background(), s, "asha@example.com")

	assert.Contains(t, snapshot, "Table: customers")
	assert.Contains(t, snapshot, `Rows for email = "asha@example.com"`)
	assert.Contains(t, snapshot, "Asha Rao")
	// Tables without a matching identifier column fall back to samples.
	assert.Contains(t, snapshot, "Table: service_plans")
	assert.Contains(t, snapshot, "Sample rows:")
}

func TestBuildBillingSnapshot_AnonymousSamplesEverything(t *testing.T) {
	s := seedTelecomDB(t)

	snapshot := BuildBillingSnapshot(context.Background(), s, "")

	assert.NotContains(t, snapshot, "Rows for")
	assert.Contains(t, snapshot, "Table: customers")
	assert.Contains(t, snapshot, "Table: customer_usage")
	assert.Contains(t, snapshot, "Table: service_plans")
}

func TestBuildBillingSnapshot_MissingDatabase(t *testing.T) {
	s := store.Open("/nonexistent/path/telecom.db")

	snapshot := BuildBillingSnapshot(context.Background(), s, "asha@example.com")

	assert.Contains(t, snapshot, "Failed to inspect database tables")
}

func TestBilling_Handle_ChainsInvestigationIntoAdvisory(t *testing.T) {
	analysis := &stubModel{replies: []string{"TECH-SUMMARY: plan P01, bill 478"}}
	advisory := &stubModel{replies: []string{"Your bill went up because of extra data usage."}}
	h := NewBilling(newTestDeps(t, analysis, advisory))

	out := h.Handle(context.Background(), "why is my bill higher?", model.Customer{Email: "asha@example.com"})

	assert.Equal(t, "Your bill went up because of extra data usage.", out)
	require.Equal(t, 1, analysis.callCount())
	require.Equal(t, 1, advisory.callCount())

	// The investigation sees the database snapshot, the advisory sees the
	// investigation summary.
	assert.Contains(t, analysis.userContent(t, 0), "Database snapshot:")
	assert.Contains(t, analysis.userContent(t, 0), "asha@example.com")
	assert.Contains(t, advisory.userContent(t, 0), "TECH-SUMMARY: plan P01, bill 478")
}

func TestBilling_Handle_ModelFailureBecomesDiagnostic(t *testing.T) {
	analysis := &stubModel{err: errors.New("quota exceeded")}
	advisory := &stubModel{replies: []string{"unused"}}
	h := NewBilling(newTestDeps(t, analysis, advisory))

	out := h.Handle(context.Background(), "explain my invoice", model.Customer{Email: "asha@example.com"})

	assert.Contains(t, out, "⚠️")
	assert.Contains(t, out, errx.ModelErrorMessage)
	assert.Equal(t, 0, advisory.callCount())
}

func TestBilling_Handle_ConfigError(t *testing.T) {
	deps := newTestDeps(t, nil, nil)
	deps.Analysis = nil
	deps.Advisory = nil
	deps.ConfigErr = errx.NewConfig(errors.New("GEMINI_API_KEY is not set"))
	h := NewBilling(deps)

	out := h.Handle(context.Background(), "explain my invoice", model.Customer{})

	assert.Contains(t, out, "⚠️")
	assert.Contains(t, out, errx.ConfigErrorMessage)
}

func TestBilling_Name(t *testing.T) {
	assert.Equal(t, "billing", NewBilling(Deps{}).Name())
}
