package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/telecom-assist-poc/server/internal/agent/model"
	"github.com/telecom-assist-poc/server/internal/agent/prompts"
	"github.com/telecom-assist-poc/server/internal/store"
	logx "github.com/telecom-assist-poc/server/pkg/logger"
)

// snapshotRowLimit bounds how many rows of any table end up in the snapshot.
const snapshotRowLimit = 5

// candidateIdentifierColumns are tried in order against every discovered
// table when filtering for the customer. The first table/column combination
// that yields rows wins.
var candidateIdentifierColumns = []string{
	"customer_id", "customerid", "email", "phone", "msisdn", "account_id",
}

// Billing answers billing and account questions with two chained model
// calls: a technical investigation over a database snapshot, then a
// customer-facing advisory rewrite.
type Billing struct {
	deps Deps
}

func NewBilling(deps Deps) *Billing {
	return &Billing{deps: deps}
}

func (h *Billing) Name() string {
	return "billing"
}

func (h *Billing) Handle(ctx context.Context, query string, customer model.Customer) string {
	if h.deps.ConfigErr != nil {
		return diagnostic("Sorry, I cannot analyze billing questions right now.", h.deps.ConfigErr)
	}

	// The snapshot builder degrades to partial or empty context; a missing
	// row must never fail the request.
	snapshot := BuildBillingSnapshot(ctx, h.deps.Store, customer.Identifier())

	investigatorSys, err := prompts.RenderBillingInvestigator(ctx, h.deps.Prompt)
	if err != nil {
		return diagnostic("Sorry, I ran into a problem while analyzing your billing question.", err)
	}
	investigation := fmt.Sprintf(
		"Customer identifier: %s\nCustomer question: %s\n\nDatabase snapshot:\n%s",
		identifierOrUnknown(customer), query, snapshot,
	)
	summary, err := h.deps.generate(ctx, h.deps.Analysis, h.deps.AnalysisModelName, investigatorSys, investigation)
	if err != nil {
		return diagnostic("Sorry, I ran into a problem while analyzing your billing question.", err)
	}

	advisorSys, err := prompts.RenderBillingAdvisor(ctx, h.deps.Prompt)
	if err != nil {
		return diagnostic("Sorry, I ran into a problem while analyzing your billing question.", err)
	}
	handoff := fmt.Sprintf(
		"Customer question: %s\n\nTechnical summary from the billing specialist:\n%s",
		query, summary,
	)
	answer, err := h.deps.generate(ctx, h.deps.Advisory, h.deps.AdvisoryModelName, advisorSys, handoff)
	if err != nil {
		return diagnostic("Sorry, I ran into a problem while analyzing your billing question.", err)
	}
	return answer
}

// BuildBillingSnapshot renders a textual snapshot of the database for the
// prompt: every discovered table with either rows filtered by the customer
// identifier (first candidate column that matches wins) or, failing that,
// an unfiltered sample. SQL errors per attempt are skipped silently; the
// snapshot is best effort and never fails the request.
func BuildBillingSnapshot(ctx context.Context, s *store.Store, identifier string) string {
	var lines []string
	lines = append(lines, "Database file: "+s.Path(), "Discovered tables:")

	tables, err := s.Tables(ctx)
	if err != nil {
		return fmt.Sprintf("(Failed to inspect database tables: %T: %v)", err, err)
	}
	if len(tables) == 0 {
		return "(No tables found in the database.)"
	}

	for _, table := range tables {
		lines = append(lines, "", "Table: "+table)

		var filtered []store.Row
		if identifier != "" {
			for _, col := range candidateIdentifierColumns {
				rows, err := s.Query(ctx,
					fmt.Sprintf("SELECT * FROM %s WHERE %s = ? LIMIT %d", table, col, snapshotRowLimit),
					identifier,
				)
				if err != nil {
					// Column might not exist in this table; ignore.
					continue
				}
				if len(rows) > 0 {
					filtered = rows
					lines = append(lines, fmt.Sprintf("  Rows for %s = %q:", col, identifier))
					lines = append(lines, formatRows(rows))
					break
				}
			}
		}

		if len(filtered) == 0 {
			rows, err := s.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, snapshotRowLimit))
			if err != nil {
				logx.Debug().Err(err).Str("table", table).Msg("Sample query failed")
				lines = append(lines, fmt.Sprintf("  (Failed to query table %s: %T: %v)", table, err, err))
				continue
			}
			lines = append(lines, "  Sample rows:")
			lines = append(lines, formatRows(rows))
		}
	}

	return strings.Join(lines, "\n")
}

// formatRows turns rows into a readable snippet preserving column order.
func formatRows(rows []store.Row) string {
	if len(rows) == 0 {
		return "  (no rows)"
	}
	if len(rows) > snapshotRowLimit {
		rows = rows[:snapshotRowLimit]
	}

	var b strings.Builder
	b.WriteString("  Columns: " + strings.Join(rows[0].Columns, ", "))
	for _, r := range rows {
		parts := make([]string, 0, len(r.Columns))
		for _, col := range r.Columns {
			parts = append(parts, fmt.Sprintf("%s=%v", col, r.Get(col)))
		}
		b.WriteString("\n  - " + strings.Join(parts, ", "))
	}
	return b.String()
}
