package handlers

import (
	"context"
	"fmt"

	"github.com/telecom-assist-poc/server/internal/agent/model"
	"github.com/telecom-assist-poc/server/internal/agent/prompts"
)

// Section headers of the final network reply, in order.
const (
	SectionDiagnostics = "### Network Diagnostics (Internal)"
	SectionResolution  = "### Final Explanation"
)

// Network troubleshoots connectivity issues with two chained model calls:
// a diagnostic pass producing an internal technical summary, then a rewrite
// pass turning it into a customer-facing explanation. Both are concatenated
// into the final text under labeled sections.
type Network struct {
	deps Deps
}

func NewNetwork(deps Deps) *Network {
	return &Network{deps: deps}
}

func (h *Network) Name() string {
	return "network"
}

func (h *Network) Handle(ctx context.Context, query string, customer model.Customer) string {
	if h.deps.ConfigErr != nil {
		return diagnostic("Sorry, I cannot diagnose network issues right now.", h.deps.ConfigErr)
	}

	diagSys, err := prompts.RenderNetworkDiagnostics(ctx, h.deps.Prompt)
	if err != nil {
		return diagnostic("Sorry, I ran into a problem while diagnosing your network issue.", err)
	}
	report := fmt.Sprintf(
		"Customer identifier: %s\nReported issue: %s\nGenerate your technical diagnostic analysis:",
		identifierOrUnknown(customer), query,
	)
	diagnostics, err := h.deps.generate(ctx, h.deps.Analysis, h.deps.AnalysisModelName, diagSys, report)
	if err != nil {
		return diagnostic("Sorry, I ran into a problem while diagnosing your network issue.", err)
	}

	resSys, err := prompts.RenderNetworkResolution(ctx, h.deps.Prompt)
	if err != nil {
		return diagnostic("Sorry, I ran into a problem while diagnosing your network issue.", err)
	}
	handoff := fmt.Sprintf(
		"Here is the technical diagnostics summary from the engineering system:\n\n%s\n\nConvert this into a helpful customer-facing explanation with steps.",
		diagnostics,
	)
	resolution, err := h.deps.generate(ctx, h.deps.Advisory, h.deps.AdvisoryModelName, resSys, handoff)
	if err != nil {
		return diagnostic("Sorry, I ran into a problem while diagnosing your network issue.", err)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n%s", SectionDiagnostics, diagnostics, SectionResolution, resolution)
}
