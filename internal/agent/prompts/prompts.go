// Package prompts renders the fixed system prompts for the domain handlers.
// Templates are embedded and rendered through the Eino prompt component so
// prompt callbacks fire for every render.
package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/telecom-assist-poc/server/internal/agent/model"
)

//go:embed templates/billing_investigator.txt
var billingInvestigatorPrompt string

//go:embed templates/billing_advisor.txt
var billingAdvisorPrompt string

//go:embed templates/network_diagnostics.txt
var networkDiagnosticsPrompt string

//go:embed templates/network_resolution.txt
var networkResolutionPrompt string

//go:embed templates/plan_advisor.txt
var planAdvisorPrompt string

//go:embed templates/knowledge_support.txt
var knowledgeSupportPrompt string

// render formats one embedded system template with the prompt config via the
// Eino prompt component (Go template syntax) and returns the final string.
func render(ctx context.Context, tplText string, cfg model.PromptConfig) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(tplText),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"OperatorName": cfg.OperatorName,
		"Currency":     cfg.Currency,
	})
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("render system prompt: empty result")
	}
	return msgs[0].Content, nil
}

// RenderBillingInvestigator renders the technical billing-investigation prompt.
func RenderBillingInvestigator(ctx context.Context, cfg model.PromptConfig) (string, error) {
	return render(ctx, billingInvestigatorPrompt, cfg)
}

// RenderBillingAdvisor renders the customer-facing billing summary prompt.
func RenderBillingAdvisor(ctx context.Context, cfg model.PromptConfig) (string, error) {
	return render(ctx, billingAdvisorPrompt, cfg)
}

// RenderNetworkDiagnostics renders the internal diagnostics prompt.
func RenderNetworkDiagnostics(ctx context.Context, cfg model.PromptConfig) (string, error) {
	return render(ctx, networkDiagnosticsPrompt, cfg)
}

// RenderNetworkResolution renders the customer-facing resolution prompt.
func RenderNetworkResolution(ctx context.Context, cfg model.PromptConfig) (string, error) {
	return render(ctx, networkResolutionPrompt, cfg)
}

// RenderPlanAdvisor renders the plan recommendation prompt.
func RenderPlanAdvisor(ctx context.Context, cfg model.PromptConfig) (string, error) {
	return render(ctx, planAdvisorPrompt, cfg)
}

// RenderKnowledgeSupport renders the documentation Q&A prompt.
func RenderKnowledgeSupport(ctx context.Context, cfg model.PromptConfig) (string, error) {
	return render(ctx, knowledgeSupportPrompt, cfg)
}
