// Package handlers contains the four LLM-backed domain handlers plus the
// static fallback. A handler turns one query into one text answer and never
// returns an error: every failure is rendered as a short, user-safe
// diagnostic string so nothing bubbles past the presentation boundary.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/telecom-assist-poc/server/internal/agent/model"
	errx "github.com/telecom-assist-poc/server/internal/core/error"
	"github.com/telecom-assist-poc/server/internal/knowledge"
	"github.com/telecom-assist-poc/server/internal/store"
	logx "github.com/telecom-assist-poc/server/pkg/logger"
)

// Handler is a domain-specific procedure producing a final text answer.
type Handler interface {
	// Name tags the handler's output in the request state.
	Name() string

	// Handle answers the query for the (possibly anonymous) customer.
	// It always returns text, never an error.
	Handle(ctx context.Context, query string, customer model.Customer) string
}

// Deps carries everything a handler may need. Analysis/Advisory are nil when
// the LLM layer could not be configured; ConfigErr then holds the reason and
// every model-backed handler degrades to a diagnostic reply.
type Deps struct {
	Store   *store.Store
	Library *knowledge.Library

	Analysis          einomodel.BaseChatModel
	Advisory          einomodel.BaseChatModel
	AnalysisModelName string
	AdvisoryModelName string

	Prompt model.PromptConfig
	TopK   int

	ConfigErr error
}

// generate issues one chat completion with a fixed system prompt plus user
// message and returns the raw text.
func (d Deps) generate(ctx context.Context, cm einomodel.BaseChatModel, modelName, system, user string) (string, error) {
	out, err := cm.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	})
	if err != nil {
		return "", errx.WrapModel(err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", errx.WrapModel(errors.New("model returned an empty response"))
	}
	logUsage(modelName, out)
	return out.Content, nil
}

// logUsage logs token counts and USD cost for one model call when the
// provider reported usage.
func logUsage(modelName string, out *schema.Message) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(modelName))
	logx.Debug().
		Str("model", modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}

// diagnostic renders an error as a user-safe reply embedding the error's
// type name and message. The raw error never propagates further.
func diagnostic(intro string, err error) string {
	return fmt.Sprintf("⚠️ %s\n\nTechnical details: %T: %v", intro, err, err)
}

// identifierOrUnknown renders the customer lookup key for prompt text.
func identifierOrUnknown(customer model.Customer) string {
	if id := customer.Identifier(); id != "" {
		return id
	}
	return "unknown"
}
