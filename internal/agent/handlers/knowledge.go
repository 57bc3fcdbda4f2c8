package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/telecom-assist-poc/server/internal/agent/model"
	"github.com/telecom-assist-poc/server/internal/agent/prompts"
)

// Knowledge answers how-to and technical support questions from the top-k
// nearest documentation chunks, asking the model to stay within that context.
type Knowledge struct {
	deps Deps
}

func NewKnowledge(deps Deps) *Knowledge {
	return &Knowledge{deps: deps}
}

func (h *Knowledge) Name() string {
	return "knowledge"
}

func (h *Knowledge) Handle(ctx context.Context, query string, customer model.Customer) string {
	if h.deps.ConfigErr != nil {
		return diagnostic("Sorry, the knowledge assistant is not available right now.", h.deps.ConfigErr)
	}

	chunks, err := h.deps.Library.Search(ctx, query, h.deps.TopK)
	if err != nil {
		// Index build or search failure: degrade to a generic caveat.
		return diagnostic(
			"The knowledge base is not available right now. As a general note, exact steps vary by device and operator; please consult your device manual or contact support.",
			err,
		)
	}

	var excerpts strings.Builder
	for _, c := range chunks {
		fmt.Fprintf(&excerpts, "[Source: %s]\n%s\n\n", c.Source, c.Text)
	}
	if excerpts.Len() == 0 {
		excerpts.WriteString("(no matching documentation found)\n\n")
	}

	sys, err := prompts.RenderKnowledgeSupport(ctx, h.deps.Prompt)
	if err != nil {
		return diagnostic("Sorry, I ran into a problem while searching the knowledge base.", err)
	}
	user := fmt.Sprintf(
		"Customer: %s\nQuestion: %s\n\nDocumentation excerpts:\n%sAnswer using only the documentation above.",
		identifierOrUnknown(customer), query, excerpts.String(),
	)

	answer, err := h.deps.generate(ctx, h.deps.Analysis, h.deps.AnalysisModelName, sys, user)
	if err != nil {
		return diagnostic("Sorry, I ran into a problem while searching the knowledge base.", err)
	}
	return answer
}
