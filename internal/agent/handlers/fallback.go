package handlers

import (
	"context"

	"github.com/telecom-assist-poc/server/internal/agent/model"
)

// FallbackText is the static reply when classification is unclear. No model
// call is involved.
const FallbackText = "I'm not sure how to handle that.\n\n" +
	"You can ask about:\n" +
	"- Billing & account (charges, due dates, invoices)\n" +
	"- Network issues (slow internet, no signal, call drops)\n" +
	"- Plan recommendations (upgrade/downgrade, family plans)\n" +
	"- Technical how-to (APN settings, VoLTE, roaming, eSIM)"

// Fallback handles queries no keyword set matched.
type Fallback struct{}

func NewFallback() *Fallback {
	return &Fallback{}
}

func (h *Fallback) Name() string {
	return "fallback"
}

func (h *Fallback) Handle(ctx context.Context, query string, customer model.Customer) string {
	return FallbackText
}
