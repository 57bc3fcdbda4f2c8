// Package classify maps a raw user query to an intent label using ordered
// keyword membership tests. First match wins, so the rule order imposes a
// strict priority: billing > network > plan > knowledge. Queries matching no
// rule classify as fallback.
package classify

import (
	"strings"

	"github.com/telecom-assist-poc/server/internal/agent/model"
)

type rule struct {
	label    model.IntentLabel
	keywords []string
}

// priority is the explicit (label, keyword-set) list evaluated in order.
// Keep the order stable: it determines ambiguous-query behavior (a query
// containing both "bill" and "network" is billing).
var priority = []rule{
	{model.IntentBilling, []string{"bill", "charge", "payment", "account", "due date", "invoice"}},
	{model.IntentNetwork, []string{"network", "signal", "connection", "call", "data", "slow", "internet", "5g", "4g"}},
	{model.IntentPlan, []string{"plan", "recommend", "upgrade", "downgrade", "best", "family", "pack"}},
	{model.IntentKnowledge, []string{"how", "what", "configure", "setup", "apn", "volte", "roaming", "esim"}},
}

// Classify returns the intent label for a query. Total and deterministic:
// it always returns a label and never fails. The only normalization applied
// is lowercasing.
func Classify(query string) model.IntentLabel {
	q := strings.ToLower(query)
	for _, r := range priority {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.label
			}
		}
	}
	return model.IntentFallback
}
