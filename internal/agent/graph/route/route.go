// Package route is the intent-to-handler lookup table. Its domain equals the
// classifier's range, so routing is a pure total function and no error path
// exists.
package route

import (
	"github.com/telecom-assist-poc/server/internal/agent/model"
)

// Handler node names. The graph registers one node per name and the branch
// condition returns one of them.
const (
	NodeBillingHandler   = "billing_handler"
	NodeNetworkHandler   = "network_handler"
	NodePlanHandler      = "plan_handler"
	NodeKnowledgeHandler = "knowledge_handler"
	NodeFallbackHandler  = "fallback_handler"
)

var table = map[model.IntentLabel]string{
	model.IntentBilling:   NodeBillingHandler,
	model.IntentNetwork:   NodeNetworkHandler,
	model.IntentPlan:      NodePlanHandler,
	model.IntentKnowledge: NodeKnowledgeHandler,
	model.IntentFallback:  NodeFallbackHandler,
}

// Route selects exactly one handler node for the label. Labels outside the
// classifier's range cannot occur, but an unknown value still degrades to
// the fallback handler rather than failing.
func Route(label model.IntentLabel) string {
	if node, ok := table[label]; ok {
		return node
	}
	return NodeFallbackHandler
}

// Targets returns the set of nodes the routing branch may select.
func Targets() map[string]bool {
	return map[string]bool{
		NodeBillingHandler:   true,
		NodeNetworkHandler:   true,
		NodePlanHandler:      true,
		NodeKnowledgeHandler: true,
		NodeFallbackHandler:  true,
	}
}
