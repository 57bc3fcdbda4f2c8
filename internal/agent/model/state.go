package model

// IntentLabel is the closed-set classification of a user query that drives
// routing. The classifier's range equals the router's domain, so routing is
// total by construction.
type IntentLabel string

const (
	IntentBilling   IntentLabel = "billing_account"
	IntentNetwork   IntentLabel = "network_troubleshooting"
	IntentPlan      IntentLabel = "service_recommendation"
	IntentKnowledge IntentLabel = "knowledge_retrieval"
	IntentFallback  IntentLabel = "fallback"
)

// String returns the label's wire representation.
func (l IntentLabel) String() string {
	return string(l)
}

// AllIntents lists every label the classifier can produce.
func AllIntents() []IntentLabel {
	return []IntentLabel{
		IntentBilling,
		IntentNetwork,
		IntentPlan,
		IntentKnowledge,
		IntentFallback,
	}
}

// Customer carries the optional identity supplied by the login step. The
// routing core only reads it as a lookup key and never mutates it.
type Customer struct {
	Email string `json:"email,omitempty"`
	ID    string `json:"id,omitempty"`
}

// Identifier returns the preferred lookup key (email first, then id), or ""
// when the customer is anonymous.
func (c Customer) Identifier() string {
	if c.Email != "" {
		return c.Email
	}
	return c.ID
}

// QueryInput is the public input for processing one user query.
type QueryInput struct {
	SessionID string   `json:"session_id"`
	Query     string   `json:"query"`
	Customer  Customer `json:"customer"`
}

// HandlerOutput is one handler's raw text reply, tagged with the handler name.
type HandlerOutput struct {
	Handler string
	Text    string
}

// RequestState is the per-request value threaded through classification,
// routing, handling and aggregation.
// Concurrency model:
//   - Registered as graph local state via compose.WithGenLocalState.
//   - All reads/writes happen only inside state handlers
//     (WithStatePreHandler, WithStatePostHandler, compose.ProcessState),
//     which the graph runtime serializes, so no extra locking is needed.
//   - Lives for exactly one request/response cycle and is never persisted.
type RequestState struct {
	SessionID      string
	Query          string
	Customer       Customer
	Classification IntentLabel

	// Intermediate holds handler outputs in insertion order. The router
	// selects exactly one handler, so at most one entry exists once routing
	// has run; the ordered slice keeps "first inserted" well defined anyway.
	Intermediate []HandlerOutput

	FinalResponse string
}

// Record appends a handler output, preserving insertion order.
func (s *RequestState) Record(handler, text string) {
	s.Intermediate = append(s.Intermediate, HandlerOutput{Handler: handler, Text: text})
}
