package model

import "context"

// Turn is one prior message of the session transcript, replayed into the UI
// (not into the LLM calls).
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TranscriptRepository stores the per-session chat transcript. The transcript
// outlives individual requests and is appended to, never rewritten.
type TranscriptRepository interface {
	// Append adds a turn to the session transcript.
	Append(ctx context.Context, sessionID string, turn Turn) error

	// History returns the transcript in append order.
	History(ctx context.Context, sessionID string) ([]Turn, error)

	// Clear removes the whole transcript for a session.
	Clear(ctx context.Context, sessionID string) error

	// TurnCount returns the number of turns in the session transcript.
	TurnCount(ctx context.Context, sessionID string) (int, error)
}
