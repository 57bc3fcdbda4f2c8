// Package repo provides the transcript storage backing the chat UI. The only
// implementation is in-memory: transcripts live for the process lifetime and
// are lost on restart.
package repo

import (
	"context"
	"sync"

	"github.com/telecom-assist-poc/server/internal/agent/model"
)

// MemoryTranscriptRepository keeps per-session transcripts in a map guarded
// by a RWMutex. Safe for concurrent use.
type MemoryTranscriptRepository struct {
	mu    sync.RWMutex
	turns map[string][]model.Turn
}

var _ model.TranscriptRepository = (*MemoryTranscriptRepository)(nil)

func NewMemoryTranscriptRepository() *MemoryTranscriptRepository {
	return &MemoryTranscriptRepository{
		turns: make(map[string][]model.Turn),
	}
}

func (r *MemoryTranscriptRepository) Append(ctx context.Context, sessionID string, turn model.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns[sessionID] = append(r.turns[sessionID], turn)
	return nil
}

func (r *MemoryTranscriptRepository) History(ctx context.Context, sessionID string) ([]model.Turn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	turns := r.turns[sessionID]
	out := make([]model.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (r *MemoryTranscriptRepository) Clear(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.turns, sessionID)
	return nil
}

func (r *MemoryTranscriptRepository) TurnCount(ctx context.Context, sessionID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.turns[sessionID]), nil
}
