package server

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/telecom-assist-poc/server/internal/agent/model"
)

// SessionManager tracks logged-in customers by session ID. Sessions live in
// memory only; chatting without a session is allowed and treated as
// anonymous.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]model.Customer

	transcripts model.TranscriptRepository
}

func NewSessionManager(transcripts model.TranscriptRepository) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]model.Customer),
		transcripts: transcripts,
	}
}

// Login registers a customer and returns a fresh session ID. The email is
// only sanity-checked; identity is not verified against the database, lookups
// downstream simply find no rows for unknown customers.
func (m *SessionManager) Login(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return "", fmt.Errorf("invalid email %q", email)
	}

	id := uuid.New().String()
	m.mu.Lock()
	m.sessions[id] = model.Customer{Email: email}
	m.mu.Unlock()
	return id, nil
}

// Logout drops the session and clears its transcript. Unknown session IDs
// are a no-op.
func (m *SessionManager) Logout(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return m.transcripts.Clear(ctx, sessionID)
}

// Customer resolves the session to its customer. Unknown or empty session
// IDs resolve to the anonymous customer.
func (m *SessionManager) Customer(sessionID string) model.Customer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[sessionID]
}
