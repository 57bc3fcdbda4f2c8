// Package server is the HTTP and WebSocket gateway in front of the assistant
// graph. Every reply is plain text for the UI; graph failures surface as a
// warning message in the response body, never as a 5xx with a raw error.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/telecom-assist-poc/server/internal/agent/graph"
	"github.com/telecom-assist-poc/server/internal/agent/model"
	logx "github.com/telecom-assist-poc/server/pkg/logger"
)

// Config holds the presentation layer settings.
type Config struct {
	Addr string `envconfig:"HTTP_ADDR" default:":8080"`
}

// Server wires the session manager, transcript store and graph runner behind
// the HTTP API.
type Server struct {
	runner      graph.Runner
	sessions    *SessionManager
	transcripts model.TranscriptRepository
}

func New(runner graph.Runner, sessions *SessionManager, transcripts model.TranscriptRepository) *Server {
	return &Server{
		runner:      runner,
		sessions:    sessions,
		transcripts: transcripts,
	}
}

// Handler returns the HTTP routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

type loginRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sessionID, err := s.sessions.Login(req.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, "please provide a valid email address")
		return
	}

	logx.Info().Str("session_id", sessionID).Msg("Customer logged in")
	writeJSON(w, http.StatusOK, loginResponse{SessionID: sessionID, Email: req.Email})
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.sessions.Logout(r.Context(), req.SessionID); err != nil {
		logx.Error().Err(err).Str("session_id", req.SessionID).Msg("Logout cleanup failed")
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	answer := s.answer(r.Context(), req.SessionID, req.Query)
	writeJSON(w, http.StatusOK, chatResponse{SessionID: req.SessionID, Response: answer})
}

// answer runs one query through the graph and records both turns. Any graph
// error is rendered as warning text so the chat flow keeps going.
func (s *Server) answer(ctx context.Context, sessionID, query string) string {
	customer := s.sessions.Customer(sessionID)

	if err := s.transcripts.Append(ctx, sessionID, model.Turn{Role: model.RoleUser, Text: query}); err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("Failed to record user turn")
	}

	answer, err := s.runner.Invoke(ctx, model.QueryInput{
		SessionID: sessionID,
		Query:     query,
		Customer:  customer,
	})
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("Graph invocation failed")
		answer = fmt.Sprintf("⚠️ Something went wrong while generating a response.\n\nTechnical details: %T: %v", err, err)
	}

	if err := s.transcripts.Append(ctx, sessionID, model.Turn{Role: model.RoleAssistant, Text: answer}); err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("Failed to record assistant turn")
	}
	return answer
}

type historyResponse struct {
	SessionID string       `json:"session_id"`
	Turns     []model.Turn `json:"turns"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	turns, err := s.transcripts.History(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load history")
		return
	}
	if turns == nil {
		turns = []model.Turn{}
	}
	writeJSON(w, http.StatusOK, historyResponse{SessionID: sessionID, Turns: turns})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
