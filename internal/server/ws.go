package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	logx "github.com/telecom-assist-poc/server/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsIncoming struct {
	Text string `json:"text"`
}

type wsResponse struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Text      string `json:"text,omitempty"`
}

// handleWS serves the WebSocket chat: a connected frame carrying the session
// ID, then a typing/message frame pair per incoming text.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logx.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	if err := conn.WriteJSON(wsResponse{Type: "connected", SessionID: sessionID}); err != nil {
		logx.Error().Err(err).Msg("Failed to send connected frame")
		return
	}

	for {
		var incoming wsIncoming
		if err := conn.ReadJSON(&incoming); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logx.Warn().Err(err).Str("session_id", sessionID).Msg("WebSocket closed unexpectedly")
			}
			return
		}
		if incoming.Text == "" {
			if err := conn.WriteJSON(wsResponse{Type: "error", Text: "Send JSON with a non-empty 'text' field."}); err != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(wsResponse{Type: "typing", SessionID: sessionID}); err != nil {
			return
		}

		answer := s.answer(r.Context(), sessionID, incoming.Text)
		if err := conn.WriteJSON(wsResponse{Type: "message", SessionID: sessionID, Text: answer}); err != nil {
			logx.Error().Err(err).Str("session_id", sessionID).Msg("Failed to write message frame")
			return
		}
	}
}
