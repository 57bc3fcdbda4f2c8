package server

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWS_ConnectedFrameAssignsSession(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t, &stubRunner{}).Handler())
	defer srv.Close()

	conn := dialWS(t, srv, "/ws")

	var frame wsResponse
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "connected", frame.Type)
	assert.NotEmpty(t, frame.SessionID)
}

func TestWS_ChatRoundTrip(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t, &stubRunner{}).Handler())
	defer srv.Close()

	conn := dialWS(t, srv, "/ws?session_id=s9")

	var connected wsResponse
	require.NoError(t, conn.ReadJSON(&connected))
	assert.Equal(t, "s9", connected.SessionID)

	require.NoError(t, conn.WriteJSON(wsIncoming{Text: "hello assistant"}))

	var typing wsResponse
	require.NoError(t, conn.ReadJSON(&typing))
	assert.Equal(t, "typing", typing.Type)

	var message wsResponse
	require.NoError(t, conn.ReadJSON(&message))
	assert.Equal(t, "message", message.Type)
	assert.Equal(t, "echo: hello assistant", message.Text)
}

func TestWS_EmptyTextGetsErrorFrame(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t, &stubRunner{}).Handler())
	defer srv.Close()

	conn := dialWS(t, srv, "/ws")

	var connected wsResponse
	require.NoError(t, conn.ReadJSON(&connected))

	require.NoError(t, conn.WriteJSON(wsIncoming{Text: ""}))

	var frame wsResponse
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "error", frame.Type)
}
