package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/internal/hub"
	"github.com/lox/holdem/internal/protocol"
	"github.com/lox/holdem/internal/table"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := hub.New(
		hub.WithLogger(log.New(io.Discard)),
		hub.WithTableOptions(table.WithPacing(table.Pacing{
			Retry:    time.Millisecond,
			Attempts: 1,
		})))
	cfg := DefaultServerConfig()
	cfg.Tables = nil

	s, err := NewServer(cfg, h, log.New(io.Discard))
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readEvent skips frames until one with the wanted msg_type arrives.
func readEvent(t *testing.T, conn *websocket.Conn, msgType string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", msgType)
		var event map[string]any
		require.NoError(t, json.Unmarshal(payload, &event))
		if event["msg_type"] == msgType {
			return event
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, event map[string]any) {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, payload))
}

func TestConnectAssignsPlayerID(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "")

	connected := readEvent(t, conn, protocol.TypeConnected)
	id, err := uuid.Parse(connected["player_id"].(string))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}

func TestReconnectKeepsPlayerID(t *testing.T) {
	ts := newTestServer(t)

	first := dial(t, ts, "")
	connected := readEvent(t, first, protocol.TypeConnected)
	id := connected["player_id"].(string)
	_ = first.Close()

	second := dial(t, ts, "/?player_id="+id)
	again := readEvent(t, second, protocol.TypeConnected)
	assert.Equal(t, id, again["player_id"])
}

func TestCreateTableAndChat(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "")
	readEvent(t, conn, protocol.TypeConnected)

	send(t, conn, map[string]any{
		"msg_type":    protocol.CmdCreate,
		"table_name":  "main",
		"small_blind": 2,
		"big_blind":   4,
	})
	created := readEvent(t, conn, protocol.TypeCreatedTable)
	assert.Equal(t, "main", created["table_name"])

	send(t, conn, map[string]any{"msg_type": protocol.CmdChat, "text": "hello all"})
	chat := readEvent(t, conn, protocol.TypeChat)
	assert.Equal(t, "hello all", chat["text"])
}

func TestListTables(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "")
	readEvent(t, conn, protocol.TypeConnected)

	send(t, conn, map[string]any{"msg_type": protocol.CmdList})
	list := readEvent(t, conn, protocol.TypeTablesList)
	assert.Empty(t, list["tables"])
}

func TestSetNameRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "")
	readEvent(t, conn, protocol.TypeConnected)

	send(t, conn, map[string]any{"msg_type": protocol.CmdName, "player_name": "doyle"})
	send(t, conn, map[string]any{"msg_type": protocol.CmdName})
	name := readEvent(t, conn, protocol.TypePlayerName)
	assert.Equal(t, "doyle", name["player_name"])
}

func TestHelp(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "")
	readEvent(t, conn, protocol.TypeConnected)

	send(t, conn, map[string]any{"msg_type": protocol.CmdHelp})
	help := readEvent(t, conn, protocol.TypeHelpMessage)
	assert.NotEmpty(t, help["commands"])
}

func TestMalformedFrame(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "")
	readEvent(t, conn, protocol.TypeConnected)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	event := readEvent(t, conn, protocol.TypeError)
	assert.Equal(t, protocol.ErrInvalidAction, event["error"])
}

func TestSlashCommandRoutesToAdmin(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "")
	readEvent(t, conn, protocol.TypeConnected)

	send(t, conn, map[string]any{
		"msg_type":    protocol.CmdCreate,
		"table_name":  "main",
		"small_blind": 2,
		"big_blind":   4,
		"password":    "sesame",
	})
	readEvent(t, conn, protocol.TypeCreatedTable)

	send(t, conn, map[string]any{"msg_type": protocol.CmdChat, "text": "/big_blind 24"})
	success := readEvent(t, conn, protocol.TypeAdminSuccess)
	assert.Equal(t, "big_blind", success["updated"])
}
