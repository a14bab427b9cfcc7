package hub

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/internal/protocol"
	"github.com/lox/holdem/internal/table"
)

type captureRecipient struct {
	mu     sync.Mutex
	events [][]byte
}

func (c *captureRecipient) Send(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, append([]byte(nil), payload...))
	return true
}

func (c *captureRecipient) ofType(msgType string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, payload := range c.events {
		var envelope struct {
			MsgType string `json:"msg_type"`
		}
		if json.Unmarshal(payload, &envelope) == nil && envelope.MsgType == msgType {
			out = append(out, string(payload))
		}
	}
	return out
}

func newTestHub() *Hub {
	return New(WithTableOptions(table.WithPacing(table.Pacing{
		Retry:    time.Millisecond,
		Attempts: 1,
	})))
}

func TestConnectAssignsID(t *testing.T) {
	h := newTestHub()
	rec := &captureRecipient{}

	id := h.Connect(rec, nil)

	connected := rec.ofType(protocol.TypeConnected)
	require.Len(t, connected, 1)
	var event protocol.Connected
	require.NoError(t, json.Unmarshal([]byte(connected[0]), &event))
	assert.Equal(t, id.String(), event.PlayerID)
}

func TestReconnectKeepsIdentity(t *testing.T) {
	h := newTestHub()
	first := &captureRecipient{}
	id := h.Connect(first, nil)

	second := &captureRecipient{}
	again := h.Connect(second, &id)

	assert.Equal(t, id, again)
	assert.Len(t, second.ofType(protocol.TypeConnected), 1)
}

func TestReconnectUnknownIDGetsFreshOne(t *testing.T) {
	h := newTestHub()
	stale := uuid.New()
	rec := &captureRecipient{}

	id := h.Connect(rec, &stale)

	assert.NotEqual(t, stale, id)
}

func TestCreateAndList(t *testing.T) {
	h := newTestHub()
	rec := &captureRecipient{}
	id := h.Connect(rec, nil)

	h.Create(id, CreateParams{Name: "main", SmallBlind: 2, BigBlind: 4})
	require.Len(t, rec.ofType(protocol.TypeCreatedTable), 1)

	h.List(id)
	lists := rec.ofType(protocol.TypeTablesList)
	require.Len(t, lists, 1)
	var list protocol.TablesList
	require.NoError(t, json.Unmarshal([]byte(lists[0]), &list))
	assert.Equal(t, []string{"main"}, list.Tables)
}

func TestCreateDuplicateNameRefused(t *testing.T) {
	h := newTestHub()
	rec := &captureRecipient{}
	id := h.Connect(rec, nil)
	other := &captureRecipient{}
	otherID := h.Connect(other, nil)

	h.Create(id, CreateParams{Name: "main"})
	h.Create(otherID, CreateParams{Name: "main"})

	errs := other.ofType(protocol.TypeError)
	require.Len(t, errs, 1)
	var e protocol.Error
	require.NoError(t, json.Unmarshal([]byte(errs[0]), &e))
	assert.Equal(t, protocol.ErrUnableToCreate, e.Error)
}

func TestJoinUnknownTable(t *testing.T) {
	h := newTestHub()
	rec := &captureRecipient{}
	id := h.Connect(rec, nil)

	h.Join(id, "nowhere", nil)

	errs := rec.ofType(protocol.TypeError)
	require.Len(t, errs, 1)
	var e protocol.Error
	require.NoError(t, json.Unmarshal([]byte(errs[0]), &e))
	assert.Equal(t, protocol.ErrUnableToJoin, e.Error)
}

func TestSetAndSendName(t *testing.T) {
	h := newTestHub()
	rec := &captureRecipient{}
	id := h.Connect(rec, nil)

	h.SetName(id, "doyle")
	h.SendName(id)

	names := rec.ofType(protocol.TypePlayerName)
	require.Len(t, names, 1)
	var event protocol.PlayerName
	require.NoError(t, json.Unmarshal([]byte(names[0]), &event))
	assert.Equal(t, "doyle", event.PlayerName)
}

func TestGameOverForgetsTable(t *testing.T) {
	h := newTestHub()
	rec := &captureRecipient{}
	id := h.Connect(rec, nil)
	h.Create(id, CreateParams{Name: "main"})

	h.GameOver("main")

	h.List(id)
	lists := rec.ofType(protocol.TypeTablesList)
	require.Len(t, lists, 1)
	var list protocol.TablesList
	require.NoError(t, json.Unmarshal([]byte(lists[0]), &list))
	assert.Empty(t, list.Tables)
}

func TestSeatedRenameRoutesThroughTable(t *testing.T) {
	h := newTestHub()
	rec := &captureRecipient{}
	id := h.Connect(rec, nil)

	// seated configs belong to the table driver, so the rename has to
	// round-trip through its control inbox
	h.Create(id, CreateParams{Name: "main"})
	require.Len(t, rec.ofType(protocol.TypeCreatedTable), 1)

	h.SetName(id, "slim")
	h.SendName(id)

	require.Eventually(t, func() bool {
		for _, raw := range rec.ofType(protocol.TypePlayerName) {
			var event protocol.PlayerName
			if json.Unmarshal([]byte(raw), &event) == nil && event.PlayerName == "slim" {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)
}
