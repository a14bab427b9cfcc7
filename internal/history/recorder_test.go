package history

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/internal/protocol"
)

func TestRecordWritesOneFilePerHand(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir, log.New(io.Discard))
	require.NoError(t, err)

	record := Record{
		Table:      "main",
		HandNum:    3,
		PlayedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		SmallBlind: 4,
		BigBlind:   8,
		Board:      "A♠K♦2♣7♥9♠",
		PotTotal:   120,
		Seats: []Seat{
			{Seat: 0, Name: "alice", HoleCards: "Q♠Q♥", Contributed: 60, StackAfter: 1060},
			{Seat: 1, Name: "bob", HoleCards: "J♦J♣", Contributed: 60, StackAfter: 940},
		},
		Settlements: []protocol.Settlement{
			{Seat: 0, Name: "alice", Amount: 120, HandDesc: "Pair"},
		},
	}
	rec.Record(record)

	path := filepath.Join(dir, "main", "hand-000003.json")
	payload, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Record
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, record, got)

	// no stray temp files left behind
	entries, err := os.ReadDir(filepath.Join(dir, "main"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecordOverwritesSameHand(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir, log.New(io.Discard))
	require.NoError(t, err)

	rec.Record(Record{Table: "main", HandNum: 1, PotTotal: 10})
	rec.Record(Record{Table: "main", HandNum: 1, PotTotal: 20})

	payload, err := os.ReadFile(filepath.Join(dir, "main", "hand-000001.json"))
	require.NoError(t, err)
	var got Record
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, 20, got.PotTotal)
}
