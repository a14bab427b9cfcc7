// Package history persists completed hands to disk for later review.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem/internal/protocol"
)

// Seat is one dealt-in player's slice of a hand record.
type Seat struct {
	Seat        int    `json:"seat"`
	Name        string `json:"name"`
	HoleCards   string `json:"hole_cards,omitempty"`
	Contributed int    `json:"contributed"`
	StackAfter  int    `json:"stack_after"`
}

// Record is one completed hand.
type Record struct {
	Table       string                `json:"table"`
	HandNum     int                   `json:"hand_num"`
	PlayedAt    time.Time             `json:"played_at"`
	SmallBlind  int                   `json:"small_blind"`
	BigBlind    int                   `json:"big_blind"`
	Board       string                `json:"board,omitempty"`
	PotTotal    int                   `json:"pot_total"`
	Seats       []Seat                `json:"seats"`
	Settlements []protocol.Settlement `json:"settlements"`
}

// Recorder writes hand records beneath a base directory, one file per
// hand. Files are written atomically so a reader never observes a
// partial record.
type Recorder struct {
	dir    string
	logger *log.Logger

	mu sync.Mutex
}

// NewRecorder creates the base directory and returns a recorder.
func NewRecorder(dir string, logger *log.Logger) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create hand history dir: %w", err)
	}
	return &Recorder{dir: dir, logger: logger.WithPrefix("history")}, nil
}

// Record persists one hand. Failures are logged, never surfaced; hand
// history must not stall or kill a table.
func (r *Recorder) Record(record Record) {
	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		r.logger.Error("could not encode hand record", "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Join(r.dir, record.Table)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		r.logger.Error("could not create table history dir", "error", err)
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("hand-%06d.json", record.HandNum))
	if err := writeFileAtomic(path, payload, 0o644); err != nil {
		r.logger.Error("could not write hand record", "error", err, "path", path)
	}
}

// writeFileAtomic writes via a temp file in the same directory followed
// by a rename, so the final path only ever holds a complete record.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	tmp = nil

	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, filename)
}
