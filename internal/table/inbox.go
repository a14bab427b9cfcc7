package table

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lox/holdem/internal/game"
)

// Inboxes are the only synchronization surface between a table's driver
// goroutine and the outside world. Player actions collapse per id, last
// write wins, while meta-actions preserve arrival order so join/leave
// and admin semantics stay causal.
type Inboxes struct {
	mu          sync.Mutex
	actions     map[uuid.UUID]game.Action
	metaActions []MetaAction
}

// NewInboxes creates empty inboxes.
func NewInboxes() *Inboxes {
	return &Inboxes{actions: make(map[uuid.UUID]game.Action)}
}

// PostAction deposits a player's pending action, replacing any earlier
// unconsumed one.
func (in *Inboxes) PostAction(id uuid.UUID, action game.Action) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.actions[id] = action
}

// takeAction removes and returns the pending action for id.
func (in *Inboxes) takeAction(id uuid.UUID) (game.Action, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	action, ok := in.actions[id]
	if ok {
		delete(in.actions, id)
	}
	return action, ok
}

// clearActions drops lingering actions from a previous hand.
func (in *Inboxes) clearActions() {
	in.mu.Lock()
	defer in.mu.Unlock()
	clear(in.actions)
}

// PostMeta appends a meta-action to the queue.
func (in *Inboxes) PostMeta(meta MetaAction) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.metaActions = append(in.metaActions, meta)
}

// takeMetaSnapshot removes and returns the currently queued meta-actions.
// Items posted while the snapshot is being handled wait for the next
// drain, which is what defers admin commands pushed back mid-hand.
func (in *Inboxes) takeMetaSnapshot() []MetaAction {
	in.mu.Lock()
	defer in.mu.Unlock()
	snapshot := in.metaActions
	in.metaActions = nil
	return snapshot
}
