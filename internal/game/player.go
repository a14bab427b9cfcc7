package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/lox/holdem/internal/deck"
	"github.com/lox/holdem/internal/protocol"
)

// Player is the seat-bound state of one participant in the current and
// future hands. It is owned exclusively by the table driver.
type Player struct {
	ID              uuid.UUID
	HoleCards       []deck.Card
	IsActive        bool // still in the current hand
	IsSittingOut    bool // excluded from future hands, still owes blinds
	Money           int
	HumanControlled bool
	LastAction      *Action // most recent action this street, for the UI
}

// NewPlayer creates a seated player with the given stack.
func NewPlayer(id uuid.UUID, human bool, money int) *Player {
	return &Player{
		ID:              id,
		HoleCards:       make([]deck.Card, 0, 2),
		IsActive:        true,
		Money:           money,
		HumanControlled: human,
	}
}

// NewBot creates a computer-controlled player with a fresh id.
func NewBot(money int) *Player {
	return NewPlayer(uuid.New(), false, money)
}

// IsAllIn reports whether the player is still in the hand with no chips
// behind.
func (p *Player) IsAllIn() bool {
	return p.IsActive && p.Money == 0
}

// Deactivate folds the player out of the current hand.
func (p *Player) Deactivate() {
	p.IsActive = false
}

// HoleCardString renders the player's hole cards for a personalized
// broadcast, e.g. "A♠K♦". Empty when no cards are held.
func (p *Player) HoleCardString() string {
	if len(p.HoleCards) != 2 {
		return ""
	}
	return p.HoleCards[0].String() + p.HoleCards[1].String()
}

// PlayerConfig is the identity/connection side of a player: who they
// are and where events go. A config may outlive or predate its seat;
// the table uses a missing config as the "player has left" signal.
type PlayerConfig struct {
	ID        uuid.UUID
	Name      string
	Recipient protocol.Recipient
	HeartBeat time.Time // last observed activity
}

// NewPlayerConfig creates a config for a connected client.
func NewPlayerConfig(id uuid.UUID, name string, recipient protocol.Recipient) *PlayerConfig {
	return &PlayerConfig{ID: id, Name: name, Recipient: recipient}
}

// Send delivers a payload to the config's recipient, best-effort.
func (c *PlayerConfig) Send(payload []byte) {
	if c.Recipient != nil {
		c.Recipient.Send(payload)
	}
}
