package table

import (
	"strings"

	"github.com/google/uuid"

	"github.com/lox/holdem/internal/deck"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/protocol"
)

// sendGroup fans an event out to every connected recipient.
func (t *Table) sendGroup(event any) {
	payload := protocol.Marshal(event)
	for _, config := range t.configs {
		config.Send(payload)
	}
}

// sendToPlayer delivers an event to a single player, if connected.
func (t *Table) sendToPlayer(id uuid.UUID, event any) {
	if config, ok := t.configs[id]; ok {
		config.Send(protocol.Marshal(event))
	}
}

func (t *Table) sendError(id uuid.UUID, code, reason string) {
	t.sendToPlayer(id, protocol.NewError(code, reason))
}

// sendGameState broadcasts the table snapshot. Each recipient gets a
// personalized copy carrying their own seat index and hole cards; no
// recipient ever sees another seat's hole cards.
func (t *Table) sendGameState(hand *game.Hand, suspended bool) {
	base := protocol.GameState{
		MsgType:       protocol.TypeGameState,
		Name:          t.name,
		MaxPlayers:    t.maxPlayers,
		SmallBlind:    t.smallBlind,
		BigBlind:      t.bigBlind,
		BuyIn:         t.buyIn,
		Private:       t.password != nil,
		ButtonIdx:     t.buttonIdx,
		HandNum:       t.handNum,
		GameSuspended: suspended,
	}

	for i, p := range t.seats {
		if p == nil {
			continue
		}
		seat := &protocol.SeatState{
			Index:        i,
			PlayerName:   t.playerName(p.ID),
			Money:        p.Money,
			IsActive:     p.IsActive,
			IsSittingOut: p.IsSittingOut,
			IsAllIn:      p.IsAllIn(),
		}
		if p.LastAction != nil {
			seat.LastAction = p.LastAction.String()
		}
		if hand != nil {
			seat.PreflopCont = hand.StreetContribution(game.Preflop, i)
			seat.FlopCont = hand.StreetContribution(game.Flop, i)
			seat.TurnCont = hand.StreetContribution(game.Turn, i)
			seat.RiverCont = hand.StreetContribution(game.River, i)
		}
		base.Players = append(base.Players, seat)
	}

	if hand != nil {
		currentBet := hand.CurrentBet
		base.Street = hand.Street.String()
		base.CurrentBet = &currentBet
		base.Flop = cardString(hand.Flop)
		if hand.Turn != nil {
			base.Turn = hand.Turn.String()
		}
		if hand.River != nil {
			base.River = hand.River.String()
		}
		base.Pots = hand.PotRepr()
		if hand.IndexToAct >= 0 {
			idx := hand.IndexToAct
			base.IndexToAct = &idx
		}
	}

	for _, config := range t.configs {
		if config.Recipient == nil {
			continue
		}
		personal := base
		for i, p := range t.seats {
			if p != nil && p.ID == config.ID {
				idx := i
				personal.YourIndex = &idx
				personal.HoleCards = p.HoleCardString()
				break
			}
		}
		config.Send(protocol.Marshal(personal))
	}
}

func cardString(cards []deck.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.String())
	}
	return b.String()
}
