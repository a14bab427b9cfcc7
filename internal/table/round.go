package table

import (
	"github.com/lox/holdem/internal/deck"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/history"
	"github.com/lox/holdem/internal/protocol"
)

// playOneHand drives a single hand from the shuffle to the settlement.
func (t *Table) playOneHand() {
	if !t.findNextButton() {
		return
	}
	t.handNum++
	t.inboxes.clearActions()
	t.deck.Shuffle()

	for _, p := range t.seats {
		if p == nil {
			continue
		}
		p.HoleCards = nil
		p.LastAction = nil
		// sitting-out seats are dealt in so they still pay blinds; they
		// leave the hand on their first turn
		p.IsActive = p.Money > 0
	}

	t.logger.Info("new hand", "hand", t.handNum, "button", t.buttonIdx)
	t.sendGroup(protocol.NewHand{
		MsgType:     protocol.TypeNewHand,
		HandNum:     t.handNum,
		ButtonIndex: t.buttonIdx,
	})

	hand := game.NewHand()
	t.dealHoleCards()
	t.sendGameState(hand, false)

	for street := game.Preflop; street < game.ShowDown; street++ {
		hand.Street = street
		hand.CurrentBet = 0
		t.dealBoard(hand, street)
		if street > game.Preflop {
			t.sendGameState(hand, false)
		}
		if t.playStreet(hand) {
			break
		}
		t.sleep(t.pacing.InterStreet)
	}

	t.finishHand(hand)
}

// dealHoleCards gives every active seat two cards, seat 0 first, both
// cards consecutively.
func (t *Table) dealHoleCards() {
	for _, p := range t.seats {
		if p == nil || !p.IsActive {
			continue
		}
		p.HoleCards = append(p.HoleCards, t.mustDraw(), t.mustDraw())
	}
}

// dealBoard reveals the community cards for the street.
func (t *Table) dealBoard(hand *game.Hand, street game.Street) {
	switch street {
	case game.Flop:
		hand.Flop = append(hand.Flop, t.mustDraw(), t.mustDraw(), t.mustDraw())
	case game.Turn:
		card := t.mustDraw()
		hand.Turn = &card
	case game.River:
		card := t.mustDraw()
		hand.River = &card
	}
}

// mustDraw panics on an exhausted deck. A 52-card deck covers a full
// 9-seat hand, so running dry mid-hand means corrupted engine state.
func (t *Table) mustDraw() deck.Card {
	card, ok := t.deck.Draw()
	if !ok {
		panic("deck exhausted mid-hand")
	}
	return card
}

func (t *Table) countActive() int {
	n := 0
	for _, p := range t.seats {
		if p != nil && p.IsActive {
			n++
		}
	}
	return n
}

func (t *Table) countAllIn() int {
	n := 0
	for _, p := range t.seats {
		if p != nil && p.IsAllIn() {
			n++
		}
	}
	return n
}

// finishHand settles the pots, pays the winners and reports the result.
func (t *Table) finishHand(hand *game.Hand) {
	hand.Street = game.ShowDown
	hand.IndexToAct = -1

	settlements := hand.DivvyPots(&t.seats, t.configs, t.startingIdx())
	for _, s := range settlements {
		t.logger.Info("pot awarded",
			"seat", s.Seat, "name", s.Name, "amount", s.Amount, "hand", s.HandDesc)
	}
	t.sendGroup(protocol.FinishHand{
		MsgType:     protocol.TypeFinishHand,
		Settlements: settlements,
	})
	t.sendGameState(hand, false)
	t.recordHand(hand, settlements)

	for range settlements {
		t.sleep(t.pacing.PerSettlement)
	}
}

func (t *Table) recordHand(hand *game.Hand, settlements []protocol.Settlement) {
	if t.recorder == nil {
		return
	}
	record := history.Record{
		Table:       t.name,
		HandNum:     t.handNum,
		PlayedAt:    t.clock.Now(),
		SmallBlind:  t.smallBlind,
		BigBlind:    t.bigBlind,
		PotTotal:    hand.PotTotal(),
		Settlements: settlements,
	}
	for _, card := range hand.Board() {
		record.Board += card.String()
	}
	for i, p := range t.seats {
		if p == nil || len(p.HoleCards) == 0 {
			continue
		}
		record.Seats = append(record.Seats, history.Seat{
			Seat:        i,
			Name:        t.playerName(p.ID),
			HoleCards:   p.HoleCardString(),
			Contributed: hand.TotalContribution(i),
			StackAfter:  p.Money,
		})
	}
	t.recorder.Record(record)
}
