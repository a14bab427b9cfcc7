// Package evaluator ranks 5-7 card poker hands into totally ordered
// values. The rest of the engine depends only on the ordering, so the
// underlying evaluator is substitutable.
package evaluator

import (
	"github.com/chehsunliu/poker"

	"github.com/lox/holdem/internal/deck"
)

// Value is the ordered rank of a hand. Equal values are an exact tie
// (split pot); kickers are already folded into the ordering.
type Value struct {
	// rank is the chehsunliu evaluator score, where lower is better.
	rank int32
}

// Beats reports whether v is strictly better than other.
func (v Value) Beats(other Value) bool {
	return v.rank < other.rank
}

// Ties reports whether v and other are exactly equal in strength.
func (v Value) Ties(other Value) bool {
	return v.rank == other.rank
}

// Describe returns a short human-readable hand class, e.g. "Two Pair".
func (v Value) Describe() string {
	return poker.RankString(v.rank)
}

// Evaluate ranks the best 5-card hand drawable from 5-7 cards.
func Evaluate(cards ...deck.Card) Value {
	converted := make([]poker.Card, len(cards))
	for i, c := range cards {
		converted[i] = convert(c)
	}
	return Value{rank: poker.Evaluate(converted)}
}

// convert maps our card model onto the evaluator's two-character encoding.
func convert(c deck.Card) poker.Card {
	var rank byte
	switch c.Rank {
	case deck.Two:
		rank = '2'
	case deck.Three:
		rank = '3'
	case deck.Four:
		rank = '4'
	case deck.Five:
		rank = '5'
	case deck.Six:
		rank = '6'
	case deck.Seven:
		rank = '7'
	case deck.Eight:
		rank = '8'
	case deck.Nine:
		rank = '9'
	case deck.Ten:
		rank = 'T'
	case deck.Jack:
		rank = 'J'
	case deck.Queen:
		rank = 'Q'
	case deck.King:
		rank = 'K'
	case deck.Ace:
		rank = 'A'
	}

	var suit byte
	switch c.Suit {
	case deck.Clubs:
		suit = 'c'
	case deck.Diamonds:
		suit = 'd'
	case deck.Hearts:
		suit = 'h'
	case deck.Spades:
		suit = 's'
	}

	return poker.NewCard(string([]byte{rank, suit}))
}
