package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/holdem/internal/deck"
)

func cards(strs ...string) []deck.Card {
	out := make([]deck.Card, len(strs))
	for i, s := range strs {
		out[i] = deck.MustParseCard(s)
	}
	return out
}

func TestHandOrdering(t *testing.T) {
	t.Parallel()

	quads := Evaluate(cards("T♣", "T♥", "T♦", "T♠", "K♣", "K♥", "Q♣")...)
	twoPair := Evaluate(cards("2♣", "3♣", "T♦", "T♠", "K♣", "K♥", "Q♣")...)
	assert.True(t, quads.Beats(twoPair))
	assert.False(t, twoPair.Beats(quads))

	flush := Evaluate(cards("A♠", "9♠", "7♠", "4♠", "2♠")...)
	straight := Evaluate(cards("5♣", "6♦", "7♠", "8♥", "9♣")...)
	assert.True(t, flush.Beats(straight))
}

func TestExactTieSplits(t *testing.T) {
	t.Parallel()

	// Both hole pairs of aces play the same board: identical best hands.
	board := cards("T♦", "T♠", "K♣", "K♥", "Q♣")
	a := Evaluate(append(cards("A♣", "A♦"), board...)...)
	b := Evaluate(append(cards("A♥", "A♠"), board...)...)
	assert.True(t, a.Ties(b))
	assert.False(t, a.Beats(b))
	assert.False(t, b.Beats(a))
}

func TestKickerBreaksTie(t *testing.T) {
	t.Parallel()

	board := cards("T♦", "7♠", "4♣", "J♥", "2♣")
	aceKicker := Evaluate(append(cards("T♣", "A♦"), board...)...)
	nineKicker := Evaluate(append(cards("T♥", "9♦"), board...)...)
	assert.True(t, aceKicker.Beats(nineKicker))
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	v := Evaluate(cards("T♣", "T♥", "T♦", "T♠", "K♣")...)
	assert.Equal(t, "Four of a Kind", v.Describe())
}

func TestFiveSixAndSevenCardHands(t *testing.T) {
	t.Parallel()

	five := Evaluate(cards("A♠", "K♠", "Q♠", "J♠", "T♠")...)
	six := Evaluate(cards("A♠", "K♠", "Q♠", "J♠", "T♠", "2♣")...)
	seven := Evaluate(cards("A♠", "K♠", "Q♠", "J♠", "T♠", "2♣", "3♦")...)
	assert.True(t, five.Ties(six))
	assert.True(t, six.Ties(seven))
}
