package deck

import (
	"math/rand"
	"time"
)

// Deck deals cards to the table engine. Shuffle resets the draw cursor;
// Draw returns ok=false once the deck is exhausted, which the engine
// treats as a fatal invariant violation.
type Deck interface {
	Shuffle()
	Draw() (Card, bool)
}

// Standard is a PRNG-shuffled 52-card deck.
type Standard struct {
	cards  []Card
	cursor int
	rng    *rand.Rand
}

// NewStandard creates a new unshuffled 52-card deck with its own PRNG.
func NewStandard() *Standard {
	return NewStandardWithRNG(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewStandardWithRNG creates a deck using the given PRNG, for deterministic tests.
func NewStandardWithRNG(rng *rand.Rand) *Standard {
	d := &Standard{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	return d
}

// Shuffle uniformly permutes the cards and resets the draw cursor.
func (d *Standard) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	d.cursor = 0
}

// Draw returns the next card, advancing the cursor.
func (d *Standard) Draw() (Card, bool) {
	if d.cursor == len(d.cards) {
		return Card{}, false
	}
	card := d.cards[d.cursor]
	d.cursor++
	return card, true
}

// Rigged deals a predetermined sequence of cards, for tests that need
// exact hole cards and board runouts. Shuffle does not disturb the order.
type Rigged struct {
	cards  []Card
	cursor int
}

// NewRigged creates a rigged deck dealing the given cards in order.
func NewRigged(cards ...Card) *Rigged {
	return &Rigged{cards: cards}
}

// Push appends cards to the deal sequence.
func (d *Rigged) Push(cards ...Card) {
	d.cards = append(d.cards, cards...)
}

// Shuffle is a no-op so the rigged order survives the engine's shuffle.
func (d *Rigged) Shuffle() {}

// Draw returns the next rigged card.
func (d *Rigged) Draw() (Card, bool) {
	if d.cursor == len(d.cards) {
		return Card{}, false
	}
	card := d.cards[d.cursor]
	d.cursor++
	return card, true
}
