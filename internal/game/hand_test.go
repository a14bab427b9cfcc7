package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/internal/deck"
)

func holeCards(a, b string) []deck.Card {
	return []deck.Card{deck.MustParseCard(a), deck.MustParseCard(b)}
}

func boardCards(h *Hand, flop1, flop2, flop3, turn, river string) {
	h.Flop = []deck.Card{
		deck.MustParseCard(flop1),
		deck.MustParseCard(flop2),
		deck.MustParseCard(flop3),
	}
	t := deck.MustParseCard(turn)
	r := deck.MustParseCard(river)
	h.Turn = &t
	h.River = &r
}

// seatPlayers builds a seat array and config map for the given players,
// filling seats from index 0.
func seatPlayers(players ...*Player) (*[NumSeats]*Player, map[uuid.UUID]*PlayerConfig) {
	var seats [NumSeats]*Player
	configs := make(map[uuid.UUID]*PlayerConfig)
	for i, p := range players {
		seats[i] = p
		configs[p.ID] = NewPlayerConfig(p.ID, p.ID.String()[:8], nil)
	}
	return &seats, configs
}

func TestContributionsAccumulateByStreet(t *testing.T) {
	t.Parallel()
	h := NewHand()
	h.Contribute(0, 4, false)
	h.Contribute(0, 4, false)
	h.Street = Flop
	h.Contribute(0, 10, false)

	assert.Equal(t, 8, h.StreetContribution(Preflop, 0))
	assert.Equal(t, 10, h.StreetContribution(Flop, 0))
	assert.Equal(t, 18, h.TotalContribution(0))
	assert.Equal(t, 18, h.PotTotal())
}

func TestDivvySinglePotToLastActive(t *testing.T) {
	t.Parallel()
	p0 := NewPlayer(uuid.New(), true, 996)
	p1 := NewPlayer(uuid.New(), true, 992)
	seats, configs := seatPlayers(p0, p1)

	h := NewHand()
	h.Contribute(0, 4, false)
	h.Contribute(1, 8, false)
	p0.Deactivate() // folded to the big blind

	settlements := h.DivvyPots(seats, configs, 0)
	require.Len(t, settlements, 1)
	assert.Equal(t, 1, settlements[0].Seat)
	assert.Equal(t, 12, settlements[0].Amount)
	assert.Empty(t, settlements[0].HandDesc, "no showdown when everyone folded")
	assert.Equal(t, 1004, p1.Money)
}

func TestDivvyShortStackSidePot(t *testing.T) {
	t.Parallel()
	p0 := NewPlayer(uuid.New(), true, 0) // all-in for 500
	p1 := NewPlayer(uuid.New(), true, 0)
	p2 := NewPlayer(uuid.New(), true, 0)
	p0.HoleCards = holeCards("A♣", "A♦")
	p1.HoleCards = holeCards("T♣", "T♥")
	p2.HoleCards = holeCards("2♣", "4♥")
	seats, configs := seatPlayers(p0, p1, p2)

	h := NewHand()
	h.Contribute(0, 500, true)
	h.Contribute(1, 1000, true)
	h.Contribute(2, 1000, true)
	boardCards(h, "3♠", "7♦", "9♥", "J♠", "Q♦")

	settlements := h.DivvyPots(seats, configs, 1)
	require.Len(t, settlements, 2)

	// main pot: 3 x 500 to the aces
	assert.Equal(t, 0, settlements[0].Seat)
	assert.Equal(t, 1500, settlements[0].Amount)
	// side pot: 2 x 500 to the tens
	assert.Equal(t, 1, settlements[1].Seat)
	assert.Equal(t, 1000, settlements[1].Amount)

	assert.Equal(t, 1500, p0.Money)
	assert.Equal(t, 1000, p1.Money)
	assert.Equal(t, 0, p2.Money)
}

func TestDivvyTiedMainPotWithSidePot(t *testing.T) {
	t.Parallel()
	p0 := NewPlayer(uuid.New(), true, 0)
	p1 := NewPlayer(uuid.New(), true, 0)
	p2 := NewPlayer(uuid.New(), true, 0)
	p0.HoleCards = holeCards("A♣", "A♦")
	p1.HoleCards = holeCards("A♥", "A♠")
	p2.HoleCards = holeCards("2♣", "4♥")
	seats, configs := seatPlayers(p0, p1, p2)

	h := NewHand()
	h.Contribute(0, 500, true)
	h.Contribute(1, 1000, true)
	h.Contribute(2, 1000, true)
	boardCards(h, "3♠", "7♦", "9♥", "J♠", "Q♦")

	settlements := h.DivvyPots(seats, configs, 1)
	require.Len(t, settlements, 3)

	assert.Equal(t, 750, p0.Money, "main pot splits between the tied aces")
	assert.Equal(t, 1750, p1.Money, "split of the main pot plus the side pot")
	assert.Equal(t, 0, p2.Money)

	total := 0
	for _, s := range settlements {
		total += s.Amount
	}
	assert.Equal(t, 2500, total, "settlements must conserve the pot")
}

func TestDivvyRemainderGoesToFirstSeatsInHandOrder(t *testing.T) {
	t.Parallel()
	p0 := NewPlayer(uuid.New(), true, 0)
	p1 := NewPlayer(uuid.New(), true, 0)
	p2 := NewPlayer(uuid.New(), true, 0)
	p3 := NewPlayer(uuid.New(), true, 0)
	// the board plays for the three who see showdown
	p0.HoleCards = holeCards("2♣", "3♦")
	p1.HoleCards = holeCards("2♦", "3♥")
	p2.HoleCards = holeCards("2♥", "3♠")
	seats, configs := seatPlayers(p0, p1, p2, p3)

	h := NewHand()
	h.Contribute(0, 100, false)
	h.Contribute(1, 100, false)
	h.Contribute(2, 100, false)
	h.Contribute(3, 1, false) // folded limper makes the pot indivisible
	p3.Deactivate()
	boardCards(h, "A♠", "A♦", "A♥", "K♠", "K♦")

	settlements := h.DivvyPots(seats, configs, 1)
	require.Len(t, settlements, 3)

	// hand order from seat 1 is 1, 2, 0, so seat 1 gets the odd chip
	assert.Equal(t, 1, settlements[0].Seat)
	assert.Equal(t, 101, settlements[0].Amount)
	assert.Equal(t, 2, settlements[1].Seat)
	assert.Equal(t, 100, settlements[1].Amount)
	assert.Equal(t, 0, settlements[2].Seat)
	assert.Equal(t, 100, settlements[2].Amount)
}

func TestDivvyAbsorbsFoldedChipsAboveTopLevel(t *testing.T) {
	t.Parallel()
	p0 := NewPlayer(uuid.New(), true, 0)
	p1 := NewPlayer(uuid.New(), true, 0)
	seats, configs := seatPlayers(p0, p1)

	h := NewHand()
	h.Contribute(0, 50, false)
	h.Contribute(1, 80, false)
	p1.Deactivate() // folded after contributing more than the winner

	settlements := h.DivvyPots(seats, configs, 0)
	require.Len(t, settlements, 1)
	assert.Equal(t, 0, settlements[0].Seat)
	assert.Equal(t, 130, settlements[0].Amount, "folded excess stays in the pot")
}

func TestPotRepr(t *testing.T) {
	t.Parallel()
	h := NewHand()
	h.Contribute(0, 500, true)
	h.Contribute(1, 1000, false)
	h.Contribute(2, 1000, false)
	assert.Equal(t, []int{1500, 1000}, h.PotRepr())

	plain := NewHand()
	plain.Contribute(0, 8, false)
	plain.Contribute(1, 8, false)
	assert.Equal(t, []int{16}, plain.PotRepr())
}

func TestPlayerAllIn(t *testing.T) {
	t.Parallel()
	p := NewPlayer(uuid.New(), true, 100)
	assert.False(t, p.IsAllIn())
	p.Money = 0
	assert.True(t, p.IsAllIn())
	p.Deactivate()
	assert.False(t, p.IsAllIn(), "folded players are not all-in")
}
