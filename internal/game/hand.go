package game

import (
	"sort"

	"github.com/google/uuid"

	"github.com/lox/holdem/internal/deck"
	"github.com/lox/holdem/internal/evaluator"
	"github.com/lox/holdem/internal/protocol"
)

// NumSeats is the fixed size of a table's seat array.
const NumSeats = 9

// Street represents a betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	ShowDown
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// Hand holds the state of a single hand of poker: the street, the
// community cards, and every seat's per-street chip contributions. The
// contribution ledger is the source of truth for pot reconstruction.
type Hand struct {
	Street     Street
	Flop       []deck.Card
	Turn       *deck.Card
	River      *deck.Card
	CurrentBet int // highest per-player total contributed this street
	IndexToAct int // seat currently owed an action, -1 between turns

	contributions [ShowDown + 1][NumSeats]int
	allIn         [NumSeats]bool
}

// NewHand starts a fresh hand at preflop.
func NewHand() *Hand {
	return &Hand{Street: Preflop, IndexToAct: -1}
}

// Contribute records that seat added amount to the current street's pot,
// marking the seat all-in when the payment emptied their stack.
func (h *Hand) Contribute(seat, amount int, allIn bool) {
	h.contributions[h.Street][seat] += amount
	if allIn {
		h.allIn[seat] = true
	}
}

// StreetContribution returns the chips seat has committed during street.
func (h *Hand) StreetContribution(street Street, seat int) int {
	return h.contributions[street][seat]
}

// CurrentStreetContribution returns the chips seat has committed during
// the current street.
func (h *Hand) CurrentStreetContribution(seat int) int {
	return h.contributions[h.Street][seat]
}

// TotalContribution returns the chips seat has committed this hand.
func (h *Hand) TotalContribution(seat int) int {
	total := 0
	for street := Preflop; street <= ShowDown; street++ {
		total += h.contributions[street][seat]
	}
	return total
}

// PotTotal returns all chips committed this hand.
func (h *Hand) PotTotal() int {
	total := 0
	for seat := 0; seat < NumSeats; seat++ {
		total += h.TotalContribution(seat)
	}
	return total
}

// Board returns the community cards dealt so far.
func (h *Hand) Board() []deck.Card {
	board := make([]deck.Card, 0, 5)
	board = append(board, h.Flop...)
	if h.Turn != nil {
		board = append(board, *h.Turn)
	}
	if h.River != nil {
		board = append(board, *h.River)
	}
	return board
}

// PotRepr renders the pot as main-plus-side amounts for broadcasts. Side
// pot boundaries come from all-in seats' total contributions.
func (h *Hand) PotRepr() []int {
	total := h.PotTotal()
	if total == 0 {
		return nil
	}

	var levels []int
	seen := make(map[int]bool)
	for seat := 0; seat < NumSeats; seat++ {
		if !h.allIn[seat] {
			continue
		}
		c := h.TotalContribution(seat)
		if c > 0 && !seen[c] {
			seen[c] = true
			levels = append(levels, c)
		}
	}
	if len(levels) == 0 {
		return []int{total}
	}
	sort.Ints(levels)

	var pots []int
	prev := 0
	for _, level := range levels {
		amount := 0
		for seat := 0; seat < NumSeats; seat++ {
			c := h.TotalContribution(seat)
			amount += min(c, level) - min(c, prev)
		}
		if amount > 0 {
			pots = append(pots, amount)
		}
		prev = level
	}

	// whatever sits above the highest all-in level is the live pot
	remainder := 0
	for seat := 0; seat < NumSeats; seat++ {
		c := h.TotalContribution(seat)
		remainder += c - min(c, prev)
	}
	if remainder > 0 {
		pots = append(pots, remainder)
	}
	return pots
}

// DivvyPots reconstructs main and side pots from the contribution ledger,
// awards each pot to the best still-active hand(s) eligible for it, pays
// the winners, and returns the settlements. Ties split a pot evenly, with
// the first pot%winners seats in hand order from startingIdx receiving
// one extra chip. The sum of settlement amounts always equals the sum of
// contributions.
func (h *Hand) DivvyPots(
	seats *[NumSeats]*Player,
	configs map[uuid.UUID]*PlayerConfig,
	startingIdx int,
) []protocol.Settlement {
	var totals [NumSeats]int
	potTotal := 0
	for seat := 0; seat < NumSeats; seat++ {
		totals[seat] = h.TotalContribution(seat)
		potTotal += totals[seat]
	}
	if potTotal == 0 {
		return nil
	}

	active := func(seat int) bool {
		return seats[seat] != nil && seats[seat].IsActive
	}

	// each distinct contribution level among active seats bounds a pot
	var levels []int
	seen := make(map[int]bool)
	for seat := 0; seat < NumSeats; seat++ {
		if active(seat) && totals[seat] > 0 && !seen[totals[seat]] {
			seen[totals[seat]] = true
			levels = append(levels, totals[seat])
		}
	}
	if len(levels) == 0 {
		return nil
	}
	sort.Ints(levels)

	board := h.Board()
	var settlements []protocol.Settlement
	prev := 0
	for k, level := range levels {
		last := k == len(levels)-1
		amount := 0
		for seat := 0; seat < NumSeats; seat++ {
			if last {
				// the top pot absorbs everything above the previous
				// boundary, including folded chips beyond the level
				amount += totals[seat] - min(totals[seat], prev)
			} else {
				amount += min(totals[seat], level) - min(totals[seat], prev)
			}
		}
		prev = level
		if amount == 0 {
			continue
		}

		var eligible []int
		for seat := 0; seat < NumSeats; seat++ {
			if active(seat) && totals[seat] >= level {
				eligible = append(eligible, seat)
			}
		}
		if len(eligible) == 0 {
			continue
		}

		winners, desc := h.rankEligible(seats, eligible, board)
		settlements = append(settlements,
			h.award(seats, configs, winners, desc, amount, startingIdx)...)
	}
	return settlements
}

// rankEligible picks the winning seat(s) for one pot. With a single
// eligible seat (everyone else folded) no showdown is needed.
func (h *Hand) rankEligible(
	seats *[NumSeats]*Player,
	eligible []int,
	board []deck.Card,
) ([]int, string) {
	if len(eligible) == 1 {
		return eligible, ""
	}

	var best evaluator.Value
	var winners []int
	desc := ""
	for _, seat := range eligible {
		player := seats[seat]
		if len(player.HoleCards) != 2 {
			continue
		}
		cards := append([]deck.Card{}, player.HoleCards...)
		cards = append(cards, board...)
		value := evaluator.Evaluate(cards...)
		switch {
		case len(winners) == 0 || value.Beats(best):
			best = value
			winners = []int{seat}
			desc = value.Describe()
		case value.Ties(best):
			winners = append(winners, seat)
		}
	}
	if len(winners) == 0 {
		// nobody could be ranked; fall back to all eligible seats
		return eligible, ""
	}
	return winners, desc
}

// award splits one pot among winners and pays them. The extra chips from
// an uneven split go to the first winners in hand order from startingIdx.
func (h *Hand) award(
	seats *[NumSeats]*Player,
	configs map[uuid.UUID]*PlayerConfig,
	winners []int,
	desc string,
	amount int,
	startingIdx int,
) []protocol.Settlement {
	isWinner := make(map[int]bool, len(winners))
	for _, seat := range winners {
		isWinner[seat] = true
	}

	share := amount / len(winners)
	remainder := amount % len(winners)

	var settlements []protocol.Settlement
	for offset := 0; offset < NumSeats; offset++ {
		seat := (startingIdx + offset) % NumSeats
		if !isWinner[seat] {
			continue
		}
		payout := share
		if remainder > 0 {
			payout++
			remainder--
		}
		seats[seat].Money += payout

		name := ""
		if config, ok := configs[seats[seat].ID]; ok {
			name = config.Name
		}
		settlements = append(settlements, protocol.Settlement{
			Seat:     seat,
			Name:     name,
			Amount:   payout,
			HandDesc: desc,
		})
	}
	return settlements
}
