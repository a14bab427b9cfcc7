package game

import "fmt"

// ActionKind enumerates the betting decisions a seat can make. The two
// blind posts are never submitted by clients; the engine injects them at
// the top of the preflop street.
type ActionKind int

const (
	Fold ActionKind = iota
	Check
	Call
	Bet
	SitOut
	PostSmallBlind
	PostBigBlind
)

func (k ActionKind) String() string {
	switch k {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case SitOut:
		return "sit_out"
	case PostSmallBlind:
		return "small_blind"
	case PostBigBlind:
		return "big_blind"
	default:
		return "unknown"
	}
}

// Action is a betting decision. Amount is meaningful for Bet (the total
// street contribution being raised to) and for the blind posts (the
// chips actually paid, capped at the stack).
type Action struct {
	Kind   ActionKind
	Amount int
}

func (a Action) String() string {
	switch a.Kind {
	case Bet, PostSmallBlind, PostBigBlind:
		return fmt.Sprintf("%s %d", a.Kind, a.Amount)
	default:
		return a.Kind.String()
	}
}
