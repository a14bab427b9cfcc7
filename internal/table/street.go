package table

import (
	"fmt"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/protocol"
)

// playStreet runs one betting round. Returns true when the hand is over
// because only one player remains in it.
func (t *Table) playStreet(hand *game.Hand) bool {
	numActive := t.countActive()
	if numActive < 2 {
		return true
	}

	numAllIn := t.countAllIn()
	numSettled := 0
	idx := t.startingIdx()

	for numSettled+numAllIn < numActive {
		p := t.seats[idx]
		if p == nil || !p.IsActive || p.IsAllIn() {
			idx = (idx + 1) % game.NumSeats
			continue
		}

		action := t.getAndValidateAction(hand, idx, p)
		contributed := hand.CurrentStreetContribution(idx)

		switch action.Kind {
		case game.PostSmallBlind, game.PostBigBlind:
			allIn := action.Amount >= p.Money
			pay := min(action.Amount, p.Money)
			p.Money -= pay
			hand.Contribute(idx, pay, allIn)
			// the full blind is owed even when the post is short
			if action.Kind == game.PostSmallBlind {
				hand.CurrentBet = t.smallBlind
			} else {
				hand.CurrentBet = t.bigBlind
			}
			if allIn {
				numAllIn++
			}
			// the big blind keeps the option, so neither post settles

		case game.Check:
			numSettled++

		case game.Call:
			owed := hand.CurrentBet - contributed
			allIn := owed >= p.Money
			pay := min(owed, p.Money)
			p.Money -= pay
			hand.Contribute(idx, pay, allIn)
			if allIn {
				numAllIn++
			} else {
				numSettled++
			}

		case game.Bet:
			pay := action.Amount - contributed
			allIn := pay >= p.Money
			if allIn {
				pay = p.Money
				action.Amount = contributed + pay
			}
			p.Money -= pay
			hand.Contribute(idx, pay, allIn)
			hand.CurrentBet = action.Amount
			if allIn {
				numAllIn++
				numSettled = 0
			} else {
				numSettled = 1
			}

		default: // fold and sit-out leave the hand
			p.Deactivate()
			numActive--
		}

		act := action
		p.LastAction = &act
		t.logger.Debug("action applied",
			"seat", idx, "action", action.String(), "street", hand.Street.String())
		hand.IndexToAct = -1
		t.sendGameState(hand, false)

		if numActive == 1 {
			return true
		}
		idx = (idx + 1) % game.NumSeats
	}

	hand.IndexToAct = -1
	return false
}

// getAndValidateAction obtains seat idx's next action and normalizes it
// until it is legal for the current state. Blind posts are forced, bots
// re-roll illegal picks, humans get an error event and a fresh prompt
// without losing retry attempts.
func (t *Table) getAndValidateAction(hand *game.Hand, idx int, p *game.Player) game.Action {
	if hand.Street == game.Preflop {
		if hand.CurrentBet == 0 {
			return game.Action{Kind: game.PostSmallBlind, Amount: min(t.smallBlind, p.Money)}
		}
		if hand.CurrentBet == t.smallBlind && streetContributors(hand) == 1 {
			return game.Action{Kind: game.PostBigBlind, Amount: min(t.bigBlind, p.Money)}
		}
	}

	if p.IsSittingOut {
		return game.Action{Kind: game.SitOut}
	}

	contributed := hand.CurrentStreetContribution(idx)
	attempts := t.pacing.Attempts
	for {
		action, ok := t.getActionFromPlayer(hand, idx, p, &attempts)
		if !ok {
			// out of attempts: leave the hand and sit out of future ones
			t.logger.Info("player timed out", "seat", idx, "id", p.ID)
			t.inboxes.PostMeta(SitOutMeta(p.ID))
			return game.Action{Kind: game.SitOut}
		}

		switch action.Kind {
		case game.Fold, game.SitOut:
			if hand.CurrentBet == contributed {
				// nothing to call, folding only burns equity
				t.sendError(p.ID, protocol.ErrInvalidAction, "nothing to call, checking instead")
				return game.Action{Kind: game.Check}
			}
			return action
		case game.Check:
			if hand.CurrentBet > contributed {
				t.sendError(p.ID, protocol.ErrInvalidAction,
					fmt.Sprintf("cannot check, %d to call", hand.CurrentBet-contributed))
				continue
			}
			return action
		case game.Call:
			if hand.CurrentBet <= contributed {
				t.sendError(p.ID, protocol.ErrInvalidAction, "nothing to call")
				continue
			}
			return action
		case game.Bet:
			pay := action.Amount - contributed
			if pay >= p.Money {
				// a shove that cannot cover a full raise is just a call
				if contributed+p.Money <= hand.CurrentBet {
					return game.Action{Kind: game.Call}
				}
				return game.Action{Kind: game.Bet, Amount: contributed + p.Money}
			}
			if action.Amount <= hand.CurrentBet || pay <= 0 {
				t.sendError(p.ID, protocol.ErrInvalidAction,
					fmt.Sprintf("bet must raise above %d and fit your stack", hand.CurrentBet))
				continue
			}
			return action
		default:
			t.sendError(p.ID, protocol.ErrInvalidAction, "unrecognized action")
			continue
		}
	}
}

// streetContributors counts seats with chips in on the current street.
func streetContributors(hand *game.Hand) int {
	n := 0
	for seat := 0; seat < game.NumSeats; seat++ {
		if hand.CurrentStreetContribution(seat) > 0 {
			n++
		}
	}
	return n
}

// getActionFromPlayer polls the action mailbox for humans or rolls a
// policy action for bots. attempts is shared across validation retries so
// an invalid action does not grant extra time.
func (t *Table) getActionFromPlayer(hand *game.Hand, idx int, p *game.Player, attempts *int) (game.Action, bool) {
	hand.IndexToAct = idx
	t.sendGameState(hand, false)

	if !p.HumanControlled {
		return t.botAction(hand, idx, p), true
	}

	owed := hand.CurrentBet - hand.CurrentStreetContribution(idx)
	text := fmt.Sprintf("current bet = %d", hand.CurrentBet)
	if owed > 0 {
		text = fmt.Sprintf("%d to call", owed)
	}
	t.sendToPlayer(p.ID, protocol.Prompt{
		MsgType:    protocol.TypePrompt,
		Prompt:     text,
		CurrentBet: hand.CurrentBet,
	})

	for *attempts > 0 {
		if action, ok := t.inboxes.takeAction(p.ID); ok {
			t.touchHeartBeat(p.ID)
			return action, true
		}
		t.handleMetaMidHand()
		if _, seated := t.configs[p.ID]; !seated {
			// they left mid-prompt
			return game.Action{Kind: game.Fold}, true
		}
		t.sleep(t.pacing.Retry)
		*attempts--
	}
	return game.Action{}, false
}

// botAction implements the house bot policy: fold 21%, check 35%,
// bet 15%, call 29%, short stacks shove. Picks are raw; the validation
// pass rejects illegal ones and the bot re-rolls on the next poll.
func (t *Table) botAction(hand *game.Hand, idx int, p *game.Player) game.Action {
	contributed := hand.CurrentStreetContribution(idx)
	if p.Money <= 100 {
		return game.Action{Kind: game.Bet, Amount: contributed + p.Money}
	}

	roll := t.rng.Intn(100)
	switch {
	case roll < 21:
		return game.Action{Kind: game.Fold}
	case roll < 56:
		return game.Action{Kind: game.Check}
	case roll < 71:
		raise := 1 + t.rng.Intn(max(1, p.Money/2))
		target := hand.CurrentBet + raise
		if target-contributed > p.Money {
			target = contributed + p.Money
		}
		return game.Action{Kind: game.Bet, Amount: target}
	default:
		return game.Action{Kind: game.Call}
	}
}
