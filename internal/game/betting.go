package game

import "fmt"

// ApplyAction validates and applies one player action. Validation never
// mutates: an error leaves the room exactly as it was. A legal action applies
// atomically together with everything it triggers — actor advance, street
// deals, showdown and payout.
func (r *Room) ApplyAction(id PlayerID, action Action) ([]Event, error) {
	if r.Status != StatusPlaying {
		return nil, ErrRoomNotPlaying
	}
	seat, ok := r.seatOf(id)
	if !ok {
		return nil, ErrNotSeated
	}
	p := r.Players[seat]
	if seat != r.ActorIndex {
		return nil, ErrNotYourTurn
	}
	if p.Folded {
		return nil, ErrPlayerFolded
	}
	if p.AllIn {
		return nil, fmt.Errorf("%w: player is all-in", ErrInvalidAction)
	}

	if err := r.validateAction(seat, p, action); err != nil {
		return nil, err
	}

	// Validation passed: mutate.
	paid := 0
	switch action.Type {
	case ActionFold:
		p.Folded = true

	case ActionCheck:
		// Nothing owed, nothing moves.

	case ActionCall:
		paid = p.commit(r.CurrentBet - p.Bet)
		r.Pot += paid

	case ActionRaise:
		increment := action.Amount - r.CurrentBet
		paid = p.commit(action.Amount - p.Bet)
		r.Pot += paid
		r.CurrentBet = action.Amount
		if increment >= r.MinRaise {
			// A full raise re-opens the action to everyone else.
			r.MinRaise = increment
			r.resetActed()
		}

	case ActionAllIn:
		paid = p.commit(p.Chips)
		r.Pot += paid
		if p.Bet > r.CurrentBet {
			increment := p.Bet - r.CurrentBet
			r.CurrentBet = p.Bet
			if increment >= r.MinRaise {
				r.MinRaise = increment
				r.resetActed()
			}
			// A short all-in raise does not re-open the action: players
			// who already acted may only call the difference or fold.
		}
	}
	r.Acted[seat] = true

	events := []Event{newPlayerActed(r, p, action.Type, paid)}

	more, err := r.afterAction(seat)
	if err != nil {
		return nil, err
	}
	return append(events, more...), nil
}

// validateAction checks an action against the current state without mutating
// anything.
func (r *Room) validateAction(seat int, p *Player, action Action) error {
	switch action.Type {
	case ActionFold:
		return nil

	case ActionCheck:
		if p.Bet != r.CurrentBet {
			return fmt.Errorf("%w: cannot check, %d to call", ErrInvalidAction, r.CurrentBet-p.Bet)
		}
		return nil

	case ActionCall:
		return nil

	case ActionRaise:
		total := p.Chips + p.Bet
		if action.Amount > total {
			return fmt.Errorf("%w: raise to %d with %d available", ErrInsufficientChips, action.Amount, total)
		}
		if action.Amount <= r.CurrentBet {
			return fmt.Errorf("%w: raise to %d does not exceed current bet %d", ErrBelowMinimumRaise, action.Amount, r.CurrentBet)
		}
		if action.Amount < r.CurrentBet+r.MinRaise && action.Amount < total {
			return fmt.Errorf("%w: minimum is %d", ErrBelowMinimumRaise, r.CurrentBet+r.MinRaise)
		}
		if r.Acted[seat] && action.Amount > r.CurrentBet {
			// The action was never re-opened to this player (the bet rose
			// only by a short all-in); they may call or fold, not raise.
			return fmt.Errorf("%w: betting is not re-opened", ErrInvalidAction)
		}
		return nil

	case ActionAllIn:
		if p.Chips+p.Bet > r.CurrentBet && r.Acted[seat] {
			return fmt.Errorf("%w: betting is not re-opened", ErrInvalidAction)
		}
		return nil

	default:
		return fmt.Errorf("%w: %v", ErrInvalidAction, action.Type)
	}
}

// afterAction advances the actor and resolves fold-wins, round completion and
// run-outs after any successful action or forced fold.
func (r *Room) afterAction(seat int) ([]Event, error) {
	// Fold-win: the last player standing takes the pot without showdown.
	if alive := r.survivors(); len(alive) == 1 {
		return r.awardFoldWin(alive[0])
	}

	r.ActorIndex = r.nextActiveSeat(seat)

	if r.ActorIndex == -1 || r.roundComplete() {
		return r.advanceRound()
	}
	return nil, nil
}

// roundComplete reports whether the current betting round is settled: every
// player who can still act has matched the current bet and has acted since
// the last full raise. The big blind's preflop option falls out of the acted
// flags — posting a blind is not acting.
func (r *Room) roundComplete() bool {
	for seat, p := range r.Players {
		if !p.CanAct() {
			continue
		}
		if p.Bet != r.CurrentBet || !r.Acted[seat] {
			return false
		}
	}
	return true
}

// advanceRound reveals the next community cards and opens a fresh betting
// round, or goes to showdown after the river. When one or zero players can
// still act, the remaining streets are dealt straight through with no further
// betting.
func (r *Room) advanceRound() ([]Event, error) {
	if r.Round == RoundRiver {
		return r.showdown()
	}

	for _, p := range r.Players {
		p.Bet = 0
	}
	r.CurrentBet = 0
	r.MinRaise = r.BigBlind
	r.resetActed()

	var n int
	switch r.Round {
	case RoundPreflop:
		r.Round = RoundFlop
		n = 3
	case RoundFlop:
		r.Round = RoundTurn
		n = 1
	case RoundTurn:
		r.Round = RoundRiver
		n = 1
	}
	cards, err := r.Deck.Deal(n)
	if err != nil {
		return nil, err
	}
	r.Community = append(r.Community, cards...)

	events := []Event{newStreetDealt(r, cards)}

	r.ActorIndex = r.nextActiveSeat(r.DealerIndex)
	if r.activeCount() <= 1 {
		// Betting is moot; run the remaining streets out in sequence.
		r.ActorIndex = -1
		more, err := r.advanceRound()
		if err != nil {
			return nil, err
		}
		events = append(events, more...)
	}
	return events, nil
}

// ForceFoldCurrent folds the player whose turn it is. Called when a turn
// deadline expires.
func (r *Room) ForceFoldCurrent() ([]Event, error) {
	if r.Status != StatusPlaying || r.ActorIndex < 0 {
		return nil, ErrRoomNotPlaying
	}
	return r.forceFold(r.ActorIndex)
}

// forceFold folds a seat regardless of turn order. Used when a player leaves
// mid-hand or a turn deadline expires.
func (r *Room) forceFold(seat int) ([]Event, error) {
	p := r.Players[seat]
	if p.Folded || r.Status != StatusPlaying {
		return nil, nil
	}
	if p.AllIn {
		// Their chips stay live; the hand plays out without them acting.
		return nil, nil
	}

	p.Folded = true
	r.Acted[seat] = true
	events := []Event{newPlayerActed(r, p, ActionFold, 0)}

	if seat == r.ActorIndex {
		more, err := r.afterAction(seat)
		if err != nil {
			return nil, err
		}
		return append(events, more...), nil
	}

	if alive := r.survivors(); len(alive) == 1 {
		more, err := r.awardFoldWin(alive[0])
		if err != nil {
			return nil, err
		}
		return append(events, more...), nil
	}
	if r.roundComplete() {
		more, err := r.advanceRound()
		if err != nil {
			return nil, err
		}
		return append(events, more...), nil
	}
	return events, nil
}

func (r *Room) resetActed() {
	for i := range r.Acted {
		r.Acted[i] = false
	}
	// Players who cannot act anymore hold no pending option.
	for i, p := range r.Players {
		if !p.CanAct() {
			r.Acted[i] = true
		}
	}
}
