package game

import (
	"sort"

	"github.com/gamehub/pokerroom/internal/deck"
	"github.com/gamehub/pokerroom/internal/evaluator"
)

// potLayer is one layer of the (possibly split) pot. Each layer is contested
// only by the players who contributed to it.
type potLayer struct {
	amount   int
	eligible []int // seat indexes, still in the hand
}

// awardFoldWin pays the whole pot to the last player standing. No cards are
// revealed and no evaluation happens.
func (r *Room) awardFoldWin(winner *Player) ([]Event, error) {
	amount := r.Pot
	winner.Chips += amount
	r.Pot = 0

	events := []Event{
		newPotAwarded(r.ID, amount, []PlayerID{winner.ID}, evaluator.Evaluation{}, false),
		newHandEnded(r, map[PlayerID]int{winner.ID: amount}, nil),
	}
	r.finishHand()
	return events, nil
}

// showdown evaluates the remaining hands and pays out every pot layer. Ties
// split a layer equally; odd chips go to the earliest eligible seat clockwise
// from the dealer.
func (r *Room) showdown() ([]Event, error) {
	evals := make(map[int]evaluator.Evaluation, len(r.Players))
	reveals := make([]ShowdownHand, 0, len(r.Players))
	for seat, p := range r.Players {
		if !p.InHand() {
			continue
		}
		ev, err := evaluator.Evaluate(append(append([]deck.Card{}, p.HoleCards...), r.Community...))
		if err != nil {
			return nil, err
		}
		evals[seat] = ev
		reveals = append(reveals, ShowdownHand{
			PlayerID:  p.ID,
			HoleCards: p.HoleCards,
			Category:  ev.Category,
			BestFive:  ev.BestFive,
		})
	}

	payouts := make(map[PlayerID]int)
	events := []Event{}

	for _, layer := range r.potLayers() {
		winners := r.layerWinners(layer, evals)
		if len(winners) == 0 {
			continue
		}

		share := layer.amount / len(winners)
		remainder := layer.amount % len(winners)

		// Odd chips go to the winners nearest the dealer's left.
		ordered := append([]int{}, winners...)
		sort.Slice(ordered, func(i, j int) bool {
			return r.clockwiseFromDealer(ordered[i]) < r.clockwiseFromDealer(ordered[j])
		})

		ids := make([]PlayerID, 0, len(ordered))
		for i, seat := range ordered {
			amount := share
			if i < remainder {
				amount++
			}
			p := r.Players[seat]
			p.Chips += amount
			payouts[p.ID] += amount
			ids = append(ids, p.ID)
		}
		r.Pot -= layer.amount

		events = append(events, newPotAwarded(r.ID, layer.amount, ids, evals[ordered[0]], true))
	}

	events = append(events, newHandEnded(r, payouts, reveals))
	r.finishHand()
	return events, nil
}

// potLayers splits the pot by the distinct amounts the surviving players have
// committed. Contributions from folded players fall into the matching layers;
// anything committed beyond the largest surviving stake is folded into the
// final layer.
func (r *Room) potLayers() []potLayer {
	levels := make([]int, 0, len(r.Players))
	seen := make(map[int]bool)
	for _, p := range r.Players {
		if p.InHand() && p.TotalBet > 0 && !seen[p.TotalBet] {
			seen[p.TotalBet] = true
			levels = append(levels, p.TotalBet)
		}
	}
	sort.Ints(levels)
	if len(levels) == 0 {
		return nil
	}

	layers := make([]potLayer, 0, len(levels))
	prev := 0
	for _, level := range levels {
		layer := potLayer{}
		for seat, p := range r.Players {
			if contribution := clamp(p.TotalBet, prev, level); contribution > 0 {
				layer.amount += contribution
			}
			if p.InHand() && p.TotalBet >= level {
				layer.eligible = append(layer.eligible, seat)
			}
		}
		if layer.amount > 0 {
			layers = append(layers, layer)
		}
		prev = level
	}

	// Chips bet above the top surviving stake (a raise everyone folded to)
	// are uncontested and stay in the final layer.
	top := levels[len(levels)-1]
	extra := 0
	for _, p := range r.Players {
		if p.TotalBet > top {
			extra += p.TotalBet - top
		}
	}
	if extra > 0 && len(layers) > 0 {
		layers[len(layers)-1].amount += extra
	}

	return layers
}

// layerWinners returns the seats holding the best hand among those eligible
// for the layer.
func (r *Room) layerWinners(layer potLayer, evals map[int]evaluator.Evaluation) []int {
	winners := []int{}
	var best evaluator.Evaluation
	for _, seat := range layer.eligible {
		ev, ok := evals[seat]
		if !ok {
			continue
		}
		switch evaluator.Compare(ev, best) {
		case 1:
			best = ev
			winners = []int{seat}
		case 0:
			if len(winners) > 0 {
				winners = append(winners, seat)
			}
		}
	}
	return winners
}

// clockwiseFromDealer orders seats by distance clockwise from the dealer,
// starting at the dealer's left.
func (r *Room) clockwiseFromDealer(seat int) int {
	n := len(r.Players)
	return ((seat - r.DealerIndex - 1) % n + n) % n
}

// finishHand closes out the hand and releases the seats of players who left
// during it.
func (r *Room) finishHand() {
	r.Status = StatusFinished
	r.ActorIndex = -1
	r.Deck = nil
	r.CurrentBet = 0
	r.MinRaise = 0
	for _, p := range r.Players {
		p.Bet = 0
	}
	r.sweepLeaving()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return 0
	}
	if v > hi {
		return hi - lo
	}
	return v - lo
}
