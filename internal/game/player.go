package game

import (
	"github.com/gamehub/pokerroom/internal/deck"
)

// PlayerID identifies a player across the product. It is a distinct type so
// it cannot be confused with a RoomID.
type PlayerID string

// Player is a seat at a room.
type Player struct {
	ID        PlayerID    `json:"id"`
	Name      string      `json:"name"`
	Chips     int         `json:"chips"`     // persistent bankroll
	Bet       int         `json:"bet"`       // committed this betting round
	TotalBet  int         `json:"totalBet"`  // committed this hand
	Folded    bool        `json:"folded"`
	AllIn     bool        `json:"allIn"`
	HoleCards []deck.Card `json:"holeCards,omitempty"`
	Seat      int         `json:"seat"`
	Leaving   bool        `json:"leaving,omitempty"` // remove after the current hand
}

// CanAct returns true if the player can still take betting actions.
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// InHand returns true if the player has not folded this hand.
func (p *Player) InHand() bool {
	return !p.Folded
}

// resetForHand clears all per-hand state. Chips persist across hands.
func (p *Player) resetForHand() {
	p.Bet = 0
	p.TotalBet = 0
	p.Folded = false
	p.AllIn = false
	p.HoleCards = nil
}

// commit moves chips from the player's stack into their round bet, capped at
// the stack, and returns the amount actually moved. A player whose stack hits
// zero is all-in.
func (p *Player) commit(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
	return amount
}
