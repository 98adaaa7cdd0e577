package gateway

import (
	"github.com/gamehub/pokerroom/internal/deck"
	"github.com/gamehub/pokerroom/internal/game"
)

// RoomView is a room snapshot as one player is allowed to see it: their own
// hole cards only, and never the deck.
type RoomView struct {
	ID         string       `json:"id"`
	Status     string       `json:"status"`
	Players    []PlayerView `json:"players"`
	Dealer     int          `json:"dealer"`
	SmallBlind int          `json:"smallBlind"`
	BigBlind   int          `json:"bigBlind"`
	Pot        int          `json:"pot"`
	CurrentBet int          `json:"currentBet"`
	MinRaise   int          `json:"minRaise"`
	Community  []deck.Card  `json:"community,omitempty"`
	Round      string       `json:"round"`
	ToAct      string       `json:"toAct,omitempty"`
	HandNumber int          `json:"handNumber"`
}

// PlayerView is one seat as seen from outside.
type PlayerView struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Chips     int         `json:"chips"`
	Bet       int         `json:"bet"`
	TotalBet  int         `json:"totalBet"`
	Folded    bool        `json:"folded"`
	AllIn     bool        `json:"allIn"`
	Seat      int         `json:"seat"`
	HoleCards []deck.Card `json:"holeCards,omitempty"` // viewer's own seat only
}

// NewRoomView redacts a room snapshot for the given viewer.
func NewRoomView(room *game.Room, viewer game.PlayerID) *RoomView {
	view := &RoomView{
		ID:         string(room.ID),
		Status:     room.Status.String(),
		Players:    make([]PlayerView, 0, len(room.Players)),
		Dealer:     room.DealerIndex,
		SmallBlind: room.SmallBlind,
		BigBlind:   room.BigBlind,
		Pot:        room.Pot,
		CurrentBet: room.CurrentBet,
		MinRaise:   room.MinRaise,
		Community:  room.Community,
		Round:      room.Round.String(),
		HandNumber: room.HandNumber,
	}
	if actor := room.CurrentActor(); actor != nil {
		view.ToAct = string(actor.ID)
	}
	for _, p := range room.Players {
		pv := PlayerView{
			ID:       string(p.ID),
			Name:     p.Name,
			Chips:    p.Chips,
			Bet:      p.Bet,
			TotalBet: p.TotalBet,
			Folded:   p.Folded,
			AllIn:    p.AllIn,
			Seat:     p.Seat,
		}
		if p.ID == viewer {
			pv.HoleCards = p.HoleCards
		}
		view.Players = append(view.Players, pv)
	}
	return view
}
