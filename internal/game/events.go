package game

import (
	"time"

	"github.com/gamehub/pokerroom/internal/deck"
	"github.com/gamehub/pokerroom/internal/evaluator"
)

// EventType identifies a game domain event.
type EventType string

const (
	EventTypePlayerJoined   EventType = "player_joined"
	EventTypePlayerLeft     EventType = "player_left"
	EventTypeHandStarted    EventType = "hand_started"
	EventTypeHoleCardsDealt EventType = "hole_cards_dealt"
	EventTypePlayerActed    EventType = "player_acted"
	EventTypeStreetDealt    EventType = "street_dealt"
	EventTypePotAwarded     EventType = "pot_awarded"
	EventTypeHandEnded      EventType = "hand_ended"
)

// Event is the engine's description of what changed, for the caller to
// persist and render. The engine is agnostic to display strings and chat
// formatting; events carry structured data only.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// PlayerJoinedEvent is emitted when a player takes a seat.
type PlayerJoinedEvent struct {
	RoomID   RoomID   `json:"roomId"`
	PlayerID PlayerID `json:"playerId"`
	Name     string   `json:"name"`
	Chips    int      `json:"chips"`
	Seat     int      `json:"seat"`
	ts       time.Time
}

func (e PlayerJoinedEvent) EventType() EventType { return EventTypePlayerJoined }
func (e PlayerJoinedEvent) Timestamp() time.Time { return e.ts }

func newPlayerJoined(roomID RoomID, p *Player) PlayerJoinedEvent {
	return PlayerJoinedEvent{
		RoomID:   roomID,
		PlayerID: p.ID,
		Name:     p.Name,
		Chips:    p.Chips,
		Seat:     p.Seat,
		ts:       time.Now(),
	}
}

// PlayerLeftEvent is emitted when a player gives up their seat. Chips is the
// bankroll they take with them.
type PlayerLeftEvent struct {
	RoomID   RoomID   `json:"roomId"`
	PlayerID PlayerID `json:"playerId"`
	Chips    int      `json:"chips"`
	ts       time.Time
}

func (e PlayerLeftEvent) EventType() EventType { return EventTypePlayerLeft }
func (e PlayerLeftEvent) Timestamp() time.Time { return e.ts }

func newPlayerLeft(roomID RoomID, id PlayerID, chips int) PlayerLeftEvent {
	return PlayerLeftEvent{RoomID: roomID, PlayerID: id, Chips: chips, ts: time.Now()}
}

// HandStartedEvent is emitted once blinds are posted and hole cards dealt.
type HandStartedEvent struct {
	RoomID       RoomID   `json:"roomId"`
	HandNumber   int      `json:"handNumber"`
	DealerID     PlayerID `json:"dealerId"`
	SmallBlindID PlayerID `json:"smallBlindId"`
	BigBlindID   PlayerID `json:"bigBlindId"`
	SmallBlind   int      `json:"smallBlind"`
	BigBlind     int      `json:"bigBlind"`
	Pot          int      `json:"pot"`
	ts           time.Time
}

func (e HandStartedEvent) EventType() EventType { return EventTypeHandStarted }
func (e HandStartedEvent) Timestamp() time.Time { return e.ts }

func newHandStarted(r *Room) HandStartedEvent {
	return HandStartedEvent{
		RoomID:       r.ID,
		HandNumber:   r.HandNumber,
		DealerID:     r.Players[r.DealerIndex].ID,
		SmallBlindID: r.Players[r.SmallBlindIndex].ID,
		BigBlindID:   r.Players[r.BigBlindIndex].ID,
		SmallBlind:   r.SmallBlind,
		BigBlind:     r.BigBlind,
		Pot:          r.Pot,
		ts:           time.Now(),
	}
}

// HoleCardsDealtEvent carries one player's private cards. The transport layer
// must deliver it to that player only.
type HoleCardsDealtEvent struct {
	RoomID   RoomID      `json:"roomId"`
	PlayerID PlayerID    `json:"playerId"`
	Cards    []deck.Card `json:"cards"`
	ts       time.Time
}

func (e HoleCardsDealtEvent) EventType() EventType { return EventTypeHoleCardsDealt }
func (e HoleCardsDealtEvent) Timestamp() time.Time { return e.ts }

func newHoleCardsDealt(roomID RoomID, id PlayerID, cards []deck.Card) HoleCardsDealtEvent {
	return HoleCardsDealtEvent{RoomID: roomID, PlayerID: id, Cards: cards, ts: time.Now()}
}

// PlayerActedEvent is emitted for every applied action, including forced
// folds on leave or timeout.
type PlayerActedEvent struct {
	RoomID     RoomID     `json:"roomId"`
	PlayerID   PlayerID   `json:"playerId"`
	Action     ActionType `json:"action"`
	Paid       int        `json:"paid"` // chips moved into the pot by this action
	Pot        int        `json:"pot"`
	CurrentBet int        `json:"currentBet"`
	AllIn      bool       `json:"allIn"`
	ts         time.Time
}

func (e PlayerActedEvent) EventType() EventType { return EventTypePlayerActed }
func (e PlayerActedEvent) Timestamp() time.Time { return e.ts }

func newPlayerActed(r *Room, p *Player, action ActionType, paid int) PlayerActedEvent {
	return PlayerActedEvent{
		RoomID:     r.ID,
		PlayerID:   p.ID,
		Action:     action,
		Paid:       paid,
		Pot:        r.Pot,
		CurrentBet: r.CurrentBet,
		AllIn:      p.AllIn,
		ts:         time.Now(),
	}
}

// StreetDealtEvent is emitted when community cards are revealed.
type StreetDealtEvent struct {
	RoomID    RoomID      `json:"roomId"`
	Round     Round       `json:"round"`
	Cards     []deck.Card `json:"cards"`     // newly revealed
	Community []deck.Card `json:"community"` // full board so far
	Pot       int         `json:"pot"`
	ts        time.Time
}

func (e StreetDealtEvent) EventType() EventType { return EventTypeStreetDealt }
func (e StreetDealtEvent) Timestamp() time.Time { return e.ts }

func newStreetDealt(r *Room, cards []deck.Card) StreetDealtEvent {
	community := make([]deck.Card, len(r.Community))
	copy(community, r.Community)
	return StreetDealtEvent{
		RoomID:    r.ID,
		Round:     r.Round,
		Cards:     cards,
		Community: community,
		Pot:       r.Pot,
		ts:        time.Now(),
	}
}

// PotAwardedEvent is emitted per pot layer at resolution. Showdown is false
// when the pot went to the last player standing without evaluation.
type PotAwardedEvent struct {
	RoomID   RoomID             `json:"roomId"`
	Amount   int                `json:"amount"`
	Winners  []PlayerID         `json:"winners"`
	Category evaluator.Category `json:"category,omitempty"`
	Showdown bool               `json:"showdown"`
	ts       time.Time
}

func (e PotAwardedEvent) EventType() EventType { return EventTypePotAwarded }
func (e PotAwardedEvent) Timestamp() time.Time { return e.ts }

func newPotAwarded(roomID RoomID, amount int, winners []PlayerID, ev evaluator.Evaluation, showdown bool) PotAwardedEvent {
	return PotAwardedEvent{
		RoomID:   roomID,
		Amount:   amount,
		Winners:  winners,
		Category: ev.Category,
		Showdown: showdown,
		ts:       time.Now(),
	}
}

// ShowdownHand is one revealed hand in a HandEndedEvent.
type ShowdownHand struct {
	PlayerID  PlayerID           `json:"playerId"`
	HoleCards []deck.Card        `json:"holeCards"`
	Category  evaluator.Category `json:"category"`
	BestFive  []deck.Card        `json:"bestFive"`
}

// HandEndedEvent closes a hand: who got paid what, and which hands were shown
// (empty on a fold-win).
type HandEndedEvent struct {
	RoomID     RoomID           `json:"roomId"`
	HandNumber int              `json:"handNumber"`
	Payouts    map[PlayerID]int `json:"payouts"`
	Showdowns  []ShowdownHand   `json:"showdowns,omitempty"`
	Community  []deck.Card      `json:"community,omitempty"`
	ts         time.Time
}

func (e HandEndedEvent) EventType() EventType { return EventTypeHandEnded }
func (e HandEndedEvent) Timestamp() time.Time { return e.ts }

func newHandEnded(r *Room, payouts map[PlayerID]int, showdowns []ShowdownHand) HandEndedEvent {
	community := make([]deck.Card, len(r.Community))
	copy(community, r.Community)
	return HandEndedEvent{
		RoomID:     r.ID,
		HandNumber: r.HandNumber,
		Payouts:    payouts,
		Showdowns:  showdowns,
		Community:  community,
		ts:         time.Now(),
	}
}
