package game

import (
	rand "math/rand/v2"

	"github.com/gamehub/pokerroom/internal/deck"
)

// RoomID identifies a room. Distinct from PlayerID by construction.
type RoomID string

// MaxSeats is the hard seat limit for a room.
const MaxSeats = 8

// Status represents the lifecycle state of a room.
type Status int

const (
	StatusWaiting Status = iota
	StatusPlaying
	StatusFinished
)

// String returns the string representation of a status.
func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusPlaying:
		return "playing"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Round represents the current betting round.
type Round int

const (
	RoundPreflop Round = iota
	RoundFlop
	RoundTurn
	RoundRiver
)

// String returns the string representation of a betting round.
func (r Round) String() string {
	switch r {
	case RoundPreflop:
		return "preflop"
	case RoundFlop:
		return "flop"
	case RoundTurn:
		return "turn"
	case RoundRiver:
		return "river"
	default:
		return "unknown"
	}
}

// Room is the authoritative state of one poker table. All mutation must be
// serialized by the caller; the engine itself is synchronous and never blocks.
// The whole struct marshals to JSON so a room can be persisted between
// commands, including mid-hand.
type Room struct {
	ID              RoomID      `json:"id"`
	Status          Status      `json:"status"`
	Players         []*Player   `json:"players"` // seat order
	DealerIndex     int         `json:"dealerIndex"`
	SmallBlindIndex int         `json:"smallBlindIndex"`
	BigBlindIndex   int         `json:"bigBlindIndex"`
	ActorIndex      int         `json:"actorIndex"` // -1 when nobody can act
	Pot             int         `json:"pot"`
	CurrentBet      int         `json:"currentBet"`
	MinRaise        int         `json:"minRaise"`
	Community       []deck.Card `json:"community,omitempty"`
	Round           Round       `json:"round"`
	Deck            *deck.Deck  `json:"deck,omitempty"`
	SmallBlind      int         `json:"smallBlind"`
	BigBlind        int         `json:"bigBlind"`
	HandNumber      int         `json:"handNumber"`
	Acted           []bool      `json:"acted,omitempty"` // acted since the last full raise, by seat
}

// NewRoom creates an empty room in the waiting state.
func NewRoom(id RoomID, smallBlind, bigBlind int) *Room {
	return &Room{
		ID:         id,
		Status:     StatusWaiting,
		Players:    make([]*Player, 0, MaxSeats),
		ActorIndex: -1,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
	}
}

// AddPlayer seats a player. Joining during a hand is allowed; the newcomer
// sits out until the next hand starts.
func (r *Room) AddPlayer(id PlayerID, name string, chips int) ([]Event, error) {
	if len(r.Players) >= MaxSeats {
		return nil, ErrRoomFull
	}
	if _, ok := r.seatOf(id); ok {
		return nil, ErrAlreadySeated
	}

	p := &Player{
		ID:    id,
		Name:  name,
		Chips: chips,
		Seat:  len(r.Players),
	}
	if r.Status == StatusPlaying {
		// Not dealt into the hand in progress.
		p.Folded = true
	}
	r.Players = append(r.Players, p)
	if r.Status == StatusPlaying {
		r.Acted = append(r.Acted, true)
	}

	return []Event{newPlayerJoined(r.ID, p)}, nil
}

// RemovePlayer unseats a player. If they are involved in a hand in progress
// they are folded first (chips already committed stay in the pot) and the seat
// is released once the hand completes.
func (r *Room) RemovePlayer(id PlayerID) ([]Event, error) {
	seat, ok := r.seatOf(id)
	if !ok {
		return nil, ErrNotSeated
	}
	p := r.Players[seat]

	if r.Status == StatusPlaying {
		p.Leaving = true
		events := []Event{newPlayerLeft(r.ID, p.ID, p.Chips)}
		more, err := r.forceFold(seat)
		if err != nil {
			return nil, err
		}
		return append(events, more...), nil
	}

	r.removeSeat(seat)
	return []Event{newPlayerLeft(r.ID, p.ID, p.Chips)}, nil
}

// StartHand deals a new hand: rotates the button, posts blinds, deals hole
// cards and sets the first actor. The caller provides the RNG so each room
// owns its stream and tests stay deterministic.
func (r *Room) StartHand(rng *rand.Rand) ([]Event, error) {
	if r.Status == StatusPlaying {
		return nil, ErrHandInProgress
	}
	r.sweepLeaving()
	if r.countFunded() < 2 {
		return nil, ErrNotEnoughPlayers
	}

	r.HandNumber++
	r.Status = StatusPlaying
	r.Round = RoundPreflop
	r.Pot = 0
	r.CurrentBet = 0
	r.MinRaise = r.BigBlind
	r.Community = nil
	r.Acted = make([]bool, len(r.Players))

	for _, p := range r.Players {
		p.resetForHand()
		if p.Chips == 0 {
			// Broke players keep their seat but sit the hand out.
			p.Folded = true
		}
	}

	// Rotate the button to the next funded seat.
	if r.HandNumber == 1 {
		r.DealerIndex = r.nextFundedSeat(len(r.Players) - 1)
	} else {
		r.DealerIndex = r.nextFundedSeat(r.DealerIndex)
	}

	// Heads-up the dealer posts the small blind; otherwise the two seats
	// after the button do.
	if r.countFunded() == 2 {
		r.SmallBlindIndex = r.DealerIndex
		r.BigBlindIndex = r.nextFundedSeat(r.DealerIndex)
	} else {
		r.SmallBlindIndex = r.nextFundedSeat(r.DealerIndex)
		r.BigBlindIndex = r.nextFundedSeat(r.SmallBlindIndex)
	}

	r.Deck = deck.NewShuffled(rng)
	events := []Event{}
	for _, p := range r.Players {
		if p.Folded {
			continue
		}
		cards, err := r.Deck.Deal(2)
		if err != nil {
			return nil, err
		}
		p.HoleCards = cards
		events = append(events, newHoleCardsDealt(r.ID, p.ID, cards))
	}

	// Blinds are capped at the poster's stack; a short post is an all-in.
	sb := r.Players[r.SmallBlindIndex]
	bb := r.Players[r.BigBlindIndex]
	r.Pot += sb.commit(r.SmallBlind)
	r.Pot += bb.commit(r.BigBlind)
	r.CurrentBet = r.BigBlind

	r.ActorIndex = r.nextActiveSeat(r.BigBlindIndex)

	events = append([]Event{newHandStarted(r)}, events...)

	// If the blinds put everyone all-in there is no betting at all: run the
	// board out to showdown immediately.
	if r.ActorIndex == -1 {
		more, err := r.advanceRound()
		if err != nil {
			return nil, err
		}
		events = append(events, more...)
	}

	return events, nil
}

// CurrentActor returns the player whose turn it is, or nil.
func (r *Room) CurrentActor() *Player {
	if r.Status != StatusPlaying || r.ActorIndex < 0 || r.ActorIndex >= len(r.Players) {
		return nil
	}
	return r.Players[r.ActorIndex]
}

// Player returns the seated player with the given id.
func (r *Room) Player(id PlayerID) (*Player, bool) {
	seat, ok := r.seatOf(id)
	if !ok {
		return nil, false
	}
	return r.Players[seat], true
}

// nextActiveSeat scans forward from the given seat, wrapping, and returns the
// first seat that can still act, or -1 if none qualifies.
func (r *Room) nextActiveSeat(from int) int {
	n := len(r.Players)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if r.Players[seat].CanAct() {
			return seat
		}
	}
	return -1
}

// nextFundedSeat scans forward from the given seat, wrapping, and returns the
// first seat holding chips.
func (r *Room) nextFundedSeat(from int) int {
	n := len(r.Players)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if r.Players[seat].Chips > 0 {
			return seat
		}
	}
	return from
}

// activeCount returns the number of players who can still act.
func (r *Room) activeCount() int {
	count := 0
	for _, p := range r.Players {
		if p.CanAct() {
			count++
		}
	}
	return count
}

// survivors returns the players still in the hand.
func (r *Room) survivors() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.InHand() {
			out = append(out, p)
		}
	}
	return out
}

func (r *Room) countFunded() int {
	count := 0
	for _, p := range r.Players {
		if p.Chips > 0 {
			count++
		}
	}
	return count
}

func (r *Room) seatOf(id PlayerID) (int, bool) {
	for i, p := range r.Players {
		if p.ID == id {
			return i, true
		}
	}
	return 0, false
}

// removeSeat splices a seat out and keeps the positional indices pointing at
// the same players.
func (r *Room) removeSeat(seat int) {
	r.Players = append(r.Players[:seat], r.Players[seat+1:]...)
	for i := seat; i < len(r.Players); i++ {
		r.Players[i].Seat = i
	}
	adjust := func(idx int) int {
		if idx > seat {
			return idx - 1
		}
		if idx == seat || idx >= len(r.Players) {
			if len(r.Players) == 0 {
				return 0
			}
			return idx % len(r.Players)
		}
		return idx
	}
	r.DealerIndex = adjust(r.DealerIndex)
	r.SmallBlindIndex = adjust(r.SmallBlindIndex)
	r.BigBlindIndex = adjust(r.BigBlindIndex)
}

// sweepLeaving releases the seats of players who left during the previous
// hand. Only called between hands.
func (r *Room) sweepLeaving() {
	for i := len(r.Players) - 1; i >= 0; i-- {
		if r.Players[i].Leaving {
			r.removeSeat(i)
		}
	}
}
