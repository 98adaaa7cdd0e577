// Package hub owns the live rooms. It serializes all mutation per room,
// persists every change through the store, runs turn deadlines and fans
// resulting events out to subscribers. Everything above it (websocket
// gateway, admin API, chat adapters) goes through the hub; nothing above it
// touches a game.Room directly.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/gamehub/pokerroom/internal/game"
	"github.com/gamehub/pokerroom/internal/randutil"
	"github.com/gamehub/pokerroom/internal/store"
)

// Config carries the table defaults applied to new rooms.
type Config struct {
	SmallBlind  int
	BigBlind    int
	BuyIn       int           // default chips for a joining player
	TurnTimeout time.Duration // 0 disables turn deadlines
}

// Envelope is a batch of events from one room, as delivered to subscribers.
type Envelope struct {
	RoomID game.RoomID  `json:"roomId"`
	Events []game.Event `json:"events"`
}

// Hub manages all rooms in the process.
type Hub struct {
	store  store.Store
	logger *log.Logger
	clock  quartz.Clock
	cfg    Config

	mu      sync.Mutex
	rooms   map[game.RoomID]*handle
	subs    map[*subscriber]struct{}
	seed    int64
	streams int64
}

// handle pairs a live room with its RNG stream and pending turn timer. The
// handle mutex is the single writer lock for that room.
type handle struct {
	mu    sync.Mutex
	room  *game.Room
	rng   *rand.Rand
	timer *quartz.Timer
}

type subscriber struct {
	ch chan Envelope
}

// Option configures a Hub.
type Option func(*Hub)

// WithClock substitutes the clock, for tests.
func WithClock(clock quartz.Clock) Option {
	return func(h *Hub) { h.clock = clock }
}

// WithSeed fixes the base seed for room RNG streams, for tests.
func WithSeed(seed int64) Option {
	return func(h *Hub) { h.seed = seed }
}

// New creates a hub over the given store.
func New(st store.Store, logger *log.Logger, cfg Config, opts ...Option) *Hub {
	h := &Hub{
		store:  st,
		logger: logger.WithPrefix("hub"),
		clock:  quartz.NewReal(),
		cfg:    cfg,
		rooms:  make(map[game.RoomID]*handle),
		subs:   make(map[*subscriber]struct{}),
		seed:   time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CreateRoom creates and persists a new empty room. Zero blinds take the
// configured defaults.
func (h *Hub) CreateRoom(ctx context.Context, smallBlind, bigBlind int) (*game.Room, error) {
	if smallBlind <= 0 {
		smallBlind = h.cfg.SmallBlind
	}
	if bigBlind <= 0 {
		bigBlind = h.cfg.BigBlind
	}
	if bigBlind <= smallBlind {
		return nil, fmt.Errorf("big blind %d must exceed small blind %d", bigBlind, smallBlind)
	}

	id := game.RoomID(uuid.NewString())
	room := game.NewRoom(id, smallBlind, bigBlind)
	if err := h.store.Save(ctx, room); err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.rooms[id] = &handle{room: room, rng: h.newStream()}
	h.mu.Unlock()

	h.logger.Info("room created", "room", id, "blinds", fmt.Sprintf("%d/%d", smallBlind, bigBlind))
	return cloneRoom(room)
}

// Join seats a player. A zero buy-in takes the configured default.
func (h *Hub) Join(ctx context.Context, roomID game.RoomID, playerID game.PlayerID, name string, buyIn int) ([]game.Event, error) {
	if buyIn <= 0 {
		buyIn = h.cfg.BuyIn
	}
	return h.withRoom(ctx, roomID, func(r *game.Room) ([]game.Event, error) {
		return r.AddPlayer(playerID, name, buyIn)
	})
}

// Leave unseats a player, folding them first if a hand is running.
func (h *Hub) Leave(ctx context.Context, roomID game.RoomID, playerID game.PlayerID) ([]game.Event, error) {
	return h.withRoom(ctx, roomID, func(r *game.Room) ([]game.Event, error) {
		return r.RemovePlayer(playerID)
	})
}

// StartHand deals the next hand in a room.
func (h *Hub) StartHand(ctx context.Context, roomID game.RoomID) ([]game.Event, error) {
	hd, err := h.handle(ctx, roomID)
	if err != nil {
		return nil, err
	}
	hd.mu.Lock()
	defer hd.mu.Unlock()

	events, err := hd.room.StartHand(hd.rng)
	if err != nil {
		return nil, err
	}
	return h.commitLocked(ctx, hd, events)
}

// Act applies a player action.
func (h *Hub) Act(ctx context.Context, roomID game.RoomID, playerID game.PlayerID, action game.Action) ([]game.Event, error) {
	return h.withRoom(ctx, roomID, func(r *game.Room) ([]game.Event, error) {
		return r.ApplyAction(playerID, action)
	})
}

// Room returns a snapshot of a room. Mutating the snapshot has no effect on
// the live room.
func (h *Hub) Room(ctx context.Context, roomID game.RoomID) (*game.Room, error) {
	hd, err := h.handle(ctx, roomID)
	if err != nil {
		return nil, err
	}
	hd.mu.Lock()
	defer hd.mu.Unlock()
	return cloneRoom(hd.room)
}

// Rooms lists all saved room ids.
func (h *Hub) Rooms(ctx context.Context) ([]game.RoomID, error) {
	return h.store.List(ctx)
}

// CloseRoom deletes a room and drops its live state.
func (h *Hub) CloseRoom(ctx context.Context, roomID game.RoomID) error {
	h.mu.Lock()
	hd := h.rooms[roomID]
	delete(h.rooms, roomID)
	h.mu.Unlock()

	if hd != nil {
		hd.mu.Lock()
		if hd.timer != nil {
			hd.timer.Stop()
		}
		hd.mu.Unlock()
	}

	if err := h.store.Delete(ctx, roomID); err != nil {
		return err
	}
	h.logger.Info("room closed", "room", roomID)
	return nil
}

// Subscribe registers for event envelopes from every room. The returned
// cancel func must be called to release the subscription. A slow subscriber
// loses envelopes rather than stalling the hub.
func (h *Hub) Subscribe() (<-chan Envelope, func()) {
	sub := &subscriber{ch: make(chan Envelope, 64)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[sub]; ok {
			delete(h.subs, sub)
			close(sub.ch)
		}
		h.mu.Unlock()
	}
	return sub.ch, cancel
}

// Close stops all timers and releases the store.
func (h *Hub) Close() error {
	h.mu.Lock()
	handles := make([]*handle, 0, len(h.rooms))
	for _, hd := range h.rooms {
		handles = append(handles, hd)
	}
	h.rooms = make(map[game.RoomID]*handle)
	h.mu.Unlock()

	for _, hd := range handles {
		hd.mu.Lock()
		if hd.timer != nil {
			hd.timer.Stop()
		}
		hd.mu.Unlock()
	}
	return h.store.Close()
}

// withRoom runs one mutation under the room's writer lock, then persists,
// reschedules the turn deadline and publishes the events.
func (h *Hub) withRoom(ctx context.Context, roomID game.RoomID, fn func(*game.Room) ([]game.Event, error)) ([]game.Event, error) {
	hd, err := h.handle(ctx, roomID)
	if err != nil {
		return nil, err
	}
	hd.mu.Lock()
	defer hd.mu.Unlock()

	events, err := fn(hd.room)
	if err != nil {
		return nil, err
	}
	return h.commitLocked(ctx, hd, events)
}

// commitLocked persists the room, resets its turn deadline and fans events
// out. Caller holds the handle lock.
func (h *Hub) commitLocked(ctx context.Context, hd *handle, events []game.Event) ([]game.Event, error) {
	if err := h.store.Save(ctx, hd.room); err != nil {
		return nil, fmt.Errorf("saving room %s: %w", hd.room.ID, err)
	}
	h.rescheduleLocked(hd)
	h.publish(hd.room.ID, events)
	return events, nil
}

// handle returns the live handle for a room, loading it from the store on
// first touch.
func (h *Hub) handle(ctx context.Context, roomID game.RoomID) (*handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if hd, ok := h.rooms[roomID]; ok {
		return hd, nil
	}

	room, err := h.store.Load(ctx, roomID)
	if err != nil {
		return nil, err
	}
	hd := &handle{room: room, rng: h.newStream()}
	h.rooms[roomID] = hd
	// A room loaded mid-hand gets its deadline back.
	h.rescheduleLocked(hd)
	return hd, nil
}

// newStream returns a fresh RNG stream. Caller holds h.mu.
func (h *Hub) newStream() *rand.Rand {
	h.streams++
	return randutil.NewStream(h.seed, h.streams)
}

// rescheduleLocked resets the turn deadline after a state change. Caller
// holds the handle lock.
func (h *Hub) rescheduleLocked(hd *handle) {
	if hd.timer != nil {
		hd.timer.Stop()
		hd.timer = nil
	}
	if h.cfg.TurnTimeout <= 0 {
		return
	}
	actor := hd.room.CurrentActor()
	if actor == nil {
		return
	}

	hand, seat := hd.room.HandNumber, hd.room.ActorIndex
	hd.timer = h.clock.AfterFunc(h.cfg.TurnTimeout, func() {
		h.expireTurn(hd, hand, seat)
	})
}

// expireTurn fires when a player sat on their turn too long. They check when
// a check is free, otherwise they fold.
func (h *Hub) expireTurn(hd *handle, hand, seat int) {
	hd.mu.Lock()
	defer hd.mu.Unlock()

	room := hd.room
	// The action may have arrived while the timer was firing.
	if room.Status != game.StatusPlaying || room.HandNumber != hand || room.ActorIndex != seat {
		return
	}
	actor := room.CurrentActor()
	if actor == nil {
		return
	}

	events, err := room.ApplyAction(actor.ID, game.Check())
	if err != nil {
		events, err = room.ForceFoldCurrent()
	}
	if err != nil {
		h.logger.Error("turn timeout fold failed", "room", room.ID, "player", actor.ID, "err", err)
		return
	}
	h.logger.Info("turn timed out", "room", room.ID, "player", actor.ID)

	if _, err := h.commitLocked(context.Background(), hd, events); err != nil {
		h.logger.Error("persisting timeout action", "room", room.ID, "err", err)
	}
}

// publish delivers an envelope to every subscriber without blocking.
func (h *Hub) publish(roomID game.RoomID, events []game.Event) {
	if len(events) == 0 {
		return
	}
	env := Envelope{RoomID: roomID, Events: events}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.ch <- env:
		default:
			h.logger.Warn("dropping events for slow subscriber", "room", roomID)
		}
	}
}

// cloneRoom deep-copies a room through its JSON form.
func cloneRoom(room *game.Room) (*game.Room, error) {
	data, err := json.Marshal(room)
	if err != nil {
		return nil, err
	}
	clone := &game.Room{}
	if err := json.Unmarshal(data, clone); err != nil {
		return nil, err
	}
	return clone, nil
}
