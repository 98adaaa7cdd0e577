package hub

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamehub/pokerroom/internal/game"
	"github.com/gamehub/pokerroom/internal/store"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func testHub(t *testing.T, opts ...Option) *Hub {
	t.Helper()
	cfg := Config{SmallBlind: 10, BigBlind: 20, BuyIn: 1000}
	opts = append([]Option{WithSeed(1)}, opts...)
	h := New(store.NewMemoryStore(), testLogger(), cfg, opts...)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestCreateJoinAndPlay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := testHub(t)

	room, err := h.CreateRoom(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, room.SmallBlind)
	assert.Equal(t, 20, room.BigBlind)

	_, err = h.Join(ctx, room.ID, "alice", "alice", 0)
	require.NoError(t, err)
	_, err = h.Join(ctx, room.ID, "bob", "bob", 500)
	require.NoError(t, err)

	events, err := h.StartHand(ctx, room.ID)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, game.EventTypeHandStarted, events[0].EventType())

	snap, err := h.Room(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, game.StatusPlaying, snap.Status)
	assert.Equal(t, 30, snap.Pot)
	assert.Equal(t, 1000, snap.Players[0].Chips+snap.Players[0].Bet)
	assert.Equal(t, 500, snap.Players[1].Chips+snap.Players[1].Bet)

	// Heads-up the dealer acts first.
	actor := snap.CurrentActor()
	require.NotNil(t, actor)
	_, err = h.Act(ctx, room.ID, actor.ID, game.Call())
	require.NoError(t, err)

	// Snapshots are copies: mutating one does not leak into the hub.
	snap.Pot = 9999
	fresh, err := h.Room(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, fresh.Pot)
}

func TestCreateRoomValidatesBlinds(t *testing.T) {
	t.Parallel()
	h := testHub(t)

	_, err := h.CreateRoom(context.Background(), 50, 20)
	assert.Error(t, err)
}

func TestActErrorsPassThrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := testHub(t)

	room, err := h.CreateRoom(ctx, 0, 0)
	require.NoError(t, err)
	_, err = h.Join(ctx, room.ID, "alice", "alice", 0)
	require.NoError(t, err)
	_, err = h.Join(ctx, room.ID, "bob", "bob", 0)
	require.NoError(t, err)
	_, err = h.StartHand(ctx, room.ID)
	require.NoError(t, err)

	snap, err := h.Room(ctx, room.ID)
	require.NoError(t, err)
	waiting := snap.Players[(snap.ActorIndex+1)%len(snap.Players)]

	_, err = h.Act(ctx, room.ID, waiting.ID, game.Call())
	assert.ErrorIs(t, err, game.ErrNotYourTurn)
}

func TestUnknownRoom(t *testing.T) {
	t.Parallel()
	h := testHub(t)

	_, err := h.Room(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRoomSurvivesHubRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemoryStore()
	cfg := Config{SmallBlind: 10, BigBlind: 20, BuyIn: 1000}

	h1 := New(st, testLogger(), cfg, WithSeed(1))
	room, err := h1.CreateRoom(ctx, 0, 0)
	require.NoError(t, err)
	_, err = h1.Join(ctx, room.ID, "alice", "alice", 0)
	require.NoError(t, err)
	_, err = h1.Join(ctx, room.ID, "bob", "bob", 0)
	require.NoError(t, err)
	_, err = h1.StartHand(ctx, room.ID)
	require.NoError(t, err)

	// A second hub over the same store picks the room up mid-hand.
	h2 := New(st, testLogger(), cfg, WithSeed(2))
	snap, err := h2.Room(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, game.StatusPlaying, snap.Status)
	assert.Equal(t, 30, snap.Pot)

	actor := snap.CurrentActor()
	require.NotNil(t, actor)
	_, err = h2.Act(ctx, room.ID, actor.ID, game.Call())
	require.NoError(t, err)
}

func TestCloseRoom(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := testHub(t)

	room, err := h.CreateRoom(ctx, 0, 0)
	require.NoError(t, err)
	require.NoError(t, h.CloseRoom(ctx, room.ID))

	_, err = h.Room(ctx, room.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	ids, err := h.Rooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSubscribeReceivesEvents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := testHub(t)

	ch, cancel := h.Subscribe()
	defer cancel()

	room, err := h.CreateRoom(ctx, 0, 0)
	require.NoError(t, err)
	_, err = h.Join(ctx, room.ID, "alice", "alice", 0)
	require.NoError(t, err)

	select {
	case env := <-ch:
		assert.Equal(t, room.ID, env.RoomID)
		require.NotEmpty(t, env.Events)
		assert.Equal(t, game.EventTypePlayerJoined, env.Events[0].EventType())
	case <-time.After(time.Second):
		t.Fatal("No envelope delivered")
	}

	cancel()
	_, open := <-ch
	assert.False(t, open, "Channel should close on cancel")
}

func TestTurnTimeoutFoldsWhenFacingABet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mock := quartz.NewMock(t)

	cfg := Config{SmallBlind: 10, BigBlind: 20, BuyIn: 1000, TurnTimeout: 30 * time.Second}
	h := New(store.NewMemoryStore(), testLogger(), cfg, WithSeed(1), WithClock(mock))

	room, err := h.CreateRoom(ctx, 0, 0)
	require.NoError(t, err)
	_, err = h.Join(ctx, room.ID, "alice", "alice", 0)
	require.NoError(t, err)
	_, err = h.Join(ctx, room.ID, "bob", "bob", 0)
	require.NoError(t, err)
	_, err = h.StartHand(ctx, room.ID)
	require.NoError(t, err)

	// Heads-up the small blind faces 10 more; the deadline folds them and
	// ends the hand.
	mock.Advance(30 * time.Second).MustWait(ctx)

	snap, err := h.Room(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, game.StatusFinished, snap.Status)

	sb, _ := snap.Player("alice")
	bb, _ := snap.Player("bob")
	assert.Equal(t, 990, sb.Chips)
	assert.Equal(t, 1010, bb.Chips)
}

func TestTurnTimeoutChecksWhenFree(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mock := quartz.NewMock(t)

	cfg := Config{SmallBlind: 10, BigBlind: 20, BuyIn: 1000, TurnTimeout: 30 * time.Second}
	h := New(store.NewMemoryStore(), testLogger(), cfg, WithSeed(1), WithClock(mock))

	room, err := h.CreateRoom(ctx, 0, 0)
	require.NoError(t, err)
	_, err = h.Join(ctx, room.ID, "alice", "alice", 0)
	require.NoError(t, err)
	_, err = h.Join(ctx, room.ID, "bob", "bob", 0)
	require.NoError(t, err)
	_, err = h.StartHand(ctx, room.ID)
	require.NoError(t, err)

	// The small blind completes; the big blind's free option times out as a
	// check and the flop comes down with both players still in.
	_, err = h.Act(ctx, room.ID, "alice", game.Call())
	require.NoError(t, err)

	mock.Advance(30 * time.Second).MustWait(ctx)

	snap, err := h.Room(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, game.StatusPlaying, snap.Status)
	assert.Equal(t, game.RoundFlop, snap.Round)
	bb, _ := snap.Player("bob")
	assert.False(t, bb.Folded)
}

func TestActionCancelsDeadline(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mock := quartz.NewMock(t)

	cfg := Config{SmallBlind: 10, BigBlind: 20, BuyIn: 1000, TurnTimeout: 30 * time.Second}
	h := New(store.NewMemoryStore(), testLogger(), cfg, WithSeed(1), WithClock(mock))

	room, err := h.CreateRoom(ctx, 0, 0)
	require.NoError(t, err)
	_, err = h.Join(ctx, room.ID, "alice", "alice", 0)
	require.NoError(t, err)
	_, err = h.Join(ctx, room.ID, "bob", "bob", 0)
	require.NoError(t, err)
	_, err = h.StartHand(ctx, room.ID)
	require.NoError(t, err)

	// Alice acts just before the deadline; the timer must restart for bob
	// rather than fire against alice.
	mock.Advance(29 * time.Second).MustWait(ctx)
	_, err = h.Act(ctx, room.ID, "alice", game.Call())
	require.NoError(t, err)

	mock.Advance(29 * time.Second).MustWait(ctx)
	snap, err := h.Room(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, game.StatusPlaying, snap.Status)
	alice, _ := snap.Player("alice")
	assert.False(t, alice.Folded)

	mock.Advance(time.Second).MustWait(ctx)
	snap, err = h.Room(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, game.RoundFlop, snap.Round)
}
