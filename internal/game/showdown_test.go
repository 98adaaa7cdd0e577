package game

import (
	"testing"

	"github.com/gamehub/pokerroom/internal/deck"
	"github.com/gamehub/pokerroom/internal/evaluator"
)

func cards(t *testing.T, names ...string) []deck.Card {
	t.Helper()
	out := make([]deck.Card, 0, len(names))
	for _, name := range names {
		c, err := deck.Parse(name)
		if err != nil {
			t.Fatalf("Bad card %q: %v", name, err)
		}
		out = append(out, c)
	}
	return out
}

// rig overwrites a player's hole cards and the remaining deck so the board
// runs out exactly as scripted.
func rigDeck(r *Room, board []deck.Card) {
	r.Deck = &deck.Deck{Cards: board}
}

func eventsOfType(events []Event, et EventType) []Event {
	out := []Event{}
	for _, e := range events {
		if e.EventType() == et {
			out = append(out, e)
		}
	}
	return out
}

func TestHeadsUpFoldWinsWithoutShowdown(t *testing.T) {
	t.Parallel()

	// Spec scenario: heads-up, the small blind folds preflop. The big blind
	// collects the blinds with no cards revealed.
	r := newTestRoom(t, 1000, 1000)
	startHand(t, r, 1)

	events := apply(t, r, "alice", Fold())

	if r.Status != StatusFinished {
		t.Fatalf("Expected finished, got %s", r.Status)
	}
	if len(r.Community) != 0 {
		t.Error("No community cards should be dealt on a preflop fold-win")
	}
	bob, _ := r.Player("bob")
	if bob.Chips != 1010 {
		t.Errorf("Winner should hold 1010, got %d", bob.Chips)
	}
	alice, _ := r.Player("alice")
	if alice.Chips != 990 {
		t.Errorf("Folder should hold 990, got %d", alice.Chips)
	}

	awards := eventsOfType(events, EventTypePotAwarded)
	if len(awards) != 1 {
		t.Fatalf("Expected 1 pot award, got %d", len(awards))
	}
	award := awards[0].(PotAwardedEvent)
	if award.Showdown {
		t.Error("A fold-win is not a showdown")
	}
	if award.Amount != 30 || len(award.Winners) != 1 || award.Winners[0] != "bob" {
		t.Errorf("Expected 30 to bob, got %d to %v", award.Amount, award.Winners)
	}

	ends := eventsOfType(events, EventTypeHandEnded)
	if len(ends) != 1 {
		t.Fatalf("Expected 1 hand-ended event, got %d", len(ends))
	}
	if end := ends[0].(HandEndedEvent); len(end.Showdowns) != 0 {
		t.Error("No hands should be revealed on a fold-win")
	}
}

func TestShowdownBestHandWins(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 1000, 1000)
	startHand(t, r, 1)

	alice, _ := r.Player("alice")
	bob, _ := r.Player("bob")
	alice.HoleCards = cards(t, "Ah", "Kh")
	bob.HoleCards = cards(t, "2c", "7d")
	rigDeck(r, cards(t, "Qh", "Jh", "Th", "8s", "3c"))

	apply(t, r, "alice", Call())
	apply(t, r, "bob", Check())
	for r.Round != RoundRiver {
		apply(t, r, "bob", Check())
		apply(t, r, "alice", Check())
	}
	events := apply(t, r, "bob", Check())
	final := apply(t, r, "alice", Check())
	events = append(events, final...)

	if r.Status != StatusFinished {
		t.Fatalf("Expected finished, got %s", r.Status)
	}
	if alice.Chips != 1020 || bob.Chips != 980 {
		t.Errorf("Expected 1020/980, got %d/%d", alice.Chips, bob.Chips)
	}

	awards := eventsOfType(events, EventTypePotAwarded)
	if len(awards) != 1 {
		t.Fatalf("Expected 1 pot award, got %d", len(awards))
	}
	award := awards[0].(PotAwardedEvent)
	if !award.Showdown || award.Category != evaluator.RoyalFlush {
		t.Errorf("Expected a royal flush showdown win, got showdown=%v %s",
			award.Showdown, award.Category)
	}

	ends := eventsOfType(events, EventTypeHandEnded)
	if len(ends) != 1 {
		t.Fatalf("Expected 1 hand-ended event, got %d", len(ends))
	}
	end := ends[0].(HandEndedEvent)
	if len(end.Showdowns) != 2 {
		t.Errorf("Both live hands should be revealed, got %d", len(end.Showdowns))
	}
	if end.Payouts["alice"] != 40 {
		t.Errorf("Expected alice paid 40, got %d", end.Payouts["alice"])
	}
}

func TestShowdownTieSplitsWithOddChip(t *testing.T) {
	t.Parallel()

	// Both survivors play the board; the odd chip goes to the eligible seat
	// nearest the dealer's left.
	r := NewRoom("room-1", 5, 10)
	for _, name := range []string{"alice", "bob", "carol"} {
		if _, err := r.AddPlayer(PlayerID(name), name, 1000); err != nil {
			t.Fatal(err)
		}
	}
	startHand(t, r, 1)

	alice, _ := r.Player("alice")
	carol, _ := r.Player("carol")
	alice.HoleCards = cards(t, "2c", "3c")
	carol.HoleCards = cards(t, "2d", "3d")
	rigDeck(r, cards(t, "Ah", "Kd", "Qc", "Js", "Td"))

	apply(t, r, "alice", Call())
	apply(t, r, "bob", Fold())
	apply(t, r, "carol", Check())
	// Pot is 25: two calls of 10 plus bob's dead small blind.
	if r.Pot != 25 {
		t.Fatalf("Expected pot 25, got %d", r.Pot)
	}

	for r.Status == StatusPlaying {
		apply(t, r, "carol", Check())
		apply(t, r, "alice", Check())
	}

	// 25 splits 12/12 with one odd chip; carol (seat 2) sits closer to the
	// dealer's left than alice (the dealer, seat 0).
	if carol.Chips != 1003 {
		t.Errorf("Expected carol at 1003, got %d", carol.Chips)
	}
	if alice.Chips != 1002 {
		t.Errorf("Expected alice at 1002, got %d", alice.Chips)
	}
	if totalChips(r) != 3000 {
		t.Errorf("Chips leaked: total %d", totalChips(r))
	}
}

func TestSidePotsThreeWayAllIn(t *testing.T) {
	t.Parallel()

	// Stacks 100/60/30 all get in preflop. Three pot layers form:
	// 90 for everyone, 60 for the top two, 40 returned to the deep stack.
	r := newTestRoom(t, 100, 60, 30)
	startHand(t, r, 1)

	alice, _ := r.Player("alice")
	bob, _ := r.Player("bob")
	carol, _ := r.Player("carol")
	alice.HoleCards = cards(t, "Qs", "Qd")
	bob.HoleCards = cards(t, "Ks", "Kd")
	carol.HoleCards = cards(t, "As", "Ad")
	rigDeck(r, cards(t, "2h", "3h", "7c", "8c", "Jd"))

	apply(t, r, "alice", AllIn())
	apply(t, r, "bob", AllIn())
	events := apply(t, r, "carol", AllIn())

	// The final all-in leaves nobody to act: the board runs out and the
	// hand resolves in the same call.
	if r.Status != StatusFinished {
		t.Fatalf("Expected finished, got %s", r.Status)
	}
	if len(r.Community) != 5 {
		t.Fatalf("Expected a full board, got %d cards", len(r.Community))
	}

	awards := eventsOfType(events, EventTypePotAwarded)
	if len(awards) != 3 {
		t.Fatalf("Expected 3 pot layers, got %d", len(awards))
	}
	expected := []struct {
		amount int
		winner PlayerID
	}{
		{90, "carol"}, // main pot, aces
		{60, "bob"},   // first side pot, kings
		{40, "alice"}, // uncalled remainder back to the deep stack
	}
	for i, want := range expected {
		award := awards[i].(PotAwardedEvent)
		if award.Amount != want.amount {
			t.Errorf("Layer %d: expected %d, got %d", i, want.amount, award.Amount)
		}
		if len(award.Winners) != 1 || award.Winners[0] != want.winner {
			t.Errorf("Layer %d: expected winner %s, got %v", i, want.winner, award.Winners)
		}
	}

	if carol.Chips != 90 || bob.Chips != 60 || alice.Chips != 40 {
		t.Errorf("Expected 40/60/90, got %d/%d/%d", alice.Chips, bob.Chips, carol.Chips)
	}
	if r.Pot != 0 {
		t.Errorf("Pot should be drained, got %d", r.Pot)
	}
	if totalChips(r) != 190 {
		t.Errorf("Chips leaked: total %d", totalChips(r))
	}
}

func TestFoldedChipsStayInPot(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 1000, 1000, 1000)
	startHand(t, r, 1)

	alice, _ := r.Player("alice")
	bob, _ := r.Player("bob")
	carol, _ := r.Player("carol")
	alice.HoleCards = cards(t, "Ah", "Ad")
	bob.HoleCards = cards(t, "Kh", "Kd")
	rigDeck(r, cards(t, "2h", "5s", "7c", "8c", "Jc"))

	apply(t, r, "alice", RaiseTo(100))
	apply(t, r, "bob", Call())
	apply(t, r, "carol", Fold())

	for r.Status == StatusPlaying {
		apply(t, r, "bob", Check())
		apply(t, r, "alice", Check())
	}

	// Carol's dead big blind goes to the winner with the rest.
	if alice.Chips != 1120 {
		t.Errorf("Winner should collect carol's blind, got %d", alice.Chips)
	}
	if bob.Chips != 900 || carol.Chips != 980 {
		t.Errorf("Expected 900/980, got %d/%d", bob.Chips, carol.Chips)
	}
}

func TestBlindAllInRunsBoardOut(t *testing.T) {
	t.Parallel()

	// Both players are all-in from the blinds alone; the hand resolves with
	// no betting at all.
	r := newTestRoom(t, 10, 20)
	events := startHand(t, r, 21)

	if r.Status != StatusFinished {
		t.Fatalf("Expected finished, got %s", r.Status)
	}
	if len(r.Community) != 5 {
		t.Fatalf("Expected a full board, got %d cards", len(r.Community))
	}
	if streets := eventsOfType(events, EventTypeStreetDealt); len(streets) != 3 {
		t.Errorf("Expected 3 street events, got %d", len(streets))
	}
	if ends := eventsOfType(events, EventTypeHandEnded); len(ends) != 1 {
		t.Errorf("Expected a hand-ended event, got %d", len(ends))
	}
	if totalChips(r) != 30 {
		t.Errorf("Chips leaked: total %d", totalChips(r))
	}
}
