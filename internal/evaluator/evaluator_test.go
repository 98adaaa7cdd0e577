package evaluator

import (
	"testing"

	"github.com/gamehub/pokerroom/internal/deck"
)

func cards(names ...string) []deck.Card {
	out := make([]deck.Card, len(names))
	for i, n := range names {
		out[i] = deck.MustParse(n)
	}
	return out
}

func mustEvaluate(t *testing.T, names ...string) Evaluation {
	t.Helper()
	ev, err := Evaluate(cards(names...))
	if err != nil {
		t.Fatalf("Evaluate(%v) failed: %v", names, err)
	}
	return ev
}

func TestCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cards    []string
		expected Category
	}{
		{"royal flush", []string{"Ah", "Kh", "Qh", "Jh", "Th", "2c", "3d"}, RoyalFlush},
		{"straight flush", []string{"9s", "8s", "7s", "6s", "5s", "Ad", "Ac"}, StraightFlush},
		{"steel wheel", []string{"Ah", "2h", "3h", "4h", "5h", "Kc", "Kd"}, StraightFlush},
		{"four of a kind", []string{"7h", "7d", "7c", "7s", "Kd", "2c", "3c"}, FourOfAKind},
		{"full house", []string{"Th", "Td", "Tc", "4s", "4d", "2c", "9h"}, FullHouse},
		{"flush", []string{"Ad", "Jd", "8d", "5d", "2d", "Kc", "Ks"}, Flush},
		{"straight", []string{"9h", "8c", "7d", "6s", "5h", "Ac", "Ad"}, Straight},
		{"wheel", []string{"Ah", "2c", "3d", "4s", "5h", "9c", "Jd"}, Straight},
		{"three of a kind", []string{"Qh", "Qd", "Qc", "9s", "5d", "3c", "2h"}, ThreeOfAKind},
		{"two pair", []string{"Jh", "Jd", "4c", "4s", "Ad", "8c", "2h"}, TwoPair},
		{"pair", []string{"Kh", "Kd", "9c", "7s", "4d", "3c", "2h"}, Pair},
		{"high card", []string{"Ah", "Jd", "9c", "7s", "4d", "3c", "2h"}, HighCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := mustEvaluate(t, tt.cards...)
			if ev.Category != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, ev.Category)
			}
			if len(ev.BestFive) != 5 {
				t.Errorf("Expected 5 best cards, got %d", len(ev.BestFive))
			}
		})
	}
}

func TestCategoryOrdering(t *testing.T) {
	t.Parallel()

	// One representative hand per category, weakest to strongest.
	ladder := [][]string{
		{"Ah", "Jd", "9c", "7s", "4d"},       // high card
		{"Kh", "Kd", "9c", "7s", "4d"},       // pair
		{"Jh", "Jd", "4c", "4s", "Ad"},       // two pair
		{"Qh", "Qd", "Qc", "9s", "5d"},       // trips
		{"9h", "8c", "7d", "6s", "5h"},       // straight
		{"Ad", "Jd", "8d", "5d", "2d"},       // flush
		{"Th", "Td", "Tc", "4s", "4d"},       // full house
		{"7h", "7d", "7c", "7s", "Kd"},       // quads
		{"9s", "8s", "7s", "6s", "5s"},       // straight flush
		{"Ah", "Kh", "Qh", "Jh", "Th"},       // royal flush
	}

	evals := make([]Evaluation, len(ladder))
	for i, names := range ladder {
		evals[i] = mustEvaluate(t, names...)
	}

	for i := 1; i < len(evals); i++ {
		if Compare(evals[i], evals[i-1]) != 1 {
			t.Errorf("%s (%#x) should beat %s (%#x)",
				evals[i].Category, evals[i].Value, evals[i-1].Category, evals[i-1].Value)
		}
	}
}

func TestWheelRanksBelowSixHigh(t *testing.T) {
	t.Parallel()

	wheel := mustEvaluate(t, "Ah", "2c", "3d", "4s", "5h")
	sixHigh := mustEvaluate(t, "2h", "3c", "4d", "5s", "6h")

	if Compare(sixHigh, wheel) != 1 {
		t.Errorf("6-high straight should beat the wheel: %#x vs %#x", sixHigh.Value, wheel.Value)
	}
}

func TestRoyalRanksAsAceHighStraightFlush(t *testing.T) {
	t.Parallel()

	royal := mustEvaluate(t, "Ah", "Kh", "Qh", "Jh", "Th")
	kingHigh := mustEvaluate(t, "Ks", "Qs", "Js", "Ts", "9s")

	if royal.Category != RoyalFlush {
		t.Errorf("Expected RoyalFlush display category, got %s", royal.Category)
	}
	if Compare(royal, kingHigh) != 1 {
		t.Error("Royal flush should beat a king-high straight flush")
	}

	// Royal must beat every non-straight-flush category.
	quads := mustEvaluate(t, "Ah", "Ad", "Ac", "As", "Kd", "Kc", "Kh")
	if Compare(royal, quads) != 1 {
		t.Error("Royal flush should beat four of a kind")
	}
}

func TestKickerTiebreaks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stronger []string
		weaker   []string
	}{
		{
			"pair kicker",
			[]string{"Kh", "Kd", "Ac", "7s", "4d"},
			[]string{"Ks", "Kc", "Qc", "7h", "4c"},
		},
		{
			"higher pair",
			[]string{"Ah", "Ad", "2c", "3s", "4d"},
			[]string{"Ks", "Kc", "Ac", "Qh", "Jc"},
		},
		{
			"two pair high pair decides",
			[]string{"Ah", "Ad", "2c", "2s", "3d"},
			[]string{"Ks", "Kc", "Qc", "Qh", "Ac"},
		},
		{
			"full house trips decide",
			[]string{"9h", "9d", "9c", "2s", "2d"},
			[]string{"8s", "8c", "8h", "Ah", "Ac"},
		},
		{
			"flush top card decides",
			[]string{"Ad", "Jd", "8d", "5d", "2d"},
			[]string{"Ks", "Qs", "Js", "9s", "8s"},
		},
		{
			"quads kicker decides",
			[]string{"7h", "7d", "7c", "7s", "Ad"},
			[]string{"7h", "7d", "7c", "7s", "Kd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustEvaluate(t, tt.stronger...)
			b := mustEvaluate(t, tt.weaker...)
			if Compare(a, b) != 1 {
				t.Errorf("%v (%#x) should beat %v (%#x)", tt.stronger, a.Value, tt.weaker, b.Value)
			}
		})
	}
}

func TestIdenticalBoardsTie(t *testing.T) {
	t.Parallel()

	// Both players play the board: identical best hands must evaluate equal.
	board := []string{"Ah", "Kd", "Qc", "Js", "Td"}
	a := mustEvaluate(t, append([]string{"2c", "3d"}, board...)...)
	b := mustEvaluate(t, append([]string{"4h", "5s"}, board...)...)

	if Compare(a, b) != 0 {
		t.Errorf("Identical best hands should tie: %#x vs %#x", a.Value, b.Value)
	}
}

func TestSameCardsAlwaysEvaluateEqual(t *testing.T) {
	t.Parallel()

	names := []string{"Ah", "Kh", "7c", "7d", "2s", "9h", "Jc"}
	a := mustEvaluate(t, names...)

	// Different input order, same cards.
	reversed := make([]string, len(names))
	for i, n := range names {
		reversed[len(names)-1-i] = n
	}
	b := mustEvaluate(t, reversed...)

	if a.Value != b.Value || a.Category != b.Category {
		t.Errorf("Order-dependent evaluation: %#x vs %#x", a.Value, b.Value)
	}
}

func TestEvaluateErrors(t *testing.T) {
	t.Parallel()

	if _, err := Evaluate(cards("Ah", "Kh", "Qh", "Jh")); err == nil {
		t.Error("Expected error for 4 cards")
	}
	if _, err := Evaluate(cards("Ah", "Kh", "Qh", "Jh", "Th", "9h", "8h", "7h")); err == nil {
		t.Error("Expected error for 8 cards")
	}
	if _, err := Evaluate(cards("Ah", "Ah", "Qh", "Jh", "Th")); err == nil {
		t.Error("Expected error for duplicate card")
	}
}

func TestSixAndSevenCardInputs(t *testing.T) {
	t.Parallel()

	// The straight only appears when the 6th/7th cards are considered.
	six := mustEvaluate(t, "9h", "8c", "7d", "6s", "Kh", "5d")
	if six.Category != Straight {
		t.Errorf("Expected straight from 6 cards, got %s", six.Category)
	}

	seven := mustEvaluate(t, "2c", "2d", "9h", "8c", "7d", "6s", "5h")
	if seven.Category != Straight {
		t.Errorf("Expected straight from 7 cards, got %s", seven.Category)
	}
}
