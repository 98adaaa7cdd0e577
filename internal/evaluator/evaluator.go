// Package evaluator determines the best five-card poker hand from a set of
// five to seven cards.
//
// Evaluation enumerates every C(n,5) combination (at most 21 for seven cards)
// and keeps the strongest. The packed Value gives a total order: comparing two
// evaluations by Value alone decides the winner or declares a tie without
// re-inspecting cards.
package evaluator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gamehub/pokerroom/internal/deck"
)

// Category represents the category of a poker hand, ordered weakest to
// strongest. RoyalFlush is a display alias for the ace-high straight flush;
// it carries the same packed value as any other straight flush would with an
// ace-high run.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category description.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Evaluation is the result of evaluating a set of cards.
type Evaluation struct {
	Category Category    // best hand category
	Value    uint32      // packed total-order strength
	BestFive []deck.Card // the winning five-card combination
	Kickers  []deck.Rank // tiebreak ranks in significance order
}

// ErrCardCount is returned when the input is not 5 to 7 cards.
var ErrCardCount = errors.New("evaluator: need 5 to 7 cards")

// ErrDuplicateCard indicates the same card appears twice in the input. This
// is an invariant violation in the caller, not a playable situation.
var ErrDuplicateCard = errors.New("evaluator: duplicate card")

// Evaluate finds the best five-card hand among the given 5-7 cards.
func Evaluate(cards []deck.Card) (Evaluation, error) {
	n := len(cards)
	if n < 5 || n > 7 {
		return Evaluation{}, fmt.Errorf("%w, got %d", ErrCardCount, n)
	}

	seen := make(map[deck.Card]bool, n)
	for _, c := range cards {
		if seen[c] {
			return Evaluation{}, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen[c] = true
	}

	var best Evaluation
	var combo [5]deck.Card
	for i := 0; i < n-4; i++ {
		for j := i + 1; j < n-3; j++ {
			for k := j + 1; k < n-2; k++ {
				for l := k + 1; l < n-1; l++ {
					for m := l + 1; m < n; m++ {
						combo[0], combo[1], combo[2], combo[3], combo[4] =
							cards[i], cards[j], cards[k], cards[l], cards[m]
						ev := score5(combo)
						if ev.Value > best.Value {
							best = ev
						}
					}
				}
			}
		}
	}
	return best, nil
}

// Compare returns 1 if a is stronger than b, -1 if weaker, 0 on a true tie.
func Compare(a, b Evaluation) int {
	switch {
	case a.Value > b.Value:
		return 1
	case a.Value < b.Value:
		return -1
	default:
		return 0
	}
}

// score5 categorizes exactly five cards and packs their strength.
func score5(cards [5]deck.Card) Evaluation {
	sorted := cards
	sort.Slice(sorted[:], func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})

	flush := true
	for i := 1; i < 5; i++ {
		if sorted[i].Suit != sorted[0].Suit {
			flush = false
			break
		}
	}

	straightHigh := straightHighRank(sorted)

	counts := make(map[deck.Rank]int, 5)
	for _, c := range sorted {
		counts[c.Rank]++
	}

	var category Category
	var kickers []deck.Rank

	switch {
	case flush && straightHigh == deck.Ace:
		category = RoyalFlush
		kickers = []deck.Rank{straightHigh}
	case flush && straightHigh != 0:
		category = StraightFlush
		kickers = []deck.Rank{straightHigh}
	case hasCount(counts, 4):
		category = FourOfAKind
		kickers = groupedRanks(counts)
	case hasCount(counts, 3) && hasCount(counts, 2):
		category = FullHouse
		kickers = groupedRanks(counts)
	case flush:
		category = Flush
		kickers = groupedRanks(counts)
	case straightHigh != 0:
		category = Straight
		kickers = []deck.Rank{straightHigh}
	case hasCount(counts, 3):
		category = ThreeOfAKind
		kickers = groupedRanks(counts)
	case pairCount(counts) == 2:
		category = TwoPair
		kickers = groupedRanks(counts)
	case pairCount(counts) == 1:
		category = Pair
		kickers = groupedRanks(counts)
	default:
		category = HighCard
		kickers = groupedRanks(counts)
	}

	best := make([]deck.Card, 5)
	copy(best, sorted[:])

	return Evaluation{
		Category: category,
		Value:    pack(category, kickers),
		BestFive: best,
		Kickers:  kickers,
	}
}

// straightHighRank returns the high card of a straight formed by the five
// sorted-descending cards, or 0 if they do not form one. The wheel
// (A-2-3-4-5) is the one pattern where the ace counts low; it returns Five so
// it ranks below the 6-high straight.
func straightHighRank(sorted [5]deck.Card) deck.Rank {
	if sorted[0].Rank == deck.Ace &&
		sorted[1].Rank == deck.Five &&
		sorted[2].Rank == deck.Four &&
		sorted[3].Rank == deck.Three &&
		sorted[4].Rank == deck.Two {
		return deck.Five
	}

	for i := 1; i < 5; i++ {
		if sorted[i-1].Rank != sorted[i].Rank+1 {
			return 0
		}
	}
	return sorted[0].Rank
}

func hasCount(counts map[deck.Rank]int, n int) bool {
	for _, c := range counts {
		if c == n {
			return true
		}
	}
	return false
}

func pairCount(counts map[deck.Rank]int) int {
	pairs := 0
	for _, c := range counts {
		if c == 2 {
			pairs++
		}
	}
	return pairs
}

// groupedRanks orders the distinct ranks by (multiplicity, rank) descending:
// the pair/trip/quad rank first, then kickers high to low.
func groupedRanks(counts map[deck.Rank]int) []deck.Rank {
	ranks := make([]deck.Rank, 0, len(counts))
	for r := range counts {
		ranks = append(ranks, r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if counts[ranks[i]] != counts[ranks[j]] {
			return counts[ranks[i]] > counts[ranks[j]]
		}
		return ranks[i] > ranks[j]
	})
	return ranks
}

// pack encodes the category in the high bits and up to five tiebreak ranks in
// 4-bit nibbles below it. Ranks 2-14 fit a nibble; RoyalFlush packs as an
// ace-high StraightFlush so the numeric order matches the poker order exactly.
func pack(category Category, kickers []deck.Rank) uint32 {
	cat := category
	if cat == RoyalFlush {
		cat = StraightFlush
	}
	v := uint32(cat) << 20
	shift := 16
	for i := 0; i < len(kickers) && i < 5; i++ {
		v |= uint32(kickers[i]) << shift
		shift -= 4
	}
	return v
}
