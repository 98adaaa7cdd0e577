package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrExhausted is returned when a deal asks for more cards than remain. In
// correct operation a hold'em hand never comes close to emptying the deck, so
// callers should treat this as a fatal fault rather than a retryable error.
var ErrExhausted = errors.New("deck: exhausted")

// Deck is an ordered sequence of cards. A deck belongs to exactly one room
// during a hand; there is no shared deck state between rooms. Randomness is
// injected at shuffle time so each room owns its RNG stream.
type Deck struct {
	Cards []Card `json:"cards"`
}

// New creates a standard 52-card deck in canonical order (no randomness).
func New() *Deck {
	d := &Deck{Cards: make([]Card, 0, 52)}
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.Cards = append(d.Cards, NewCard(suit, rank))
		}
	}
	return d
}

// NewShuffled creates a full deck and shuffles it with the provided RNG.
func NewShuffled(rng *rand.Rand) *Deck {
	d := New()
	d.Shuffle(rng)
	return d
}

// Shuffle randomizes the deck using Fisher-Yates, which yields every
// permutation with equal probability.
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Deal removes and returns the top n cards.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n > len(d.Cards) {
		return nil, ErrExhausted
	}
	cards := make([]Card, n)
	copy(cards, d.Cards[:n])
	d.Cards = d.Cards[n:]
	return cards, nil
}

// DealOne removes and returns the top card.
func (d *Deck) DealOne() (Card, error) {
	cards, err := d.Deal(1)
	if err != nil {
		return Card{}, err
	}
	return cards[0], nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.Cards)
}
