package deck

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Aces are high (14); the wheel straight is the
// only place an ace counts low, and the evaluator handles that case itself.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return "23456789T"[r-Two : r-Two+1]
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Card represents a playing card. It is an immutable value type.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Value returns the numeric value of the card for comparison (2-14)
func (c Card) Value() int {
	return int(c.Rank)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// MarshalJSON encodes the card in compact text form (e.g., "Ah").
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Rank.String() + suitLetter(c.Suit))
}

// UnmarshalJSON decodes a card from its compact text form.
func (c *Card) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	card, err := Parse(s)
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// Parse parses a card from two-character text form: rank then suit letter,
// e.g. "Ah", "Td", "2c", "Ks".
func Parse(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("deck: invalid card %q", s)
	}

	var rank Rank
	switch strings.ToUpper(s[:1]) {
	case "2", "3", "4", "5", "6", "7", "8", "9":
		rank = Rank(s[0] - '0')
	case "T":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		return Card{}, fmt.Errorf("deck: invalid rank in %q", s)
	}

	var suit Suit
	switch strings.ToLower(s[1:2]) {
	case "h":
		suit = Hearts
	case "d":
		suit = Diamonds
	case "c":
		suit = Clubs
	case "s":
		suit = Spades
	default:
		return Card{}, fmt.Errorf("deck: invalid suit in %q", s)
	}

	return Card{Suit: suit, Rank: rank}, nil
}

// MustParse parses a card and panics on failure. For tests and fixtures.
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func suitLetter(s Suit) string {
	switch s {
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	case Spades:
		return "s"
	default:
		return "?"
	}
}
