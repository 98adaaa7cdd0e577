package game

import (
	"encoding/json"
	"fmt"
)

// ActionType enumerates the closed set of player actions. There is no
// "unknown action" at runtime: parsing rejects anything outside this set and
// the betting engine switches exhaustively over it.
type ActionType int

const (
	ActionFold ActionType = iota
	ActionCheck
	ActionCall
	ActionRaise
	ActionAllIn
)

// String returns the wire name of the action type.
func (t ActionType) String() string {
	switch t {
	case ActionFold:
		return "fold"
	case ActionCheck:
		return "check"
	case ActionCall:
		return "call"
	case ActionRaise:
		return "raise"
	case ActionAllIn:
		return "allin"
	default:
		return "unknown"
	}
}

// ParseActionType parses a wire action name.
func ParseActionType(s string) (ActionType, error) {
	switch s {
	case "fold":
		return ActionFold, nil
	case "check":
		return ActionCheck, nil
	case "call":
		return ActionCall, nil
	case "raise":
		return ActionRaise, nil
	case "allin", "all-in", "all_in":
		return ActionAllIn, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
}

// MarshalJSON encodes the action type by its wire name.
func (t ActionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes an action type from its wire name.
func (t *ActionType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseActionType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Action is a player decision. Amount is the raise-to total for the current
// betting round and is meaningful only for ActionRaise.
type Action struct {
	Type   ActionType `json:"type"`
	Amount int        `json:"amount,omitempty"`
}

// Fold folds the hand.
func Fold() Action { return Action{Type: ActionFold} }

// Check passes when nothing is owed.
func Check() Action { return Action{Type: ActionCheck} }

// Call matches the current bet, going all-in for less if short.
func Call() Action { return Action{Type: ActionCall} }

// RaiseTo raises the player's round bet to the given total.
func RaiseTo(amount int) Action { return Action{Type: ActionRaise, Amount: amount} }

// AllIn commits the player's entire remaining stack.
func AllIn() Action { return Action{Type: ActionAllIn} }
