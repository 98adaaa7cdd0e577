package game

import "errors"

// Validation errors. A rejected action leaves the room exactly as it was, so
// the caller can report the problem and let the player retry.
var (
	ErrNotYourTurn       = errors.New("game: not your turn")
	ErrPlayerFolded      = errors.New("game: player has folded")
	ErrInvalidAction     = errors.New("game: invalid action")
	ErrInsufficientChips = errors.New("game: insufficient chips")
	ErrBelowMinimumRaise = errors.New("game: raise below minimum")
)

// Structural errors. These concern room membership and lifecycle rather than
// a bad in-hand action.
var (
	ErrNotSeated        = errors.New("game: player not seated")
	ErrAlreadySeated    = errors.New("game: player already seated")
	ErrRoomFull         = errors.New("game: room is full")
	ErrHandInProgress   = errors.New("game: hand already in progress")
	ErrNotEnoughPlayers = errors.New("game: need at least 2 players with chips")
	ErrRoomNotPlaying   = errors.New("game: no hand in progress")
)
