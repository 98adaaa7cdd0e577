// Package store persists room state between commands. Rooms serialize to
// JSON in full, including a hand in progress, so any backend that can hold a
// blob can hold a room.
package store

import (
	"context"
	"errors"

	"github.com/gamehub/pokerroom/internal/game"
)

// ErrNotFound is returned when a room id has no saved state.
var ErrNotFound = errors.New("store: room not found")

// Store is the persistence boundary for rooms. Implementations must be safe
// for concurrent use; the hub serializes writes per room but different rooms
// save in parallel.
type Store interface {
	// Save writes the full room state, replacing any previous snapshot.
	Save(ctx context.Context, room *game.Room) error

	// Load returns the room with the given id, or ErrNotFound.
	Load(ctx context.Context, id game.RoomID) (*game.Room, error)

	// Delete removes a room. Deleting an absent room is not an error.
	Delete(ctx context.Context, id game.RoomID) error

	// List returns the ids of all saved rooms.
	List(ctx context.Context) ([]game.RoomID, error)

	// Close releases any backend resources.
	Close() error
}
