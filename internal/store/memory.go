package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gamehub/pokerroom/internal/game"
)

// MemoryStore keeps rooms in process memory. Snapshots are deep copies, so a
// caller mutating a loaded room never touches the stored state. The default
// backend for tests and single-node deployments.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[game.RoomID][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[game.RoomID][]byte)}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, room *game.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.rooms[room.ID] = data
	s.mu.Unlock()
	return nil
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, id game.RoomID) (*game.Room, error) {
	s.mu.RLock()
	data, ok := s.rooms[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	room := &game.Room{}
	if err := json.Unmarshal(data, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id game.RoomID) error {
	s.mu.Lock()
	delete(s.rooms, id)
	s.mu.Unlock()
	return nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) ([]game.RoomID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]game.RoomID, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
