package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/gamehub/pokerroom/internal/game"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS rooms (
	id         TEXT PRIMARY KEY,
	state      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore persists rooms as JSONB rows. Suitable when room history must
// survive a Redis flush or when the rest of the product already runs on
// Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to Postgres and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Save implements Store.
func (s *PostgresStore) Save(ctx context.Context, room *game.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rooms (id, state, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET state = $2, updated_at = now()`,
		string(room.ID), data)
	return err
}

// Load implements Store.
func (s *PostgresStore) Load(ctx context.Context, id game.RoomID) (*game.Room, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM rooms WHERE id = $1`, string(id)).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	room := &game.Room{}
	if err := json.Unmarshal(data, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, id game.RoomID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, string(id))
	return err
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context) ([]game.RoomID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM rooms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []game.RoomID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, game.RoomID(id))
	}
	return ids, rows.Err()
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
