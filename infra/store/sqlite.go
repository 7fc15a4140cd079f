package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kerebel/colony/core/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS pheromones (
	colony_type TEXT NOT NULL,
	shard_id    INTEGER NOT NULL,
	level       REAL NOT NULL,
	last_update TIMESTAMP NOT NULL,
	PRIMARY KEY (colony_type, shard_id)
);`

// SQLiteStore persists pheromone levels in a relational table with
// upsert-on-conflict semantics, making Update an atomic increment.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the pheromone table at the
// given path. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open pheromone store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create pheromone table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Fetch returns all known levels for a colony type.
func (s *SQLiteStore) Fetch(ctx context.Context, colony model.ColonyType) (map[model.ShardID]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT shard_id, level FROM pheromones WHERE colony_type = ?`, colony.String())
	if err != nil {
		return nil, fmt.Errorf("fetch pheromones for %s: %w", colony, err)
	}
	defer rows.Close()

	levels := make(map[model.ShardID]float64)
	for rows.Next() {
		var (
			shard int
			level float64
		)
		if err := rows.Scan(&shard, &level); err != nil {
			return nil, fmt.Errorf("scan pheromone row: %w", err)
		}
		levels[model.ShardID(shard)] = level
	}
	return levels, rows.Err()
}

// Update adds delta to the stored level, creating the row if absent, and
// records the mutation timestamp. The increment happens store-side so
// concurrent writers cannot lose updates.
func (s *SQLiteStore) Update(ctx context.Context, colony model.ColonyType, shard model.ShardID, delta float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pheromones (colony_type, shard_id, level, last_update)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (colony_type, shard_id)
		 DO UPDATE SET level = level + excluded.level, last_update = excluded.last_update`,
		colony.String(), int(shard), delta)
	if err != nil {
		return fmt.Errorf("update pheromone (%s, %d): %w", colony, shard, err)
	}
	return nil
}

// Reset deletes all levels for the given colony type. It exists for
// explicit policy resets and maintenance jobs; the router never calls it.
func (s *SQLiteStore) Reset(ctx context.Context, colony model.ColonyType) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM pheromones WHERE colony_type = ?`, colony.String())
	if err != nil {
		return fmt.Errorf("reset pheromones for %s: %w", colony, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
