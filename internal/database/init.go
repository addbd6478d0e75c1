package database

import (
	"context"
	"fmt"

	"github.com/yourusername/set-predictor/internal/config"
)

// Schema holds the manual override table. Aggregated stats are rebuilt from
// the match logs on every refresh and never stored.
const Schema = `
CREATE TABLE IF NOT EXISTS stat_overrides (
	id             UUID PRIMARY KEY,
	player         TEXT NOT NULL,
	surface        TEXT NOT NULL CHECK (surface IN ('Hard', 'Clay', 'Grass')),
	gender         CHAR(1) NOT NULL CHECK (gender IN ('M', 'F')),
	serve_pts_won  DOUBLE PRECISION NOT NULL CHECK (serve_pts_won BETWEEN 0 AND 1),
	return_pts_won DOUBLE PRECISION NOT NULL CHECK (return_pts_won BETWEEN 0 AND 1),
	matches        INTEGER NOT NULL DEFAULT 0,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (player, surface, gender)
)`

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates missing tables
func EnsureSchema(ctx context.Context, db *DB) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
