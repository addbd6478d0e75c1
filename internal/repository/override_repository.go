package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/set-predictor/internal/database"
	"github.com/yourusername/set-predictor/internal/models"
)

// PostgresOverrideRepository implements OverrideRepository for PostgreSQL
type PostgresOverrideRepository struct {
	db *database.DB
}

// NewPostgresOverrideRepository creates a new override repository
func NewPostgresOverrideRepository(db *database.DB) OverrideRepository {
	return &PostgresOverrideRepository{db: db}
}

const overrideColumns = `id, player, surface, gender, serve_pts_won, return_pts_won, matches, updated_at`

// Upsert inserts or replaces the override for stat.Key
func (r *PostgresOverrideRepository) Upsert(ctx context.Context, stat *models.PlayerSurfaceStat) error {
	if err := prepareOverride(stat); err != nil {
		return err
	}

	query := `
		INSERT INTO stat_overrides (` + overrideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (player, surface, gender) DO UPDATE SET
			serve_pts_won = EXCLUDED.serve_pts_won,
			return_pts_won = EXCLUDED.return_pts_won,
			matches = EXCLUDED.matches,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		stat.ID, stat.Key.Player, string(stat.Key.Surface), string(stat.Key.Gender),
		stat.ServePtsWon, stat.ReturnPtsWon, stat.Matches, stat.UpdatedAt,
	).Scan(&stat.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert override: %w", err)
	}

	return nil
}

// Get returns the override for key
func (r *PostgresOverrideRepository) Get(ctx context.Context, key models.StatKey) (*models.PlayerSurfaceStat, error) {
	query := `SELECT ` + overrideColumns + ` FROM stat_overrides WHERE player = $1 AND surface = $2 AND gender = $3`

	stat, err := scanOverride(r.db.QueryRow(ctx, query, key.Player, string(key.Surface), string(key.Gender)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get override: %w", err)
	}

	return stat, nil
}

// Delete removes the override for key
func (r *PostgresOverrideRepository) Delete(ctx context.Context, key models.StatKey) error {
	query := `DELETE FROM stat_overrides WHERE player = $1 AND surface = $2 AND gender = $3`

	tag, err := r.db.Exec(ctx, query, key.Player, string(key.Surface), string(key.Gender))
	if err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// List returns every override ordered by tour, player and surface
func (r *PostgresOverrideRepository) List(ctx context.Context) ([]*models.PlayerSurfaceStat, error) {
	query := `SELECT ` + overrideColumns + ` FROM stat_overrides ORDER BY gender, player, surface`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	defer rows.Close()

	var stats []*models.PlayerSurfaceStat
	for rows.Next() {
		stat, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overrides: %w", err)
	}

	return stats, nil
}

// LoadManualOverrides returns the overrides as a stat table
func (r *PostgresOverrideRepository) LoadManualOverrides(ctx context.Context) (models.StatTable, error) {
	stats, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return tableFrom(stats), nil
}

func scanOverride(row pgx.Row) (*models.PlayerSurfaceStat, error) {
	var (
		stat            models.PlayerSurfaceStat
		surface, gender string
	)
	err := row.Scan(
		&stat.ID, &stat.Key.Player, &surface, &gender,
		&stat.ServePtsWon, &stat.ReturnPtsWon, &stat.Matches, &stat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	stat.Key.Surface = models.Surface(surface)
	stat.Key.Gender = models.Gender(gender)
	stat.Source = models.StatSourceManual
	return &stat, nil
}
