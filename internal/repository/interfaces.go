package repository

import (
	"context"

	"github.com/yourusername/set-predictor/internal/models"
)

// OverrideRepository defines the interface for manual stat override storage.
// Overrides replace aggregated rows with the same key when the stat table is built.
type OverrideRepository interface {
	Upsert(ctx context.Context, stat *models.PlayerSurfaceStat) error
	Get(ctx context.Context, key models.StatKey) (*models.PlayerSurfaceStat, error)
	Delete(ctx context.Context, key models.StatKey) error
	List(ctx context.Context) ([]*models.PlayerSurfaceStat, error)
	LoadManualOverrides(ctx context.Context) (models.StatTable, error)
}
