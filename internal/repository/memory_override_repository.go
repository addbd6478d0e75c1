package repository

import (
	"context"
	"sync"

	"github.com/yourusername/set-predictor/internal/models"
)

// MemoryOverrideRepository keeps overrides for the lifetime of the process.
// It backs the predictor when no database is configured.
type MemoryOverrideRepository struct {
	mu    sync.RWMutex
	stats map[models.StatKey]models.PlayerSurfaceStat
}

// NewMemoryOverrideRepository creates an empty in-memory repository
func NewMemoryOverrideRepository() *MemoryOverrideRepository {
	return &MemoryOverrideRepository{stats: make(map[models.StatKey]models.PlayerSurfaceStat)}
}

// Upsert inserts or replaces the override for stat.Key
func (r *MemoryOverrideRepository) Upsert(ctx context.Context, stat *models.PlayerSurfaceStat) error {
	if err := prepareOverride(stat); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.stats[stat.Key]; ok {
		stat.ID = existing.ID
	}
	r.stats[stat.Key] = *stat
	return nil
}

// Get returns the override for key
func (r *MemoryOverrideRepository) Get(ctx context.Context, key models.StatKey) (*models.PlayerSurfaceStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stat, ok := r.stats[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &stat, nil
}

// Delete removes the override for key
func (r *MemoryOverrideRepository) Delete(ctx context.Context, key models.StatKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stats[key]; !ok {
		return models.ErrNotFound
	}
	delete(r.stats, key)
	return nil
}

// List returns every override ordered by tour, player and surface
func (r *MemoryOverrideRepository) List(ctx context.Context) ([]*models.PlayerSurfaceStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := make([]*models.PlayerSurfaceStat, 0, len(r.stats))
	for _, s := range r.stats {
		s := s
		stats = append(stats, &s)
	}
	sortStats(stats)
	return stats, nil
}

// LoadManualOverrides returns the overrides as a stat table
func (r *MemoryOverrideRepository) LoadManualOverrides(ctx context.Context) (models.StatTable, error) {
	stats, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return tableFrom(stats), nil
}
