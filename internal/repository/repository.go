package repository

import (
	"github.com/yourusername/set-predictor/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Overrides OverrideRepository
}

// NewRepositories returns PostgreSQL repositories when db is set and
// in-memory ones otherwise
func NewRepositories(db *database.DB) *Repositories {
	if db == nil {
		return &Repositories{Overrides: NewMemoryOverrideRepository()}
	}
	return &Repositories{Overrides: NewPostgresOverrideRepository(db)}
}
