package repository

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yourusername/set-predictor/internal/models"
)

var statValidator = validator.New()

// prepareOverride normalises and validates a stat before it is stored
func prepareOverride(stat *models.PlayerSurfaceStat) error {
	if stat == nil {
		return fmt.Errorf("%w: nil override", models.ErrInvalidOverride)
	}

	stat.Key.Player = strings.TrimSpace(stat.Key.Player)
	if surface, err := models.ParseSurface(string(stat.Key.Surface)); err == nil {
		stat.Key.Surface = surface
	}
	if gender, err := models.ParseGender(string(stat.Key.Gender)); err == nil {
		stat.Key.Gender = gender
	}

	if math.IsNaN(stat.ServePtsWon) || math.IsNaN(stat.ReturnPtsWon) {
		return fmt.Errorf("%w: override rates must be numbers", models.ErrInvalidOverride)
	}
	if err := statValidator.Struct(stat); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidOverride, err)
	}

	if stat.ID == uuid.Nil {
		stat.ID = uuid.New()
	}
	stat.Source = models.StatSourceManual
	stat.UpdatedAt = time.Now().UTC()
	return nil
}

// sortStats orders overrides by tour, player then surface
func sortStats(stats []*models.PlayerSurfaceStat) {
	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i].Key, stats[j].Key
		if a.Gender != b.Gender {
			return a.Gender < b.Gender
		}
		if a.Player != b.Player {
			return a.Player < b.Player
		}
		return a.Surface < b.Surface
	})
}

func tableFrom(stats []*models.PlayerSurfaceStat) models.StatTable {
	table := make(models.StatTable, len(stats))
	for _, s := range stats {
		table[s.Key] = *s
	}
	return table
}
