package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// StatSource tells where a stat row came from
type StatSource string

// Stat sources
const (
	StatSourceAggregated StatSource = "aggregated"
	StatSourceManual     StatSource = "manual"
)

// StatKey identifies a player on a surface within a tour
type StatKey struct {
	Player  string  `db:"player" json:"player" validate:"required"`
	Surface Surface `db:"surface" json:"surface" validate:"oneof=Hard Clay Grass"`
	Gender  Gender  `db:"gender" json:"gender" validate:"oneof=M F"`
}

// PlayerSurfaceStat holds the serve/return effectiveness of a player on a surface
type PlayerSurfaceStat struct {
	ID           uuid.UUID  `db:"id" json:"id,omitempty"`
	Key          StatKey    `json:"key"`
	ServePtsWon  float64    `db:"serve_pts_won" json:"serve_pts_won" validate:"gte=0,lte=1"`
	ReturnPtsWon float64    `db:"return_pts_won" json:"return_pts_won" validate:"gte=0,lte=1"`
	Matches      int        `db:"matches" json:"matches"`
	Source       StatSource `db:"source" json:"source"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at,omitempty"`
}

// StatTable is the typed lookup of stat rows keyed by player, surface and gender
type StatTable map[StatKey]PlayerSurfaceStat

// Lookup returns the row for the key if one exists
func (t StatTable) Lookup(key StatKey) (PlayerSurfaceStat, bool) {
	stat, ok := t[key]
	return stat, ok
}

// Len returns the number of rows
func (t StatTable) Len() int {
	return len(t)
}

// Merge returns a new table where rows from overrides replace rows in t
func (t StatTable) Merge(overrides StatTable) StatTable {
	merged := make(StatTable, len(t)+len(overrides))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// Players returns the sorted distinct player names of a tour
func (t StatTable) Players(gender Gender) []string {
	seen := make(map[string]struct{})
	for k := range t {
		if k.Gender == gender {
			seen[k.Player] = struct{}{}
		}
	}
	players := make([]string, 0, len(seen))
	for p := range seen {
		players = append(players, p)
	}
	sort.Strings(players)
	return players
}
