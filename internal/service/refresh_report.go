package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/set-predictor/internal/models"
)

// RefreshReport describes one stat refresh attempt
type RefreshReport struct {
	RunID     uuid.UUID
	Source    string
	StartTime time.Time
	Duration  time.Duration
	Records   int
	Rows      int
	ByGender  map[models.Gender]int
	BySurface map[models.Surface]int
	// Degraded is set when the refresh failed and predictions fall back to
	// the stale table or manual overrides
	Degraded  bool
	StaleRows int
	Err       error
}

// String returns a formatted summary of the refresh
func (r *RefreshReport) String() string {
	if r.Degraded {
		return fmt.Sprintf(
			"RefreshReport{Source=%s, Degraded=true, StaleRows=%d, Duration=%v, Err=%v}",
			r.Source, r.StaleRows, r.Duration, r.Err,
		)
	}
	return fmt.Sprintf(
		"RefreshReport{Source=%s, Records=%d, Rows=%d (ATP=%d, WTA=%d), Duration=%v}",
		r.Source,
		r.Records,
		r.Rows,
		r.ByGender[models.GenderMale],
		r.ByGender[models.GenderFemale],
		r.Duration,
	)
}

// StatsStatus is a point-in-time view of the stat table for health checks
type StatsStatus struct {
	Rows        int
	Overrides   int
	BuiltAt     time.Time
	Fresh       bool
	Degraded    bool
	LastError   error
	LastAttempt time.Time
}

// Ready reports whether predictions can use any stats at all
func (s StatsStatus) Ready() bool {
	return s.Rows > 0 || s.Overrides > 0
}
