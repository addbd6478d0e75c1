package service

import (
	"github.com/google/uuid"

	"github.com/yourusername/set-predictor/internal/models"
	"github.com/yourusername/set-predictor/internal/simulator"
)

// PredictRequest asks for a pre-match set prediction between two named players
type PredictRequest struct {
	PlayerA     string
	PlayerB     string
	Surface     models.Surface
	Gender      models.Gender
	FirstServer simulator.Player
}

// LiveRequest asks for a next-set prediction from caller-supplied hold probabilities
type LiveRequest struct {
	HoldA       float64
	HoldB       float64
	FirstServer simulator.Player
	// PreviousSet is the score of the set just finished, for context only
	PreviousSet string
}

// HoldEstimate is the hold probability used for one player
type HoldEstimate struct {
	Player      string
	Probability float64
	// FromPrior is set when the player had no stat row
	FromPrior bool
	Stat      *models.PlayerSurfaceStat
}

// Prediction is a simulated set distribution with the inputs it came from
type Prediction struct {
	RunID        uuid.UUID
	Mode         string
	Surface      models.Surface
	Gender       models.Gender
	HoldA        HoldEstimate
	HoldB        HoldEstimate
	FirstServer  simulator.Player
	PreviousSet  string
	Distribution *models.SetOutcomeDistribution
	Top          []models.Outcome
	// Degraded is set when the stat table could not be refreshed
	Degraded bool
}

// WinProbabilityA returns the chance that player A wins the set
func (p *Prediction) WinProbabilityA() float64 {
	if p.Distribution == nil {
		return 0
	}
	return p.Distribution.WinProbabilityA()
}

// Prediction modes
const (
	ModePreMatch = "prematch"
	ModeLive     = "live"
)
