package simulator

import (
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/yourusername/set-predictor/internal/models"
)

// Defaults
const (
	DefaultSims            = 20000
	DefaultTiebreakWinProb = 0.52
	chunkSize              = 1024
)

// Player identifies one side of the set
type Player int

// Sides
const (
	PlayerA Player = iota
	PlayerB
)

// String returns "A" or "B"
func (p Player) String() string {
	if p == PlayerB {
		return "B"
	}
	return "A"
}

// ParsePlayer parses "A" or "B"
func ParsePlayer(s string) (Player, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return PlayerA, nil
	case "B":
		return PlayerB, nil
	default:
		return PlayerA, fmt.Errorf("unknown player %q: want A or B", s)
	}
}

// TiebreakEdge selects which side the tiebreak win probability applies to
type TiebreakEdge string

// Tiebreak rules
const (
	// TiebreakFavorsA gives player A the tiebreak win probability
	TiebreakFavorsA TiebreakEdge = "player_a"
	// TiebreakFavorsServer gives it to whoever is serving when 6-6 is reached
	TiebreakFavorsServer TiebreakEdge = "server"
)

// ParseTiebreakEdge parses a tiebreak rule name
func ParseTiebreakEdge(s string) (TiebreakEdge, error) {
	switch TiebreakEdge(strings.ToLower(strings.TrimSpace(s))) {
	case "", TiebreakFavorsA:
		return TiebreakFavorsA, nil
	case TiebreakFavorsServer:
		return TiebreakFavorsServer, nil
	default:
		return "", fmt.Errorf("unknown tiebreak edge %q", s)
	}
}

// Config configures a set simulation
type Config struct {
	// Sims is the number of independent sets to simulate
	Sims int
	// Seed makes a run reproducible. Zero picks a time-based seed.
	Seed int64
	// Workers bounds parallelism. Zero uses GOMAXPROCS.
	Workers int
	// TiebreakWinProb is the probability the favoured side wins the 6-6 tiebreak
	TiebreakWinProb float64
	// TiebreakEdge selects the favoured side
	TiebreakEdge TiebreakEdge
}

// DefaultConfig returns the canonical simulation settings
func DefaultConfig() Config {
	return Config{
		Sims:            DefaultSims,
		TiebreakWinProb: DefaultTiebreakWinProb,
		TiebreakEdge:    TiebreakFavorsA,
	}
}

func (c Config) withDefaults() Config {
	if c.TiebreakEdge == "" {
		c.TiebreakEdge = TiebreakFavorsA
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

func (c Config) validate() error {
	if c.Sims < 1 {
		return fmt.Errorf("%w: %d", models.ErrInvalidTrialCount, c.Sims)
	}
	if err := validateProbability("tiebreak win probability", c.TiebreakWinProb); err != nil {
		return err
	}
	if _, err := ParseTiebreakEdge(string(c.TiebreakEdge)); err != nil {
		return err
	}
	return nil
}

func validateProbability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: %s %v outside [0,1]", models.ErrInvalidProbability, name, p)
	}
	return nil
}
