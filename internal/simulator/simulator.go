// Package simulator estimates the distribution of final set scores by Monte Carlo.
package simulator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/set-predictor/internal/models"
)

// source is the random stream a single set draws from
type source interface {
	Float64() float64
}

// histogram tallies final scores; no counter can exceed 7
type histogram [8][8]int

func (h *histogram) add(other *histogram) {
	for a := range h {
		for b := range h[a] {
			h[a][b] += other[a][b]
		}
	}
}

func (h *histogram) scores() map[models.Score]int {
	out := make(map[models.Score]int)
	for a := range h {
		for b := range h[a] {
			if h[a][b] > 0 {
				out[models.Score{GamesA: a, GamesB: b}] = h[a][b]
			}
		}
	}
	return out
}

// SimulateSet plays cfg.Sims independent sets between A (holding serve with
// probability pA) and B (pB), first serves first, and returns the normalised
// distribution of final scores.
//
// Trials are split into fixed chunks, each with its own random stream derived
// from (seed, chunk index), so a seeded run gives identical results for any
// worker count. If ctx ends early the distribution covers the completed chunks.
func SimulateSet(ctx context.Context, pA, pB float64, first Player, cfg Config) (*models.SetOutcomeDistribution, error) {
	if err := validateProbability("hold probability A", pA); err != nil {
		return nil, err
	}
	if err := validateProbability("hold probability B", pB); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	chunks := (cfg.Sims + chunkSize - 1) / chunkSize
	workers := cfg.Workers
	if workers > chunks {
		workers = chunks
	}

	tb := tiebreak{edge: cfg.TiebreakEdge, winProb: cfg.TiebreakWinProb}
	partials := make([]histogram, workers)
	completed := make([]int, workers)
	var cursor atomic.Int64

	g := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				if ctx.Err() != nil {
					return nil
				}
				chunk := int(cursor.Add(1) - 1)
				if chunk >= chunks {
					return nil
				}
				rng := rand.New(rand.NewPCG(uint64(seed), uint64(chunk)))
				n := chunkSize
				if rem := cfg.Sims - chunk*chunkSize; rem < n {
					n = rem
				}
				for i := 0; i < n; i++ {
					s := playSet(rng, pA, pB, first == PlayerA, tb)
					partials[w][s.GamesA][s.GamesB]++
				}
				completed[w] += n
			}
		})
	}
	_ = g.Wait()

	var total histogram
	trials := 0
	for w := range partials {
		total.add(&partials[w])
		trials += completed[w]
	}
	if trials == 0 {
		return nil, fmt.Errorf("%w: %v", models.ErrNoTrialsCompleted, ctx.Err())
	}

	dist, err := models.NewSetOutcomeDistribution(total.scores(), trials)
	if err != nil {
		return nil, fmt.Errorf("failed to build distribution: %w", err)
	}
	dist.Requested = cfg.Sims
	dist.HoldA = pA
	dist.HoldB = pB
	dist.FirstServerA = first == PlayerA
	dist.Seed = seed
	dist.TiebreakRule = tb.describe()
	return dist, nil
}

// tiebreak settles a set that reaches 6-6 with a single draw
type tiebreak struct {
	edge    TiebreakEdge
	winProb float64
}

func (t tiebreak) aWins(u float64, serverIsA bool) bool {
	favoured := u < t.winProb
	if t.edge == TiebreakFavorsServer && !serverIsA {
		return !favoured
	}
	return favoured
}

func (t tiebreak) describe() string {
	return fmt.Sprintf("%s wins tiebreak with p=%.2f", t.edge, t.winProb)
}

// playSet runs the set state machine to completion. One draw decides each
// game; the server alternates every game. The set ends at six games with a
// two-game lead, or at 6-6 where one more draw makes the score 7-6.
func playSet(rng source, pA, pB float64, serverIsA bool, tb tiebreak) models.Score {
	a, b := 0, 0
	for {
		if a == 6 && b == 6 {
			if tb.aWins(rng.Float64(), serverIsA) {
				return models.Score{GamesA: 7, GamesB: 6}
			}
			return models.Score{GamesA: 6, GamesB: 7}
		}

		hold := pB
		if serverIsA {
			hold = pA
		}
		if held := rng.Float64() < hold; held == serverIsA {
			a++
		} else {
			b++
		}
		serverIsA = !serverIsA

		if (a >= 6 || b >= 6) && (a-b >= 2 || b-a >= 2) {
			return models.Score{GamesA: a, GamesB: b}
		}
	}
}
