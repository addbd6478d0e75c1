package strategy

import (
	"fmt"
	"sort"

	"github.com/yourusername/set-predictor/internal/models"
)

// Evaluator compares set-score outcomes with bookmaker quotes
type Evaluator struct {
	// KellyScale scales the full Kelly stake; 0.5 is half Kelly
	KellyScale float64
	// MinEdge is the minimum expected value for FindValueBets to report an outcome
	MinEdge float64
}

// NewEvaluator creates an evaluator staking half Kelly and reporting every positive edge
func NewEvaluator() *Evaluator {
	return &Evaluator{KellyScale: 0.5}
}

// Evaluate derives fair odds and expected value for one score against a quote.
// An outcome the simulation never produced yields ErrInsufficientSample: the
// caller can re-run with more trials or pick another score.
func (e *Evaluator) Evaluate(dist *models.SetOutcomeDistribution, scoreLabel string, quote float64) (models.QuoteComparison, error) {
	if err := ValidateQuote(quote); err != nil {
		return models.QuoteComparison{}, err
	}
	score, err := models.ParseScore(scoreLabel)
	if err != nil {
		return models.QuoteComparison{}, err
	}
	if dist == nil {
		return models.QuoteComparison{}, fmt.Errorf("%w: no distribution", models.ErrInsufficientSample)
	}
	p := dist.Probabilities[score]
	if p <= 0 {
		return models.QuoteComparison{}, fmt.Errorf("%w: %s after %d trials", models.ErrInsufficientSample, score, dist.Trials)
	}

	ev := ExpectedValue(p, quote)
	return models.QuoteComparison{
		Score:         score,
		Label:         score.String(),
		Probability:   p,
		Quote:         quote,
		FairOdds:      FairOdds(p),
		ExpectedValue: ev,
		IsValueBet:    ev > 0,
		KellyFraction: KellyFraction(p, quote, e.KellyScale),
	}, nil
}

// Evaluate uses a default Evaluator
func Evaluate(dist *models.SetOutcomeDistribution, scoreLabel string, quote float64) (models.QuoteComparison, error) {
	return NewEvaluator().Evaluate(dist, scoreLabel, quote)
}

// FindValueBets evaluates every quoted score and returns the value bets ordered
// by expected value. Scores the simulation never produced and invalid quotes are
// skipped and returned in skipped with their reason.
func (e *Evaluator) FindValueBets(dist *models.SetOutcomeDistribution, quotes map[string]float64) (bets []models.QuoteComparison, skipped map[string]error) {
	skipped = make(map[string]error)
	for label, quote := range quotes {
		cmp, err := e.Evaluate(dist, label, quote)
		if err != nil {
			skipped[label] = err
			continue
		}
		if cmp.IsValueBet && cmp.ExpectedValue > e.MinEdge {
			bets = append(bets, cmp)
		}
	}
	sort.Slice(bets, func(i, j int) bool {
		if bets[i].ExpectedValue != bets[j].ExpectedValue {
			return bets[i].ExpectedValue > bets[j].ExpectedValue
		}
		return bets[i].Label < bets[j].Label
	})
	return bets, skipped
}
