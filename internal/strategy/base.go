// Package strategy compares modelled set-score probabilities against bookmaker quotes.
package strategy

import (
	"fmt"
	"math"

	"github.com/yourusername/set-predictor/internal/models"
)

// Quote bounds accepted from a bookmaker
const (
	MinQuote = 1.01
	MaxQuote = 1000.0
)

// ValidateQuote ensures a decimal quote is finite and greater than 1.0
func ValidateQuote(quote float64) error {
	if math.IsNaN(quote) || math.IsInf(quote, 0) {
		return fmt.Errorf("%w: %v", models.ErrInvalidQuote, quote)
	}
	if quote <= 1.0 {
		return fmt.Errorf("%w: quote must be greater than 1.0, got %v", models.ErrInvalidQuote, quote)
	}
	return nil
}

// FairOdds returns the break-even decimal odds of an outcome with probability p
func FairOdds(p float64) float64 {
	return 1.0 / p
}

// ExpectedValue returns the expected profit per unit staked at the quote
func ExpectedValue(p, quote float64) float64 {
	return quote*p - 1.0
}

// KellyFraction returns the share of bankroll the Kelly criterion stakes on the
// outcome, scaled by fraction. Negative-edge bets stake nothing.
func KellyFraction(p, quote, fraction float64) float64 {
	if p <= 0 || quote <= 1 {
		return 0
	}
	b := quote - 1.0
	kelly := (b*p - (1.0 - p)) / b
	if kelly <= 0 {
		return 0
	}
	if fraction <= 0 {
		fraction = 0.5
	}
	return kelly * fraction
}
