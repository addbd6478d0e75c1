package strategy

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/set-predictor/internal/models"
)

// ParseQuote parses a decimal bookmaker quote such as "3.50" or "3,50"
// and checks it lies within [MinQuote, MaxQuote].
func ParseQuote(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidQuote, s)
	}
	if d.LessThan(decimal.NewFromFloat(MinQuote)) || d.GreaterThan(decimal.NewFromFloat(MaxQuote)) {
		return 0, fmt.Errorf("%w: %s outside [%.2f, %.0f]", models.ErrInvalidQuote, d.String(), MinQuote, MaxQuote)
	}
	quote, _ := d.Float64()
	return quote, nil
}

// FormatOdds renders decimal odds with two places
func FormatOdds(odds float64) string {
	return decimal.NewFromFloat(odds).StringFixed(2)
}

// FormatPercent renders a ratio as a percentage with one place
func FormatPercent(ratio float64) string {
	return decimal.NewFromFloat(ratio).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
