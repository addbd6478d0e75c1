// Package probability converts serve/return statistics into a service-game hold probability.
package probability

import (
	"math"

	"github.com/yourusername/set-predictor/internal/models"
)

// DefaultHold is the prior used when a player has no stat row for the surface
const DefaultHold = 0.75

// Logistic model coefficients. They are fixed, not fitted.
const (
	Intercept    = -4.0
	ServeWeight  = 12.0
	ReturnWeight = -10.0
)

// HoldProbability returns the probability that player holds serve on the surface.
// A missing stat row is not an error: the prior DefaultHold is returned.
func HoldProbability(player string, surface models.Surface, gender models.Gender, table models.StatTable) float64 {
	p, _ := Lookup(player, surface, gender, table)
	return p
}

// Lookup is HoldProbability that also reports whether a stat row was found
func Lookup(player string, surface models.Surface, gender models.Gender, table models.StatTable) (float64, bool) {
	stat, ok := table.Lookup(models.StatKey{Player: player, Surface: surface, Gender: gender})
	if !ok {
		return DefaultHold, false
	}
	return FromStat(stat), true
}

// FromStat applies the logistic model to a stat row
func FromStat(stat models.PlayerSurfaceStat) float64 {
	return Sigmoid(Logit(stat.ServePtsWon, stat.ReturnPtsWon))
}

// Logit returns the linear predictor of the model
func Logit(servePtsWon, returnPtsWon float64) float64 {
	return Intercept + ServeWeight*servePtsWon + ReturnWeight*returnPtsWon
}

// Sigmoid is the logistic function 1/(1+e^-x)
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
