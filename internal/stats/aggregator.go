// Package stats reduces match logs into per-player serve and return effectiveness.
package stats

import (
	"github.com/yourusername/set-predictor/internal/models"
)

// MinMatches is the number of matches a player needs on a surface before a row is emitted
const MinMatches = 8

// accumulator holds the running sums for one player on one surface
type accumulator struct {
	matches     int
	serveSum    float64
	serveCount  int
	returnSum   float64
	returnCount int
}

func (a *accumulator) addServe(won, played int) {
	if played <= 0 {
		return
	}
	a.serveSum += float64(won) / float64(played)
	a.serveCount++
}

func (a *accumulator) addReturn(opponentWon, opponentPlayed int) {
	if opponentPlayed <= 0 {
		return
	}
	a.returnSum += float64(opponentWon) / float64(opponentPlayed)
	a.returnCount++
}

// Aggregate folds every record into per-player running sums in a single pass
// and emits a row for each player with at least MinMatches matches on a surface.
//
// The serve sample of a match is the player's own first-serve points won over
// serve points played; the return sample is the opponent's ratio. Samples with
// zero serve points are skipped but the match still counts toward MinMatches.
func Aggregate(records []models.MatchRecord) models.StatTable {
	acc := make(map[models.StatKey]*accumulator)
	get := func(key models.StatKey) *accumulator {
		a, ok := acc[key]
		if !ok {
			a = &accumulator{}
			acc[key] = a
		}
		return a
	}

	for i := range records {
		r := &records[i]
		if !isModelled(r) {
			continue
		}

		winner := get(models.StatKey{Player: r.WinnerName, Surface: r.Surface, Gender: r.Gender})
		winner.matches++
		winner.addServe(r.WinnerFirstWon, r.WinnerServePts)
		winner.addReturn(r.LoserFirstWon, r.LoserServePts)

		loser := get(models.StatKey{Player: r.LoserName, Surface: r.Surface, Gender: r.Gender})
		loser.matches++
		loser.addServe(r.LoserFirstWon, r.LoserServePts)
		loser.addReturn(r.WinnerFirstWon, r.WinnerServePts)
	}

	table := make(models.StatTable)
	for key, a := range acc {
		if a.matches < MinMatches || a.serveCount == 0 || a.returnCount == 0 {
			continue
		}
		table[key] = models.PlayerSurfaceStat{
			Key:          key,
			ServePtsWon:  a.serveSum / float64(a.serveCount),
			ReturnPtsWon: a.returnSum / float64(a.returnCount),
			Matches:      a.matches,
			Source:       models.StatSourceAggregated,
		}
	}
	return table
}

func isModelled(r *models.MatchRecord) bool {
	if r.WinnerName == "" || r.LoserName == "" || r.WinnerName == r.LoserName {
		return false
	}
	switch r.Surface {
	case models.SurfaceHard, models.SurfaceClay, models.SurfaceGrass:
	default:
		return false
	}
	return r.Gender == models.GenderMale || r.Gender == models.GenderFemale
}
