package stats

import (
	"github.com/yourusername/set-predictor/internal/models"
)

// Summary describes an aggregation run
type Summary struct {
	Records   int
	Rows      int
	BySurface map[models.Surface]int
	ByGender  map[models.Gender]int
}

// Summarize counts rows of a table per surface and gender
func Summarize(records int, table models.StatTable) Summary {
	s := Summary{
		Records:   records,
		Rows:      table.Len(),
		BySurface: make(map[models.Surface]int),
		ByGender:  make(map[models.Gender]int),
	}
	for key := range table {
		s.BySurface[key.Surface]++
		s.ByGender[key.Gender]++
	}
	return s
}
