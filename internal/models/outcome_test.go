package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegalScores(t *testing.T) {
	scores := LegalScores()
	require.Len(t, scores, 14)
	assert.Equal(t, Score{6, 0}, scores[0])
	assert.Equal(t, Score{7, 6}, scores[6])
	assert.Equal(t, Score{0, 6}, scores[7])

	for _, s := range scores {
		assert.True(t, s.IsLegal(), s.String())
	}
}

func TestScoreIsLegalRejectsOverflow(t *testing.T) {
	tests := []Score{{8, 6}, {6, 5}, {7, 7}, {5, 3}, {7, 4}, {6, 6}, {0, 0}}
	for _, s := range tests {
		assert.False(t, s.IsLegal(), s.String())
	}
}

func TestParseScore(t *testing.T) {
	s, err := ParseScore(" 6-4 ")
	require.NoError(t, err)
	assert.Equal(t, Score{GamesA: 6, GamesB: 4}, s)
	assert.Equal(t, "6-4", s.String())

	s, err = ParseScore("6-7")
	require.NoError(t, err)
	assert.False(t, s.WinnerIsA())

	for _, label := range []string{"8-6", "6", "a-b", "6-4-1", ""} {
		_, err := ParseScore(label)
		assert.True(t, errors.Is(err, ErrIllegalScore), label)
	}
}

func TestNewSetOutcomeDistributionRejectsIllegalScore(t *testing.T) {
	_, err := NewSetOutcomeDistribution(map[Score]int{{6, 4}: 3, {8, 6}: 1}, 4)
	assert.ErrorIs(t, err, ErrIllegalScore)
}

func TestNewSetOutcomeDistributionRequiresTrials(t *testing.T) {
	_, err := NewSetOutcomeDistribution(map[Score]int{}, 0)
	assert.ErrorIs(t, err, ErrNoTrialsCompleted)

	_, err = NewSetOutcomeDistribution(map[Score]int{{6, 4}: 3}, 4)
	assert.Error(t, err)
}

func TestSetOutcomeDistributionQueries(t *testing.T) {
	dist, err := NewSetOutcomeDistribution(map[Score]int{
		{6, 4}: 5,
		{4, 6}: 3,
		{7, 6}: 1,
		{6, 7}: 1,
	}, 10)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, dist.Total(), 1e-12)
	assert.InDelta(t, 0.6, dist.WinProbabilityA(), 1e-12)
	assert.True(t, dist.IsComplete())

	p, err := dist.Probability("6-4")
	require.NoError(t, err)
	assert.Equal(t, 0.5, p)

	p, err = dist.Probability("6-0")
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)

	_, err = dist.Probability("9-7")
	assert.ErrorIs(t, err, ErrIllegalScore)

	ranked := dist.Ranked()
	require.Len(t, ranked, 4)
	assert.Equal(t, "6-4", ranked[0].Label)
	assert.Equal(t, "4-6", ranked[1].Label)
	assert.Equal(t, "7-6", ranked[2].Label)
	assert.Equal(t, "6-7", ranked[3].Label)

	assert.Len(t, dist.Top(2), 2)
	assert.Len(t, dist.Top(10), 4)
	assert.Equal(t, 0.3, dist.Labels()["4-6"])
}

func TestQuoteComparisonEdge(t *testing.T) {
	q := QuoteComparison{Quote: 5.0, FairOdds: 4.0}
	assert.InDelta(t, 0.25, q.Edge(), 1e-12)
	assert.Equal(t, 0.0, QuoteComparison{}.Edge())
}
