package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSurface(t *testing.T) {
	s, err := ParseSurface("clay")
	require.NoError(t, err)
	assert.Equal(t, SurfaceClay, s)

	_, err = ParseSurface("Carpet")
	assert.ErrorIs(t, err, ErrUnknownSurface)
}

func TestParseGender(t *testing.T) {
	tests := map[string]Gender{"M": GenderMale, "atp": GenderMale, "f": GenderFemale, "WTA": GenderFemale}
	for in, want := range tests {
		got, err := ParseGender(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseGender("X")
	assert.ErrorIs(t, err, ErrUnknownGender)
	assert.Equal(t, "WTA", GenderFemale.Tour())
}

func TestStatTableMergeAndPlayers(t *testing.T) {
	base := StatTable{
		{Player: "Sinner", Surface: SurfaceHard, Gender: GenderMale}:  {ServePtsWon: 0.5, Source: StatSourceAggregated},
		{Player: "Alcaraz", Surface: SurfaceClay, Gender: GenderMale}: {ServePtsWon: 0.4, Source: StatSourceAggregated},
		{Player: "Swiatek", Surface: SurfaceClay, Gender: GenderFemale}: {ServePtsWon: 0.45},
	}
	overrideKey := StatKey{Player: "Sinner", Surface: SurfaceHard, Gender: GenderMale}
	merged := base.Merge(StatTable{overrideKey: {ServePtsWon: 0.6, Source: StatSourceManual}})

	row, ok := merged.Lookup(overrideKey)
	require.True(t, ok)
	assert.Equal(t, 0.6, row.ServePtsWon)
	assert.Equal(t, StatSourceManual, row.Source)
	assert.Equal(t, 0.5, base[overrideKey].ServePtsWon)
	assert.Equal(t, 3, merged.Len())

	assert.Equal(t, []string{"Alcaraz", "Sinner"}, merged.Players(GenderMale))
	assert.Equal(t, []string{"Swiatek"}, merged.Players(GenderFemale))
}
