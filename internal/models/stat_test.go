package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatTableMerge(t *testing.T) {
	hard := StatKey{Player: "Alpha", Surface: SurfaceHard, Gender: GenderMale}
	clay := StatKey{Player: "Alpha", Surface: SurfaceClay, Gender: GenderMale}

	aggregated := StatTable{
		hard: {Key: hard, ServePtsWon: 0.7, ReturnPtsWon: 0.4, Source: StatSourceAggregated},
		clay: {Key: clay, ServePtsWon: 0.65, ReturnPtsWon: 0.42, Source: StatSourceAggregated},
	}
	overrides := StatTable{
		hard: {Key: hard, ServePtsWon: 0.75, ReturnPtsWon: 0.38, Source: StatSourceManual},
	}

	merged := aggregated.Merge(overrides)
	require.Equal(t, 2, merged.Len())

	stat, ok := merged.Lookup(hard)
	require.True(t, ok)
	assert.Equal(t, StatSourceManual, stat.Source)
	assert.Equal(t, 0.75, stat.ServePtsWon)

	// Inputs are left untouched
	assert.Equal(t, StatSourceAggregated, aggregated[hard].Source)

	_, ok = merged.Lookup(StatKey{Player: "Alpha", Surface: SurfaceGrass, Gender: GenderMale})
	assert.False(t, ok)
}

func TestStatTablePlayers(t *testing.T) {
	table := make(StatTable)
	for _, key := range []StatKey{
		{Player: "Zed", Surface: SurfaceHard, Gender: GenderMale},
		{Player: "Abe", Surface: SurfaceHard, Gender: GenderMale},
		{Player: "Abe", Surface: SurfaceClay, Gender: GenderMale},
		{Player: "Wanda", Surface: SurfaceGrass, Gender: GenderFemale},
	} {
		table[key] = PlayerSurfaceStat{Key: key}
	}

	assert.Equal(t, []string{"Abe", "Zed"}, table.Players(GenderMale))
	assert.Equal(t, []string{"Wanda"}, table.Players(GenderFemale))
	assert.Empty(t, StatTable{}.Players(GenderMale))
}
