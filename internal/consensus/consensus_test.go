package consensus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macrowatch/models"
)

func testPanel(n int) models.Panel {
	panel := make(models.Panel, n)
	d := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range panel {
		panel[i] = models.Record{Date: d, GDPGrowth: float64(i)}
		d = d.AddDate(0, 3, 0)
	}
	return panel
}

func TestAggregateCountsAreExactFlagSums(t *testing.T) {
	panel := testPanel(5)
	iso := []bool{false, true, false, true, true}
	stl := []bool{false, true, true, false, true}
	prophet := []bool{false, false, false, false, true}

	res := Aggregate(panel, iso, stl, prophet, nil, nil)
	require.Len(t, res.Rows, 5)

	wantCounts := []int{0, 2, 1, 1, 3}
	for i, row := range res.Rows {
		assert.Equal(t, wantCounts[i], row.AnomalyCount)
		assert.GreaterOrEqual(t, row.AnomalyCount, 0)
		assert.LessOrEqual(t, row.AnomalyCount, 3)
		assert.Equal(t, iso[i], row.FlagIsoForest)
		assert.Equal(t, stl[i], row.FlagSTL)
		assert.Equal(t, prophet[i], row.FlagProphet)
	}
}

func TestAggregateTreatsFailedDetectorAsNotFlagged(t *testing.T) {
	panel := testPanel(3)
	stl := []bool{true, false, true}
	warnings := []models.DetectorWarning{{Detector: "isoforest", Err: assert.AnError}}

	res := Aggregate(panel, nil, stl, nil, nil, warnings)
	for i, row := range res.Rows {
		assert.False(t, row.FlagIsoForest)
		assert.False(t, row.FlagProphet)
		assert.Equal(t, stl[i], row.FlagSTL)
	}
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "isoforest", res.Warnings[0].Detector)
}

func TestFlaggedOrderingAndConsensusSubset(t *testing.T) {
	panel := testPanel(5)
	iso := []bool{true, true, false, true, false}
	stl := []bool{false, true, true, true, false}
	prophet := []bool{false, false, false, true, false}

	res := Aggregate(panel, iso, stl, prophet, nil, nil)

	flagged := res.Flagged()
	require.Len(t, flagged, 4)
	// Most flags first, date ascending within the same count.
	assert.Equal(t, panel[3].Date, flagged[0].Date)
	assert.Equal(t, 3, flagged[0].AnomalyCount)
	assert.Equal(t, panel[1].Date, flagged[1].Date)
	assert.Equal(t, 2, flagged[1].AnomalyCount)
	assert.Equal(t, panel[0].Date, flagged[2].Date)
	assert.Equal(t, panel[2].Date, flagged[3].Date)

	cons := res.Consensus()
	require.Len(t, cons, 2)
	for _, row := range cons {
		assert.Greater(t, row.AnomalyCount, 1)
	}
	assert.LessOrEqual(t, len(cons), len(flagged))
}

func TestLatest(t *testing.T) {
	panel := testPanel(3)
	res := Aggregate(panel, []bool{false, false, true}, nil, nil, nil, nil)

	latest, ok := res.Latest()
	require.True(t, ok)
	assert.Equal(t, panel[2].Date, latest.Date)
	assert.Equal(t, 1, latest.AnomalyCount)

	empty := &models.Result{}
	_, ok = empty.Latest()
	assert.False(t, ok)
}
