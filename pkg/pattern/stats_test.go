package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStats_CountsAndPercentages(t *testing.T) {
	labels := []int{0, 0, 0, 1, 1, 2, 2, 2, 2, 2}
	assignment := Assignment{0: "P1", 1: "P3", 2: "P4"}

	stats := CalculateStats(labels, assignment)
	require.Len(t, stats, 3)

	assert.Equal(t, 3, stats["P1"].SampleCount)
	assert.Equal(t, 2, stats["P3"].SampleCount)
	assert.Equal(t, 5, stats["P4"].SampleCount)

	assert.InDelta(t, 30.0, stats["P1"].Percentage, 1e-9)
	assert.InDelta(t, 20.0, stats["P3"].Percentage, 1e-9)
	assert.InDelta(t, 50.0, stats["P4"].Percentage, 1e-9)

	var totalCount int
	var totalPct float64
	for _, s := range stats {
		totalCount += s.SampleCount
		totalPct += s.Percentage
	}
	assert.Equal(t, len(labels), totalCount)
	assert.InDelta(t, 100.0, totalPct, 0.05)
}

func TestCalculateStats_RoundsToTwoDecimals(t *testing.T) {
	labels := []int{0, 1, 2}
	assignment := Assignment{0: "P1", 1: "P2", 2: "P3"}

	stats := CalculateStats(labels, assignment)
	// 1/3 of 100 rounds to 33.33.
	assert.Equal(t, 33.33, stats["P1"].Percentage)
}

func TestCalculateStats_UnmappedClustersExcluded(t *testing.T) {
	labels := []int{0, 0, 1, 1, 1}
	assignment := Assignment{0: "P1"} // cluster 1 unmapped

	stats := CalculateStats(labels, assignment)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats["P1"].SampleCount)
	assert.InDelta(t, 40.0, stats["P1"].Percentage, 1e-9)
}

func TestCalculateStats_Empty(t *testing.T) {
	assert.Empty(t, CalculateStats(nil, Assignment{0: "P1"}))
}
