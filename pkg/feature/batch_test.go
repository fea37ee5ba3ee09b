package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/regime/pkg/model"
)

// interleave alternates bars from multiple instruments to mimic an
// unpartitioned input file.
func interleave(groups ...[]model.Bar) []model.Bar {
	var out []model.Bar
	for i := 0; ; i++ {
		appended := false
		for _, g := range groups {
			if i < len(g) {
				out = append(out, g[i])
				appended = true
			}
		}
		if !appended {
			return out
		}
	}
}

func TestPipeline_MatchesPerInstrumentExtraction(t *testing.T) {
	aaa := rampBars("AAA", 30, 100, 1)
	bbb := rampBars("BBB", 30, 200, -2)
	mixed := interleave(aaa, bbb)

	got := NewPipeline(4).Run(mixed)

	// Output is the concatenation of per-instrument extraction in
	// first-seen order; windows never cross instrument boundaries.
	want := append(Extract(aaa), Extract(bbb)...)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Stock, got[i].Stock, "row %d", i)
		assert.Equal(t, want[i].Date, got[i].Date, "row %d", i)
		if want[i].IsDefined() {
			assert.Equal(t, want[i].Values(), got[i].Values(), "row %d", i)
		}
	}
}

func TestPipeline_SortsWithinInstrument(t *testing.T) {
	bars := rampBars("AAA", 25, 100, 1)
	reversed := make([]model.Bar, len(bars))
	for i, b := range bars {
		reversed[len(bars)-1-i] = b
	}

	got := NewPipeline(1).Run(reversed)
	want := Extract(bars)

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Date, got[i].Date, "row %d", i)
	}
}

func TestPipeline_FirstSeenOrderIsDeterministic(t *testing.T) {
	zzz := rampBars("ZZZ", 21, 50, 1)
	aaa := rampBars("AAA", 21, 100, 1)
	bars := append(append([]model.Bar{}, zzz...), aaa...)

	for run := 0; run < 5; run++ {
		got := NewPipeline(3).Run(bars)
		require.Len(t, got, 42)
		// ZZZ was seen first, so its block comes first every run.
		assert.Equal(t, "ZZZ", got[0].Stock)
		assert.Equal(t, "ZZZ", got[20].Stock)
		assert.Equal(t, "AAA", got[21].Stock)
		assert.Equal(t, "AAA", got[41].Stock)
	}
}

func TestPipeline_Progress(t *testing.T) {
	p := NewPipeline(2)
	var calls []int
	p.OnProgress = func(done, total int) {
		assert.Equal(t, 2, total)
		calls = append(calls, done)
	}
	p.Run(interleave(rampBars("AAA", 5, 100, 1), rampBars("BBB", 5, 100, 1)))
	assert.Equal(t, []int{1, 2}, calls)
}

func TestMatrix_DropsUndefinedRows(t *testing.T) {
	vectors := Extract(rampBars("AAA", 30, 100, 1))
	X, rows := Matrix(vectors)

	// Rows 0..19 carry at least one undefined feature.
	require.Len(t, X, 10)
	require.Len(t, rows, 10)
	for i, row := range X {
		assert.Len(t, row, model.FeatureDim)
		assert.True(t, rows[i].IsDefined())
	}
	assert.Equal(t, vectors[20].Date, rows[0].Date)
}
