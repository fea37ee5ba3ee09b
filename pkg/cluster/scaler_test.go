package cluster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/stat"
)

func testMatrix() ([][]float64, []string) {
	X := [][]float64{
		{1, 10, 5},
		{2, 20, 5},
		{3, 30, 5},
		{4, 40, 5},
	}
	return X, []string{"a", "b", "c"}
}

func TestScaler_RoundTrip(t *testing.T) {
	X, names := testMatrix()

	s := NewScaler()
	require.NoError(t, s.Fit(X, names))
	scaled, err := s.Transform(X)
	require.NoError(t, err)

	// On the fit set itself, every column ends up with mean ~0 and
	// population stddev ~1 (constant columns excepted).
	for j := 0; j < 2; j++ {
		col := make([]float64, len(scaled))
		for i := range scaled {
			col[i] = scaled[i][j]
		}
		assert.InDelta(t, 0.0, stat.Mean(col, nil), 1e-9, "column %d mean", j)

		var ss float64
		for _, v := range col {
			ss += v * v
		}
		assert.InDelta(t, 1.0, math.Sqrt(ss/float64(len(col))), 1e-9, "column %d stddev", j)
	}
}

func TestScaler_ZeroVarianceColumnClamped(t *testing.T) {
	X, names := testMatrix()

	s := NewScaler()
	require.NoError(t, s.Fit(X, names))

	params := s.Params()
	assert.Equal(t, 1.0, params.Scale[2], "zero-variance column gets scale 1")

	scaled, err := s.Transform(X)
	require.NoError(t, err)
	for i := range scaled {
		assert.Equal(t, 0.0, scaled[i][2], "constant column centers to zero")
	}
}

func TestScaler_ParamsPreserveColumnOrder(t *testing.T) {
	X, names := testMatrix()

	s := NewScaler()
	require.NoError(t, s.Fit(X, names))

	params := s.Params()
	assert.Equal(t, names, params.FeatureNames)
	assert.InDelta(t, 2.5, params.Mean[0], 1e-12)
	assert.InDelta(t, 25.0, params.Mean[1], 1e-12)
}

func TestScaler_TransformDisjointData(t *testing.T) {
	X, names := testMatrix()

	s := NewScaler()
	require.NoError(t, s.Fit(X, names))

	out, err := s.Transform([][]float64{{2.5, 25, 5}})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, out[0][0], 1e-12)
	assert.InDelta(t, 0.0, out[0][1], 1e-12)
}

func TestScaler_TransformInPlace(t *testing.T) {
	X, names := testMatrix()

	s := NewScaler()
	require.NoError(t, s.Fit(X, names))

	want, err := s.Transform(X)
	require.NoError(t, err)
	require.NoError(t, s.TransformInPlace(X))
	assert.Equal(t, want, X)
}

func TestScaler_RejectsMismatchedRowWidth(t *testing.T) {
	X, names := testMatrix()

	s := NewScaler()
	require.NoError(t, s.Fit(X, names))

	wide := [][]float64{{1, 2, 3, 4}}
	_, err := s.Transform(wide)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 columns")

	narrow := [][]float64{{1, 2, 3}, {1, 2}}
	err = s.TransformInPlace(narrow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestScaler_Errors(t *testing.T) {
	s := NewScaler()
	assert.Error(t, s.Fit(nil, nil), "empty matrix")

	_, err := s.Transform([][]float64{{1}})
	assert.Error(t, err, "transform before fit")

	assert.Error(t, s.Fit([][]float64{{1, 2}}, []string{"a"}), "name count mismatch")
}
