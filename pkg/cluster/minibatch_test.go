package cluster

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blobs generates two well-separated point clouds of n rows each.
func blobs(n, dim int, seed int64) ([][]float64, int) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, 0, 2*n)
	for i := 0; i < n; i++ {
		row := make([]float64, dim)
		for j := range row {
			row[j] = rng.NormFloat64() * 0.5
		}
		X = append(X, row)
	}
	for i := 0; i < n; i++ {
		row := make([]float64, dim)
		for j := range row {
			row[j] = 10 + rng.NormFloat64()*0.5
		}
		X = append(X, row)
	}
	return X, n
}

func testConfig(k int) Config {
	return Config{
		K:          k,
		BatchSize:  64,
		NInit:      5,
		MaxIter:    100,
		Seed:       42,
		SampleSize: 200,
	}
}

func TestTrainer_SeparatesBlobs(t *testing.T) {
	X, n := blobs(50, 4, 7)

	model, labels, err := NewTrainer(testConfig(2)).Fit(X)
	require.NoError(t, err)
	require.Len(t, model.Centroids, 2)
	require.Len(t, labels, len(X))

	// Every row gets exactly one label in [0, k).
	for i, l := range labels {
		assert.GreaterOrEqual(t, l, 0, "row %d", i)
		assert.Less(t, l, 2, "row %d", i)
	}

	// Both blobs land in a single, distinct cluster each.
	first := labels[0]
	for i := 0; i < n; i++ {
		assert.Equal(t, first, labels[i], "first blob row %d", i)
	}
	second := labels[n]
	assert.NotEqual(t, first, second)
	for i := n; i < len(X); i++ {
		assert.Equal(t, second, labels[i], "second blob row %d", i)
	}
}

func TestTrainer_Deterministic(t *testing.T) {
	X, _ := blobs(30, 3, 11)

	model1, labels1, err := NewTrainer(testConfig(2)).Fit(X)
	require.NoError(t, err)
	model2, labels2, err := NewTrainer(testConfig(2)).Fit(X)
	require.NoError(t, err)

	assert.Equal(t, model1.Centroids, model2.Centroids)
	assert.Equal(t, labels1, labels2)
	assert.Equal(t, model1.Inertia, model2.Inertia)
}

func TestTrainer_FewerRowsThanClusters(t *testing.T) {
	X := [][]float64{{1, 2}, {3, 4}}

	_, _, err := NewTrainer(testConfig(9)).Fit(X)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 rows")
	assert.Contains(t, err.Error(), "k=9")
}

func TestTrainer_EmptyInput(t *testing.T) {
	_, _, err := NewTrainer(testConfig(2)).Fit(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestDistribution(t *testing.T) {
	labels := []int{0, 0, 0, 1, 1, 2}
	dist := Distribution(labels, 3)

	require.Len(t, dist, 3)
	assert.Equal(t, 3, dist[0].Count)
	assert.Equal(t, 2, dist[1].Count)
	assert.Equal(t, 1, dist[2].Count)

	var totalCount int
	var totalFraction float64
	for _, d := range dist {
		totalCount += d.Count
		totalFraction += d.Fraction
	}
	assert.Equal(t, len(labels), totalCount)
	assert.InDelta(t, 1.0, totalFraction, 1e-12)
}

func TestSampledSilhouette_WellSeparated(t *testing.T) {
	X, n := blobs(40, 3, 5)
	labels := make([]int, len(X))
	for i := n; i < len(X); i++ {
		labels[i] = 1
	}

	score, err := SampledSilhouette(X, labels, 50, 42)
	require.NoError(t, err)
	assert.Greater(t, score, 0.8, "tight, distant blobs score near 1")
}

func TestSampledSilhouette_SingleClusterFails(t *testing.T) {
	X, _ := blobs(10, 2, 3)
	labels := make([]int, len(X))

	_, err := SampledSilhouette(X, labels, 0, 42)
	assert.Error(t, err)
}

func TestSampledSilhouette_LabelMismatch(t *testing.T) {
	X, _ := blobs(5, 2, 3)
	_, err := SampledSilhouette(X, []int{0, 1}, 0, 42)
	assert.Error(t, err)
}
