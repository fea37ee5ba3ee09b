package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/regime/pkg/cluster"
	"github.com/quantfold/regime/pkg/model"
	"github.com/quantfold/regime/pkg/pattern"
)

func TestWriter_WritesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	schema := model.FeatureNames()

	centroids := [][]float64{
		make([]float64, model.FeatureDim),
		make([]float64, model.FeatureDim),
	}
	centroids[1][0] = 1.5

	params := cluster.ScalerParams{
		FeatureNames: schema,
		Mean:         make([]float64, model.FeatureDim),
		Scale:        make([]float64, model.FeatureDim),
	}
	assignment := pattern.Assignment{0: "P1", 1: "P3"}
	stats := map[string]pattern.Stats{
		"P1": {SampleCount: 60, Percentage: 60.0},
		"P3": {SampleCount: 40, Percentage: 40.0},
	}

	w := NewWriter(dir)
	require.NoError(t, w.Write(centroids, params, schema, assignment, stats))

	for _, name := range []string{CentroidsFile, ScalerFile, FeatureColsFile, PatternsFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected %s to exist", name)
	}

	// The feature schema round-trips in order.
	data, err := os.ReadFile(filepath.Join(dir, FeatureColsFile))
	require.NoError(t, err)
	var gotSchema []string
	require.NoError(t, json.Unmarshal(data, &gotSchema))
	assert.Equal(t, schema, gotSchema)

	// The published catalog carries the enriched entries.
	data, err = os.ReadFile(filepath.Join(dir, PatternsFile))
	require.NoError(t, err)
	var patterns map[string]PatternEntry
	require.NoError(t, json.Unmarshal(data, &patterns))
	require.Len(t, patterns, 2)

	p3 := patterns["P3"]
	assert.Equal(t, "Trending Up", p3.Name)
	assert.Equal(t, 1, p3.ClusterID)
	assert.Equal(t, centroids[1], p3.Centroid)
	require.NotNil(t, p3.Stats)
	assert.Equal(t, 40, p3.Stats.SampleCount)
}

func TestWriter_UnknownPatternID(t *testing.T) {
	w := NewWriter(t.TempDir())
	schema := model.FeatureNames()
	centroids := [][]float64{make([]float64, model.FeatureDim)}

	err := w.Write(centroids, cluster.ScalerParams{}, schema, pattern.Assignment{0: "P99"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "P99")
}

func TestWriter_ClusterWithoutCentroid(t *testing.T) {
	w := NewWriter(t.TempDir())
	schema := model.FeatureNames()
	centroids := [][]float64{make([]float64, model.FeatureDim)}

	err := w.Write(centroids, cluster.ScalerParams{}, schema, pattern.Assignment{5: "P1"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cluster 5")
}
