// Package artifact persists the outputs a runtime matcher needs to
// reproduce training-time standardization and nearest-centroid lookup:
// centroids, scaler parameters, the ordered feature schema, and the
// enriched pattern catalog.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/quantfold/regime/pkg/cluster"
	"github.com/quantfold/regime/pkg/pattern"
)

// File names within the output directory.
const (
	CentroidsFile   = "centroids.json"
	ScalerFile      = "scaler.json"
	FeatureColsFile = "feature_cols.json"
	PatternsFile    = "patterns.json"
)

// PatternEntry is one published catalog entry: the template enriched
// with the cluster it was assigned to, that cluster's centroid, and its
// population stats.
type PatternEntry struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Characteristics []string       `json:"characteristics"`
	Risks           []string       `json:"risks"`
	ClusterID       int            `json:"clusterId"`
	Centroid        []float64      `json:"centroid"`
	Stats           *pattern.Stats `json:"stats,omitempty"`
}

// Writer serializes training artifacts as JSON files in Dir.
type Writer struct {
	Dir string
}

// NewWriter creates a writer targeting the given directory.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Write persists all artifacts. Centroid row order is cluster id;
// the feature schema file defines positional meaning for every
// downstream consumer.
func (w *Writer) Write(
	centroids [][]float64,
	params cluster.ScalerParams,
	schema []string,
	assignment pattern.Assignment,
	stats map[string]pattern.Stats,
) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact dir: %w", err)
	}

	if err := w.writeJSON(CentroidsFile, centroids); err != nil {
		return err
	}
	if err := w.writeJSON(ScalerFile, params); err != nil {
		return err
	}
	if err := w.writeJSON(FeatureColsFile, schema); err != nil {
		return err
	}

	patterns, err := buildCatalog(centroids, assignment, stats)
	if err != nil {
		return err
	}
	return w.writeJSON(PatternsFile, patterns)
}

// buildCatalog joins templates, assignment, centroids and stats into
// the published pattern catalog keyed by pattern id.
func buildCatalog(
	centroids [][]float64,
	assignment pattern.Assignment,
	stats map[string]pattern.Stats,
) (map[string]PatternEntry, error) {
	// Iterate cluster ids in order so error reporting is deterministic.
	clusterIDs := make([]int, 0, len(assignment))
	for id := range assignment {
		clusterIDs = append(clusterIDs, id)
	}
	sort.Ints(clusterIDs)

	patterns := make(map[string]PatternEntry, len(assignment))
	for _, clusterID := range clusterIDs {
		patternID := assignment[clusterID]
		tmpl, ok := pattern.Lookup(patternID)
		if !ok {
			return nil, fmt.Errorf("artifact: unknown pattern id %q for cluster %d", patternID, clusterID)
		}
		if clusterID < 0 || clusterID >= len(centroids) {
			return nil, fmt.Errorf("artifact: cluster %d has no centroid (k=%d)", clusterID, len(centroids))
		}

		entry := PatternEntry{
			Name:            tmpl.Name,
			Description:     tmpl.Description,
			Characteristics: tmpl.Characteristics,
			Risks:           tmpl.Risks,
			ClusterID:       clusterID,
			Centroid:        append([]float64(nil), centroids[clusterID]...),
		}
		if s, ok := stats[patternID]; ok {
			entry.Stats = &s
		}
		patterns[patternID] = entry
	}
	return patterns, nil
}

func (w *Writer) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
