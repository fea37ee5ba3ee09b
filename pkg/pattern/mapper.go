package pattern

import (
	"fmt"
	"math"
	"sort"

	"github.com/quantfold/regime/pkg/model"
)

// Assignment maps cluster id to pattern id. The mapping is injective
// but partial: at most one cluster per pattern, and clusters beyond the
// catalog size stay unmapped.
type Assignment map[int]string

// Scores evaluates every pattern's heuristic score against a centroid's
// feature values. schema gives the positional meaning of the centroid
// vector; a feature name missing from the schema is a hard error rather
// than a silent default, since a wrong index would score against an
// unrelated feature.
func Scores(centroid []float64, schema []string) (map[string]float64, error) {
	idx := make(map[string]int, len(schema))
	for i, name := range schema {
		idx[name] = i
	}
	at := func(name string) (float64, error) {
		i, ok := idx[name]
		if !ok {
			return 0, fmt.Errorf("pattern: feature %q missing from schema", name)
		}
		if i >= len(centroid) {
			return 0, fmt.Errorf("pattern: feature %q indexes past centroid of dim %d", name, len(centroid))
		}
		return centroid[i], nil
	}

	vol10, err := at(model.FeatureVolatility10)
	if err != nil {
		return nil, err
	}
	slope10, err := at(model.FeatureTrendSlope10)
	if err != nil {
		return nil, err
	}
	mom5, err := at(model.FeatureMomentum5)
	if err != nil {
		return nil, err
	}
	mom10, err := at(model.FeatureMomentum10)
	if err != nil {
		return nil, err
	}
	dd20, err := at(model.FeatureDrawdown20)
	if err != nil {
		return nil, err
	}
	vr10, err := at(model.FeatureVolumeRatio10)
	if err != nil {
		return nil, err
	}
	rc10, err := at(model.FeatureRangeCompression10)
	if err != nil {
		return nil, err
	}

	return map[string]float64{
		"P1": -math.Abs(vol10) - math.Abs(slope10),
		"P2": vol10 - math.Abs(slope10),
		"P3": slope10 + mom10,
		"P4": -slope10 - mom10,
		"P5": vol10 + math.Abs(mom5),
		"P6": -vol10 - rc10,
		"P7": vr10 + math.Abs(dd20),
		"P8": -math.Abs(slope10) + 0.5*vol10,
		"P9": -vr10,
	}, nil
}

// MapClusters assigns a pattern to each cluster centroid. Clusters are
// processed in ascending id order; each takes its highest-scoring
// pattern not already claimed by a lower-id cluster. The greedy order
// can leave a later cluster with a worse label than an optimal
// bipartite matching would, which is an accepted tradeoff for
// simplicity. With more clusters than catalog entries, the surplus
// clusters stay unmapped; mapping itself never fails on that.
func MapClusters(centroids [][]float64, schema []string) (Assignment, error) {
	assignment := make(Assignment, len(centroids))
	used := make(map[string]bool)

	for clusterID, centroid := range centroids {
		scores, err := Scores(centroid, schema)
		if err != nil {
			return nil, err
		}

		ranked := make([]string, 0, len(scores))
		for id := range scores {
			ranked = append(ranked, id)
		}
		// Score descending, id ascending on ties for determinism.
		sort.Slice(ranked, func(a, b int) bool {
			if scores[ranked[a]] != scores[ranked[b]] {
				return scores[ranked[a]] > scores[ranked[b]]
			}
			return ranked[a] < ranked[b]
		})

		for _, id := range ranked {
			if !used[id] {
				assignment[clusterID] = id
				used[id] = true
				break
			}
		}
	}
	return assignment, nil
}
