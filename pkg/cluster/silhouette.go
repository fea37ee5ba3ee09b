package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// SampledSilhouette computes the mean silhouette coefficient over a
// random sample of at most sampleSize rows. The exact score is
// quadratic in row count and infeasible over millions of rows, so this
// is a bounded diagnostic, not an exact metric, and it never feeds back
// into training.
func SampledSilhouette(X [][]float64, labels []int, sampleSize int, seed int64) (float64, error) {
	n := len(X)
	if n != len(labels) {
		return 0, fmt.Errorf("cluster: %d rows but %d labels", n, len(labels))
	}
	if n < 2 {
		return 0, fmt.Errorf("cluster: silhouette needs at least 2 rows, got %d", n)
	}

	rng := rand.New(rand.NewSource(seed))
	idx := rng.Perm(n)
	if sampleSize > 0 && sampleSize < n {
		idx = idx[:sampleSize]
	}

	// Sampled rows grouped by cluster label.
	byCluster := make(map[int][]int)
	for _, i := range idx {
		byCluster[labels[i]] = append(byCluster[labels[i]], i)
	}
	if len(byCluster) < 2 {
		return 0, fmt.Errorf("cluster: silhouette needs at least 2 populated clusters in sample, got %d", len(byCluster))
	}

	var sum float64
	var counted int
	for _, i := range idx {
		own := labels[i]
		a, ok := meanDistance(X, i, byCluster[own])
		if !ok {
			// Singleton in its cluster within the sample.
			continue
		}

		b := math.Inf(1)
		for c, members := range byCluster {
			if c == own {
				continue
			}
			if d, ok := meanDistanceAll(X, i, members); ok && d < b {
				b = d
			}
		}

		denom := math.Max(a, b)
		if denom == 0 {
			continue
		}
		sum += (b - a) / denom
		counted++
	}
	if counted == 0 {
		return 0, fmt.Errorf("cluster: no scorable rows in silhouette sample")
	}
	return sum / float64(counted), nil
}

// meanDistance averages the distance from row i to the other members of
// its own cluster. Returns false when i is the only member.
func meanDistance(X [][]float64, i int, members []int) (float64, bool) {
	var sum float64
	var count int
	for _, j := range members {
		if j == i {
			continue
		}
		sum += floats.Distance(X[i], X[j], 2)
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// meanDistanceAll averages the distance from row i to every member of a
// foreign cluster.
func meanDistanceAll(X [][]float64, i int, members []int) (float64, bool) {
	if len(members) == 0 {
		return 0, false
	}
	var sum float64
	for _, j := range members {
		sum += floats.Distance(X[i], X[j], 2)
	}
	return sum / float64(len(members)), true
}
