package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Config holds mini-batch k-means training parameters.
type Config struct {
	K          int   // number of clusters
	BatchSize  int   // rows per mini-batch
	NInit      int   // independent reinitializations, best kept
	MaxIter    int   // mini-batch iterations per initialization
	Seed       int64 // RNG seed for reproducibility
	SampleSize int   // row cap for the silhouette diagnostic
}

// DefaultConfig returns the training defaults.
func DefaultConfig() Config {
	return Config{
		K:          9,
		BatchSize:  10000,
		NInit:      3,
		MaxIter:    100,
		Seed:       42,
		SampleSize: 100000,
	}
}

// Model is the trained cluster model: K centroid vectors in the
// standardized feature space, row order = cluster id.
type Model struct {
	Centroids [][]float64
	Inertia   float64 // sum of squared distances to assigned centroids
}

// ClusterCount reports one cluster's share of the labeled rows.
type ClusterCount struct {
	Cluster  int
	Count    int
	Fraction float64
}

// Trainer runs mini-batch k-means over a standardized matrix. Centroid
// updates at one iteration depend on the previous one, so a fit is a
// single coordinated process; only the per-batch assignment work is
// internally parallelizable.
type Trainer struct {
	cfg Config
}

// NewTrainer creates a trainer, filling unset config fields with
// defaults.
func NewTrainer(cfg Config) *Trainer {
	def := DefaultConfig()
	if cfg.K <= 0 {
		cfg.K = def.K
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.NInit <= 0 {
		cfg.NInit = def.NInit
	}
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = def.MaxIter
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = def.SampleSize
	}
	return &Trainer{cfg: cfg}
}

// Fit trains the model and labels every input row. It fails when the
// input is empty or has fewer rows than clusters.
func (t *Trainer) Fit(X [][]float64) (*Model, []int, error) {
	n := len(X)
	if n == 0 {
		return nil, nil, fmt.Errorf("cluster: cannot fit on empty matrix")
	}
	if n < t.cfg.K {
		return nil, nil, fmt.Errorf("cluster: %d rows is fewer than k=%d clusters", n, t.cfg.K)
	}

	rng := rand.New(rand.NewSource(t.cfg.Seed))

	best := &Model{Inertia: math.Inf(1)}
	for init := 0; init < t.cfg.NInit; init++ {
		centroids := t.run(X, rng)
		inertia := totalInertia(X, centroids)
		if inertia < best.Inertia {
			best = &Model{Centroids: centroids, Inertia: inertia}
		}
	}

	labels := make([]int, n)
	for i, row := range X {
		labels[i], _ = nearest(row, best.Centroids)
	}
	return best, labels, nil
}

// run performs one mini-batch k-means initialization and returns its
// centroids. Per-center counts drive the decaying learning rate, after
// Sculley's web-scale formulation.
func (t *Trainer) run(X [][]float64, rng *rand.Rand) [][]float64 {
	n := len(X)
	dim := len(X[0])
	k := t.cfg.K

	// Seed centroids from k distinct rows.
	perm := rng.Perm(n)
	centroids := make([][]float64, k)
	for c := 0; c < k; c++ {
		centroids[c] = append([]float64(nil), X[perm[c]]...)
	}

	counts := make([]int, k)
	batch := t.cfg.BatchSize
	if batch > n {
		batch = n
	}
	assigned := make([]int, batch)
	indices := make([]int, batch)

	for iter := 0; iter < t.cfg.MaxIter; iter++ {
		for b := 0; b < batch; b++ {
			indices[b] = rng.Intn(n)
			assigned[b], _ = nearest(X[indices[b]], centroids)
		}
		for b := 0; b < batch; b++ {
			c := assigned[b]
			counts[c]++
			eta := 1.0 / float64(counts[c])
			row := X[indices[b]]
			cent := centroids[c]
			for j := 0; j < dim; j++ {
				cent[j] += eta * (row[j] - cent[j])
			}
		}
	}
	return centroids
}

// Distribution returns per-cluster row counts and fractions in cluster
// id order.
func Distribution(labels []int, k int) []ClusterCount {
	counts := make([]ClusterCount, k)
	for c := range counts {
		counts[c].Cluster = c
	}
	for _, l := range labels {
		counts[l].Count++
	}
	if len(labels) > 0 {
		for c := range counts {
			counts[c].Fraction = float64(counts[c].Count) / float64(len(labels))
		}
	}
	return counts
}

// totalInertia sums squared distances from every row to its nearest
// centroid.
func totalInertia(X [][]float64, centroids [][]float64) float64 {
	var total float64
	for _, row := range X {
		_, d := nearest(row, centroids)
		total += d * d
	}
	return total
}

// nearest returns the index of the closest centroid and the Euclidean
// distance to it.
func nearest(row []float64, centroids [][]float64) (int, float64) {
	bestIdx := 0
	bestDist := math.Inf(1)
	for c, cent := range centroids {
		d := floats.Distance(row, cent, 2)
		if d < bestDist {
			bestDist = d
			bestIdx = c
		}
	}
	return bestIdx, bestDist
}
