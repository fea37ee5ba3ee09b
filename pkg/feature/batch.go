package feature

import (
	"sort"
	"sync"

	"github.com/quantfold/regime/pkg/model"
)

// ProgressFunc is called once per instrument partition, in partition
// order, while results are joined after extraction has finished. It
// runs on the pipeline goroutine, so implementations do not need
// locking.
type ProgressFunc func(done, total int)

// Pipeline partitions a multi-instrument dataset by instrument and runs
// feature extraction over each partition. Partitions are independent,
// so they are fanned out to a bounded worker pool; results are joined
// back in first-seen instrument order so runs are reproducible.
type Pipeline struct {
	Workers    int          // concurrent extraction workers, min 1
	OnProgress ProgressFunc // optional
}

// NewPipeline creates a pipeline with the given worker count.
func NewPipeline(workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{Workers: workers}
}

type partition struct {
	stock string
	bars  []model.Bar
}

// Run extracts features for every instrument in the dataset and
// concatenates the results, preserving per-instrument contiguity.
// Instruments are processed in first-seen order; within an instrument,
// bars are sorted ascending by date before extraction. Windows never
// cross instrument boundaries.
func (p *Pipeline) Run(bars []model.Bar) []model.FeatureVector {
	parts := partitionByStock(bars)

	results := make([][]model.FeatureVector, len(parts))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				part := parts[i]
				sort.SliceStable(part.bars, func(a, b int) bool {
					return part.bars[a].Date.Before(part.bars[b].Date)
				})
				results[i] = Extract(part.bars)
			}
		}()
	}

	for i := range parts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var total int
	for _, r := range results {
		total += len(r)
	}
	out := make([]model.FeatureVector, 0, total)
	for i, r := range results {
		out = append(out, r...)
		if p.OnProgress != nil {
			p.OnProgress(i+1, len(parts))
		}
	}
	return out
}

// partitionByStock groups bars by instrument in first-seen order.
func partitionByStock(bars []model.Bar) []partition {
	index := make(map[string]int)
	var parts []partition
	for _, b := range bars {
		i, ok := index[b.Stock]
		if !ok {
			i = len(parts)
			index[b.Stock] = i
			parts = append(parts, partition{stock: b.Stock})
		}
		parts[i].bars = append(parts[i].bars, b)
	}
	return parts
}

// Matrix converts defined feature vectors into a row-major matrix in
// schema order, dropping every row with an undefined feature. The
// returned rows slice parallels the matrix and identifies the surviving
// (date, stock) metadata.
func Matrix(vectors []model.FeatureVector) (X [][]float64, rows []model.FeatureVector) {
	for _, v := range vectors {
		if !v.IsDefined() {
			continue
		}
		X = append(X, v.Values())
		rows = append(rows, v)
	}
	return X, rows
}
