package cluster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ScalerParams are the standardization parameters fit on training data.
// FeatureNames records the exact column order the parameters were fit
// in; downstream consumers index by position, so the order is part of
// the contract.
type ScalerParams struct {
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
}

// Scaler standardizes a feature matrix to zero mean and unit variance
// per column. Scale is the population standard deviation; a
// zero-variance column gets scale 1.0 so transform never divides by
// zero and the column passes through centered.
type Scaler struct {
	params ScalerParams
	fitted bool
}

// NewScaler creates an unfit scaler.
func NewScaler() *Scaler {
	return &Scaler{}
}

// Fit computes per-column mean and population standard deviation over
// the matrix. names must match the matrix column order.
func (s *Scaler) Fit(X [][]float64, names []string) error {
	if len(X) == 0 {
		return fmt.Errorf("scaler: cannot fit on empty matrix")
	}
	dim := len(X[0])
	if len(names) != dim {
		return fmt.Errorf("scaler: %d feature names for %d columns", len(names), dim)
	}

	mean := make([]float64, dim)
	scale := make([]float64, dim)
	col := make([]float64, len(X))
	for j := 0; j < dim; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		mean[j] = stat.Mean(col, nil)

		var ss float64
		for _, v := range col {
			d := v - mean[j]
			ss += d * d
		}
		scale[j] = math.Sqrt(ss / float64(len(col)))
		if scale[j] == 0 {
			scale[j] = 1.0
		}
	}

	s.params = ScalerParams{
		FeatureNames: append([]string(nil), names...),
		Mean:         mean,
		Scale:        scale,
	}
	s.fitted = true
	return nil
}

// Transform returns a standardized copy of the matrix, usable on data
// disjoint from the fit set.
func (s *Scaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.fitted {
		return nil, fmt.Errorf("scaler: transform before fit")
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.params.Mean) {
			return nil, fmt.Errorf("scaler: row %d has %d columns, fit on %d", i, len(row), len(s.params.Mean))
		}
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = (v - s.params.Mean[j]) / s.params.Scale[j]
		}
		out[i] = r
	}
	return out, nil
}

// TransformInPlace standardizes the matrix without allocating a copy.
// Used by the training job, where the raw matrix is not needed again
// and duplicating millions of rows would double peak memory.
func (s *Scaler) TransformInPlace(X [][]float64) error {
	if !s.fitted {
		return fmt.Errorf("scaler: transform before fit")
	}
	for i, row := range X {
		if len(row) != len(s.params.Mean) {
			return fmt.Errorf("scaler: row %d has %d columns, fit on %d", i, len(row), len(s.params.Mean))
		}
		for j := range row {
			row[j] = (row[j] - s.params.Mean[j]) / s.params.Scale[j]
		}
	}
	return nil
}

// Params returns the fit parameters.
func (s *Scaler) Params() ScalerParams {
	return s.params
}
