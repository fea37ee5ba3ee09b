package model

import (
	"math"
	"time"
)

// Feature column names. The canonical order below defines the
// positional meaning of every matrix, centroid and scaler parameter
// produced by the pipeline, so it must never change between a training
// run and its consumers.
const (
	FeatureVolatility5        = "volatility_5d"
	FeatureVolatility10       = "volatility_10d"
	FeatureVolatility20       = "volatility_20d"
	FeatureTrendSlope10       = "trend_slope_10d"
	FeatureTrendSlope20       = "trend_slope_20d"
	FeatureDrawdown20         = "drawdown_20d"
	FeatureVolumeRatio10      = "volume_ratio_10d"
	FeatureVolumeRatio20      = "volume_ratio_20d"
	FeatureRangeCompression10 = "range_compression_10d"
	FeatureMomentum5          = "momentum_5d"
	FeatureMomentum10         = "momentum_10d"
)

// FeatureDim is the number of features per vector.
const FeatureDim = 11

var featureNames = [FeatureDim]string{
	FeatureVolatility5,
	FeatureVolatility10,
	FeatureVolatility20,
	FeatureTrendSlope10,
	FeatureTrendSlope20,
	FeatureDrawdown20,
	FeatureVolumeRatio10,
	FeatureVolumeRatio20,
	FeatureRangeCompression10,
	FeatureMomentum5,
	FeatureMomentum10,
}

// FeatureNames returns the ordered feature schema as a fresh slice.
func FeatureNames() []string {
	names := make([]string, FeatureDim)
	copy(names, featureNames[:])
	return names
}

// FeatureVector holds the rolling behavioral statistics computed for a
// single instrument at a single row. A field is NaN when the trailing
// window for its formula is not yet fully populated, or when a
// degenerate denominator makes the statistic undefined.
type FeatureVector struct {
	Date  time.Time `json:"date"`
	Stock string    `json:"stock"`

	Volatility5        float64 `json:"volatility_5d"`
	Volatility10       float64 `json:"volatility_10d"`
	Volatility20       float64 `json:"volatility_20d"`
	TrendSlope10       float64 `json:"trend_slope_10d"`
	TrendSlope20       float64 `json:"trend_slope_20d"`
	Drawdown20         float64 `json:"drawdown_20d"`
	VolumeRatio10      float64 `json:"volume_ratio_10d"`
	VolumeRatio20      float64 `json:"volume_ratio_20d"`
	RangeCompression10 float64 `json:"range_compression_10d"`
	Momentum5          float64 `json:"momentum_5d"`
	Momentum10         float64 `json:"momentum_10d"`
}

// Values returns the feature values in schema order.
func (v *FeatureVector) Values() []float64 {
	return []float64{
		v.Volatility5,
		v.Volatility10,
		v.Volatility20,
		v.TrendSlope10,
		v.TrendSlope20,
		v.Drawdown20,
		v.VolumeRatio10,
		v.VolumeRatio20,
		v.RangeCompression10,
		v.Momentum5,
		v.Momentum10,
	}
}

// IsDefined reports whether every feature in the vector is defined.
// Rows with any undefined feature are excluded before scaling and
// clustering, never imputed.
func (v *FeatureVector) IsDefined() bool {
	for _, x := range v.Values() {
		if math.IsNaN(x) {
			return false
		}
	}
	return true
}
