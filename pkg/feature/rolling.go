package feature

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Rolling statistics over ordered numeric series. Every function
// returns a slice of the same length as its input; positions where the
// trailing window is not fully populated, or where the statistic is
// undefined (NaN input inside the window, zero denominator), hold NaN.
// NaN is never coerced to zero here: undefined rows are dropped later,
// before scaling and clustering.

// LogReturns computes r_t = ln(close_t / close_{t-1}).
// The first element is always NaN.
func LogReturns(close []float64) []float64 {
	out := make([]float64, len(close))
	if len(out) == 0 {
		return out
	}
	out[0] = math.NaN()
	for i := 1; i < len(close); i++ {
		out[i] = math.Log(close[i] / close[i-1])
	}
	return out
}

// Volatility computes the rolling sample standard deviation of the
// trailing w returns.
func Volatility(returns []float64, w int) []float64 {
	out := nanSlice(len(returns))
	for i := w - 1; i < len(returns); i++ {
		win := returns[i-w+1 : i+1]
		if hasNaN(win) {
			continue
		}
		out[i] = stat.StdDev(win, nil)
	}
	return out
}

// TrendSlope computes the rolling ordinary-least-squares slope of the
// price series against index 0..w-1, in closed form:
//
//	slope = (w*Σxy - Σx*Σy) / (w*Σx² - (Σx)²)
//
// The x sums are fixed per window length and precomputed once.
func TrendSlope(close []float64, w int) []float64 {
	out := nanSlice(len(close))
	if w < 2 {
		return out
	}

	var sumX, sumX2 float64
	for x := 0; x < w; x++ {
		sumX += float64(x)
		sumX2 += float64(x * x)
	}
	denom := float64(w)*sumX2 - sumX*sumX
	if denom == 0 {
		return out
	}

	for i := w - 1; i < len(close); i++ {
		win := close[i-w+1 : i+1]
		if hasNaN(win) {
			continue
		}
		var sumY, sumXY float64
		for x, y := range win {
			sumY += y
			sumXY += float64(x) * y
		}
		out[i] = (float64(w)*sumXY - sumX*sumY) / denom
	}
	return out
}

// Drawdown computes (close_t - max(window)) / max(window) over the
// trailing w closes. Defined values are always <= 0.
func Drawdown(close []float64, w int) []float64 {
	out := nanSlice(len(close))
	for i := w - 1; i < len(close); i++ {
		win := close[i-w+1 : i+1]
		if hasNaN(win) {
			continue
		}
		peak := win[0]
		for _, c := range win[1:] {
			if c > peak {
				peak = c
			}
		}
		if peak == 0 {
			continue
		}
		out[i] = (close[i] - peak) / peak
	}
	return out
}

// VolumeRatio computes volume_t / mean(trailing w volumes). A zero
// rolling mean leaves the value undefined rather than dividing by zero.
func VolumeRatio(volume []float64, w int) []float64 {
	out := nanSlice(len(volume))
	for i := w - 1; i < len(volume); i++ {
		win := volume[i-w+1 : i+1]
		if hasNaN(win) {
			continue
		}
		mean := stat.Mean(win, nil)
		if mean == 0 {
			continue
		}
		out[i] = volume[i] / mean
	}
	return out
}

// RangeCompression computes (high_t - low_t) / mean(trailing w ranges).
// A zero rolling mean range leaves the value undefined.
func RangeCompression(high, low []float64, w int) []float64 {
	ranges := make([]float64, len(high))
	for i := range high {
		ranges[i] = high[i] - low[i]
	}

	out := nanSlice(len(ranges))
	for i := w - 1; i < len(ranges); i++ {
		win := ranges[i-w+1 : i+1]
		if hasNaN(win) {
			continue
		}
		mean := stat.Mean(win, nil)
		if mean == 0 {
			continue
		}
		out[i] = ranges[i] / mean
	}
	return out
}

// Momentum computes the sum of the trailing w returns.
func Momentum(returns []float64, w int) []float64 {
	out := nanSlice(len(returns))
	for i := w - 1; i < len(returns); i++ {
		win := returns[i-w+1 : i+1]
		if hasNaN(win) {
			continue
		}
		sum := 0.0
		for _, r := range win {
			sum += r
		}
		out[i] = sum
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
