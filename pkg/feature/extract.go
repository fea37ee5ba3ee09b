package feature

import (
	"github.com/quantfold/regime/pkg/model"
)

// Window lengths for each named feature, in row counts. Windows are
// counted in rows, not calendar days: no calendar alignment is
// performed, and gaps in the input are not detected here.
const (
	windowVolatilityShort = 5
	windowVolatilityMid   = 10
	windowVolatilityLong  = 20
	windowSlopeShort      = 10
	windowSlopeLong       = 20
	windowDrawdown        = 20
	windowVolumeShort     = 10
	windowVolumeLong      = 20
	windowRange           = 10
	windowMomentumShort   = 5
	windowMomentumLong    = 10
)

// Extract computes one FeatureVector per input bar for a single
// instrument. Bars must already be sorted ascending by date and belong
// to one instrument; callers that mix instruments get windows computed
// across the boundary. Output rows share the input's order, dates and
// stock tag. Each field is computed independently; early rows hold NaN
// until the relevant window is populated.
func Extract(bars []model.Bar) []model.FeatureVector {
	n := len(bars)
	close := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	volume := make([]float64, n)
	for i, b := range bars {
		close[i] = b.Close
		high[i] = b.High
		low[i] = b.Low
		volume[i] = b.Volume
	}

	returns := LogReturns(close)

	vol5 := Volatility(returns, windowVolatilityShort)
	vol10 := Volatility(returns, windowVolatilityMid)
	vol20 := Volatility(returns, windowVolatilityLong)
	slope10 := TrendSlope(close, windowSlopeShort)
	slope20 := TrendSlope(close, windowSlopeLong)
	dd20 := Drawdown(close, windowDrawdown)
	vr10 := VolumeRatio(volume, windowVolumeShort)
	vr20 := VolumeRatio(volume, windowVolumeLong)
	rc10 := RangeCompression(high, low, windowRange)
	mom5 := Momentum(returns, windowMomentumShort)
	mom10 := Momentum(returns, windowMomentumLong)

	vectors := make([]model.FeatureVector, n)
	for i := range bars {
		vectors[i] = model.FeatureVector{
			Date:               bars[i].Date,
			Stock:              bars[i].Stock,
			Volatility5:        vol5[i],
			Volatility10:       vol10[i],
			Volatility20:       vol20[i],
			TrendSlope10:       slope10[i],
			TrendSlope20:       slope20[i],
			Drawdown20:         dd20[i],
			VolumeRatio10:      vr10[i],
			VolumeRatio20:      vr20[i],
			RangeCompression10: rc10[i],
			Momentum5:          mom5[i],
			Momentum10:         mom10[i],
		}
	}
	return vectors
}
