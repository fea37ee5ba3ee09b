package model

import "time"

// Bar is one trading session's OHLCV record for a single instrument.
// Bars are immutable once loaded; every downstream artifact is derived
// from them fresh on each training run.
type Bar struct {
	Date   time.Time `json:"date"`
	Stock  string    `json:"stock"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Range returns the session's high-low price range.
func (b *Bar) Range() float64 {
	return b.High - b.Low
}
