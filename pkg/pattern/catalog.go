// Package pattern attaches human-readable regime labels to learned
// cluster centroids. Labels describe recent behavior, not predictions.
package pattern

// Template is one pre-registered entry of the regime taxonomy.
type Template struct {
	ID              string   `json:"-"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Characteristics []string `json:"characteristics"`
	Risks           []string `json:"risks"`
}

// Stats summarizes one mapped pattern's share of the labeled dataset.
type Stats struct {
	SampleCount int     `json:"sampleCount"`
	Percentage  float64 `json:"percentage"`
}

// The fixed taxonomy, initialized once and only handed out as copies.
var catalog = []Template{
	{
		ID:          "P1",
		Name:        "Low Volatility Range-Bound",
		Description: "Flat trend, low volatility, narrow price range",
		Characteristics: []string{
			"Low realized volatility",
			"Near-zero trend slope",
			"Declining or stable volume",
		},
		Risks: []string{"Overtrading", "Noise dominates price", "Breakouts often fail"},
	},
	{
		ID:          "P2",
		Name:        "Volatility Expansion",
		Description: "Sudden increase in volatility, transition regime",
		Characteristics: []string{
			"Sharp volatility increase",
			"Volume spikes",
			"No clear directional trend yet",
		},
		Risks: []string{"Risk increases sharply", "Poor position sizing leads to drawdowns"},
	},
	{
		ID:          "P3",
		Name:        "Trending Up",
		Description: "Positive trend with stable momentum",
		Characteristics: []string{
			"Positive trend slope",
			"Moderate volatility",
			"Healthy volume participation",
		},
		Risks: []string{"Counter-trend trades suffer", "Late entries may face pullbacks"},
	},
	{
		ID:          "P4",
		Name:        "Trending Down",
		Description: "Negative trend with controlled volatility",
		Characteristics: []string{
			"Negative trend slope",
			"Consistent lower highs/lows",
			"Sustained selling pressure",
		},
		Risks: []string{"Long trades face headwinds", "Risk management critical"},
	},
	{
		ID:          "P5",
		Name:        "High Volatility Whipsaw",
		Description: "Very high volatility with frequent direction changes",
		Characteristics: []string{
			"Extreme volatility",
			"Large intraday ranges",
			"Volume spikes without follow-through",
		},
		Risks: []string{"Stop losses hit frequently", "Emotional trading leads to losses"},
	},
	{
		ID:          "P6",
		Name:        "Volatility Compression",
		Description: "Decreasing volatility, pre-breakout coiling",
		Characteristics: []string{
			"Decreasing volatility",
			"Tightening price range",
			"Declining volume",
		},
		Risks: []string{"Premature entries fail", "Risk-reward asymmetric"},
	},
	{
		ID:          "P7",
		Name:        "Exhaustion / Blow-Off",
		Description: "Sharp price movement with extreme volume",
		Characteristics: []string{
			"Sharp price move",
			"Extremely high volume",
			"Often followed by reversal",
		},
		Risks: []string{"Late entries suffer", "Sharp reversal risk"},
	},
	{
		ID:          "P8",
		Name:        "Mean-Reversion Dominant",
		Description: "Price oscillates around mean, extremes fade",
		Characteristics: []string{
			"Price reverts after extremes",
			"Moderate symmetric volatility",
			"Stable volume",
		},
		Risks: []string{"Trend-following underperforms", "Patience required"},
	},
	{
		ID:          "P9",
		Name:        "Illiquid / Thin Participation",
		Description: "Low volume with irregular price jumps",
		Characteristics: []string{
			"Low volume",
			"Irregular price movements",
			"Large bid-ask impact",
		},
		Risks: []string{"Slippage dominates", "Position sizing errors amplified"},
	},
}

// Catalog returns the taxonomy in id order as deep copies, so callers
// cannot mutate the registered templates.
func Catalog() []Template {
	out := make([]Template, len(catalog))
	for i, t := range catalog {
		out[i] = Template{
			ID:              t.ID,
			Name:            t.Name,
			Description:     t.Description,
			Characteristics: append([]string(nil), t.Characteristics...),
			Risks:           append([]string(nil), t.Risks...),
		}
	}
	return out
}

// Lookup returns the template with the given id.
func Lookup(id string) (Template, bool) {
	for _, t := range Catalog() {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
