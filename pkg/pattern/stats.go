package pattern

import "math"

// CalculateStats computes each mapped pattern's population over the
// labeled dataset: row count and percentage of total labeled rows,
// rounded to 2 decimals.
func CalculateStats(labels []int, assignment Assignment) map[string]Stats {
	stats := make(map[string]Stats, len(assignment))
	if len(labels) == 0 {
		return stats
	}

	counts := make(map[int]int)
	for _, l := range labels {
		counts[l]++
	}

	total := float64(len(labels))
	for clusterID, patternID := range assignment {
		count := counts[clusterID]
		stats[patternID] = Stats{
			SampleCount: count,
			Percentage:  math.Round(float64(count)/total*100*100) / 100,
		}
	}
	return stats
}
