package doping

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ajitpratap0/dopant/pkg/dataset"
)

// numericStats summarizes the present values of a numeric column
type numericStats struct {
	min, max, median float64
	count            int
}

// columnStats computes min, max and median over the column's present values.
// It reports false when the column has none.
func columnStats(c *dataset.Column) (numericStats, bool) {
	xs := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if dataset.IsMissing(v) {
			continue
		}
		if f, ok := numberValue(v); ok {
			xs = append(xs, f)
		}
	}
	if len(xs) == 0 {
		return numericStats{}, false
	}

	return numericStats{
		min:    floats.Min(xs),
		max:    floats.Max(xs),
		median: median(xs),
		count:  len(xs),
	}, true
}

// median sorts xs in place and returns the middle value, averaging the two
// middle values for an even count
func median(xs []float64) float64 {
	sort.Float64s(xs)
	n := len(xs)
	if n%2 == 1 {
		return xs[n/2]
	}
	return (xs[n/2-1] + xs[n/2]) / 2
}

// distinctValues returns the column's distinct strings in first-seen order
func distinctValues(c *dataset.Column) []string {
	seen := make(map[string]struct{}, len(c.Values))
	out := make([]string, 0)
	for _, v := range c.Values {
		s := stringValue(v)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
