package doping

import (
	"github.com/ajitpratap0/dopant/pkg/dataset"
)

// ColumnSummary is what a transform would see of one column
type ColumnSummary struct {
	Name    string
	Type    ColumnType
	Missing int
	// Distinct counts classified values of present cells. Missing cells are
	// not a value, even when classification stores them as "".
	Distinct int
	// Min, Median and Max are set for Numeric columns with present values
	Min, Median, Max *float64
}

// Describe classifies a copy of ds and summarizes each column in order.
// ds is not modified.
func Describe(ds *dataset.Dataset) []ColumnSummary {
	work := ds.Clone()
	out := make([]ColumnSummary, 0, work.ColumnCount())
	// recorded before classification turns missing categorical cells into ""
	missing := make([][]bool, work.ColumnCount())
	for i, c := range work.Columns() {
		missing[i] = make([]bool, c.Len())
		for row, v := range c.Values {
			missing[i][row] = dataset.IsMissing(v)
		}
		out = append(out, ColumnSummary{Name: c.Name, Missing: c.MissingCount()})
	}

	types := Classify(work)
	for i, c := range work.Columns() {
		s := &out[i]
		s.Type = types[c.Name]
		s.Distinct = countDistinct(c, missing[i])
		if s.Type != Numeric {
			continue
		}
		if st, ok := columnStats(c); ok {
			s.Min, s.Median, s.Max = &st.min, &st.median, &st.max
		}
	}
	return out
}

func countDistinct(c *dataset.Column, missing []bool) int {
	seen := make(map[string]struct{}, len(c.Values))
	for row, v := range c.Values {
		if missing[row] {
			continue
		}
		seen[stringValue(v)] = struct{}{}
	}
	return len(seen)
}
