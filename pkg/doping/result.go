package doping

import (
	"github.com/ajitpratap0/dopant/pkg/dataset"
)

// ScoreColumn is the column WithScoreColumn appends
const ScoreColumn = "OUTLIER SCORE"

// Result is the outcome of a successful transform
type Result struct {
	// Dataset is the mutated working copy
	Dataset *dataset.Dataset
	// Scores holds one outlier score per row, in row order
	Scores []int
	// Events lists every synthesized cell in the order it was applied
	Events []Event
	// ColumnTypes is the classification used for the call
	ColumnTypes ColumnTypes
	// Skipped counts selected cells left alone (all-missing numeric column)
	Skipped int
}

// ModifiedRows returns the indices of rows with a non-zero score, ascending
func (r *Result) ModifiedRows() []int {
	out := make([]int, 0)
	for i, s := range r.Scores {
		if s > 0 {
			out = append(out, i)
		}
	}
	return out
}

// EventsForRow returns the events applied to one row
func (r *Result) EventsForRow(row int) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Row == row {
			out = append(out, e)
		}
	}
	return out
}

// WithScoreColumn returns a copy of the mutated dataset with the scores
// appended as an int64 column named ScoreColumn. An existing column of that
// name is overwritten in place.
func (r *Result) WithScoreColumn() (*dataset.Dataset, error) {
	out := r.Dataset.Clone()
	values := make([]interface{}, len(r.Scores))
	for i, s := range r.Scores {
		values[i] = int64(s)
	}

	if c, ok := out.Column(ScoreColumn); ok {
		c.Values = values
		return out, nil
	}
	if err := out.AddColumn(ScoreColumn, values); err != nil {
		return nil, err
	}
	return out, nil
}
