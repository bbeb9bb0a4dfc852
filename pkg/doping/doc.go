// Package doping injects synthetic, quantifiable anomalies into a tabular
// dataset so outlier detectors can be scored against a known ground truth.
//
// A transform copies the input dataset, classifies every column as
// Categorical or Numeric, draws rows (with replacement) and, for each drawn
// row, a heavy-tailed number of columns (also with replacement). Each selected
// cell is replaced by a synthesized value:
//
//   - Categorical: a brand-new token ("NEW VALUE1", "NEW VALUE2", ...) or a
//     different value already present in the column.
//   - Numeric: a value above the column maximum, or a value on the other side
//     of the column median.
//
// Every replacement adds to its row's outlier score: 2 for a novel value, 1
// for a value drawn from the existing range or value set. Rows never drawn
// keep a score of 0 and their original content.
//
// # Basic Usage
//
//	opts := doping.DefaultOptions()
//	opts.NumRowsToModify = 25
//	opts.RandomState = 42
//
//	result, err := doping.NewTransformer(doping.WithLogger(log)).Transform(ctx, ds, opts)
//	if errors.Is(err, doping.ErrInvalidOptions) {
//	    // nothing was modified
//	}
//	scored, _ := result.WithScoreColumn()
//
// # Statistics
//
// Column statistics (distinct values, min, max, median) are read from the
// working copy at the moment each cell is synthesized, so an early mutation
// of a column shifts the bounds seen by later mutations of the same column.
//
// # Duplicate Selection
//
// A row drawn twice gets two independent modification passes, and a column
// drawn twice for the same row is synthesized and scored twice, the second
// time starting from the first replacement.
package doping
