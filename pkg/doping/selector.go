package doping

import (
	"math"

	"go.uber.org/zap"
)

const (
	// laplaceLocation and laplaceScale shape the per-row column count:
	// most rows get one or two columns, a few get many.
	laplaceLocation = 1.0
	laplaceScale    = 10.0

	// maxColumnCountDraws bounds the rejection loop. With min == max far from
	// the Laplace mode each draw still lands in range with probability > 0,
	// but nothing else keeps the loop finite.
	maxColumnCountDraws = 10000
)

// Selector picks the rows and, per row, the columns a transform modifies.
// Rows and columns are both drawn with replacement.
type Selector struct {
	rnd     *randSource
	rows    int
	columns []string
	minCols int
	maxCols int
	logger  *zap.Logger
}

func newSelector(rnd *randSource, rows int, columns []string, minCols, maxCols int, logger *zap.Logger) *Selector {
	return &Selector{
		rnd:     rnd,
		rows:    rows,
		columns: columns,
		minCols: minCols,
		maxCols: maxCols,
		logger:  logger,
	}
}

// Rows draws n row indices uniformly from [0, rows). Duplicates are kept.
func (s *Selector) Rows(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = s.rnd.IntN(s.rows)
	}
	return out
}

// ColumnCount draws the number of columns to modify for one row:
// trunc(|Laplace(1, 10)|), redrawn until it falls in [minCols, maxCols].
func (s *Selector) ColumnCount() int {
	for i := 0; i < maxColumnCountDraws; i++ {
		n := int(math.Abs(s.rnd.Laplace(laplaceLocation, laplaceScale)))
		if n >= s.minCols && n <= s.maxCols {
			return n
		}
	}

	n := s.minCols + s.rnd.IntN(s.maxCols-s.minCols+1)
	s.logger.Warn("column count rejection sampling exhausted, drawing uniformly",
		zap.Int("min_cols", s.minCols),
		zap.Int("max_cols", s.maxCols),
		zap.Int("draws", maxColumnCountDraws),
		zap.Int("columns", n))
	return n
}

// Columns draws n column names uniformly. The same column may appear twice.
func (s *Selector) Columns(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s.columns[s.rnd.IntN(len(s.columns))]
	}
	return out
}
