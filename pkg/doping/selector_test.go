package doping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestSelectorRows(t *testing.T) {
	s := newSelector(newRandSource(1), 7, []string{"a"}, 1, 1, zaptest.NewLogger(t))
	rows := s.Rows(50)

	assert.Len(t, rows, 50)
	for _, r := range rows {
		assert.GreaterOrEqual(t, r, 0)
		assert.Less(t, r, 7)
	}
}

func TestSelectorRowsWithReplacement(t *testing.T) {
	// 20 draws from 3 rows: some row is drawn at least 7 times
	s := newSelector(newRandSource(3), 3, []string{"a"}, 1, 1, zaptest.NewLogger(t))
	seen := map[int]int{}
	most := 0
	for _, r := range s.Rows(20) {
		seen[r]++
		if seen[r] > most {
			most = seen[r]
		}
	}
	assert.GreaterOrEqual(t, most, 7)
}

func TestSelectorColumnCountWithinBounds(t *testing.T) {
	cols := []string{"a", "b", "c", "d", "e", "f"}
	tests := []struct {
		name     string
		min, max int
	}{
		{"full range", 1, 6},
		{"single", 1, 1},
		{"upper band", 4, 6},
		{"pinned high", 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSelector(newRandSource(11), 10, cols, tt.min, tt.max, zaptest.NewLogger(t))
			for i := 0; i < 200; i++ {
				n := s.ColumnCount()
				assert.GreaterOrEqual(t, n, tt.min)
				assert.LessOrEqual(t, n, tt.max)
			}
		})
	}
}

func TestSelectorColumnCountFarFromMode(t *testing.T) {
	// min == max == 400 is far in the Laplace tail; the bounded loop must
	// still return the only legal answer
	cols := make([]string, 400)
	for i := range cols {
		cols[i] = "c"
	}
	s := newSelector(newRandSource(5), 1, cols, 400, 400, zaptest.NewLogger(t))
	assert.Equal(t, 400, s.ColumnCount())
}

func TestSelectorColumnsDrawFromSet(t *testing.T) {
	cols := []string{"a", "b"}
	s := newSelector(newRandSource(9), 10, cols, 1, 2, zaptest.NewLogger(t))

	picked := s.Columns(30)
	assert.Len(t, picked, 30)
	for _, c := range picked {
		assert.Contains(t, cols, c)
	}
}

func TestSelectorIsDeterministicPerSeed(t *testing.T) {
	cols := []string{"a", "b", "c"}
	draw := func() ([]int, int, []string) {
		s := newSelector(newRandSource(42), 100, cols, 1, 3, zaptest.NewLogger(t))
		return s.Rows(5), s.ColumnCount(), s.Columns(4)
	}
	r1, n1, c1 := draw()
	r2, n2, c2 := draw()
	assert.Equal(t, r1, r2)
	assert.Equal(t, n1, n2)
	assert.Equal(t, c1, c2)
}
