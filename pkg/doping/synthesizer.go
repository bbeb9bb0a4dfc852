package doping

import (
	"strconv"

	"github.com/ajitpratap0/dopant/pkg/dataset"
)

const (
	// NewValuePrefix starts every novel categorical token
	NewValuePrefix = "NEW VALUE"

	// novelProbability gates the novel branch for each cell
	novelProbability = 0.5
)

// synthesis is the outcome for one cell
type synthesis struct {
	value interface{}
	novel bool
}

// Synthesizer produces replacement values for single cells. It owns the
// novel-value counter, so one Synthesizer serves exactly one transform call.
type Synthesizer struct {
	rnd                 *randSource
	allowNewCategorical bool
	allowNewNumeric     bool
	counter             int
}

func newSynthesizer(rnd *randSource, allowNewCategorical, allowNewNumeric bool) *Synthesizer {
	return &Synthesizer{
		rnd:                 rnd,
		allowNewCategorical: allowNewCategorical,
		allowNewNumeric:     allowNewNumeric,
		counter:             1,
	}
}

// Synthesize returns a replacement for c.Values[row]. The boolean is false
// when the cell must be skipped: a numeric column with no present values.
func (s *Synthesizer) Synthesize(c *dataset.Column, typ ColumnType, row int) (synthesis, bool) {
	if typ == Categorical {
		return s.categorical(c, row), true
	}
	return s.numeric(c, row)
}

func (s *Synthesizer) categorical(c *dataset.Column, row int) synthesis {
	if s.allowNewCategorical && s.rnd.Float64() < novelProbability {
		token := NewValuePrefix + strconv.Itoa(s.counter)
		s.counter++
		return synthesis{value: token, novel: true}
	}

	current := stringValue(c.Values[row])
	candidates := distinctValues(c)
	if len(candidates) > 1 {
		filtered := candidates[:0]
		for _, v := range candidates {
			if v != current {
				filtered = append(filtered, v)
			}
		}
		candidates = filtered
	}
	return synthesis{value: candidates[s.rnd.IntN(len(candidates))]}
}

func (s *Synthesizer) numeric(c *dataset.Column, row int) (synthesis, bool) {
	st, ok := columnStats(c)
	if !ok {
		return synthesis{}, false
	}

	if s.allowNewNumeric && s.rnd.Float64() < novelProbability {
		return synthesis{value: st.max + s.rnd.Uniform(0, 1)*(st.max-st.min), novel: true}, true
	}

	current, present := numberValue(c.Values[row])
	var v float64
	if present && current < st.median {
		v = s.rnd.Uniform(st.median, st.max)
	} else {
		v = s.rnd.Uniform(st.min, st.median)
	}
	if present && v == current {
		v = s.rnd.Uniform(st.min, st.max)
	}
	return synthesis{value: v}, true
}
