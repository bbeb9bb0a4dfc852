package doping

// Scorer accumulates per-row outlier scores. It is the only writer of the
// score vector and never decrements it.
type Scorer struct {
	scores []int
}

// NewScorer creates a scorer for a dataset with the given row count
func NewScorer(rows int) *Scorer {
	return &Scorer{scores: make([]int, rows)}
}

// Record adds the event's weight to its row: 2 when novel, 1 otherwise
func (s *Scorer) Record(e Event) {
	s.scores[e.Row] += e.Weight()
}

// Scores returns a copy of the score vector
func (s *Scorer) Scores() []int {
	out := make([]int, len(s.scores))
	copy(out, s.scores)
	return out
}
