package doping

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// randSource is the single random stream of one transform call. Every draw,
// including the gonum distributions, consumes the same PCG state, so a seed
// fixes the whole call.
type randSource struct {
	src rand.Source
	rng *rand.Rand
}

func newRandSource(seed int64) *randSource {
	var src rand.Source
	if seed >= 0 {
		src = rand.NewPCG(uint64(seed), uint64(seed))
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &randSource{src: src, rng: rand.New(src)}
}

// Float64 returns a value in [0, 1)
func (r *randSource) Float64() float64 { return r.rng.Float64() }

// IntN returns a value in [0, n)
func (r *randSource) IntN(n int) int { return r.rng.IntN(n) }

// Laplace draws from a Laplace distribution
func (r *randSource) Laplace(mu, scale float64) float64 {
	return distuv.Laplace{Mu: mu, Scale: scale, Src: r.src}.Rand()
}

// Uniform draws from [lo, hi]
func (r *randSource) Uniform(lo, hi float64) float64 {
	if lo == hi {
		return lo
	}
	return distuv.Uniform{Min: lo, Max: hi, Src: r.src}.Rand()
}
