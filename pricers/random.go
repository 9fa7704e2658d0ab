package pricers

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

// The package-level source of x/exp/rand is deterministic, so pooled
// generators mix in the clock.
var rngPool = sync.Pool{
	New: func() interface{} {
		return rand.New(rand.NewSource(uint64(time.Now().UnixNano()) ^ rand.Uint64()))
	},
}

// acquireRand returns the generator for one call plus a release func. Seeded
// settings always restart the same stream; otherwise a pooled generator
// continues its own stream, giving fresh draws per call.
func (s settings) acquireRand() (*rand.Rand, func()) {
	if s.seeded {
		return rand.New(rand.NewSource(s.seed)), func() {}
	}
	rng := rngPool.Get().(*rand.Rand)
	return rng, func() { rngPool.Put(rng) }
}

func fillNormals(rng *rand.Rand, dst []float64) {
	for i := range dst {
		dst[i] = rng.NormFloat64()
	}
}
