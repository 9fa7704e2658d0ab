package pricers

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/samplemv"

	"github.com/bcdannyboy/optionpricer/instrument"
)

// QuasiMonteCarlo replaces pseudo-random draws with a one-dimensional
// Owen-scrambled Halton sequence (base 2) mapped through the normal inverse
// CDF. The scramble is redrawn on every call. Sample counts that are powers
// of two give the best balance; other counts are accepted with a warning.
type QuasiMonteCarlo struct {
	monteCarlo
	warnOnce sync.Once
}

func NewQuasiMonteCarlo(inst instrument.Instrument, valuation time.Time, opts ...Option) (*QuasiMonteCarlo, error) {
	mc, err := newMonteCarlo(KindQuasi, inst, valuation, opts)
	if err != nil {
		return nil, err
	}
	p := &QuasiMonteCarlo{monteCarlo: mc}
	p.simulate = p.run
	p.chunkable = false
	return p, nil
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func (p *QuasiMonteCarlo) run(_ context.Context, rng *rand.Rand, n int) (accumulator, error) {
	if !IsPowerOfTwo(n) {
		p.warnOnce.Do(func() {
			p.settings.logger.Warn("quasi monte carlo sample count is not a power of two",
				zap.Int("samples", n))
		})
	}

	batch := mat.NewDense(n, 1, nil)
	samplemv.Halton{
		Kind: samplemv.Owen,
		Q:    unitNormalQuantiler{},
		Src:  rand.NewSource(rng.Uint64()),
	}.Sample(batch)

	z := batch.RawMatrix().Data
	p.contract.payoffs(z)

	var acc accumulator
	acc.addBatch(z)
	return acc, nil
}

// unitNormalQuantiler maps points of the unit interval to standard normal space.
type unitNormalQuantiler struct{}

func (unitNormalQuantiler) Quantile(x, p []float64) []float64 {
	if x == nil {
		x = make([]float64, len(p))
	}
	for i, u := range p {
		x[i] = distuv.UnitNormal.Quantile(openUnit(u))
	}
	return x
}

// openUnit keeps u strictly inside (0, 1) so the quantile stays finite.
func openUnit(u float64) float64 {
	const eps = 1e-16
	return math.Min(math.Max(u, eps), 1-eps)
}
