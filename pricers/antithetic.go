package pricers

import (
	"context"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	"github.com/bcdannyboy/optionpricer/instrument"
)

// Antithetic pairs every draw Z with -Z and averages the two payoffs before
// accumulating, so n samples evaluate 2n terminal prices.
type Antithetic struct {
	monteCarlo
}

func NewAntithetic(inst instrument.Instrument, valuation time.Time, opts ...Option) (*Antithetic, error) {
	mc, err := newMonteCarlo(KindAntithetic, inst, valuation, opts)
	if err != nil {
		return nil, err
	}
	p := &Antithetic{monteCarlo: mc}
	p.simulate = p.run
	return p, nil
}

func (p *Antithetic) run(_ context.Context, rng *rand.Rand, n int) (accumulator, error) {
	z := make([]float64, n)
	fillNormals(rng, z)
	mirrored := floats.ScaleTo(make([]float64, n), -1, z)

	p.contract.payoffs(z)
	p.contract.payoffs(mirrored)
	floats.Add(z, mirrored)
	floats.Scale(0.5, z)

	var acc accumulator
	acc.addBatch(z)
	return acc, nil
}
