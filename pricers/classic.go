package pricers

import (
	"context"
	"time"

	"golang.org/x/exp/rand"

	"github.com/bcdannyboy/optionpricer/instrument"
)

// Classic is plain Monte Carlo over independent pseudo-random draws.
type Classic struct {
	monteCarlo
}

func NewClassic(inst instrument.Instrument, valuation time.Time, opts ...Option) (*Classic, error) {
	mc, err := newMonteCarlo(KindClassic, inst, valuation, opts)
	if err != nil {
		return nil, err
	}
	p := &Classic{monteCarlo: mc}
	p.simulate = p.run
	return p, nil
}

func (p *Classic) run(_ context.Context, rng *rand.Rand, n int) (accumulator, error) {
	z := make([]float64, n)
	fillNormals(rng, z)
	p.contract.payoffs(z)

	var acc accumulator
	acc.addBatch(z)
	return acc, nil
}
