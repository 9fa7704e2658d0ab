package pricers

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/bcdannyboy/optionpricer/instrument"
)

// Estimate is a Monte Carlo price together with its standard error.
type Estimate struct {
	Price   float64 `json:"price"`
	StdErr  float64 `json:"std_err"`
	Samples int     `json:"samples"`
}

// simulation draws n samples from rng and returns the undiscounted payoff
// statistics. It must not touch shared state other than the Contract.
type simulation func(ctx context.Context, rng *rand.Rand, n int) (accumulator, error)

type monteCarlo struct {
	kind     Kind
	contract *Contract
	settings settings
	simulate simulation
	// chunkable is false for estimators whose draws must come from one
	// sequence, such as a scrambled low-discrepancy set.
	chunkable bool
}

func newMonteCarlo(kind Kind, inst instrument.Instrument, valuation time.Time, opts []Option) (monteCarlo, error) {
	c, err := NewContract(inst, valuation)
	if err != nil {
		return monteCarlo{}, err
	}
	s := newSettings(opts)
	if s.workers < 1 {
		s.workers = 1
	}
	if s.chunkSize < 0 {
		s.chunkSize = 0
	}
	return monteCarlo{
		kind:      kind,
		contract:  c,
		settings:  s,
		chunkable: true,
	}, nil
}

func (m *monteCarlo) Name() string { return string(m.kind) }

// Calculate returns the discounted mean payoff over samples draws.
func (m *monteCarlo) Calculate(ctx context.Context, samples int) (float64, error) {
	est, err := m.Estimate(ctx, samples)
	if err != nil {
		return 0, err
	}
	return est.Price, nil
}

// Estimate prices the option with samples draws and reports the standard error.
func (m *monteCarlo) Estimate(ctx context.Context, samples int) (Estimate, error) {
	if samples <= 0 {
		return Estimate{}, errors.Wrapf(ErrInvalidSampleCount, "%s: got %d", m.kind, samples)
	}
	if err := ctx.Err(); err != nil {
		return Estimate{}, err
	}

	rng, release := m.settings.acquireRand()
	defer release()

	var (
		acc accumulator
		err error
	)
	if m.chunkable && m.settings.workers > 1 {
		acc, err = m.fanOut(ctx, rng, samples)
	} else {
		acc, err = m.simulate(ctx, rng, samples)
	}
	if err != nil {
		return Estimate{}, err
	}

	d := m.contract.Discount()
	price, stdErr := acc.mean()*d, acc.stdErr()*d
	if !finite(price) || !finite(stdErr) {
		return Estimate{}, errors.Wrapf(ErrNumerical, "%s: price=%v std_err=%v", m.kind, price, stdErr)
	}
	return Estimate{
		Price:   price,
		StdErr:  stdErr,
		Samples: samples,
	}, nil
}

// fanOut splits samples into chunks simulated concurrently, each from its own
// generator seeded by rng, and merges the partial sums.
func (m *monteCarlo) fanOut(ctx context.Context, rng *rand.Rand, samples int) (accumulator, error) {
	sizes := chunkSizes(samples, m.settings.workers, m.settings.chunkSize)
	seeds := make([]uint64, len(sizes))
	for i := range seeds {
		seeds[i] = rng.Uint64()
	}

	m.settings.logger.Debug("monte carlo fan-out",
		zap.String("pricer", string(m.kind)),
		zap.Int("samples", samples),
		zap.Int("chunks", len(sizes)),
		zap.Int("workers", m.settings.workers))

	partials := make([]accumulator, len(sizes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.workers)

	for i, size := range sizes {
		if gctx.Err() != nil {
			break
		}
		i, size := i, size
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			acc, err := m.simulate(gctx, rand.New(rand.NewSource(seeds[i])), size)
			if err != nil {
				return err
			}
			partials[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return accumulator{}, err
	}
	if err := ctx.Err(); err != nil {
		return accumulator{}, err
	}

	var total accumulator
	for _, p := range partials {
		total.merge(p)
	}
	return total, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func chunkSizes(samples, workers, chunkSize int) []int {
	if chunkSize <= 0 {
		chunkSize = (samples + workers - 1) / workers
	}
	sizes := make([]int, 0, (samples+chunkSize-1)/chunkSize)
	for remaining := samples; remaining > 0; remaining -= chunkSize {
		if remaining < chunkSize {
			sizes = append(sizes, remaining)
			break
		}
		sizes = append(sizes, chunkSize)
	}
	return sizes
}
