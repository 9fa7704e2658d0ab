// Package benchmark times pricers against each other and reports the mean
// runtime and price of each.
package benchmark

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/bcdannyboy/optionpricer/pricers"
)

// DefaultIterations is the number of timed calls per pricer when the caller
// passes no explicit count.
const DefaultIterations = 1000

// Decimals is the precision reported times and prices are rounded to.
const Decimals = 6

var ErrInvalidIterations = errors.New("iterations must be positive")

// Result summarizes one pricer's run. Time is mean seconds per call.
type Result struct {
	Time   float64 `json:"time"`
	Price  float64 `json:"price"`
	StdDev float64 `json:"std_dev"`
}

// Report maps pricer names to their results.
type Report map[string]Result

// Errors returns the absolute difference between each price and reference.
func (r Report) Errors(reference float64) map[string]float64 {
	out := make(map[string]float64, len(r))
	for name, res := range r {
		diff := decimal.NewFromFloat(res.Price).Sub(decimal.NewFromFloat(reference)).Abs()
		out[name] = diff.Round(Decimals).InexactFloat64()
	}
	return out
}

type options struct {
	hook     func(name string, iteration int)
	logger   *zap.Logger
	parallel bool
}

type Option func(*options)

// WithIterationHook calls fn after every completed iteration. Under
// WithParallel fn is called from several goroutines.
func WithIterationHook(fn func(name string, iteration int)) Option {
	return func(o *options) { o.hook = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithParallel runs the pricers of a Compare call concurrently. Timings then
// include contention between them.
func WithParallel(parallel bool) Option {
	return func(o *options) { o.parallel = parallel }
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Run calls p.Calculate iterations times and returns the mean time and price.
// The first failing call aborts the run.
func Run(ctx context.Context, p pricers.Pricer, samples, iterations int, opts ...Option) (Result, error) {
	return run(ctx, p, samples, iterations, newOptions(opts))
}

func run(ctx context.Context, p pricers.Pricer, samples, iterations int, o options) (Result, error) {
	if iterations <= 0 {
		return Result{}, errors.Wrapf(ErrInvalidIterations, "got %d", iterations)
	}

	name := p.Name()
	prices := make([]float64, iterations)
	var elapsed time.Duration

	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		start := time.Now()
		price, err := p.Calculate(ctx, samples)
		elapsed += time.Since(start)
		if err != nil {
			return Result{}, errors.Wrapf(err, "%s iteration %d", name, i)
		}
		prices[i] = price
		if o.hook != nil {
			o.hook(name, i)
		}
	}

	mean, std := stat.MeanStdDev(prices, nil)
	if iterations == 1 {
		std = 0
	}
	perCall := elapsed.Seconds() / float64(iterations)

	o.logger.Debug("benchmark finished",
		zap.String("pricer", name),
		zap.Int("samples", samples),
		zap.Int("iterations", iterations),
		zap.Duration("elapsed", elapsed),
		zap.Float64("price", mean))

	return Result{
		Time:   round(perCall),
		Price:  round(mean),
		StdDev: round(std),
	}, nil
}

// Compare runs every pricer and collects the results by name.
func Compare(ctx context.Context, ps []pricers.Pricer, samples, iterations int, opts ...Option) (Report, error) {
	o := newOptions(opts)
	if iterations <= 0 {
		return nil, errors.Wrapf(ErrInvalidIterations, "got %d", iterations)
	}

	report := make(Report, len(ps))
	if !o.parallel {
		for _, p := range ps {
			res, err := run(ctx, p, samples, iterations, o)
			if err != nil {
				return nil, err
			}
			report[p.Name()] = res
		}
		return report, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range ps {
		p := p
		g.Go(func() error {
			res, err := run(gctx, p, samples, iterations, o)
			if err != nil {
				return err
			}
			mu.Lock()
			report[p.Name()] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func round(x float64) float64 {
	return decimal.NewFromFloat(x).Round(Decimals).InexactFloat64()
}
