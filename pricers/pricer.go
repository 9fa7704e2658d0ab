package pricers

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bcdannyboy/optionpricer/instrument"
)

// Pricer is implemented by every valuation strategy. Closed-form pricers
// ignore samples.
type Pricer interface {
	Name() string
	Calculate(ctx context.Context, samples int) (float64, error)
}

// DefaultBatchSize is the streaming batch size used when none is configured.
const DefaultBatchSize = 10_000

type Kind string

const (
	KindClosedForm Kind = "closed_form"
	KindClassic    Kind = "monte_carlo"
	KindAntithetic Kind = "antithetic"
	KindQuasi      Kind = "quasi_monte_carlo"
	KindStreaming  Kind = "streaming"
)

// Kinds lists every strategy in reporting order.
var Kinds = []Kind{KindClosedForm, KindClassic, KindAntithetic, KindQuasi, KindStreaming}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "closed_form", "closed-form", "black_scholes", "bs":
		return KindClosedForm, nil
	case "monte_carlo", "classic", "mc":
		return KindClassic, nil
	case "antithetic":
		return KindAntithetic, nil
	case "quasi_monte_carlo", "qmc", "quasi":
		return KindQuasi, nil
	case "streaming", "lazy":
		return KindStreaming, nil
	}
	return "", errors.Errorf("unknown pricer kind %q", s)
}

// New builds the pricer of the given kind for inst as of valuation.
func New(kind Kind, inst instrument.Instrument, valuation time.Time, opts ...Option) (Pricer, error) {
	var (
		p   Pricer
		err error
	)
	switch kind {
	case KindClosedForm:
		var bs *BlackScholes
		bs, err = NewBlackScholes(inst, valuation)
		p = bs
	case KindClassic:
		var mc *Classic
		mc, err = NewClassic(inst, valuation, opts...)
		p = mc
	case KindAntithetic:
		var mc *Antithetic
		mc, err = NewAntithetic(inst, valuation, opts...)
		p = mc
	case KindQuasi:
		var mc *QuasiMonteCarlo
		mc, err = NewQuasiMonteCarlo(inst, valuation, opts...)
		p = mc
	case KindStreaming:
		var mc *Streaming
		mc, err = NewStreaming(inst, valuation, opts...)
		p = mc
	default:
		return nil, errors.Errorf("unknown pricer kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

type settings struct {
	seed      uint64
	seeded    bool
	workers   int
	chunkSize int
	batchSize int
	logger    *zap.Logger
}

func newSettings(opts []Option) settings {
	s := settings{
		workers:   1,
		batchSize: DefaultBatchSize,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

type Option func(*settings)

// WithSeed makes every call draw from a source seeded with seed, so repeated
// calls return identical estimates.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.seed = seed
		s.seeded = true
	}
}

// WithWorkers splits simulations across n goroutines. Values below 2 keep
// the simulation on the calling goroutine.
func WithWorkers(n int) Option {
	return func(s *settings) { s.workers = n }
}

// WithChunkSize sets the number of draws per parallel chunk. Zero divides the
// sample count evenly between workers.
func WithChunkSize(n int) Option {
	return func(s *settings) { s.chunkSize = n }
}

// WithBatchSize sets the streaming batch size.
func WithBatchSize(n int) Option {
	return func(s *settings) { s.batchSize = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
