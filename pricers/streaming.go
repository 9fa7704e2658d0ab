package pricers

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/bcdannyboy/optionpricer/instrument"
)

// Streaming consumes normal draws in fixed-size batches and keeps only a
// running sum, so peak memory is bounded by the batch size rather than the
// sample count.
type Streaming struct {
	monteCarlo
}

func NewStreaming(inst instrument.Instrument, valuation time.Time, opts ...Option) (*Streaming, error) {
	mc, err := newMonteCarlo(KindStreaming, inst, valuation, opts)
	if err != nil {
		return nil, err
	}
	if mc.settings.batchSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidBatchSize, "got %d", mc.settings.batchSize)
	}
	p := &Streaming{monteCarlo: mc}
	p.simulate = p.run
	return p, nil
}

func (p *Streaming) BatchSize() int { return p.settings.batchSize }

func (p *Streaming) run(ctx context.Context, rng *rand.Rand, n int) (accumulator, error) {
	stream := newBatchStream(rng, p.settings.batchSize, n)

	var acc accumulator
	for batch := stream.Next(); batch != nil; batch = stream.Next() {
		if err := ctx.Err(); err != nil {
			return accumulator{}, err
		}
		p.contract.payoffs(batch)
		acc.addBatch(batch)
	}
	return acc, nil
}

// batchStream yields batches of standard normal draws until exactly n draws
// have been handed out. The returned slice is reused by the next call.
type batchStream struct {
	rng       *rand.Rand
	buf       []float64
	remaining int
}

func newBatchStream(rng *rand.Rand, batchSize, n int) *batchStream {
	if batchSize > n {
		batchSize = n
	}
	return &batchStream{
		rng:       rng,
		buf:       make([]float64, batchSize),
		remaining: n,
	}
}

// Next returns the next batch, truncated when it would overshoot, or nil once
// the stream is exhausted.
func (s *batchStream) Next() []float64 {
	if s.remaining <= 0 {
		return nil
	}
	fillNormals(s.rng, s.buf)
	batch := s.buf
	if len(batch) > s.remaining {
		batch = batch[:s.remaining]
	}
	s.remaining -= len(batch)
	return batch
}
