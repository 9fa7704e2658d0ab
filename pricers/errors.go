package pricers

import (
	"github.com/pkg/errors"

	"github.com/bcdannyboy/optionpricer/instrument"
)

var (
	// ErrValidation is the instrument package's validation kind, re-exported so
	// callers only need to import pricers.
	ErrValidation = instrument.ErrValidation

	ErrUnsupportedInstrument = errors.New("unsupported instrument")
	ErrMaturity              = errors.New("time to maturity must be positive")
	ErrInvalidSampleCount    = errors.New("sample count must be positive")
	ErrInvalidBatchSize      = errors.New("batch size must be positive")
	ErrNumerical             = errors.New("numerical degeneracy")
)
