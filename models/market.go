// Package models holds the market data a pricer is parameterized with: a
// zero-rate term structure and an implied volatility surface. Both are built
// in memory from points the caller supplies.
package models

import (
	"time"

	"github.com/pkg/errors"

	"github.com/bcdannyboy/optionpricer/instrument"
	"github.com/bcdannyboy/optionpricer/pricers"
)

var (
	ErrCurve   = errors.New("invalid term structure")
	ErrSurface = errors.New("invalid volatility surface")
)

// TermStructure returns continuously compounded zero rates by maturity in
// years.
type TermStructure interface {
	ZeroRate(t float64) float64
	DiscountFactor(t float64) float64
}

// VolSurface returns the implied volatility for a strike and a maturity in
// years.
type VolSurface interface {
	ImpliedVol(strike, t float64) float64
}

// SampleInstrument reads the rate and volatility for spec's maturity off the
// market data and builds the instrument. A nil curve or surface leaves the
// corresponding field of spec untouched.
func SampleInstrument(spec instrument.Spec, curve TermStructure, surface VolSurface, valuation time.Time) (instrument.Instrument, error) {
	days := instrument.DaysBetween(valuation, spec.Maturity)
	if days <= 0 {
		return instrument.Instrument{}, errors.Wrapf(pricers.ErrMaturity, "maturity %s is %d days from valuation date %s",
			spec.Maturity.Format(instrument.MaturityLayout), days, valuation.Format(instrument.MaturityLayout))
	}
	t := float64(days) / pricers.YearFraction

	if curve != nil {
		spec.Rate = curve.ZeroRate(t)
	}
	if surface != nil {
		spec.Volatility = surface.ImpliedVol(spec.Strike, t)
	}
	return instrument.New(spec)
}
