package pricers

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/bcdannyboy/optionpricer/instrument"
)

// BlackScholes prices European options with the Black-Scholes-Merton formula
// under a continuous dividend yield.
type BlackScholes struct {
	contract *Contract
}

func NewBlackScholes(inst instrument.Instrument, valuation time.Time) (*BlackScholes, error) {
	c, err := NewContract(inst, valuation)
	if err != nil {
		return nil, err
	}
	return &BlackScholes{contract: c}, nil
}

func (b *BlackScholes) Name() string { return string(KindClosedForm) }

// Calculate ignores samples; the closed form is exact.
func (b *BlackScholes) Calculate(_ context.Context, _ int) (float64, error) {
	return b.Price()
}

// D1D2 returns the standardized moneyness terms of the formula.
func (b *BlackScholes) D1D2() (float64, float64, error) {
	c := b.contract
	volT := c.Sigma * c.sqrtT
	if volT == 0 {
		return 0, 0, errors.Wrapf(ErrNumerical, "sigma*sqrt(T) is zero (sigma=%v, T=%v)", c.Sigma, c.T)
	}

	d1 := (math.Log(c.S/c.K) + (c.R-c.Q+0.5*c.Sigma*c.Sigma)*c.T) / volT
	d2 := d1 - volT

	// S == 0 drives d1 to -Inf legitimately; anything else non-finite is an
	// underflow in sigma*sqrt(T).
	if math.IsNaN(d1) || math.IsNaN(d2) {
		return 0, 0, errors.Wrapf(ErrNumerical, "d1=%v d2=%v", d1, d2)
	}
	if c.S > 0 && (math.IsInf(d1, 0) || math.IsInf(d2, 0)) {
		return 0, 0, errors.Wrapf(ErrNumerical, "d1=%v d2=%v overflow (sigma*sqrt(T)=%v)", d1, d2, volT)
	}
	return d1, d2, nil
}

func (b *BlackScholes) Price() (float64, error) {
	d1, d2, err := b.D1D2()
	if err != nil {
		return 0, err
	}

	c := b.contract
	spot := c.S * math.Exp(-c.Q*c.T)
	strike := c.K * c.discount

	var price float64
	switch c.Type {
	case instrument.Call:
		price = spot*distuv.UnitNormal.CDF(d1) - strike*distuv.UnitNormal.CDF(d2)
	case instrument.Put:
		price = -spot*distuv.UnitNormal.CDF(-d1) + strike*distuv.UnitNormal.CDF(-d2)
	default:
		return 0, errors.Wrapf(ErrUnsupportedInstrument, "option type %d", int(c.Type))
	}

	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, errors.Wrapf(ErrNumerical, "price=%v", price)
	}
	return price, nil
}
