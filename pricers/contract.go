package pricers

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/bcdannyboy/optionpricer/instrument"
)

// YearFraction is the Actual/365 day-count denominator.
const YearFraction = 365.0

// Contract holds the quantities every pricer derives from an instrument at
// construction. It is never mutated afterwards and is safe to share between
// goroutines.
type Contract struct {
	S     float64
	K     float64
	R     float64
	Q     float64
	Sigma float64
	T     float64
	Type  instrument.OptionType

	Valuation time.Time
	Maturity  time.Time

	sqrtT     float64
	drift     float64 // (r - q - sigma^2/2) T
	diffusion float64 // sigma sqrt(T)
	discount  float64 // e^{-rT}
	payoff    func(sT float64) float64
}

// NewContract validates inst against the valuation date and binds its payoff.
func NewContract(inst instrument.Instrument, valuation time.Time) (*Contract, error) {
	spec := inst.Spec()
	if _, err := instrument.New(spec); err != nil {
		return nil, err
	}

	days := instrument.DaysBetween(valuation, spec.Maturity)
	if days <= 0 {
		return nil, errors.Wrapf(ErrMaturity, "maturity %s is %d days from valuation date %s",
			spec.Maturity.Format(instrument.MaturityLayout), days, valuation.Format(instrument.MaturityLayout))
	}
	T := float64(days) / YearFraction

	payoff, err := payoffFor(spec.Type, spec.Strike)
	if err != nil {
		return nil, err
	}

	c := &Contract{
		S:         spec.UnderlyingPrice,
		K:         spec.Strike,
		R:         spec.Rate,
		Q:         spec.Dividend,
		Sigma:     spec.Volatility,
		T:         T,
		Type:      spec.Type,
		Valuation: valuation,
		Maturity:  spec.Maturity,
		sqrtT:     math.Sqrt(T),
		payoff:    payoff,
	}
	c.drift = (c.R - c.Q - 0.5*c.Sigma*c.Sigma) * T
	c.diffusion = c.Sigma * c.sqrtT
	c.discount = math.Exp(-c.R * T)
	return c, nil
}

func payoffFor(t instrument.OptionType, strike float64) (func(float64) float64, error) {
	switch t {
	case instrument.Call:
		return func(sT float64) float64 { return math.Max(sT-strike, 0) }, nil
	case instrument.Put:
		return func(sT float64) float64 { return math.Max(strike-sT, 0) }, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedInstrument, "option type %d is neither call nor put", int(t))
}

// Payoff evaluates the bound payoff at a terminal underlying price.
func (c *Contract) Payoff(sT float64) float64 { return c.payoff(sT) }

// TerminalPrice maps a standard normal draw to S_T under risk-neutral GBM.
func (c *Contract) TerminalPrice(z float64) float64 {
	return c.S * math.Exp(c.drift+c.diffusion*z)
}

// Discount returns e^{-rT}.
func (c *Contract) Discount() float64 { return c.discount }

func (c *Contract) SqrtT() float64 { return c.sqrtT }

// Forward returns S e^{(r-q)T}.
func (c *Contract) Forward() float64 { return c.S * math.Exp((c.R-c.Q)*c.T) }

// payoffs overwrites each standard normal draw in zs with the payoff of the
// terminal price it maps to.
func (c *Contract) payoffs(zs []float64) {
	floats.Scale(c.diffusion, zs)
	floats.AddConst(c.drift, zs)
	for i, x := range zs {
		zs[i] = c.payoff(c.S * math.Exp(x))
	}
}
