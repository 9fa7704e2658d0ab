package pricers

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/bcdannyboy/optionpricer/instrument"
)

// Greeks are the closed-form sensitivities of the option price. Theta is per
// year; vega and rho are per unit change in sigma and r.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

func (b *BlackScholes) Greeks() (Greeks, error) {
	d1, d2, err := b.D1D2()
	if err != nil {
		return Greeks{}, err
	}
	if b.contract.S == 0 {
		return Greeks{}, errors.Wrap(ErrNumerical, "greeks are undefined at zero spot")
	}

	c := b.contract
	n := distuv.UnitNormal
	carry := math.Exp(-c.Q * c.T)
	pdf := n.Prob(d1)

	g := Greeks{
		Gamma: carry * pdf / (c.S * c.Sigma * c.sqrtT),
		Vega:  c.S * carry * pdf * c.sqrtT,
	}
	decay := -c.S * carry * pdf * c.Sigma / (2 * c.sqrtT)

	switch c.Type {
	case instrument.Call:
		g.Delta = carry * n.CDF(d1)
		g.Theta = decay - c.R*c.K*c.discount*n.CDF(d2) + c.Q*c.S*carry*n.CDF(d1)
		g.Rho = c.K * c.T * c.discount * n.CDF(d2)
	case instrument.Put:
		g.Delta = -carry * n.CDF(-d1)
		g.Theta = decay + c.R*c.K*c.discount*n.CDF(-d2) - c.Q*c.S*carry*n.CDF(-d1)
		g.Rho = -c.K * c.T * c.discount * n.CDF(-d2)
	default:
		return Greeks{}, errors.Wrapf(ErrUnsupportedInstrument, "option type %d", int(c.Type))
	}
	return g, nil
}
