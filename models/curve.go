package models

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/interp"
)

// ZeroCurve interpolates zero rates between pillars with a natural cubic
// spline. Outside the pillars the nearest pillar rate is used.
type ZeroCurve struct {
	Maturities []float64
	Rates      []float64

	spline interp.NaturalCubic
}

// NewZeroCurve fits a curve through (maturity, rate) pillars. Maturities are
// in years and must be strictly increasing.
func NewZeroCurve(maturities, rates []float64) (*ZeroCurve, error) {
	if len(maturities) != len(rates) {
		return nil, errors.Wrapf(ErrCurve, "%d maturities but %d rates", len(maturities), len(rates))
	}
	if len(maturities) < 2 {
		return nil, errors.Wrapf(ErrCurve, "need at least 2 pillars, got %d", len(maturities))
	}
	for i := range maturities {
		if !finite(maturities[i]) || !finite(rates[i]) {
			return nil, errors.Wrapf(ErrCurve, "pillar %d is not finite (t=%v, rate=%v)", i, maturities[i], rates[i])
		}
		if maturities[i] < 0 {
			return nil, errors.Wrapf(ErrCurve, "pillar %d has negative maturity %v", i, maturities[i])
		}
	}
	if !strictlyIncreasing(maturities) {
		return nil, errors.Wrap(ErrCurve, "maturities must be strictly increasing")
	}

	c := &ZeroCurve{
		Maturities: append([]float64(nil), maturities...),
		Rates:      append([]float64(nil), rates...),
	}
	if err := c.spline.Fit(c.Maturities, c.Rates); err != nil {
		return nil, errors.Wrapf(ErrCurve, "fit spline: %v", err)
	}
	return c, nil
}

func (c *ZeroCurve) ZeroRate(t float64) float64 {
	return c.spline.Predict(t)
}

// DiscountFactor returns e^{-z(t) t}.
func (c *ZeroCurve) DiscountFactor(t float64) float64 {
	return math.Exp(-c.ZeroRate(t) * t)
}

// FlatCurve is a term structure with the same zero rate at every maturity.
type FlatCurve float64

func (f FlatCurve) ZeroRate(float64) float64 { return float64(f) }

func (f FlatCurve) DiscountFactor(t float64) float64 {
	return math.Exp(-float64(f) * t)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func removeDuplicates(sorted []float64) []float64 {
	if len(sorted) == 0 {
		return sorted
	}
	result := []float64{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			result = append(result, sorted[i])
		}
	}
	return result
}
