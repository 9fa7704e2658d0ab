package pricers

import (
	"math"
	"testing"
	"time"

	"github.com/bcdannyboy/optionpricer/instrument"
)

// valuationDate sits exactly 365 days before the 04/22/2025 maturity, so T = 1.
var valuationDate = time.Date(2024, time.April, 22, 10, 0, 0, 0, time.UTC)

// Reference prices for S=150, K=100, r=0.10, q=0.04, sigma=0.20, T=1,
// computed independently from the closed form with erfc.
const (
	referenceCall = 53.71152949408672
	referencePut  = 0.07685542483417662
)

func scenarioSpec(t *testing.T, typ instrument.OptionType) instrument.Spec {
	t.Helper()
	maturity, err := instrument.ParseMaturity("04/22/2025")
	if err != nil {
		t.Fatalf("ParseMaturity: %v", err)
	}
	return instrument.Spec{
		UnderlyingPrice: 150,
		Rate:            0.10,
		Volatility:      0.20,
		Maturity:        maturity,
		Strike:          100,
		Dividend:        0.04,
		Type:            typ,
	}
}

func mustInstrument(t *testing.T, spec instrument.Spec) instrument.Instrument {
	t.Helper()
	inst, err := instrument.New(spec)
	if err != nil {
		t.Fatalf("instrument.New: %v", err)
	}
	return inst
}

func scenario(t *testing.T, typ instrument.OptionType) instrument.Instrument {
	t.Helper()
	return mustInstrument(t, scenarioSpec(t, typ))
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func closedForm(t *testing.T, inst instrument.Instrument) float64 {
	t.Helper()
	bs, err := NewBlackScholes(inst, valuationDate)
	if err != nil {
		t.Fatalf("NewBlackScholes: %v", err)
	}
	price, err := bs.Price()
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	return price
}
