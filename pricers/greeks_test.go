package pricers

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/bcdannyboy/optionpricer/instrument"
)

func greeksFor(t *testing.T, spec instrument.Spec) Greeks {
	t.Helper()
	bs, err := NewBlackScholes(mustInstrument(t, spec), valuationDate)
	if err != nil {
		t.Fatalf("NewBlackScholes: %v", err)
	}
	g, err := bs.Greeks()
	if err != nil {
		t.Fatalf("Greeks: %v", err)
	}
	return g
}

func TestGreeksMatchFiniteDifferences(t *testing.T) {
	for _, typ := range []instrument.OptionType{instrument.Call, instrument.Put} {
		t.Run(typ.String(), func(t *testing.T) {
			spec := scenarioSpec(t, typ)
			spec.UnderlyingPrice = 105
			g := greeksFor(t, spec)

			bump := func(mutate func(*instrument.Spec)) float64 {
				s := spec
				mutate(&s)
				return closedForm(t, mustInstrument(t, s))
			}

			const h = 1e-4
			delta := (bump(func(s *instrument.Spec) { s.UnderlyingPrice += h }) -
				bump(func(s *instrument.Spec) { s.UnderlyingPrice -= h })) / (2 * h)
			if !almostEqual(g.Delta, delta, 1e-6) {
				t.Errorf("Delta = %v, finite difference %v", g.Delta, delta)
			}

			gamma := (bump(func(s *instrument.Spec) { s.UnderlyingPrice += 0.01 }) - 2*closedForm(t, mustInstrument(t, spec)) +
				bump(func(s *instrument.Spec) { s.UnderlyingPrice -= 0.01 })) / (0.01 * 0.01)
			if !almostEqual(g.Gamma, gamma, 1e-5) {
				t.Errorf("Gamma = %v, finite difference %v", g.Gamma, gamma)
			}

			vega := (bump(func(s *instrument.Spec) { s.Volatility += h }) -
				bump(func(s *instrument.Spec) { s.Volatility -= h })) / (2 * h)
			if !almostEqual(g.Vega, vega, 1e-5) {
				t.Errorf("Vega = %v, finite difference %v", g.Vega, vega)
			}

			rho := (bump(func(s *instrument.Spec) { s.Rate += h }) -
				bump(func(s *instrument.Spec) { s.Rate -= h })) / (2 * h)
			if !almostEqual(g.Rho, rho, 1e-5) {
				t.Errorf("Rho = %v, finite difference %v", g.Rho, rho)
			}
		})
	}
}

func TestGreeksPutCallRelations(t *testing.T) {
	call := greeksFor(t, scenarioSpec(t, instrument.Call))
	put := greeksFor(t, scenarioSpec(t, instrument.Put))

	// T = 1, q = 0.04, r = 0.10, S = 150, K = 100.
	carry := math.Exp(-0.04)
	if !almostEqual(call.Delta-put.Delta, carry, 1e-12) {
		t.Errorf("call delta - put delta = %v, want %v", call.Delta-put.Delta, carry)
	}
	if !almostEqual(call.Gamma, put.Gamma, 1e-12) {
		t.Errorf("gamma differs: call %v, put %v", call.Gamma, put.Gamma)
	}
	if !almostEqual(call.Vega, put.Vega, 1e-12) {
		t.Errorf("vega differs: call %v, put %v", call.Vega, put.Vega)
	}
	wantTheta := -0.10*100*math.Exp(-0.10) + 0.04*150*carry
	if !almostEqual(call.Theta-put.Theta, wantTheta, 1e-10) {
		t.Errorf("call theta - put theta = %v, want %v", call.Theta-put.Theta, wantTheta)
	}
	if !almostEqual(call.Rho-put.Rho, 100*math.Exp(-0.10), 1e-10) {
		t.Errorf("call rho - put rho = %v, want %v", call.Rho-put.Rho, 100*math.Exp(-0.10))
	}
}

func TestGreeksZeroSpot(t *testing.T) {
	spec := scenarioSpec(t, instrument.Call)
	spec.UnderlyingPrice = 0
	bs, err := NewBlackScholes(mustInstrument(t, spec), valuationDate)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bs.Greeks(); !errors.Is(err, ErrNumerical) {
		t.Errorf("Greeks() error = %v, want ErrNumerical", err)
	}
}
