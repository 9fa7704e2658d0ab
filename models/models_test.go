package models

import (
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/bcdannyboy/optionpricer/instrument"
	"github.com/bcdannyboy/optionpricer/pricers"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestZeroCurve(t *testing.T) {
	mats := []float64{0.25, 1, 5, 10}
	rates := []float64{0.03, 0.035, 0.04, 0.042}
	c, err := NewZeroCurve(mats, rates)
	if err != nil {
		t.Fatalf("NewZeroCurve() unexpected error: %v", err)
	}

	for i, m := range mats {
		if got := c.ZeroRate(m); !almostEqual(got, rates[i], 1e-12) {
			t.Errorf("ZeroRate(%v) = %v, want %v", m, got, rates[i])
		}
	}
	if got := c.ZeroRate(0.01); !almostEqual(got, 0.03, 1e-15) {
		t.Errorf("ZeroRate below first pillar = %v, want 0.03", got)
	}
	if got := c.ZeroRate(30); !almostEqual(got, 0.042, 1e-15) {
		t.Errorf("ZeroRate beyond last pillar = %v, want 0.042", got)
	}
	if got, want := c.DiscountFactor(1), math.Exp(-0.035); !almostEqual(got, want, 1e-12) {
		t.Errorf("DiscountFactor(1) = %v, want %v", got, want)
	}
	if got := c.DiscountFactor(0); got != 1 {
		t.Errorf("DiscountFactor(0) = %v, want 1", got)
	}
}

func TestZeroCurveReproducesLinearRates(t *testing.T) {
	c, err := NewZeroCurve([]float64{1, 2, 3, 4}, []float64{0.01, 0.02, 0.03, 0.04})
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range []float64{1.5, 2.25, 3.9} {
		if got := c.ZeroRate(x); !almostEqual(got, x/100, 1e-12) {
			t.Errorf("ZeroRate(%v) = %v, want %v", x, got, x/100)
		}
	}
}

func TestZeroCurveRejectsBadPillars(t *testing.T) {
	tests := []struct {
		name  string
		mats  []float64
		rates []float64
	}{
		{"one pillar", []float64{1}, []float64{0.02}},
		{"length mismatch", []float64{1, 2}, []float64{0.02}},
		{"unsorted", []float64{2, 1, 3}, []float64{0.02, 0.02, 0.02}},
		{"duplicate", []float64{1, 1, 3}, []float64{0.02, 0.02, 0.02}},
		{"nan rate", []float64{1, 2}, []float64{0.02, math.NaN()}},
		{"infinite maturity", []float64{1, math.Inf(1)}, []float64{0.02, 0.03}},
		{"negative maturity", []float64{-1, 2}, []float64{0.02, 0.03}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewZeroCurve(tt.mats, tt.rates); !errors.Is(err, ErrCurve) {
				t.Errorf("NewZeroCurve() error = %v, want ErrCurve", err)
			}
		})
	}
}

func TestFlatCurve(t *testing.T) {
	var c TermStructure = FlatCurve(0.05)
	if got := c.ZeroRate(7); got != 0.05 {
		t.Errorf("ZeroRate = %v", got)
	}
	if got := c.DiscountFactor(2); !almostEqual(got, math.Exp(-0.1), 1e-15) {
		t.Errorf("DiscountFactor(2) = %v", got)
	}
}

func testSurface(t *testing.T) *VolatilitySurface {
	t.Helper()
	s, err := NewVolatilitySurface(
		[]float64{90, 100, 110},
		[]float64{0.5, 1},
		[][]float64{
			{0.30, 0.25, 0.22},
			{0.26, 0.22, 0.20},
		})
	if err != nil {
		t.Fatalf("NewVolatilitySurface: %v", err)
	}
	return s
}

func TestVolatilitySurfaceImpliedVol(t *testing.T) {
	s := testSurface(t)
	tests := []struct {
		name      string
		strike, t float64
		want      float64
	}{
		{"grid point", 100, 0.5, 0.25},
		{"last grid point", 110, 1, 0.20},
		{"strike midpoint", 95, 0.5, 0.275},
		{"time midpoint", 100, 0.75, 0.235},
		{"cell center", 95, 0.75, (0.30 + 0.25 + 0.26 + 0.22) / 4},
		{"below strikes", 50, 0.5, 0.30},
		{"beyond strikes", 200, 1, 0.20},
		{"before first time", 100, 0.1, 0.25},
		{"after last time", 105, 3, 0.21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ImpliedVol(tt.strike, tt.t); !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("ImpliedVol(%v, %v) = %v, want %v", tt.strike, tt.t, got, tt.want)
			}
		})
	}
}

func TestVolatilitySurfaceSinglePoint(t *testing.T) {
	s, err := NewVolatilitySurface([]float64{100}, []float64{1}, [][]float64{{0.3}})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.ImpliedVol(80, 2); got != 0.3 {
		t.Errorf("ImpliedVol = %v, want 0.3", got)
	}
}

func TestNewVolatilitySurfaceRejects(t *testing.T) {
	tests := []struct {
		name    string
		strikes []float64
		times   []float64
		vols    [][]float64
	}{
		{"empty", nil, []float64{1}, [][]float64{{}}},
		{"row count", []float64{100}, []float64{1, 2}, [][]float64{{0.2}}},
		{"column count", []float64{90, 100}, []float64{1}, [][]float64{{0.2}}},
		{"unsorted strikes", []float64{100, 90}, []float64{1}, [][]float64{{0.2, 0.2}}},
		{"negative vol", []float64{100}, []float64{1}, [][]float64{{-0.2}}},
		{"nan vol", []float64{100}, []float64{1}, [][]float64{{math.NaN()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewVolatilitySurface(tt.strikes, tt.times, tt.vols); !errors.Is(err, ErrSurface) {
				t.Errorf("NewVolatilitySurface() error = %v, want ErrSurface", err)
			}
		})
	}
}

func TestSurfaceFromQuotes(t *testing.T) {
	quotes := []Quote{
		{Strike: 90, Maturity: 0.5, IV: 0.30},
		{Strike: 110, Maturity: 0.5, IV: 0.20},
		{Strike: 100, Maturity: 0.5, IV: math.NaN()},
		{Strike: 100, Maturity: 1, IV: 0.22},
		{Strike: 100, Maturity: 1, IV: 0.24},
		{Strike: 120, Maturity: 1, IV: 0},
	}
	s, err := SurfaceFromQuotes(quotes)
	if err != nil {
		t.Fatalf("SurfaceFromQuotes() unexpected error: %v", err)
	}

	wantStrikes := []float64{90, 100, 110}
	if len(s.Strikes) != len(wantStrikes) {
		t.Fatalf("Strikes = %v, want %v", s.Strikes, wantStrikes)
	}
	for i := range wantStrikes {
		if s.Strikes[i] != wantStrikes[i] {
			t.Fatalf("Strikes = %v, want %v", s.Strikes, wantStrikes)
		}
	}
	if len(s.Times) != 2 || s.Times[0] != 0.5 || s.Times[1] != 1 {
		t.Fatalf("Times = %v, want [0.5 1]", s.Times)
	}

	// The 0.5y smile fills the dropped 100 strike linearly.
	if got := s.ImpliedVol(100, 0.5); !almostEqual(got, 0.25, 1e-12) {
		t.Errorf("ImpliedVol(100, 0.5) = %v, want 0.25", got)
	}
	// The 1y smile has one averaged point and is flat.
	for _, k := range wantStrikes {
		if got := s.ImpliedVol(k, 1); !almostEqual(got, 0.23, 1e-12) {
			t.Errorf("ImpliedVol(%v, 1) = %v, want 0.23", k, got)
		}
	}
}

func TestSurfaceFromQuotesEmpty(t *testing.T) {
	quotes := []Quote{{Strike: 100, Maturity: 1, IV: math.NaN()}}
	if _, err := SurfaceFromQuotes(quotes); !errors.Is(err, ErrSurface) {
		t.Errorf("SurfaceFromQuotes() error = %v, want ErrSurface", err)
	}
}

func TestSampleInstrument(t *testing.T) {
	valuation := time.Date(2024, time.April, 22, 0, 0, 0, 0, time.UTC)
	maturity, err := instrument.ParseMaturity("04/22/2025")
	if err != nil {
		t.Fatal(err)
	}
	spec := instrument.Spec{
		UnderlyingPrice: 100, Strike: 100, Dividend: 0.01,
		Maturity: maturity, Type: instrument.Call,
	}

	inst, err := SampleInstrument(spec, FlatCurve(0.045), testSurface(t), valuation)
	if err != nil {
		t.Fatalf("SampleInstrument() unexpected error: %v", err)
	}
	if inst.Rate() != 0.045 {
		t.Errorf("Rate() = %v, want 0.045", inst.Rate())
	}
	if !almostEqual(inst.Volatility(), 0.22, 1e-12) {
		t.Errorf("Volatility() = %v, want 0.22", inst.Volatility())
	}

	spec.Rate, spec.Volatility = 0.01, 0.3
	inst, err = SampleInstrument(spec, nil, nil, valuation)
	if err != nil {
		t.Fatal(err)
	}
	if inst.Rate() != 0.01 || inst.Volatility() != 0.3 {
		t.Errorf("nil market data overrode the requested inputs: rate=%v vol=%v", inst.Rate(), inst.Volatility())
	}

	if _, err := SampleInstrument(spec, nil, nil, maturity); !errors.Is(err, pricers.ErrMaturity) {
		t.Errorf("SampleInstrument() on maturity date error = %v, want ErrMaturity", err)
	}
}
