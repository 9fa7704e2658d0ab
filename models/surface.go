package models

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/interp"
)

// VolatilitySurface is an implied volatility grid. Vols[i][j] is the
// volatility at Times[i] and Strikes[j].
type VolatilitySurface struct {
	Strikes []float64
	Times   []float64
	Vols    [][]float64
}

// Quote is a single implied volatility observation.
type Quote struct {
	Strike   float64
	Maturity float64 // years
	IV       float64
}

// NewVolatilitySurface checks that vols has one row per time and one column
// per strike, that both axes are strictly increasing and that every
// volatility is finite and non-negative.
func NewVolatilitySurface(strikes, times []float64, vols [][]float64) (*VolatilitySurface, error) {
	if len(strikes) == 0 || len(times) == 0 {
		return nil, errors.Wrapf(ErrSurface, "empty grid (%d strikes, %d times)", len(strikes), len(times))
	}
	if !strictlyIncreasing(strikes) {
		return nil, errors.Wrap(ErrSurface, "strikes must be strictly increasing")
	}
	if !strictlyIncreasing(times) {
		return nil, errors.Wrap(ErrSurface, "times must be strictly increasing")
	}
	if len(vols) != len(times) {
		return nil, errors.Wrapf(ErrSurface, "%d vol rows for %d times", len(vols), len(times))
	}

	s := &VolatilitySurface{
		Strikes: append([]float64(nil), strikes...),
		Times:   append([]float64(nil), times...),
		Vols:    make([][]float64, len(vols)),
	}
	for i, row := range vols {
		if len(row) != len(strikes) {
			return nil, errors.Wrapf(ErrSurface, "row %d has %d vols for %d strikes", i, len(row), len(strikes))
		}
		for j, v := range row {
			if !finite(v) || v < 0 {
				return nil, errors.Wrapf(ErrSurface, "vol at time %v strike %v is %v", times[i], strikes[j], v)
			}
		}
		s.Vols[i] = append([]float64(nil), row...)
	}
	return s, nil
}

// SurfaceFromQuotes grids scattered quotes. NaN and non-positive volatilities
// are dropped. Each maturity's smile is interpolated linearly onto the union
// of all strikes and held flat beyond its quoted range. Repeated (strike,
// maturity) pairs are averaged.
func SurfaceFromQuotes(quotes []Quote) (*VolatilitySurface, error) {
	type key struct{ strike, t float64 }
	type agg struct {
		sum float64
		n   int
	}

	byPoint := make(map[key]*agg)
	var strikes, times []float64
	for _, q := range quotes {
		if math.IsNaN(q.IV) || q.IV <= 0 || !finite(q.Strike) || !finite(q.Maturity) {
			continue
		}
		if math.IsInf(q.IV, 0) {
			return nil, errors.Wrapf(ErrSurface, "infinite vol at strike %v maturity %v", q.Strike, q.Maturity)
		}
		k := key{q.Strike, q.Maturity}
		a, ok := byPoint[k]
		if !ok {
			a = &agg{}
			byPoint[k] = a
			strikes = append(strikes, q.Strike)
			times = append(times, q.Maturity)
		}
		a.sum += q.IV
		a.n++
	}
	if len(byPoint) == 0 {
		return nil, errors.Wrap(ErrSurface, "no usable quotes")
	}

	sort.Float64s(strikes)
	sort.Float64s(times)
	strikes = removeDuplicates(strikes)
	times = removeDuplicates(times)

	smiles := make(map[float64][]float64, len(times))
	for k := range byPoint {
		smiles[k.t] = append(smiles[k.t], k.strike)
	}

	vols := make([][]float64, len(times))
	for i, t := range times {
		ks := smiles[t]
		sort.Float64s(ks)
		ivs := make([]float64, len(ks))
		for j, k := range ks {
			a := byPoint[key{k, t}]
			ivs[j] = a.sum / float64(a.n)
		}

		row := make([]float64, len(strikes))
		if len(ks) == 1 {
			for j := range row {
				row[j] = ivs[0]
			}
		} else {
			var pl interp.PiecewiseLinear
			if err := pl.Fit(ks, ivs); err != nil {
				return nil, errors.Wrapf(ErrSurface, "fit smile at %v: %v", t, err)
			}
			for j, k := range strikes {
				row[j] = pl.Predict(k)
			}
		}
		vols[i] = row
	}
	return NewVolatilitySurface(strikes, times, vols)
}

// ImpliedVol interpolates bilinearly in strike and time. Points outside the
// grid are clamped to its edges.
func (s *VolatilitySurface) ImpliedVol(strike, t float64) float64 {
	if len(s.Strikes) == 0 || len(s.Times) == 0 || len(s.Vols) == 0 {
		return 0
	}

	ti, xt := bracket(s.Times, t)
	si, xs := bracket(s.Strikes, strike)
	ti1 := clamp(ti+1, 0, len(s.Times)-1)
	si1 := clamp(si+1, 0, len(s.Strikes)-1)

	v00 := s.Vols[ti][si]
	v01 := s.Vols[ti][si1]
	v10 := s.Vols[ti1][si]
	v11 := s.Vols[ti1][si1]

	return (1-xt)*(1-xs)*v00 + xt*(1-xs)*v10 + (1-xt)*xs*v01 + xt*xs*v11
}

// bracket returns the index of the grid cell holding x and x's fractional
// position in it. Values beyond either end clamp to that end.
func bracket(grid []float64, x float64) (int, float64) {
	n := len(grid)
	if n == 1 || x <= grid[0] {
		return 0, 0
	}
	if x >= grid[n-1] {
		return n - 1, 0
	}
	i := sort.SearchFloat64s(grid, x) - 1
	i = clamp(i, 0, n-2)
	return i, (x - grid[i]) / (grid[i+1] - grid[i])
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func strictlyIncreasing(xs []float64) bool {
	for i := range xs {
		if !finite(xs[i]) {
			return false
		}
		if i > 0 && xs[i] <= xs[i-1] {
			return false
		}
	}
	return true
}
