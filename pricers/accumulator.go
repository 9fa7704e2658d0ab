package pricers

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// accumulator keeps Neumaier-compensated running sums of undiscounted
// payoffs and their squares.
type accumulator struct {
	sum, sumComp     float64
	sumSq, sumSqComp float64
	count            int
}

func (a *accumulator) add(x float64) {
	a.sum, a.sumComp = neumaier(a.sum, a.sumComp, x)
	a.sumSq, a.sumSqComp = neumaier(a.sumSq, a.sumSqComp, x*x)
	a.count++
}

// addBatch folds a whole batch of payoffs in at once.
func (a *accumulator) addBatch(xs []float64) {
	a.sum, a.sumComp = neumaier(a.sum, a.sumComp, floats.SumCompensated(xs))
	a.sumSq, a.sumSqComp = neumaier(a.sumSq, a.sumSqComp, floats.Dot(xs, xs))
	a.count += len(xs)
}

// merge folds another partial result into a. Order of merges does not change
// the result beyond rounding in the compensation terms.
func (a *accumulator) merge(b accumulator) {
	a.sum, a.sumComp = neumaier(a.sum, a.sumComp, b.sum)
	a.sumComp += b.sumComp
	a.sumSq, a.sumSqComp = neumaier(a.sumSq, a.sumSqComp, b.sumSq)
	a.sumSqComp += b.sumSqComp
	a.count += b.count
}

func (a *accumulator) total() float64   { return a.sum + a.sumComp }
func (a *accumulator) totalSq() float64 { return a.sumSq + a.sumSqComp }

func (a *accumulator) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.total() / float64(a.count)
}

// stdErr is the standard error of the mean.
func (a *accumulator) stdErr() float64 {
	if a.count < 2 {
		return 0
	}
	n := float64(a.count)
	m := a.mean()
	variance := (a.totalSq() - n*m*m) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance / n)
}

func neumaier(sum, comp, x float64) (float64, float64) {
	t := sum + x
	if math.Abs(sum) >= math.Abs(x) {
		comp += (sum - t) + x
	} else {
		comp += (x - t) + sum
	}
	return t, comp
}
