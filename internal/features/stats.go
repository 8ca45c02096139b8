package features

import (
	"math"
	"time"
)

// accumulator keeps what a grouped mean/std needs. Values are retained so the
// sample deviation is computed in two passes.
type accumulator struct {
	sum    float64
	values []float64
	min    float64
	max    float64
}

func (a *accumulator) add(v float64) {
	if len(a.values) == 0 || v < a.min {
		a.min = v
	}
	if len(a.values) == 0 || v > a.max {
		a.max = v
	}
	a.sum += v
	a.values = append(a.values, v)
}

func (a *accumulator) count() int { return len(a.values) }

func (a *accumulator) mean() float64 {
	if len(a.values) == 0 {
		return math.NaN()
	}
	return a.sum / float64(len(a.values))
}

// std is the sample standard deviation (n-1). A single observation has no
// sample deviation and yields NaN.
func (a *accumulator) std() float64 {
	n := len(a.values)
	if n < 2 {
		return math.NaN()
	}
	m := a.mean()
	var ss float64
	for _, v := range a.values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// round2 rounds half to even at two decimals. NaN passes through.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.RoundToEven(v*100) / 100
}

const day = 24 * time.Hour

// wholeDays floors a span to whole days.
func wholeDays(d time.Duration) int {
	days := d / day
	if d%day < 0 {
		days--
	}
	return int(days)
}
