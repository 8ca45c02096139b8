package features

import (
	"fmt"
	"math"
	"sort"

	apperrors "retailfx/internal/errors"
)

// QuantileEdges returns the q+1 linearly interpolated quantiles of values at
// 0, 1/q, ..., 1.
func QuantileEdges(values []float64, q int) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	step := 1 / float64(q)
	edges := make([]float64, q+1)
	for i := 0; i < q; i++ {
		edges[i] = percentile(sorted, float64(i)*step)
	}
	edges[q] = percentile(sorted, 1)
	return edges
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	index := p * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	return lerp(sorted[lower], sorted[upper], index-float64(lower))
}

// lerp interpolates from the nearer endpoint so that t=1 returns b exactly.
func lerp(a, b, t float64) float64 {
	diff := b - a
	if t >= 0.5 {
		return b - diff*(1-t)
	}
	return a + diff*t
}

// QuantileBins assigns each value to one of q equal-frequency bins and returns
// the 0-based bin index per value. The first bin is closed on both sides, the
// rest are (lo, hi]. Coinciding edges cannot separate the data into q bins and
// are reported as a data quality error naming the dimension.
func QuantileBins(dimension string, values []float64, q int) ([]int, error) {
	if len(values) == 0 {
		return nil, apperrors.NewDataQualityError(
			fmt.Sprintf("cannot bin %s: no values", dimension)).
			WithContext("dimension", dimension)
	}

	edges := QuantileEdges(values, q)
	for i := 1; i < len(edges); i++ {
		if edges[i] == edges[i-1] {
			return nil, apperrors.NewDataQualityError(
				fmt.Sprintf("cannot bin %s into %d quantiles: edge %v is not unique", dimension, q, edges[i])).
				WithContext("dimension", dimension).
				WithContext("edge", edges[i])
		}
	}

	bins := make([]int, len(values))
	for i, v := range values {
		idx := sort.SearchFloat64s(edges, v) - 1
		if idx < 0 {
			idx = 0
		}
		bins[i] = idx
	}
	return bins, nil
}

// RankFirst ranks values ascending from 1, breaking ties by position so every
// rank is distinct.
func RankFirst(values []float64) []float64 {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, len(values))
	for rank, idx := range order {
		ranks[idx] = float64(rank + 1)
	}
	return ranks
}
