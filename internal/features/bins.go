package features

import (
	"sort"
)

// BinTable maps a value onto an ordered label using right-closed intervals:
// (-inf, e0], (e0, e1], ..., (eN, +inf). Labels has one more entry than Edges.
type BinTable[L ~string] struct {
	Name   string
	Edges  []float64
	Labels []L
}

// Assign returns the label of the interval containing v.
func (b BinTable[L]) Assign(v float64) L {
	// SearchFloat64s finds the first edge >= v, which is the right-closed bin.
	return b.Labels[sort.SearchFloat64s(b.Edges, v)]
}

// Index returns the 0-based interval position of v.
func (b BinTable[L]) Index(v float64) int {
	return sort.SearchFloat64s(b.Edges, v)
}

// EqualWidthBins splits the observed range of values into len(labels)
// equal-width right-closed intervals. The lowest edge is pushed down by 0.1%
// of the range so the minimum falls inside the first bin; a degenerate range
// is widened by 0.1% of the value on both sides (0.001 absolute at zero).
func EqualWidthBins[L ~string](name string, values []float64, labels []L) BinTable[L] {
	n := len(labels)
	if len(values) == 0 || n < 2 {
		return BinTable[L]{Name: name, Labels: labels}
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	if lo == hi {
		lo -= widen(lo)
		hi += widen(hi)
	}

	step := (hi - lo) / float64(n)
	edges := make([]float64, n-1)
	for i := range edges {
		edges[i] = float64(i+1)*step + lo
	}
	return BinTable[L]{Name: name, Edges: edges, Labels: labels}
}

func widen(v float64) float64 {
	if v == 0 {
		return 0.001
	}
	if v < 0 {
		return -0.001 * v
	}
	return 0.001 * v
}
