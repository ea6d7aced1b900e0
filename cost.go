package crossassoc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// MaxCost is the codelength of a value that occurs although its reference
// frequency is zero. It stands in for an infinite cost so that an impossible
// encoding always loses a comparison.
const MaxCost = math.MaxFloat64

// Cost returns the total description length in nats: ModelCost + DataCost.
func (m *Multiclustering) Cost() float64 {
	return m.ModelCost() + m.DataCost()
}

// ModelCost returns the cost of describing the clustering itself: the
// cluster assignment of every unit, plus the value distribution of every
// block.
//
// The cost of sending the tensor dimensions is the same for every clustering
// and is left out.
func (m *Multiclustering) ModelCost() float64 {
	assignment := 0.0
	for axis, c := range m.clusterings {
		assignment += float64(m.tensor.Dim(axis)) * math.Log(float64(len(c)))
	}

	// Each block sends its count of every value but one.
	types := 0.0
	values := float64(m.tensor.values - 1)
	grid := NewRangeCursor(m.BlockingDims(), make([]bool, len(m.clusterings)))
	block := make([]int, len(m.clusterings))
	for ; !grid.End(); grid.Forward() {
		size := m.BlockSize(grid.TupleInto(block))
		types += values * math.Log(float64(size)+1)
	}

	return assignment + types
}

// DataCost returns the cost of describing the tensor given the clustering:
// the sum of every block's codelength.
func (m *Multiclustering) DataCost() float64 {
	cost := 0.0
	grid := NewRangeCursor(m.BlockingDims(), make([]bool, len(m.clusterings)))
	block := make([]int, len(m.clusterings))
	for ; !grid.End(); grid.Forward() {
		cost += m.blockCost(grid.TupleInto(block))
	}
	return cost
}

// blockCost returns the codelength of one block under its own frequencies.
func (m *Multiclustering) blockCost(block []int) float64 {
	return CodelengthFrequencies(m.BlockCounts(block), m.BlockFrequencies(block))
}

// clusterCost returns the data cost of every block in the slab where axis
// is held at cluster.
func (m *Multiclustering) clusterCost(axis, cluster int) float64 {
	costs := make([]float64, 0, m.blockingSize(axis))
	grid := m.gridCursor(axis, cluster)
	block := make([]int, len(m.clusterings))
	for ; !grid.End(); grid.Forward() {
		costs = append(costs, m.blockCost(grid.TupleInto(block)))
	}
	return floats.Sum(costs)
}

// signatureCost returns the total codelength of a signature, each block
// scored under its own frequencies.
func signatureCost(sig [][]int) float64 {
	costs := make([]float64, len(sig))
	for b, counts := range sig {
		costs[b] = Codelength(counts)
	}
	return floats.Sum(costs)
}

// Codelength returns the cost in nats of encoding counts under their own
// empirical distribution: sum over v of counts[v] * -ln(counts[v]/total).
// A block holding a single value costs 0.
func Codelength(counts []int) float64 {
	total := 0
	for _, n := range counts {
		total += n
	}
	cost := 0.0
	for _, n := range counts {
		cost += codelength(n, frequency(n, total))
	}
	return cost
}

// CodelengthFrequencies returns the cost of encoding counts under the given
// value frequencies.
func CodelengthFrequencies(counts []int, freqs []float64) float64 {
	if len(counts) != len(freqs) {
		panic(fmt.Sprintf("crossassoc: %d counts but %d frequencies", len(counts), len(freqs)))
	}
	cost := 0.0
	for v, n := range counts {
		cost += codelength(n, freqs[v])
	}
	return cost
}

// CodelengthAgainst returns the cost of encoding counts under the empirical
// distribution of ref. It scores a unit's contribution against a candidate
// cluster's aggregate.
func CodelengthAgainst(counts, ref []int) float64 {
	if len(counts) != len(ref) {
		panic(fmt.Sprintf("crossassoc: %d counts but %d reference counts", len(counts), len(ref)))
	}
	total := 0
	for _, n := range ref {
		total += n
	}
	cost := 0.0
	for v, n := range counts {
		cost += codelength(n, frequency(ref[v], total))
	}
	return cost
}

// codelength is the cost of count occurrences of a value with the given
// frequency.
func codelength(count int, freq float64) float64 {
	if count == 0 {
		return 0
	}
	if freq == 0 || math.IsNaN(freq) {
		return MaxCost
	}
	return float64(count) * -math.Log(freq)
}

func frequency(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
