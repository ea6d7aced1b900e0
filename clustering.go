package crossassoc

import (
	"fmt"
	"slices"
)

// Clustering partitions the units of one axis. Each element is a cluster: an
// ordered list of unit ids. Member order matters, since cluster growth scans
// members from last to first.
type Clustering [][]int

// clone returns a deep copy of the clustering.
func (c Clustering) clone() Clustering {
	out := make(Clustering, len(c))
	for i, members := range c {
		out[i] = slices.Clone(members)
	}
	return out
}

// InitialPartition assigns unit u of an axis with the given number of units
// to cluster u mod k. It panics if k < 1.
func InitialPartition(units, k int) Clustering {
	if k < 1 {
		panic(fmt.Sprintf("crossassoc: partition needs at least one cluster, got %d", k))
	}
	c := make(Clustering, k)
	for u := 0; u < units; u++ {
		c[u%k] = append(c[u%k], u)
	}
	return c
}

// Multiclustering holds one Clustering per tensor axis. Together they cut the
// tensor into a grid of blocks: a block tuple names one cluster per axis.
//
// The tensor is borrowed and never modified. A Multiclustering must not be
// mutated from more than one goroutine at a time; use Clone to hand a copy to
// another search.
type Multiclustering struct {
	tensor      *Tensor
	clusterings []Clustering
}

// NewMulticlustering returns the trivial multiclustering of t: one cluster
// per axis holding every unit.
func NewMulticlustering(t *Tensor) *Multiclustering {
	clusters := make([]int, t.Ways())
	for i := range clusters {
		clusters[i] = 1
	}
	m, err := NewMulticlusteringK(t, clusters)
	if err != nil {
		// One cluster per axis is valid for every constructed tensor.
		panic(err)
	}
	return m
}

// NewMulticlusteringK seeds each axis with clusters[axis] round-robin
// clusters (see InitialPartition).
func NewMulticlusteringK(t *Tensor, clusters []int) (*Multiclustering, error) {
	if len(clusters) != t.Ways() {
		return nil, fmt.Errorf("%w: %d cluster counts for a %d-way tensor", ErrPartition, len(clusters), t.Ways())
	}
	m := &Multiclustering{
		tensor:      t,
		clusterings: make([]Clustering, t.Ways()),
	}
	for axis, k := range clusters {
		if k < 1 || k > t.Dim(axis) {
			return nil, fmt.Errorf("%w: axis %d has %d units, cannot seed %d clusters", ErrPartition, axis, t.Dim(axis), k)
		}
		m.clusterings[axis] = InitialPartition(t.Dim(axis), k)
	}
	return m, nil
}

// NewMulticlusteringFrom builds a multiclustering from explicit clusterings,
// one per axis. The clusterings are copied and validated.
func NewMulticlusteringFrom(t *Tensor, clusterings []Clustering) (*Multiclustering, error) {
	m := &Multiclustering{
		tensor:      t,
		clusterings: make([]Clustering, len(clusterings)),
	}
	for axis, c := range clusterings {
		m.clusterings[axis] = c.clone()
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Clone returns a deep copy that shares the same tensor.
func (m *Multiclustering) Clone() *Multiclustering {
	out := &Multiclustering{
		tensor:      m.tensor,
		clusterings: make([]Clustering, len(m.clusterings)),
	}
	for axis, c := range m.clusterings {
		out.clusterings[axis] = c.clone()
	}
	return out
}

// Tensor returns the tensor being clustered.
func (m *Multiclustering) Tensor() *Tensor { return m.tensor }

// Clusterings returns a deep copy of every axis's clustering.
func (m *Multiclustering) Clusterings() []Clustering {
	out := make([]Clustering, len(m.clusterings))
	for axis, c := range m.clusterings {
		out[axis] = c.clone()
	}
	return out
}

// Clustering returns a copy of one axis's clustering.
func (m *Multiclustering) Clustering(axis int) Clustering {
	m.checkAxis(axis)
	return m.clusterings[axis].clone()
}

// NumClusters returns the number of clusters on axis.
func (m *Multiclustering) NumClusters(axis int) int {
	m.checkAxis(axis)
	return len(m.clusterings[axis])
}

// Assignments returns, for each unit of axis, the index of its cluster.
func (m *Multiclustering) Assignments(axis int) []int {
	m.checkAxis(axis)
	labels := make([]int, m.tensor.Dim(axis))
	for c, members := range m.clusterings[axis] {
		for _, u := range members {
			labels[u] = c
		}
	}
	return labels
}

// BlockingDims returns the number of clusters on every axis, which is the
// shape of the blocking grid.
func (m *Multiclustering) BlockingDims() []int {
	dims := make([]int, len(m.clusterings))
	for axis, c := range m.clusterings {
		dims[axis] = len(c)
	}
	return dims
}

// blockingSize returns the number of grid cells once axis is held fixed.
func (m *Multiclustering) blockingSize(axis int) int {
	size := 1
	for a, c := range m.clusterings {
		if a != axis {
			size *= len(c)
		}
	}
	return size
}

// BlockSize returns the number of tensor entries in block.
func (m *Multiclustering) BlockSize(block []int) int {
	m.checkBlock(block)
	size := 1
	for axis, c := range block {
		size *= len(m.clusterings[axis][c])
	}
	return size
}

// BlockCounts tallies how many entries of block equal each alphabet value.
func (m *Multiclustering) BlockCounts(block []int) []int {
	m.checkBlock(block)
	domains := make([][]int, len(block))
	for axis, c := range block {
		domains[axis] = m.clusterings[axis][c]
	}
	return m.countOver(NewCursor(domains, make([]bool, len(block))))
}

// BlockFrequencies returns the relative frequency of each alphabet value in
// block.
func (m *Multiclustering) BlockFrequencies(block []int) []float64 {
	counts := m.BlockCounts(block)
	total := m.BlockSize(block)
	freqs := make([]float64, len(counts))
	for v, n := range counts {
		freqs[v] = frequency(n, total)
	}
	return freqs
}

// countOver tallies tensor values at every tuple the cursor visits from its
// current position to the end.
func (m *Multiclustering) countOver(c *Cursor) []int {
	counts := make([]int, m.tensor.values)
	coord := make([]int, m.tensor.Ways())
	for ; !c.End(); c.Forward() {
		counts[m.tensor.atFlat(FlatIndex(c.TupleInto(coord), m.tensor.dims))]++
	}
	return counts
}

// gridCursor walks the blocking grid with axis held at cluster. Its SubIndex
// addresses a signature slot.
func (m *Multiclustering) gridCursor(axis, cluster int) *Cursor {
	ways := len(m.clusterings)
	fixed := make([]bool, ways)
	fixed[axis] = true
	c := NewRangeCursor(m.BlockingDims(), fixed)
	pos := make([]int, ways)
	pos[axis] = cluster
	c.Set(pos)
	c.Reset()
	return c
}

// unitCursor walks block with axis held at the index-th member of that
// axis's cluster.
func (m *Multiclustering) unitCursor(block []int, axis, index int) *Cursor {
	ways := len(block)
	domains := make([][]int, ways)
	for a, c := range block {
		domains[a] = m.clusterings[a][c]
	}
	fixed := make([]bool, ways)
	fixed[axis] = true
	c := NewCursor(domains, fixed)
	pos := make([]int, ways)
	pos[axis] = index
	c.Set(pos)
	c.Reset()
	return c
}

func (m *Multiclustering) checkAxis(axis int) {
	if axis < 0 || axis >= len(m.clusterings) {
		panic(fmt.Sprintf("crossassoc: axis %d out of range for %d-way tensor", axis, len(m.clusterings)))
	}
}

func (m *Multiclustering) checkBlock(block []int) {
	if len(block) != len(m.clusterings) {
		panic(fmt.Sprintf("crossassoc: block tuple of length %d for %d-way tensor", len(block), len(m.clusterings)))
	}
	for axis, c := range block {
		if c < 0 || c >= len(m.clusterings[axis]) {
			panic(fmt.Sprintf("crossassoc: block cluster %d out of range on axis %d", c, axis))
		}
	}
}
