package crossassoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoBlocks8 is an 8x8 binary matrix whose rows 0-3 are ones in columns 0-5
// and rows 4-7 are ones in columns 6-7.
func twoBlocks8(t testing.TB) *Tensor {
	hi := []int{1, 1, 1, 1, 1, 1, 0, 0}
	lo := []int{0, 0, 0, 0, 0, 0, 1, 1}
	return mustMatrix(t, 2, [][]int{hi, hi, hi, hi, lo, lo, lo, lo})
}

func TestSplitCluster_AllOnes(t *testing.T) {
	tensor := mustMatrix(t, 2, [][]int{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}})
	m := NewMulticlustering(tensor)

	for axis := range 2 {
		cluster, ok := m.SplitCluster(axis)
		assert.False(t, ok)
		assert.Equal(t, -1, cluster)
		assert.False(t, m.AddCluster(axis))
	}
	assert.Equal(t, []int{1, 1}, m.BlockingDims())
}

func TestSplitCluster_HighestAverage(t *testing.T) {
	m, err := NewMulticlusteringFrom(twoBlocks8(t), []Clustering{
		{{0, 1, 2, 3}, {4, 5, 6, 7}},
		{{0, 1, 2, 3, 4, 5, 6, 7}},
	})
	require.NoError(t, err)

	// Both row clusters are mixed, the first 6:2, the second 2:6, so their
	// averages tie and the earlier cluster is kept.
	cluster, ok := m.SplitCluster(0)
	assert.True(t, ok)
	assert.Equal(t, 0, cluster)

	cluster, ok = m.SplitCluster(1)
	assert.True(t, ok)
	assert.Equal(t, 0, cluster)
}

func TestAddCluster_GrowsByOne(t *testing.T) {
	m := NewMulticlustering(twoBlocks8(t))

	for axis := range 2 {
		before := m.NumClusters(axis)
		require.True(t, m.AddCluster(axis))
		assert.Equal(t, before+1, m.NumClusters(axis), "axis %d", axis)
		assert.NoError(t, m.Validate())
	}
}

func TestAddCluster_UnchangedWhenNothingMoves(t *testing.T) {
	m, err := NewMulticlusteringFrom(twoBlocks8(t), []Clustering{
		{{0, 1, 2, 3}, {4, 5, 6, 7}},
		{{0, 1, 2, 3, 4, 5}, {6, 7}},
	})
	require.NoError(t, err)
	before := m.Clusterings()

	// Every block is pure, so no cluster has a cost to split.
	assert.False(t, m.AddCluster(0))
	assert.False(t, m.AddCluster(1))
	assert.Equal(t, before, m.Clusterings())
}

func TestAddCluster_IdenticalSignatures(t *testing.T) {
	m := NewMulticlustering(blockDiagonal4(t))

	// Under one cluster per axis every row and column looks the same.
	for axis := range 2 {
		for u := range 4 {
			assert.Equal(t, [][]int{{2, 2}}, m.unitSignature(axis, 0, u))
		}
	}
}

func TestAddCluster_SpillsFromTheEnd(t *testing.T) {
	m := NewMulticlustering(twoBlocks8(t))
	require.True(t, m.AddCluster(0))

	// Scanning from unit 7 down, the low rows leave first.
	assert.Equal(t, Clustering{{0, 1, 2, 3}, {7, 6, 5, 4}}, m.Clustering(0))
}

func TestAddCluster_NoGainLeavesAxis(t *testing.T) {
	m := NewMulticlustering(twoBlocks8(t))

	// With all rows together every column holds four ones, so removing a
	// column never lowers the average.
	assert.False(t, m.AddCluster(1))
	assert.Equal(t, []int{1, 1}, m.BlockingDims())
}
