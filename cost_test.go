package crossassoc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodelength(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   float64
	}{
		{"single value", []int{5, 0}, 0},
		{"other single value", []int{0, 7}, 0},
		{"empty", []int{0, 0}, 0},
		{"even split", []int{2, 2}, 4 * math.Ln2},
		{"skewed", []int{3, 1}, 3*-math.Log(0.75) + 1*-math.Log(0.25)},
		{"three values", []int{1, 1, 1}, 3 * math.Log(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Codelength(tt.counts), 1e-12)
		})
	}
}

func TestCodelengthFrequencies(t *testing.T) {
	assert.InDelta(t, 2*math.Ln2, CodelengthFrequencies([]int{1, 1}, []float64{0.5, 0.5}), 1e-12)
	// Zero counts are free even when the frequency is zero.
	assert.Equal(t, 0.0, CodelengthFrequencies([]int{3, 0}, []float64{1, 0}))
	// A value that occurs at frequency zero saturates.
	assert.Equal(t, MaxCost, CodelengthFrequencies([]int{1, 1}, []float64{1, 0}))
	assert.Panics(t, func() { CodelengthFrequencies([]int{1}, []float64{0.5, 0.5}) })
}

func TestCodelengthAgainst(t *testing.T) {
	want := 1*-math.Log(0.75) + 2*-math.Log(0.25)
	assert.InDelta(t, want, CodelengthAgainst([]int{1, 2}, []int{3, 1}), 1e-12)
	assert.Equal(t, MaxCost, CodelengthAgainst([]int{0, 1}, []int{4, 0}))
	// An empty reference has no frequencies to encode against.
	assert.Equal(t, MaxCost, CodelengthAgainst([]int{1, 0}, []int{0, 0}))
	assert.Equal(t, 0.0, CodelengthAgainst([]int{0, 0}, []int{0, 0}))
	assert.Panics(t, func() { CodelengthAgainst([]int{1, 2, 3}, []int{1, 2}) })
}

// blockDiagonal4 is two 2x2 all-ones blocks on the diagonal.
func blockDiagonal4(t testing.TB) *Tensor {
	return mustMatrix(t, 2, [][]int{
		{1, 1, 0, 0},
		{1, 1, 0, 0},
		{0, 0, 1, 1},
		{0, 0, 1, 1},
	})
}

func TestCost_Trivial(t *testing.T) {
	m := NewMulticlustering(blockDiagonal4(t))

	// One cluster per axis sends no assignment, and one block of 16 entries.
	assert.InDelta(t, math.Log(17), m.ModelCost(), 1e-12)
	assert.InDelta(t, 16*math.Ln2, m.DataCost(), 1e-12)
	assert.InDelta(t, math.Log(17)+16*math.Ln2, m.Cost(), 1e-12)
}

func TestCost_Separated(t *testing.T) {
	m, err := NewMulticlusteringFrom(blockDiagonal4(t), []Clustering{
		{{0, 1}, {2, 3}},
		{{0, 1}, {2, 3}},
	})
	require.NoError(t, err)

	// Every block holds a single value.
	assert.Equal(t, 0.0, m.DataCost())
	want := 4*math.Ln2 + 4*math.Ln2 + 4*math.Log(5)
	assert.InDelta(t, want, m.ModelCost(), 1e-12)
	assert.Equal(t, m.ModelCost()+m.DataCost(), m.Cost())
	assert.Less(t, m.Cost(), NewMulticlustering(m.Tensor()).Cost())
}

func TestCost_SingleValueAlphabet(t *testing.T) {
	tensor := mustMatrix(t, 1, [][]int{{0, 0}, {0, 0}})
	m := NewMulticlustering(tensor)
	// values-1 = 0 counts per block are sent.
	assert.Equal(t, 0.0, m.Cost())
}

func TestClusterCost(t *testing.T) {
	m, err := NewMulticlusteringFrom(blockDiagonal4(t), []Clustering{
		{{0, 1}, {2, 3}},
		{{0, 1, 2, 3}},
	})
	require.NoError(t, err)

	// Each row cluster covers one block of 8 entries, half ones.
	assert.InDelta(t, 8*math.Ln2, m.clusterCost(0, 0), 1e-12)
	assert.InDelta(t, 8*math.Ln2, m.clusterCost(0, 1), 1e-12)
	assert.InDelta(t, 16*math.Ln2, m.clusterCost(1, 0), 1e-12)
	assert.InDelta(t, m.DataCost(), m.clusterCost(1, 0), 1e-12)
}
