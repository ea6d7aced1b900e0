package crossassoc

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// normalized sorts members within each cluster and clusters by their
// smallest member, for comparisons that ignore numbering.
func normalized(c Clustering) [][]int {
	out := make([][]int, len(c))
	for i, members := range c {
		out[i] = slices.Sorted(slices.Values(members))
	}
	slices.SortFunc(out, func(a, b []int) int { return a[0] - b[0] })
	return out
}

func TestSearch_TwoBlocks(t *testing.T) {
	tensor := twoBlocks8(t)
	result, err := Search(tensor, DefaultConfig())
	require.NoError(t, err)

	m := result.Clustering
	assert.Equal(t, [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}}, normalized(m.Clustering(0)))
	assert.Equal(t, [][]int{{0, 1, 2, 3, 4, 5}, {6, 7}}, normalized(m.Clustering(1)))

	assert.InDelta(t, math.Log(65)+64*math.Ln2, result.InitialCost, 1e-9)
	assert.Equal(t, 0.0, result.DataCost)
	want := 16*math.Ln2 + 2*math.Log(25) + 2*math.Log(9)
	assert.InDelta(t, want, result.ModelCost, 1e-9)
	assert.Equal(t, result.ModelCost+result.DataCost, result.Cost)
	assert.Less(t, result.Cost, result.InitialCost)

	// Two accepted rounds and a final one that found nothing better.
	require.Len(t, result.Rounds, 3)
	assert.NotEqual(t, -1, result.Rounds[0].Accepted)
	assert.NotEqual(t, -1, result.Rounds[1].Accepted)
	assert.Equal(t, -1, result.Rounds[2].Accepted)
	assert.Equal(t, result.Cost, result.Rounds[2].Cost)
	for _, r := range result.Rounds {
		assert.Len(t, r.Candidates, 2)
	}
}

func TestSearch_RoundCostsNeverIncrease(t *testing.T) {
	result, err := Search(randomTensor(t, []int{10, 8}, 2, 3), DefaultConfig())
	require.NoError(t, err)

	prev := result.InitialCost
	for i, r := range result.Rounds {
		assert.LessOrEqual(t, r.Cost, prev, "round %d", i+1)
		prev = r.Cost
	}
	assert.InDelta(t, prev, result.Cost, 1e-9)
	assert.NoError(t, result.Clustering.Validate())
}

func TestSearch_ThreeValues(t *testing.T) {
	hi := []int{2, 2, 2, 2, 2, 2, 0, 0}
	lo := []int{1, 1, 1, 1, 1, 1, 2, 2}
	tensor := mustMatrix(t, 3, [][]int{hi, hi, hi, hi, lo, lo, lo, lo})

	result, err := Search(tensor, DefaultConfig())
	require.NoError(t, err)

	m := result.Clustering
	assert.Equal(t, [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}}, normalized(m.Clustering(0)))
	assert.Equal(t, [][]int{{0, 1, 2, 3, 4, 5}, {6, 7}}, normalized(m.Clustering(1)))
	assert.Equal(t, 0.0, result.DataCost)
	assert.Less(t, result.Cost, result.InitialCost)
}

func TestSearch_ThreeWay(t *testing.T) {
	// The two-block pattern repeated along a third axis of length 2.
	dims := []int{8, 8, 2}
	data := make([]int, Volume(dims))
	for coord := range NewRangeCursor(dims, make([]bool, 3)).All() {
		if (coord[0] < 4) == (coord[1] < 6) {
			data[FlatIndex(coord, dims)] = 1
		}
	}
	tensor, err := NewTensor(dims, data, 2)
	require.NoError(t, err)

	result, err := Search(tensor, Config{Workers: 2})
	require.NoError(t, err)

	m := result.Clustering
	assert.Equal(t, [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}}, normalized(m.Clustering(0)))
	assert.Equal(t, [][]int{{0, 1, 2, 3, 4, 5}, {6, 7}}, normalized(m.Clustering(1)))
	assert.Equal(t, Clustering{{0, 1}}, m.Clustering(2))
	assert.Equal(t, 0.0, result.DataCost)
}

func TestSearch_AllOnes(t *testing.T) {
	tensor := mustMatrix(t, 2, [][]int{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}})
	result, err := Search(tensor, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1}, result.Clustering.BlockingDims())
	assert.Equal(t, result.InitialCost, result.Cost)
	require.Len(t, result.Rounds, 1)
	assert.Equal(t, -1, result.Rounds[0].Accepted)
}

func TestSearch_MaxRounds(t *testing.T) {
	result, err := Search(twoBlocks8(t), Config{MaxRounds: 1})
	require.NoError(t, err)

	require.Len(t, result.Rounds, 1)
	assert.NotEqual(t, -1, result.Rounds[0].Accepted)
	dims := result.Clustering.BlockingDims()
	assert.Equal(t, 3, dims[0]+dims[1])
}

func TestSearch_InitialClusters(t *testing.T) {
	tensor := twoBlocks8(t)
	result, err := Search(tensor, Config{InitialClusters: []int{2, 2}})
	require.NoError(t, err)

	seed, err := NewMulticlusteringK(tensor, []int{2, 2})
	require.NoError(t, err)
	assert.Equal(t, seed.Cost(), result.InitialCost)
	assert.LessOrEqual(t, result.Cost, result.InitialCost)
}

func TestSearch_ConfigErrors(t *testing.T) {
	tensor := twoBlocks8(t)
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"negative rounds", Config{MaxRounds: -1}, "MaxRounds"},
		{"negative regroup rounds", Config{MaxRegroupRounds: -2}, "MaxRegroupRounds"},
		{"negative workers", Config{Workers: -1}, "Workers"},
		{"short initial clusters", Config{InitialClusters: []int{2}}, "InitialClusters"},
		{"zero initial clusters", Config{InitialClusters: []int{0, 1}}, "InitialClusters[0]"},
		{"too many initial clusters", Config{InitialClusters: []int{1, 9}}, "InitialClusters[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Search(tensor, tt.cfg)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, strings.HasPrefix(err.Error(), "crossassoc: "))
		})
	}
}

func TestRegroup_CollapsesRoundRobinSeed(t *testing.T) {
	tensor := twoBlocks8(t)
	m, err := NewMulticlusteringK(tensor, []int{2, 2})
	require.NoError(t, err)

	cost := Regroup(m, DefaultConfig())
	assert.Equal(t, m.Cost(), cost)
	assert.Equal(t, []int{1, 1}, m.BlockingDims())
	assert.Equal(t, NewMulticlustering(tensor).Cost(), cost)
}

func TestRegroup_StableAtOptimum(t *testing.T) {
	m, err := NewMulticlusteringFrom(twoBlocks8(t), []Clustering{
		{{0, 1, 2, 3}, {4, 5, 6, 7}},
		{{0, 1, 2, 3, 4, 5}, {6, 7}},
	})
	require.NoError(t, err)
	before := m.Clusterings()

	cost := Regroup(m, DefaultConfig())
	assert.Equal(t, before, m.Clusterings())
	assert.Equal(t, m.Cost(), cost)
}

// logRecords decodes the JSON lines written by a slog.JSONHandler.
func logRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		records = append(records, rec)
	}
	return records
}

func TestRegroup_RoundLimitWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	m, err := NewMulticlusteringK(twoBlocks8(t), []int{2, 2})
	require.NoError(t, err)
	Regroup(m, Config{MaxRegroupRounds: 1, Logger: logger})

	records := logRecords(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "WARN", records[0]["level"])
	assert.Equal(t, "regroup stopped at round limit", records[0]["msg"])
	assert.EqualValues(t, 1, records[0]["rounds"])
}

func TestSearch_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	result, err := Search(twoBlocks8(t), Config{Logger: logger})
	require.NoError(t, err)

	var msgs []string
	for _, rec := range logRecords(t, &buf) {
		msgs = append(msgs, rec["msg"].(string))
	}
	require.NotEmpty(t, msgs)
	assert.Equal(t, "search start", msgs[0])
	rounds := 0
	for _, msg := range msgs {
		if msg == "round complete" {
			rounds++
		}
	}
	assert.Equal(t, len(result.Rounds), rounds)
}
