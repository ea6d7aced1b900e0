package crossassoc

// member locates a unit inside an axis's clustering.
type member struct {
	cluster int
	index   int
	unit    int
}

// Optimize reassigns every unit of axis to the cluster under which its
// signature is cheapest to encode. It reports whether any unit moved; false
// means the axis has converged.
//
// All signatures and cluster aggregates are computed before any unit is
// scored, and the new assignment is applied only after every unit has been
// scored. A unit is scored against its current cluster's aggregate as is,
// which still includes the unit's own counts. Ties go to the lowest cluster
// index. The rebuilt clustering numbers clusters by first use in unit order,
// and clusters left without members disappear.
func (m *Multiclustering) Optimize(axis int) bool {
	return m.OptimizeParallel(axis, 1)
}

// OptimizeParallel is Optimize with signature computation and unit scoring
// split across numWorkers goroutines. The result is identical to Optimize.
func (m *Multiclustering) OptimizeParallel(axis, numWorkers int) bool {
	m.checkAxis(axis)

	clustering := m.clusterings[axis]
	units := m.tensor.Dim(axis)

	// Cluster by cluster, last member first.
	order := make([]member, 0, units)
	for c, members := range clustering {
		for i := len(members) - 1; i >= 0; i-- {
			order = append(order, member{cluster: c, index: i, unit: members[i]})
		}
	}

	signatures := make([][][]int, units)
	parallelFor(len(order), numWorkers, func(k int) {
		o := order[k]
		signatures[o.unit] = m.unitSignature(axis, o.cluster, o.index)
	})

	blocks := m.blockingSize(axis)
	aggregates := make([][][]int, len(clustering))
	for c, members := range clustering {
		aggregates[c] = newSignature(blocks, m.tensor.values)
		for _, u := range members {
			addSignature(aggregates[c], signatures[u])
		}
	}

	assignments := make([]int, units)
	parallelFor(len(order), numWorkers, func(k int) {
		o := order[k]
		assignments[o.unit] = bestCluster(signatures[o.unit], aggregates, o.cluster)
	})

	changed := false
	for _, o := range order {
		if assignments[o.unit] != o.cluster {
			changed = true
			break
		}
	}
	if !changed {
		return false
	}

	m.clusterings[axis] = clusteringFromAssignments(assignments)
	return true
}

// bestCluster returns the cluster whose aggregate encodes sig most cheaply,
// scanning clusters from low to high index. current is kept if no cluster
// scores below MaxCost.
func bestCluster(sig [][]int, aggregates [][][]int, current int) int {
	best, bestCost := current, MaxCost
	for c, agg := range aggregates {
		cost := 0.0
		for b, counts := range sig {
			cost += CodelengthAgainst(counts, agg[b])
		}
		if cost < bestCost {
			best, bestCost = c, cost
		}
	}
	return best
}

// clusteringFromAssignments builds a clustering from per-unit cluster ids.
// Clusters are renumbered in order of first appearance and members are
// listed in ascending unit order.
func clusteringFromAssignments(assignments []int) Clustering {
	ids := make(map[int]int)
	var out Clustering
	for u, c := range assignments {
		id, ok := ids[c]
		if !ok {
			id = len(out)
			ids[c] = id
			out = append(out, nil)
		}
		out[id] = append(out[id], u)
	}
	return out
}

// unitSignature counts, for every cell of the grid over the other axes, the
// values in the slice of that block where axis is held at the index-th member
// of cluster. Slots are ordered by the grid cursor's SubIndex.
func (m *Multiclustering) unitSignature(axis, cluster, index int) [][]int {
	sig := make([][]int, m.blockingSize(axis))
	grid := m.gridCursor(axis, cluster)
	block := make([]int, len(m.clusterings))
	for ; !grid.End(); grid.Forward() {
		sig[grid.SubIndex()] = m.countOver(m.unitCursor(grid.TupleInto(block), axis, index))
	}
	return sig
}

func newSignature(blocks, values int) [][]int {
	sig := make([][]int, blocks)
	for b := range sig {
		sig[b] = make([]int, values)
	}
	return sig
}

func addSignature(dst, src [][]int) {
	for b, counts := range src {
		for v, n := range counts {
			dst[b][v] += n
		}
	}
}

func subSignature(dst, src [][]int) {
	for b, counts := range src {
		for v, n := range counts {
			dst[b][v] -= n
		}
	}
}

func copySignature(dst, src [][]int) {
	for b := range src {
		copy(dst[b], src[b])
	}
}
