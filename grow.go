package crossassoc

import "slices"

// SplitCluster returns the cluster of axis with the strictly highest average
// data cost per unit. It returns false when no cluster has a positive
// average, meaning every block on the axis is already encoded for free.
func (m *Multiclustering) SplitCluster(axis int) (int, bool) {
	m.checkAxis(axis)
	index, highest := -1, 0.0
	for c, members := range m.clusterings[axis] {
		avg := m.clusterCost(axis, c) / float64(len(members))
		if avg > highest {
			index, highest = c, avg
		}
	}
	return index, index >= 0
}

// AddCluster grows axis by one cluster. It takes the cluster chosen by
// SplitCluster and scans its members from last to first. A member is moved
// to a new cluster when taking it out lowers the average cost of what is
// left below the best average seen so far; that lower average becomes the
// threshold for the rest of the scan.
//
// It returns false and leaves the clustering unchanged when no member moves.
// If the source cluster is emptied it is removed.
func (m *Multiclustering) AddCluster(axis int) bool {
	cluster, ok := m.SplitCluster(axis)
	if !ok {
		return false
	}

	members := m.clusterings[axis][cluster]
	units := len(members)
	blocks := m.blockingSize(axis)

	sigs := make([][][]int, units)
	aggregate := newSignature(blocks, m.tensor.values)
	for i := range members {
		sigs[i] = m.unitSignature(axis, cluster, i)
		addSignature(aggregate, sigs[i])
	}

	best := signatureCost(aggregate) / float64(units)
	remaining := units
	reduced := newSignature(blocks, m.tensor.values)
	var spill []int

	for i := units - 1; i >= 0; i-- {
		// The last member left cannot move.
		if remaining == 1 {
			break
		}
		copySignature(reduced, aggregate)
		subSignature(reduced, sigs[i])
		cost := signatureCost(reduced) / float64(remaining-1)
		if cost < best {
			spill = append(spill, members[i])
			members = slices.Delete(members, i, i+1)
			best = cost
			aggregate, reduced = reduced, aggregate
			remaining--
		}
	}

	if len(spill) == 0 {
		return false
	}

	m.clusterings[axis][cluster] = members
	m.clusterings[axis] = append(m.clusterings[axis], spill)
	if len(members) == 0 {
		m.clusterings[axis] = slices.Delete(m.clusterings[axis], cluster, cluster+1)
	}
	return true
}
