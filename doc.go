// Package crossassoc finds cross-associations: a co-clustering of every axis
// of an N-way array of small integers such that the block structure it
// induces has a short two-part description length.
//
// The cost of a multiclustering is the cost of describing the model (which
// cluster each unit belongs to, and the value distribution of each block)
// plus the cost of describing the data given that model (the codelength of
// each block under its own value frequencies). Both are measured in nats.
//
// Basic usage:
//
//	t, err := crossassoc.NewTensor([]int{rows, cols}, data, 2)
//	result, err := crossassoc.Search(t, crossassoc.DefaultConfig())
//	// result.Clustering.Clustering(0) lists the row clusters
//	// result.Clustering.BlockFrequencies([]int{r, c}) is the density of a block
//
// # Search
//
// Search starts from one cluster per axis. Each round it tries to add one
// cluster to every axis in turn (AddCluster), lets units move to cheaper
// clusters until nothing changes (Regroup, built on Optimize), and keeps the
// best of these candidates if it lowers the cost. The search is greedy and
// deterministic: member order, the last-to-first scan in AddCluster and the
// lowest-index tie-break in Optimize all decide which local optimum is found.
//
// # Cursors
//
// Every scan of the tensor or of the blocking grid goes through a Cursor,
// which enumerates the Cartesian product of per-axis index lists while
// holding some axes fixed.
package crossassoc
