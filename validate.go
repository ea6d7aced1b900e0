package crossassoc

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// ErrPartition is returned when a clustering is not a partition of its axis
// into non-empty clusters.
var ErrPartition = errors.New("crossassoc: invalid partition")

// Validate checks that every axis is partitioned: clusters are non-empty,
// pairwise disjoint, and together cover exactly the axis's units.
func (m *Multiclustering) Validate() error {
	if len(m.clusterings) != m.tensor.Ways() {
		return fmt.Errorf("%w: %d clusterings for a %d-way tensor", ErrPartition, len(m.clusterings), m.tensor.Ways())
	}
	for axis, c := range m.clusterings {
		if err := validateClustering(c, m.tensor.Dim(axis)); err != nil {
			return fmt.Errorf("%w: axis %d: %w", ErrPartition, axis, err)
		}
	}
	return nil
}

func validateClustering(c Clustering, units int) error {
	if len(c) == 0 {
		return errors.New("no clusters")
	}
	seen := roaring.New()
	for cluster, members := range c {
		if len(members) == 0 {
			return fmt.Errorf("cluster %d is empty", cluster)
		}
		for _, u := range members {
			if u < 0 || u >= units {
				return fmt.Errorf("cluster %d holds unit %d, want [0, %d)", cluster, u, units)
			}
			if !seen.CheckedAdd(uint32(u)) {
				return fmt.Errorf("unit %d appears in more than one place (again in cluster %d)", u, cluster)
			}
		}
	}
	if seen.GetCardinality() != uint64(units) {
		missing := roaring.Flip(seen, 0, uint64(units))
		return fmt.Errorf("unit %d is not assigned (%d of %d units missing)", missing.Minimum(), missing.GetCardinality(), units)
	}
	return nil
}
