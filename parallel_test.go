package crossassoc

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelFor_VisitsEveryIndexOnce(t *testing.T) {
	for _, workers := range []int{0, 1, 2, 3, 7, 64} {
		for _, n := range []int{0, 1, 5, 16, 33} {
			hits := make([]int32, n)
			parallelFor(n, workers, func(i int) {
				atomic.AddInt32(&hits[i], 1)
			})
			for i, h := range hits {
				assert.Equal(t, int32(1), h, "workers=%d n=%d index=%d", workers, n, i)
			}
		}
	}
}

func TestParallelFor_MoreWorkersThanItems(t *testing.T) {
	var calls atomic.Int32
	parallelFor(3, 10, func(int) { calls.Add(1) })
	assert.Equal(t, int32(3), calls.Load())
}
