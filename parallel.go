package crossassoc

import "sync"

// parallelFor calls fn(i) for every i in [0, n) using numWorkers goroutines.
// Each worker handles a contiguous range of indices. fn must only write to
// locations owned by its index. If numWorkers <= 1 it runs sequentially.
func parallelFor(n, numWorkers int, fn func(i int)) {
	if numWorkers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	perWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		end := start + perWorker
		if end > n {
			end = n
		}
		if start >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}

	wg.Wait()
}
