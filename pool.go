package main

import (
	"runtime"
	"sync"
)

// defaultWorkers is the worker count used when the caller passes 0.
func defaultWorkers() int {
	return runtime.NumCPU()
}

// parallelStripes splits [0, n) into contiguous stripes and runs fn on each
// stripe in its own goroutine, returning once all stripes are done. fn must
// only write to state owned by its own index range.
func parallelStripes(n, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if workers < 1 {
		workers = defaultWorkers()
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		fn(0, n)
		return
	}

	perWorker := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		lo := i * perWorker
		if lo >= n {
			break
		}
		hi := min(lo+perWorker, n)

		wg.Add(1)
		go runStripe(fn, lo, hi, &wg)
	}
	wg.Wait()
}

func runStripe(fn func(lo, hi int), lo, hi int, wg *sync.WaitGroup) {
	defer wg.Done()
	fn(lo, hi)
}
