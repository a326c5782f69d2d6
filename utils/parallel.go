// Package utils contains small shared helpers for math and bounded parallelism.
package utils

import (
	"context"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	viamutils "go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// IndexedWorkFunc runs for a single work item. Writes to distinct
// index-addressed slots need no synchronization; anything shared across
// indices does.
type IndexedWorkFunc func(ctx context.Context, idx int) error

// ForEachInParallel runs fn once per index in [0, n) across at most
// ParallelFactor workers and returns the combined errors. A panic inside fn is
// captured and reported as an error rather than crashing the process.
func ForEachInParallel(ctx context.Context, n int, fn IndexedWorkFunc) error {
	if n <= 0 {
		return nil
	}
	workers := ParallelFactor
	if n < workers {
		workers = n
	}

	indices := make(chan int, n)
	for i := 0; i < n; i++ {
		indices <- i
	}
	close(indices)

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var allErrs error
	storeErr := func(err error) {
		errMu.Lock()
		defer errMu.Unlock()
		allErrs = multierr.Combine(allErrs, err)
	}

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		viamutils.PanicCapturingGo(func() {
			defer wg.Done()
			for idx := range indices {
				if ctx.Err() != nil {
					storeErr(ctx.Err())
					return
				}
				func() {
					defer func() {
						if thePanic := recover(); thePanic != nil {
							storeErr(errors.Errorf("panic during parallel work item %d: %v", idx, thePanic))
						}
					}()
					if err := fn(ctx, idx); err != nil {
						storeErr(errors.Wrapf(err, "parallel work item %d", idx))
					}
				}()
			}
		})
	}
	wg.Wait()
	return allErrs
}
