package lib

/* thread.go contains functions useful for multi-threading. */

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SetThreads sets the number of threads mpmdump uses and returns that number.
// n = -1 uses every core.
func SetThreads(n int) (int, error) {
	if n == -1 {
		n = runtime.NumCPU()
	} else if n < 1 {
		return 0, fmt.Errorf("%d threads requested, but at least one is "+
			"needed.", n)
	} else if n > runtime.NumCPU() {
		return 0, fmt.Errorf("%d threads requested, but your system only "+
			"has %d cores. If you want mpmdump to use every core, set "+
			"Threads=-1.", n, runtime.NumCPU())
	}

	runtime.GOMAXPROCS(n)
	return n, nil
}

// ForEach calls f(ctx, i) for every i in [0, n), running at most threads
// calls at once. It returns the first error. After a failure ctx is
// cancelled and calls which haven't started yet are skipped.
func ForEach(
	ctx context.Context, n, threads int,
	f func(ctx context.Context, i int) error,
) error {
	if threads < 1 {
		threads = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return f(ctx, i)
		})
	}
	return g.Wait()
}
