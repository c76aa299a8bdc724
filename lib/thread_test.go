package lib

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetThreads(t *testing.T) {
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(0))

	n, err := SetThreads(1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, runtime.GOMAXPROCS(0))

	n, err = SetThreads(-1)
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), n)

	_, err = SetThreads(0)
	assert.Error(t, err)
	_, err = SetThreads(-2)
	assert.Error(t, err)
	_, err = SetThreads(runtime.NumCPU() + 1)
	assert.Error(t, err)
}

func TestForEach(t *testing.T) {
	const n, threads = 50, 3
	var running, maxRunning, sum int64
	seen := make([]int32, n)

	err := ForEach(context.Background(), n, threads,
		func(ctx context.Context, i int) error {
			r := atomic.AddInt64(&running, 1)
			for {
				m := atomic.LoadInt64(&maxRunning)
				if r <= m || atomic.CompareAndSwapInt64(&maxRunning, m, r) {
					break
				}
			}
			runtime.Gosched()
			atomic.AddInt32(&seen[i], 1)
			atomic.AddInt64(&sum, int64(i))
			atomic.AddInt64(&running, -1)
			return nil
		})

	require.NoError(t, err)
	assert.LessOrEqual(t, maxRunning, int64(threads))
	assert.Equal(t, int64(n*(n-1)/2), sum)
	for i := range seen {
		assert.Equal(t, int32(1), seen[i], "index %d", i)
	}
}

func TestForEachError(t *testing.T) {
	errBad := errors.New("bad index")
	var calls int64

	err := ForEach(context.Background(), 100, 1,
		func(ctx context.Context, i int) error {
			atomic.AddInt64(&calls, 1)
			if i == 3 {
				return errBad
			}
			return nil
		})

	assert.ErrorIs(t, err, errBad)
	// With a single thread nothing after the failure starts.
	assert.Equal(t, int64(4), calls)

	assert.NoError(t, ForEach(context.Background(), 0, 4,
		func(ctx context.Context, i int) error { return errBad }))
}
