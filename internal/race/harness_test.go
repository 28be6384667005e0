package race

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIncrementDecrementCancelsExactly(t *testing.T) {
	// The N-step loops cancel; only the two unconditional +1s remain.
	for _, n := range []int64{0, 1, 10, 1_000_000} {
		h := New(Config{
			Iterations: n,
			Roles:      [2]Role{Increment, Decrement},
		})
		final, err := h.Run()
		require.NoError(t, err)
		assert.Equal(t, int64(2), final, "n=%d", n)
	}
}

func TestRunSameRolePairings(t *testing.T) {
	tests := []struct {
		name     string
		n        int64
		roles    [2]Role
		expected int64
	}{
		{"both increment, n=10", 10, [2]Role{Increment, Increment}, 22},
		{"both increment, n=0", 0, [2]Role{Increment, Increment}, 2},
		{"both decrement, n=10", 10, [2]Role{Decrement, Decrement}, -18},
		{"decrement first", 10, [2]Role{Decrement, Increment}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final, err := New(Config{Iterations: tt.n, Roles: tt.roles}).Run()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, final)
		})
	}
}

func TestRunIsDeterministicAcrossRuns(t *testing.T) {
	// Coarse locking means no lost updates: every fresh run lands on the
	// same value no matter which worker wins the lock.
	const runs = 50
	for i := 0; i < runs; i++ {
		final, err := New(Config{
			Iterations: 1000,
			Roles:      [2]Role{Increment, Decrement},
		}).Run()
		require.NoError(t, err)
		require.Equal(t, int64(2), final, "run %d", i)
	}
	for i := 0; i < runs; i++ {
		final, err := New(Config{
			Iterations: 1000,
			Roles:      [2]Role{Increment, Increment},
		}).Run()
		require.NoError(t, err)
		require.Equal(t, int64(2002), final, "run %d", i)
	}
}

func TestRunCriticalSectionsNeverOverlap(t *testing.T) {
	const runs = 50
	for i := 0; i < runs; i++ {
		rec := &SpanRecorder{}
		_, err := New(Config{
			Iterations: 1000,
			Roles:      [2]Role{Increment, Decrement},
			Tracer:     rec,
		}).Run()
		require.NoError(t, err)

		spans := rec.Spans()
		require.Len(t, spans, 2)
		assert.False(t, rec.Overlapping(), "run %d: critical sections overlapped", i)

		// The loser of the lock race must observe exactly the value the
		// winner left behind.
		assert.Equal(t, int64(0), spans[0].ValueIn)
		assert.Equal(t, spans[0].ValueOut, spans[1].ValueIn)
		for _, s := range spans {
			assert.False(t, s.ReleasedAt.Before(s.AcquiredAt))
		}
	}
}

func TestRunEitherWorkerMayGoFirst(t *testing.T) {
	// Ordering between the two workers is unspecified; whoever acquires
	// first, the result is the same. Exercise both role slots as winners by
	// running many times and only asserting the invariant result.
	rec := &SpanRecorder{}
	for i := 0; i < 20; i++ {
		final, err := New(Config{
			Iterations: 100,
			Roles:      [2]Role{Increment, Decrement},
			Tracer:     rec,
		}).Run()
		require.NoError(t, err)
		require.Equal(t, int64(2), final)
	}
	assert.Equal(t, 40, rec.Started())
	assert.Len(t, rec.Spans(), 40)
}

func TestRunLockInitFailureStartsNoWorker(t *testing.T) {
	cause := errors.New("out of lock descriptors")
	rec := &SpanRecorder{}
	final, err := New(Config{
		Iterations: 10,
		Roles:      [2]Role{Increment, Decrement},
		NewLock:    func() (sync.Locker, error) { return nil, cause },
		Tracer:     rec,
	}).Run()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLockInit), "error should wrap ErrLockInit, got %v", err)
	assert.Zero(t, final)
	assert.Equal(t, 0, rec.Started(), "no worker may start after a failed lock init")
}

func TestRunRejectsNegativeIterations(t *testing.T) {
	_, err := New(Config{Iterations: -1}).Run()
	require.Error(t, err)
}

func TestRunHarnessesAreIndependent(t *testing.T) {
	// Two harnesses in flight at once must not share state.
	var wg sync.WaitGroup
	results := make([]int64, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = New(Config{
				Iterations: 500,
				Roles:      [2]Role{Increment, Decrement},
			}).Run()
		}(i)
	}
	wg.Wait()
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, int64(2), results[i], "harness %d", i)
	}
}
