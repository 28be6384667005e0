// Package race implements the classic two-worker mutex demonstration: two
// concurrent workers contend for one shared counter guarded by a single lock,
// and each worker holds the lock across its entire loop. Coarse-grained
// locking is the point of the exercise — only one worker's loop ever runs at
// a time, so no intermediate interleaved value is observable and the final
// value is deterministic.
package race

import (
	"errors"
	"fmt"
	"sync"
)

// ErrLockInit indicates the lock guarding the shared counter could not be
// created. No worker is started when this is returned.
var ErrLockInit = errors.New("lock initialization failed")

// progressInterval is how many adjustments a worker performs between
// Progress callbacks.
const progressInterval = 1_000_000

// Config describes one harness run.
type Config struct {
	// Iterations is the per-worker loop count N. Each worker applies one
	// unconditional +1 on entering the critical section and then N steps in
	// its role's direction. Must be >= 0.
	Iterations int64

	// Roles assigns a direction to each of the two workers. The zero value
	// is {Increment, Increment}.
	Roles [2]Role

	// NewLock builds the lock guarding the counter. Nil means *sync.Mutex,
	// which cannot fail; a non-nil factory that returns an error aborts the
	// run with ErrLockInit.
	NewLock func() (sync.Locker, error)

	// Tracer observes worker lifecycle events. May be nil.
	Tracer Tracer
}

// Harness owns the shared counter and its lock for the duration of one run.
// All state is per-instance, so independent harnesses can run concurrently
// in the same process. A single Harness must not have Run called from more
// than one goroutine at a time.
type Harness struct {
	cfg     Config
	lock    sync.Locker
	counter int64
}

// New returns a Harness for the given configuration.
func New(cfg Config) *Harness {
	return &Harness{cfg: cfg}
}

// Run executes the race: it creates the lock, starts both workers, waits for
// both to terminate, and returns the final counter value. The join has no
// timeout and no cancellation. For roles {Increment, Decrement} with equal
// iteration counts the result is always 2; for {Increment, Increment} it is
// always 2 + 2N.
func (h *Harness) Run() (int64, error) {
	if h.cfg.Iterations < 0 {
		return 0, fmt.Errorf("iterations must be >= 0, got %d", h.cfg.Iterations)
	}

	newLock := h.cfg.NewLock
	if newLock == nil {
		newLock = func() (sync.Locker, error) { return &sync.Mutex{}, nil }
	}
	lock, err := newLock()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLockInit, err)
	}
	h.lock = lock
	h.counter = 0

	var wg sync.WaitGroup
	for i, role := range h.cfg.Roles {
		wg.Add(1)
		go func(worker int, role Role) {
			defer wg.Done()
			h.work(worker, role)
		}(i, role)
	}
	wg.Wait()

	// Both workers have terminated; the join is the happens-before edge
	// that makes this read safe without the lock.
	return h.counter, nil
}

// work is the single worker routine, shared by both roles. The initial +1
// and the whole N-step loop happen inside one lock acquisition.
func (h *Harness) work(worker int, role Role) {
	t := h.tracer()
	t.WorkerStarted(worker, role)

	h.lock.Lock()
	t.LockAcquired(worker, h.counter)

	h.counter++
	step := role.step()
	for i := int64(1); i <= h.cfg.Iterations; i++ {
		h.counter += step
		if i%progressInterval == 0 {
			t.Progress(worker, i, h.cfg.Iterations)
		}
	}

	// Traced before Unlock so recorded critical-section windows close while
	// the lock is still held; otherwise the other worker's acquire could be
	// stamped ahead of this release.
	t.LockReleased(worker, h.counter)
	h.lock.Unlock()

	t.WorkerDone(worker)
}

func (h *Harness) tracer() Tracer {
	if h.cfg.Tracer != nil {
		return h.cfg.Tracer
	}
	return nopTracer{}
}
