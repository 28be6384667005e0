package race

import (
	"fmt"
	"sync"
)

// JobConfig describes a job pool run.
type JobConfig struct {
	// Jobs is how many workers contend for the lock. Must be >= 1.
	Jobs int

	// NewLock builds the lock guarding the job counter. Nil means *sync.Mutex.
	NewLock func() (sync.Locker, error)

	// Tracer observes job lifecycle events. May be nil.
	Tracer Tracer
}

// JobPool is the many-worker variant of the race: each of M workers takes the
// same lock exactly once, bumps the shared counter, and the value after its
// own bump is that worker's job number. The lock serializes the pool, so job
// numbers are a permutation of 1..M and the final count is always M.
type JobPool struct {
	cfg     JobConfig
	lock    sync.Locker
	counter int64
}

// NewJobPool returns a JobPool for the given configuration.
func NewJobPool(cfg JobConfig) *JobPool {
	return &JobPool{cfg: cfg}
}

// Run starts all jobs, waits for every one to terminate, and returns the
// final counter value.
func (p *JobPool) Run() (int64, error) {
	if p.cfg.Jobs < 1 {
		return 0, fmt.Errorf("job pool needs at least 1 job, got %d", p.cfg.Jobs)
	}

	newLock := p.cfg.NewLock
	if newLock == nil {
		newLock = func() (sync.Locker, error) { return &sync.Mutex{}, nil }
	}
	lock, err := newLock()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLockInit, err)
	}
	p.lock = lock
	p.counter = 0

	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Jobs; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			p.job(worker)
		}(i)
	}
	wg.Wait()

	return p.counter, nil
}

func (p *JobPool) job(worker int) {
	t := p.tracer()
	t.WorkerStarted(worker, Increment)

	p.lock.Lock()
	t.LockAcquired(worker, p.counter)
	p.counter++
	t.LockReleased(worker, p.counter)
	p.lock.Unlock()

	t.WorkerDone(worker)
}

func (p *JobPool) tracer() Tracer {
	if p.cfg.Tracer != nil {
		return p.cfg.Tracer
	}
	return nopTracer{}
}
