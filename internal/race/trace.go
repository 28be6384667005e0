package race

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// A Tracer observes worker lifecycle events. Tracing is diagnostic only:
// the harness produces the same result with a nil Tracer, and implementations
// must be safe for concurrent use since both workers report through the
// same Tracer.
//
// LockAcquired, Progress, and LockReleased are invoked while the reporting
// worker still holds the lock, so recorded critical-section windows nest
// strictly inside the real ones.
type Tracer interface {
	WorkerStarted(worker int, role Role)
	LockAcquired(worker int, value int64)
	Progress(worker int, done, total int64)
	LockReleased(worker int, value int64)
	WorkerDone(worker int)
}

// nopTracer is used when Config.Tracer is nil.
type nopTracer struct{}

func (nopTracer) WorkerStarted(int, Role)    {}
func (nopTracer) LockAcquired(int, int64)    {}
func (nopTracer) Progress(int, int64, int64) {}
func (nopTracer) LockReleased(int, int64)    {}
func (nopTracer) WorkerDone(int)             {}

// Span is one worker's stay inside the critical section: the counter value it
// observed on entry, the value it left behind, and the wall-clock window
// between acquiring and releasing the lock.
type Span struct {
	Worker     int
	ValueIn    int64
	ValueOut   int64
	AcquiredAt time.Time
	ReleasedAt time.Time
}

// Overlaps reports whether two spans' critical-section windows intersect.
func (s Span) Overlaps(o Span) bool {
	return s.AcquiredAt.Before(o.ReleasedAt) && o.AcquiredAt.Before(s.ReleasedAt)
}

// SpanRecorder is a Tracer that captures critical-section spans so tests can
// assert mutual exclusion. The zero value is ready to use.
type SpanRecorder struct {
	mu      sync.Mutex
	started int
	open    map[int]Span
	spans   []Span
}

func (r *SpanRecorder) WorkerStarted(worker int, role Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *SpanRecorder) LockAcquired(worker int, value int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open == nil {
		r.open = make(map[int]Span)
	}
	r.open[worker] = Span{Worker: worker, ValueIn: value, AcquiredAt: time.Now()}
}

func (r *SpanRecorder) Progress(int, int64, int64) {}

func (r *SpanRecorder) LockReleased(worker int, value int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.open[worker]
	if !ok {
		return
	}
	delete(r.open, worker)
	s.ValueOut = value
	s.ReleasedAt = time.Now()
	r.spans = append(r.spans, s)
}

func (r *SpanRecorder) WorkerDone(int) {}

// Started returns how many workers reported starting.
func (r *SpanRecorder) Started() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// Spans returns a copy of the completed spans in release order.
func (r *SpanRecorder) Spans() []Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Span, len(r.spans))
	copy(out, r.spans)
	return out
}

// Overlapping reports whether any two completed spans intersect in time.
// A correct harness never produces overlapping spans.
func (r *SpanRecorder) Overlapping() bool {
	spans := r.Spans()
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			if spans[i].Overlaps(spans[j]) {
				return true
			}
		}
	}
	return false
}

// LogTracer writes lifecycle events through a zap logger in the spirit of the
// classic mutex demos ("acquired lock, counter = N"). Progress lines are
// throttled to roughly one per second so long runs don't flood stderr.
type LogTracer struct {
	lg  *zap.SugaredLogger
	lim *rate.Limiter
}

func NewLogTracer(lg *zap.SugaredLogger) *LogTracer {
	return &LogTracer{
		lg:  lg,
		lim: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (t *LogTracer) WorkerStarted(worker int, role Role) {
	t.lg.Infof("worker %d (%s) starting", worker, role)
}

func (t *LogTracer) LockAcquired(worker int, value int64) {
	t.lg.Infof("worker %d acquired lock, counter = %d", worker, value)
}

func (t *LogTracer) Progress(worker int, done, total int64) {
	if t.lim.Allow() {
		t.lg.Infof("worker %d progress: %d/%d", worker, done, total)
	}
}

func (t *LogTracer) LockReleased(worker int, value int64) {
	t.lg.Infof("worker %d released lock, counter = %d", worker, value)
}

func (t *LogTracer) WorkerDone(worker int) {
	t.lg.Infof("worker %d finished", worker)
}
