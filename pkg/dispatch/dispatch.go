// Package dispatch provides the bounded run-loop a host pairs with a
// message pump: the pump's handler enqueues work here, and the host's
// main goroutine executes it in order by calling Run. This keeps session
// logic single-threaded even though messages arrive on the pump's worker.
package dispatch

// DefaultQueueSize is the queue capacity used when none is given.
const DefaultQueueSize = 10

// Loop is a FIFO queue of thunks executed by a single Run caller.
// Dispatch blocks while the queue is full, which backpressures producers.
type Loop struct {
	tasks chan func()

	// stopping is only touched from inside Run, via the thunk Stop
	// enqueues, so it needs no synchronization.
	stopping bool
}

// New creates a loop with the given queue capacity; size <= 0 selects
// DefaultQueueSize.
func New(size int) *Loop {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Loop{tasks: make(chan func(), size)}
}

// Dispatch enqueues fn for execution by Run, blocking while the queue is
// full.
func (l *Loop) Dispatch(fn func()) {
	l.tasks <- fn
}

// Run executes queued thunks one at a time until Stop takes effect. It
// blocks waiting for work; call it from the goroutine that owns the
// session state.
func (l *Loop) Run() {
	l.stopping = false
	for !l.stopping {
		fn := <-l.tasks
		fn()
	}
}

// Stop asks Run to return. The request travels through the queue, so
// everything dispatched before it still executes first. Safe to call
// from inside a running thunk or from another goroutine.
func (l *Loop) Stop() {
	l.Dispatch(func() { l.stopping = true })
}
