// Package pump runs the inbound half of a wire session: a single
// background worker that decodes messages off the stream and hands them,
// in order, to a caller-supplied handler.
package pump

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dapwire/dapwire/pkg/wire"
)

// Errors returned by Start.
var (
	// ErrAlreadyStarted is returned when Start is called on a pump that
	// is not Idle. A pump runs at most once and cannot be restarted.
	ErrAlreadyStarted = errors.New("pump: already started")

	// ErrNilHandler is returned when Start is called without a handler.
	ErrNilHandler = errors.New("pump: nil handler")
)

// Handler receives decoded messages on the pump's worker goroutine, one
// call completing before the next begins. A nil message is the terminal
// signal: no more messages will ever be delivered on this pump. Callers
// must not assume the handler runs on their own goroutine.
type Handler func(msg any)

// State describes the pump lifecycle.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Pump continuously decodes messages from a wire.Decoder on a dedicated
// worker goroutine and dispatches them to the registered handler. All
// read-side failures are absorbed by the worker and converted into the
// single terminal nil delivery; Cause reports what actually ended the
// stream.
type Pump struct {
	dec *wire.Decoder
	log *slog.Logger

	stopping atomic.Bool
	done     chan struct{}

	mu      sync.Mutex
	state   State
	handler Handler
	cause   error
}

// Option configures a Pump.
type Option func(*Pump)

// WithLogger sets the logger the worker reports stream failures to.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pump) {
		if logger != nil {
			p.log = logger
		}
	}
}

// New creates an idle pump that will read messages from dec once started.
func New(dec *wire.Decoder, opts ...Option) *Pump {
	p := &Pump{
		dec:  dec,
		log:  slog.Default(),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the worker goroutine. Decoded messages are passed to h
// until Shutdown is called or the stream ends; on end-of-stream or any
// fatal decode failure, h is invoked one last time with nil.
//
// Start may be called exactly once; a pump that has run to completion
// stays Stopped.
func (p *Pump) Start(h Handler) error {
	if h == nil {
		return ErrNilHandler
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateIdle {
		return ErrAlreadyStarted
	}
	p.state = StateRunning
	p.handler = h

	go p.run(h)
	return nil
}

// Shutdown stops the pump and blocks until the worker goroutine has
// exited, then releases the handler reference. It is cooperative: a
// worker blocked in a read that never completes will block Shutdown too
// (close the underlying transport to unblock it).
//
// Safe to call after the worker has already terminated on its own, and
// safe to call more than once.
func (p *Pump) Shutdown() {
	p.mu.Lock()
	switch p.state {
	case StateIdle:
		// No worker was ever launched, so nothing else will close done;
		// close it here so repeated Shutdown calls don't block on it.
		p.state = StateStopped
		close(p.done)
		p.mu.Unlock()
		return
	case StateRunning:
		p.state = StateStopping
	}
	p.mu.Unlock()

	p.stopping.Store(true)
	<-p.done

	p.mu.Lock()
	p.state = StateStopped
	p.handler = nil
	p.mu.Unlock()
}

// State reports the current lifecycle state.
func (p *Pump) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Cause reports why message delivery ended: nil while the pump is live or
// after a clean peer close, otherwise the fatal decode or transport error.
// This is the out-of-band complement to the terminal nil handler call,
// which deliberately does not distinguish the two.
func (p *Pump) Cause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cause
}

// run is the worker loop: decode, dispatch, repeat. It owns all reads
// from the decoder; blocking on input stalls only this goroutine.
func (p *Pump) run(h Handler) {
	defer close(p.done)

	for !p.stopping.Load() {
		msg, err := p.dec.Decode()
		if err != nil {
			p.mu.Lock()
			if errors.Is(err, io.EOF) {
				p.log.Debug("peer closed the stream")
			} else {
				p.log.Error("message pump failed", "error", err)
				p.cause = err
			}
			p.state = StateStopped
			p.mu.Unlock()

			h(nil)
			return
		}
		h(msg)
	}
}
