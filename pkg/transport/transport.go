// Package transport wires the framing codec and the message pump onto
// concrete byte channels: a stdio pair, arbitrary file descriptors, or a
// TCP connection served by Server. It owns transport setup only; message
// interpretation stays with the caller's handler.
package transport

import (
	"context"
	"io"
	"log/slog"

	"github.com/dapwire/dapwire/pkg/pump"
	"github.com/dapwire/dapwire/pkg/wire"
)

// config holds session configuration.
type config struct {
	logger   *slog.Logger
	wireOpts []wire.Option
}

func newConfig(opts []Option) *config {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures a Session.
type Option func(*config)

// WithLogger sets the logger for the session and its codec.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
			c.wireOpts = append(c.wireOpts, wire.WithLogger(logger))
		}
	}
}

// ChunkSize sets the codec's bounded-read size.
func ChunkSize(n int) Option {
	return func(c *config) {
		c.wireOpts = append(c.wireOpts, wire.ChunkSize(n))
	}
}

// MaxHeaderBytes caps the codec's header scan.
func MaxHeaderBytes(n int) Option {
	return func(c *config) {
		c.wireOpts = append(c.wireOpts, wire.MaxHeaderBytes(n))
	}
}

// Session couples a decoder-driven pump with an encoder over one
// bidirectional byte channel. Inbound traffic is driven by the pump's
// worker; outbound traffic happens synchronously on whichever goroutine
// calls Send.
type Session struct {
	enc *wire.Encoder
	pmp *pump.Pump
	log *slog.Logger
}

// NewSession builds a session reading from r and writing to w.
func NewSession(r io.Reader, w io.Writer, opts ...Option) *Session {
	cfg := newConfig(opts)
	dec := wire.NewDecoder(wire.ReaderFunc(r), cfg.wireOpts...)
	return &Session{
		enc: wire.NewEncoder(wire.WriterFunc(w), cfg.wireOpts...),
		pmp: pump.New(dec, pump.WithLogger(cfg.logger)),
		log: cfg.logger,
	}
}

// Send encodes msg and writes it to the channel immediately. Callers
// sharing a session across goroutines must serialize Send calls.
func (s *Session) Send(msg any) error {
	return s.enc.Encode(msg)
}

// Run pumps inbound messages to h until the stream ends or ctx is
// cancelled, then joins the worker and returns. h receives the usual
// terminal nil when the stream ends.
//
// Cancelling ctx stops the pump cooperatively; a worker blocked in a
// read only unblocks when the underlying channel is closed, so hosts
// that need bounded shutdown should close the transport on cancel (the
// TCP Server does).
func (s *Session) Run(ctx context.Context, h pump.Handler) error {
	ended := make(chan struct{})
	err := s.pmp.Start(func(msg any) {
		h(msg)
		if msg == nil {
			close(ended)
		}
	})
	if err != nil {
		return err
	}

	select {
	case <-ended:
	case <-ctx.Done():
	}
	s.pmp.Shutdown()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return s.pmp.Cause()
}
