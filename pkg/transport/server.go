package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"
)

// HandlerFunc receives each decoded message of a connection's session,
// with the session itself for replies. A nil msg means the session's
// stream has ended.
type HandlerFunc func(sess *Session, msg any)

// Server accepts TCP connections and runs one wire session per
// connection, sequentially: a new session begins only after the previous
// connection has ended.
type Server struct {
	Addr    string
	Handle  HandlerFunc
	Logger  *slog.Logger
	Options []Option // session options applied per connection
}

// ListenAndServe listens on srv.Addr and serves sessions until ctx is
// cancelled. Cancellation closes the listener and the live connection,
// which unblocks any in-flight read; it returns nil on clean shutdown.
func (srv *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", srv.Addr, err)
	}
	return srv.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is cancelled. The listener
// is closed on the way out.
func (srv *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := srv.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Info("server mode", "addr", ln.Addr())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		if err := ln.Close(); err != nil {
			log.Debug("error closing listener", "error", err)
		}
		return ctx.Err()
	})

	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("accept: %w", err)
			}
			if tcp, ok := conn.(*net.TCPConn); ok {
				_ = tcp.SetNoDelay(true)
			}
			log.Info("new connection", "remote", conn.RemoteAddr())
			srv.serve(ctx, conn, log)
			log.Info("session ended, waiting for new connections")
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (srv *Server) serve(ctx context.Context, conn net.Conn, log *slog.Logger) {
	defer conn.Close()

	// Close the connection when ctx cancels so the pump's blocking read
	// unwinds instead of pinning shutdown.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	opts := append([]Option{WithLogger(log)}, srv.Options...)
	sess := NewSession(conn, conn, opts...)

	err := sess.Run(ctx, func(msg any) {
		srv.Handle(sess, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("session ended with error", "remote", conn.RemoteAddr(), "error", err)
	}
}
