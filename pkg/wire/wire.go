package wire

import (
	"errors"
	"io"
	"log/slog"
)

// ReadFunc is the read capability supplied by the transport. It reads up
// to max bytes and may return fewer. A zero-length result with a nil error
// signals that the stream has closed and no more bytes will arrive.
type ReadFunc func(max int) ([]byte, error)

// WriteFunc is the write capability supplied by the transport. It is
// expected to write all of p or return an error; partial-write recovery is
// a transport concern, not handled here.
type WriteFunc func(p []byte) (int, error)

// ReaderFunc adapts an io.Reader to the ReadFunc capability. io.EOF is
// mapped to the zero-length closure signal.
func ReaderFunc(r io.Reader) ReadFunc {
	return func(max int) ([]byte, error) {
		buf := make([]byte, max)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				return buf[:n], nil
			}
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			// n == 0 with nil error is a legal but empty read; try again.
		}
	}
}

// WriterFunc adapts an io.Writer to the WriteFunc capability.
func WriterFunc(w io.Writer) WriteFunc {
	return w.Write
}

// Decoder reads Content-Length framed JSON messages from a byte stream.
//
// A Decoder is not safe for concurrent use; it is driven by a single
// reader, typically the pump's worker goroutine.
type Decoder struct {
	read ReadFunc
	log  *slog.Logger

	buf    []byte
	offset int // bytes consumed off the stream, for error reporting

	chunkSize      int
	maxHeaderBytes int
}

// NewDecoder creates a decoder that pulls bytes through read.
//
// Optional configuration can be provided via Option functions:
//
//	dec := wire.NewDecoder(wire.ReaderFunc(conn), wire.ChunkSize(4096))
func NewDecoder(read ReadFunc, opts ...Option) *Decoder {
	cfg := newConfig(opts)
	return &Decoder{
		read:           read,
		log:            cfg.logger,
		chunkSize:      cfg.chunkSize,
		maxHeaderBytes: cfg.maxHeaderBytes,
	}
}

// Encoder writes Content-Length framed JSON messages to a byte stream.
//
// Encode runs synchronously on the calling goroutine and performs no
// internal locking; callers that share an Encoder across goroutines must
// serialize their calls.
type Encoder struct {
	write WriteFunc
	log   *slog.Logger
}

// NewEncoder creates an encoder that pushes bytes through write. Only the
// WithLogger option is meaningful for an Encoder.
func NewEncoder(write WriteFunc, opts ...Option) *Encoder {
	cfg := newConfig(opts)
	return &Encoder{
		write: write,
		log:   cfg.logger,
	}
}
