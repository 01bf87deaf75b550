// Package wire implements encoding and decoding of Content-Length framed
// JSON messages, the wire format used by debug-adapter style tooling.
//
// Each message on the stream is a header block followed by a JSON body:
//
//	Content-Length: 13\r\n
//	\r\n
//	{"ok": true}
//
// The header block is terminated by a blank line (\r\n\r\n). Multiple
// header lines are tolerated on input; only Content-Length is interpreted,
// and it counts encoded bytes of the UTF-8 body, not characters. Outgoing
// messages always carry exactly one header line.
//
// # Basic Usage
//
// Encoding:
//
//	enc := wire.NewEncoder(wire.WriterFunc(conn))
//	enc.Encode(map[string]any{"seq": 1, "type": "request"})
//
// Decoding:
//
//	dec := wire.NewDecoder(wire.ReaderFunc(conn))
//	for {
//		msg, err := dec.Decode()
//		if err == io.EOF {
//			break
//		}
//		...
//	}
//
// # Design Principles
//
// The decoder pulls bytes through a ReadFunc capability: a bounded read
// that may return fewer bytes than requested, and signals stream closure
// with a zero-length result. This makes the decoder independent of the
// transport - a stdio pair, a TCP connection, or any pair of blocking
// callbacks works. ReaderFunc and WriterFunc adapt the stdlib io
// interfaces to the capability types.
//
// The decoder owns an accumulating buffer and handles input arriving in
// arbitrary chunk sizes; bytes belonging to an unparsed header or an
// incompletely received body are never discarded, and bytes belonging to
// the next message are never consumed early.
//
// # Error Taxonomy
//
// Decode distinguishes three failure classes:
//
//   - io.EOF: the peer closed the stream at a message boundary.
//   - io.ErrUnexpectedEOF: the stream closed while a body was still owed.
//   - *FormatError: a well-framed but undecodable message (bad UTF-8 or
//     JSON), or a header carrying an unparseable Content-Length value.
//
// A header block with no Content-Length line at all is logged and skipped;
// the decoder keeps scanning for a well-formed block. The MaxHeaderBytes
// option bounds how much input may be consumed that way before the stream
// is treated as fatally malformed (ErrHeaderTooLarge).
package wire
