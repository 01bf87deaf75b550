package wire

import (
	"encoding/json"
	"fmt"
	"io"
)

// Encode marshals msg to JSON and writes it to the stream as a single
// framed message: a Content-Length header line, the blank-line terminator,
// then the body bytes.
//
// Example:
//
//	enc.Encode(map[string]any{"seq": 1}) // writes `Content-Length: 9\r\n\r\n{"seq":1}`
func (e *Encoder) Encode(msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	return e.EncodeRaw(body)
}

// EncodeRaw writes a pre-marshalled JSON body as a framed message. The
// Content-Length field counts the encoded bytes of body, not characters.
func (e *Encoder) EncodeRaw(body json.RawMessage) error {
	e.log.Debug("<- message", "body", string(body))

	header := fmt.Appendf(nil, "Content-Length: %d\r\n\r\n", len(body))
	if err := e.writeAll(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := e.writeAll(body); err != nil {
		return fmt.Errorf("writing body: %w", err)
	}
	return nil
}

// writeAll pushes p through the write capability. The capability is
// expected to accept the whole buffer or fail; a short count with no
// error is reported as io.ErrShortWrite.
func (e *Encoder) writeAll(p []byte) error {
	n, err := e.write(p)
	if err != nil {
		return err
	}
	if n < len(p) {
		return io.ErrShortWrite
	}
	return nil
}
