package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"
)

var (
	headerTerminator    = []byte("\r\n\r\n")
	headerLineSeparator = []byte("\r\n")
	contentLengthPrefix = []byte("Content-Length:")
)

// Decode reads the next message off the stream and unmarshals its body
// into a generic JSON value (map[string]any, []any, or a scalar).
//
// Returns io.EOF when the peer closes the stream at a message boundary,
// io.ErrUnexpectedEOF when it closes mid-body, and *FormatError for a
// message that framed correctly but failed to decode.
func (d *Decoder) Decode() (any, error) {
	body, err := d.DecodeRaw()
	if err != nil {
		return nil, err
	}

	var msg any
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, &FormatError{
			Offset: d.offset,
			Reason: fmt.Sprintf("body is not valid JSON: %v", err),
		}
	}
	return msg, nil
}

// DecodeRaw reads the next message off the stream and returns its body as
// validated raw JSON, without unmarshalling. Error behavior is the same
// as Decode.
func (d *Decoder) DecodeRaw() (json.RawMessage, error) {
	length, err := d.recvHeaders()
	if err != nil {
		return nil, err
	}

	body, err := d.recvBody(length)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(body) {
		return nil, &FormatError{
			Offset: d.offset,
			Reason: "body is not valid UTF-8",
		}
	}
	if !json.Valid(body) {
		return nil, &FormatError{
			Offset: d.offset,
			Reason: "body is not valid JSON",
		}
	}

	d.log.Debug("-> message", "body", string(body))
	return json.RawMessage(body), nil
}

// recvHeaders accumulates input until a complete header block (terminated
// by a blank line) with a usable Content-Length field is available,
// consumes it, and returns the announced body length.
//
// Blocks with no Content-Length line are logged and skipped rather than
// aborting the stream; the scan is bounded by MaxHeaderBytes so a peer
// that never produces a usable block cannot buffer input forever.
func (d *Decoder) recvHeaders() (int, error) {
	scanned := 0
	for {
		for {
			pos := bytes.Index(d.buf, headerTerminator)
			if pos < 0 {
				break
			}

			block := d.buf[:pos]
			consumed := pos + len(headerTerminator)
			d.buf = d.buf[consumed:]
			d.offset += consumed
			scanned += consumed

			length, found, err := parseContentLength(block, d.offset)
			if err != nil {
				return 0, err
			}
			if found {
				return length, nil
			}
			d.log.Error("no Content-Length header", "offset", d.offset)
		}

		if scanned+len(d.buf) > d.maxHeaderBytes {
			return 0, ErrHeaderTooLarge
		}

		chunk, err := d.read(d.chunkSize)
		if err != nil {
			return 0, fmt.Errorf("reading headers: %w", err)
		}
		if len(chunk) == 0 {
			return 0, io.EOF
		}
		d.buf = append(d.buf, chunk...)
	}
}

// recvBody accumulates input until at least length bytes are buffered,
// then consumes and returns exactly that many. Bytes beyond length stay
// buffered; they belong to the next message.
func (d *Decoder) recvBody(length int) ([]byte, error) {
	for len(d.buf) < length {
		chunk, err := d.read(d.chunkSize)
		if err != nil {
			return nil, fmt.Errorf("reading body: %w", err)
		}
		if len(chunk) == 0 {
			// The peer closed while still owing us body bytes.
			return nil, io.ErrUnexpectedEOF
		}
		d.buf = append(d.buf, chunk...)
	}

	body := make([]byte, length)
	copy(body, d.buf)
	d.buf = d.buf[length:]
	d.offset += length
	return body, nil
}

// parseContentLength extracts the Content-Length value from a header
// block. When several lines carry the field, the last one wins. A block
// without the field returns found=false; a field whose value does not
// parse as a non-negative integer is an error.
func parseContentLength(block []byte, offset int) (length int, found bool, err error) {
	for _, line := range bytes.Split(block, headerLineSeparator) {
		if !bytes.HasPrefix(line, contentLengthPrefix) {
			continue
		}
		value := string(bytes.TrimSpace(line[len(contentLengthPrefix):]))
		n, convErr := strconv.Atoi(value)
		if convErr != nil || n < 0 {
			return 0, false, &FormatError{
				Offset: offset,
				Reason: fmt.Sprintf("invalid Content-Length value %q", value),
			}
		}
		length, found = n, true
	}
	return length, found, nil
}
