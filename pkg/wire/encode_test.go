package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"
)

func TestEncoder_ExactWireBytes(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(WriterFunc(&buf))

	// 8 = byte length of the body; the header counts bytes, and the
	// terminator is exactly \r\n\r\n with no other header lines.
	if err := enc.EncodeRaw(json.RawMessage(`{"a": 1}`)); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	want := "Content-Length: 8\r\n\r\n{\"a\": 1}"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestEncoder_MarshalsCompactJSON(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(WriterFunc(&buf))

	if err := enc.Encode(map[string]any{"a": 1}); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	want := "Content-Length: 7\r\n\r\n{\"a\":1}"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestEncoder_MultiByteCharacters(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(WriterFunc(&buf))

	body := json.RawMessage(`"héllo"`) // 8 bytes, 7 characters
	if err := enc.EncodeRaw(body); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	want := "Content-Length: 8\r\n\r\n\"héllo\""
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestEncoder_UnserializableMessage(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(WriterFunc(&buf))

	err := enc.Encode(map[string]any{"ch": make(chan int)})
	if err == nil {
		t.Fatal("expected marshal error")
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should reach the stream on marshal failure, got %q", buf.String())
	}
}

func TestEncoder_WriteErrorPropagates(t *testing.T) {
	writeErr := errors.New("pipe broken")
	failing := func(p []byte) (int, error) {
		return 0, writeErr
	}
	enc := NewEncoder(failing)

	err := enc.Encode(map[string]any{"a": 1})
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected write error to propagate, got %v", err)
	}
}

func TestEncoder_ShortWrite(t *testing.T) {
	short := func(p []byte) (int, error) {
		return len(p) - 1, nil
	}
	enc := NewEncoder(short)

	err := enc.Encode(map[string]any{"a": 1})
	if !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("expected io.ErrShortWrite, got %v", err)
	}
}
