package wire

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrInvalidMessage indicates a malformed header block or body.
	ErrInvalidMessage = errors.New("wire: invalid message")

	// ErrHeaderTooLarge indicates the decoder gave up scanning for a
	// usable header block after consuming MaxHeaderBytes of input.
	ErrHeaderTooLarge = errors.New("wire: header block exceeds maximum size")
)

// FormatError provides detailed information about a framing or decoding
// error.
type FormatError struct {
	Offset int    // Approximate byte offset on the stream where the error occurred
	Reason string // Human-readable explanation
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("wire: format error at offset %d: %s", e.Offset, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidMessage
}
