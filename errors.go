package ndarray

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidShape  = errors.New("invalid shape")
	ErrContract      = errors.New("contract violation")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrNotPacked     = errors.New("not tightly packed")
	ErrOutOfBounds   = errors.New("coordinate out of bounds")
	ErrUnsupported   = errors.New("unsupported element type")
	ErrMalformed     = errors.New("malformed input")
	ErrIO            = errors.New("i/o failure")
	ErrTooLarge      = errors.New("record exceeds element limit")
)

// DecodeError describes why a serialized record was rejected. Err is
// ErrMalformed or ErrIO; Cause, when set, is the underlying reason
// (io.ErrUnexpectedEOF, ErrTooLarge, ErrInvalidShape or a reader error).
type DecodeError struct {
	Field string
	Got   any
	Want  any
	Err   error
	Cause error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("ndarray: decode ")
	b.WriteString(e.Field)
	if e.Got != nil || e.Want != nil {
		fmt.Fprintf(&b, ": got %v, want %v", e.Got, e.Want)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// violate panics with an error matching ErrContract and kind.
func violate(kind error, format string, args ...any) {
	panic(fmt.Errorf("ndarray: %w: %w: %s", ErrContract, kind, fmt.Sprintf(format, args...)))
}
