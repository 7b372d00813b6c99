package rdiff

import "github.com/pkg/errors"

// ErrorKind classifies a DiffError the way spec'd in the error design: I/O
// failures on a caller-provided reader/writer, decode failures on
// malformed wire data, and apply failures when an EditScript doesn't fit
// the stream it's applied to.
type ErrorKind int

const (
	// IOError wraps a read/write error from a caller-provided byte source
	// or sink. Mutable state is left untouched when this occurs.
	IOError ErrorKind = iota
	// DecodeError reports truncated or inconsistent encoded input: short
	// reads, or a declared length exceeding the remaining bytes.
	DecodeError
	// ApplyError reports an EditScript referencing a position beyond the
	// end of its target stream, or non-UTF-8 bytes where a string result
	// was requested.
	ApplyError
)

func (k ErrorKind) String() string {
	switch k {
	case IOError:
		return "io"
	case DecodeError:
		return "decode"
	case ApplyError:
		return "apply"
	default:
		return "unknown"
	}
}

// DiffError is the error type returned by every fallible operation in this
// package. The wrapped cause retains its stack trace via github.com/pkg/errors.
type DiffError struct {
	Kind  ErrorKind
	cause error
}

func (e *DiffError) Error() string {
	return e.Kind.String() + " error: " + e.cause.Error()
}

// Unwrap allows errors.Is / errors.As to see through to the wrapped cause.
func (e *DiffError) Unwrap() error {
	return e.cause
}

// ioErrorf wraps err as an IOError, annotating it with a formatted message.
func ioErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &DiffError{Kind: IOError, cause: errors.Wrapf(err, format, args...)}
}

// decodeErrorf builds a DecodeError from a formatted message.
func decodeErrorf(format string, args ...interface{}) error {
	return &DiffError{Kind: DecodeError, cause: errors.Errorf(format, args...)}
}

// applyErrorf builds an ApplyError from a formatted message.
func applyErrorf(format string, args ...interface{}) error {
	return &DiffError{Kind: ApplyError, cause: errors.Errorf(format, args...)}
}
