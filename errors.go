package chunkseq

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the failure modes an operation in this package can
// return. Callers that need to distinguish failure classes should switch
// on Kind rather than compare *Error values or strings.
type Kind int

const (
	// InvalidArgument covers negative counts/indices, nil required inputs,
	// and ranges that fall outside a buffer.
	InvalidArgument Kind = iota
	// OutOfRange covers a logical index outside [0, Length) for a read, or
	// outside [0, Length] for an insert.
	OutOfRange
	// CapacityExceeded covers growth that would exceed MaxCapacity or the
	// 2^31-1 stream position/length ceiling.
	CapacityExceeded
	// InvalidState covers operating on a closed stream, writing to a
	// non-writable stream, or seeking before the origin.
	InvalidState
	// Unsupported covers operations intentionally not provided by a given
	// collaborator (e.g. the record cursor's byte-buffer variants).
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case OutOfRange:
		return "out of range"
	case CapacityExceeded:
		return "capacity exceeded"
	case InvalidState:
		return "invalid state"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Error is the taxonomy-tagged error type returned by every exported
// operation in this package. Op identifies the failing method
// ("ChunkedValueBuilder.Insert", "ChunkedByteStream.Seek", ...).
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.Errorf(format, args...)}
}

func invalidArgument(op, format string, args ...interface{}) *Error {
	return newError(InvalidArgument, op, format, args...)
}

func outOfRange(op string, index, length int) *Error {
	return newError(OutOfRange, op, "index %d out of range for length %d", index, length)
}

func capacityExceeded(op, format string, args ...interface{}) *Error {
	return newError(CapacityExceeded, op, format, args...)
}

func invalidState(op, format string, args ...interface{}) *Error {
	return newError(InvalidState, op, format, args...)
}

func unsupported(op, format string, args ...interface{}) *Error {
	return newError(Unsupported, op, format, args...)
}

// corrupted panics to signal an internal invariant violation: a chunk-chain
// overrun during ToArray, an offset that no longer matches the sum of
// earlier chunk lengths, and the like. These are fatal, not
// user-recoverable faults.
func corrupted(op, format string, args ...interface{}) {
	panic(&Error{Kind: InvalidState, Op: op, Err: errors.Errorf("corrupted: "+format, args...)})
}
