package errkind

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the categories used throughout the
// library. The zero value means "no error".
type Kind int

const (
	None Kind = iota
	OutOfMemory
	InvalidArgument
	Parse
	Corrupted
	IO
	NotFound
	Unimplemented
	Overflow
	Unavailable
	Locked
	Full
	Empty
	Unsupported
	Failure
)

// String returns a human-readable message for the kind.
func (k Kind) String() string {
	switch k {
	case None:
		return "no error"
	case OutOfMemory:
		return "out of memory"
	case InvalidArgument:
		return "invalid argument"
	case Parse:
		return "parse error"
	case Corrupted:
		return "data corruption detected"
	case IO:
		return "I/O error"
	case NotFound:
		return "not found"
	case Unimplemented:
		return "not implemented"
	case Overflow:
		return "value out of representable range"
	case Unavailable:
		return "unavailable"
	case Locked:
		return "locked"
	case Full:
		return "full"
	case Empty:
		return "empty"
	case Unsupported:
		return "unsupported"
	case Failure:
		return "operation failed"
	default:
		return "unknown error"
	}
}

// Error is an error carrying a Kind. Errors of the same kind match each
// other under errors.Is, so sentinel values double as match targets.
type Error struct {
	kind Kind
	msg  string
}

// New creates an error of the given kind. An empty message falls back to
// the kind's default message.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Errorf creates an error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.msg == "" {
		return e.kind.String()
	}
	return e.msg
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.kind == other.kind
}

// KindOf extracts the Kind from err, unwrapping as needed. Errors that do
// not originate from this package report Failure; nil reports None.
func KindOf(err error) Kind {
	if err == nil {
		return None
	}
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return Failure
}

// Sentinel errors, one per kind. Use them both to return bare errors and
// as targets for errors.Is.
var (
	ErrOutOfMemory     = New(OutOfMemory, "")
	ErrInvalidArgument = New(InvalidArgument, "")
	ErrParse           = New(Parse, "")
	ErrCorrupted       = New(Corrupted, "")
	ErrIO              = New(IO, "")
	ErrNotFound        = New(NotFound, "")
	ErrUnimplemented   = New(Unimplemented, "")
	ErrOverflow        = New(Overflow, "")
	ErrUnavailable     = New(Unavailable, "")
	ErrLocked          = New(Locked, "")
	ErrFull            = New(Full, "")
	ErrEmpty           = New(Empty, "")
	ErrUnsupported     = New(Unsupported, "")
	ErrFailure         = New(Failure, "")
)
