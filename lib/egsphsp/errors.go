package egsphsp

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package and by lib/ops wraps
// exactly one of these, so callers can branch with errors.Is.
var (
	// ErrFormat means that a header or record could not be decoded: the
	// byte count was wrong or the mode tag was not recognized.
	ErrFormat = errors.New("format error")
	// ErrIncompatibleFormat means that several files were supposed to be
	// merged, but they don't share a record layout.
	ErrIncompatibleFormat = errors.New("incompatible format")
	// ErrIO means that the operating system refused an open, read, write,
	// flush, rename, or delete.
	ErrIO = errors.New("i/o error")
	// ErrValidation means that the bytes decoded fine, but the values
	// violate an invariant (e.g. more photons than particles), or an
	// argument passed to an operation is out of range.
	ErrValidation = errors.New("validation error")
)

// Error is the concrete error type used by the engine. Kind is one of the
// Err* sentinels above.
type Error struct {
	Kind error
	Op   string // operation, e.g. "open", "combine"
	Path string // file being processed, may be empty
	Msg  string
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	s := e.Kind.Error()
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Path != "" {
		s += " in " + e.Path
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

// FormatErrorf returns an ErrFormat error with a formatted message.
func FormatErrorf(format string, a ...interface{}) error {
	return &Error{Kind: ErrFormat, Msg: fmt.Sprintf(format, a...)}
}

// ValidationErrorf returns an ErrValidation error with a formatted message.
func ValidationErrorf(format string, a ...interface{}) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, a...)}
}

// IncompatibleErrorf returns an ErrIncompatibleFormat error with a
// formatted message.
func IncompatibleErrorf(format string, a ...interface{}) error {
	return &Error{Kind: ErrIncompatibleFormat, Msg: fmt.Sprintf(format, a...)}
}

// IOError wraps an operating system error.
func IOError(op, path string, err error) error {
	return &Error{Kind: ErrIO, Op: op, Path: path, Err: err}
}

// WithPath annotates err with the operation and file it happened in. Errors
// that are already annotated are returned unchanged, as are errors that
// don't come from this package.
func WithPath(err error, op, path string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	if e.Op != "" || e.Path != "" {
		return err
	}
	out := *e
	out.Op, out.Path = op, path
	return &out
}
