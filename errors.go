package huffcodec

import (
	"errors"
)

var (
	// ErrFormat is wrapped by every error that reports an invalid header.
	ErrFormat = errors.New("huffcodec: invalid format")

	// ErrTruncatedStream is wrapped by every error that reports a packed
	// body which ends in the middle of a code or lacks its pad count.
	ErrTruncatedStream = errors.New("huffcodec: truncated stream")

	// ErrEmptyAlphabet is returned by BuildTree when no symbol has a
	// non-zero frequency.
	ErrEmptyAlphabet = errors.New("huffcodec: empty alphabet")

	// ErrNoCode is returned by Pack when the source contains a symbol that
	// has no code, e.g. because the source changed between passes.
	ErrNoCode = errors.New("huffcodec: symbol has no code")
)

// IOError reports a failure of the caller's byte source or byte sink.
type IOError struct {
	Op  string
	Err error
}

// Error fulfills the error interface.
func (err *IOError) Error() string {
	return "huffcodec: " + err.Op + ": " + err.Err.Error()
}

// Unwrap returns the underlying I/O error.
func (err *IOError) Unwrap() error {
	return err.Err
}

var _ error = (*IOError)(nil)

func readError(err error) error {
	return &IOError{Op: "read", Err: err}
}

func writeError(err error) error {
	return &IOError{Op: "write", Err: err}
}
