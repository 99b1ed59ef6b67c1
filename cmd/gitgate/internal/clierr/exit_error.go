package clierr

import (
	"errors"
	"fmt"
)

// The hook exit contract: 1 means rule violations were found and reported,
// 2 means evaluation could not complete at all.
const (
	CodeViolation = 1
	CodeFatal     = 2
)

type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError is an error that carries an explicit process exit code.
// It supports wrapping via Unwrap so errors.Is/As work as expected.
type ExitError struct {
	code  int
	msg   string
	cause error
}

func (e *ExitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *ExitError) ExitCode() int { return e.code }

// Unwrap enables errors.Is/As to traverse the underlying cause.
func (e *ExitError) Unwrap() error { return e.cause }

// New creates an ExitError with a message.
func New(code int, msg string) error {
	return &ExitError{code: normalize(code), msg: msg}
}

// Wrap creates an ExitError that wraps an underlying cause.
func Wrap(code int, msg string, cause error) error {
	if cause == nil {
		return New(code, msg)
	}
	return &ExitError{code: normalize(code), msg: msg, cause: cause}
}

// ExitCodeOf extracts an exit code from any error, defaulting to CodeFatal:
// an error nobody classified means evaluation did not complete. This keeps
// main() dumb and avoids duplicating errors.As logic everywhere.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return CodeFatal
}

func normalize(code int) int {
	// Exit code 0 means success; errors should never be 0.
	if code <= 0 {
		return CodeFatal
	}
	return code
}
