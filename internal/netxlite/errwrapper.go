package netxlite

import (
	"errors"
	"fmt"

	"github.com/iotnet/minihttp/internal/runtimex"
)

// ErrWrapper is our error wrapper for Go errors. The key objective of
// this structure is to properly set Failure, which tells the caller
// which kind of error occurred, and Operation, which tells the caller
// which step of the request/response cycle failed.
type ErrWrapper struct {
	// Failure is one of the FailureXXX strings identifying the error kind.
	Failure string

	// Operation is the operation that failed (e.g., ConnectOperation).
	Operation string

	// Detail is a short description of the cause. For I/O errors we fill
	// it using [ClassifyGenericError]; for protocol errors it describes
	// what was wrong with the bytes we received.
	Detail string

	// WrappedErr is the error that we're wrapping.
	WrappedErr error
}

// Error returns the failure string followed by the detail, if any.
func (e *ErrWrapper) Error() string {
	if e.Detail == "" {
		return e.Failure
	}
	return e.Failure + ": " + e.Detail
}

// Unwrap allows to access the underlying error.
func (e *ErrWrapper) Unwrap() error {
	return e.WrappedErr
}

// Is returns true when target is the sentinel for our Failure.
func (e *ErrWrapper) Is(target error) bool {
	var sentinel *failureSentinel
	if errors.As(target, &sentinel) {
		return sentinel.failure == e.Failure
	}
	return false
}

// NewErrWrapper creates a new ErrWrapper using the given failure,
// operation name, and underlying I/O error.
//
// This function panics if failure or operation are empty or
// err is nil.
//
// If the err argument has already been wrapped, we return the
// original wrapper, so the innermost classification wins.
func NewErrWrapper(failure, op string, err error) *ErrWrapper {
	var wrapper *ErrWrapper
	if errors.As(err, &wrapper) {
		return wrapper
	}
	runtimex.Assert(failure != "", "empty failure")
	runtimex.Assert(op != "", "empty op")
	runtimex.Assert(err != nil, "nil err")
	return &ErrWrapper{
		Failure:    failure,
		Operation:  op,
		Detail:     ClassifyGenericError(err),
		WrappedErr: err,
	}
}

// MaybeNewErrWrapper is like NewErrWrapper except that this
// function won't panic if passed a nil error.
func MaybeNewErrWrapper(failure, op string, err error) error {
	if err != nil {
		return NewErrWrapper(failure, op, err)
	}
	return nil
}

// NewProtocolError creates an ErrWrapper for an error that does not
// originate from I/O but from the content of the bytes we processed.
func NewProtocolError(failure, op, format string, v ...any) *ErrWrapper {
	runtimex.Assert(failure != "", "empty failure")
	runtimex.Assert(op != "", "empty op")
	detail := fmt.Sprintf(format, v...)
	return &ErrWrapper{
		Failure:    failure,
		Operation:  op,
		Detail:     detail,
		WrappedErr: errors.New(detail),
	}
}

// FailureOf returns the failure string of err, the empty string if err
// is nil, or "unknown_failure" if err has not been wrapped.
func FailureOf(err error) string {
	if err == nil {
		return ""
	}
	var wrapper *ErrWrapper
	if errors.As(err, &wrapper) {
		return wrapper.Failure
	}
	return "unknown_failure"
}
