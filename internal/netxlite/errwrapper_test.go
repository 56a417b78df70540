package netxlite

import (
	"errors"
	"io"
	"syscall"
	"testing"
)

func TestErrWrapper(t *testing.T) {
	t.Run("Error without detail", func(t *testing.T) {
		err := &ErrWrapper{Failure: FailureConnect}
		if err.Error() != FailureConnect {
			t.Fatal("invalid return value")
		}
	})

	t.Run("Error with detail", func(t *testing.T) {
		err := &ErrWrapper{Failure: FailureConnect, Detail: FailureConnectionRefused}
		if err.Error() != "connect_error: connection_refused" {
			t.Fatal("invalid return value", err.Error())
		}
	})

	t.Run("Unwrap", func(t *testing.T) {
		err := &ErrWrapper{
			Failure:    FailureRead,
			WrappedErr: io.EOF,
		}
		if !errors.Is(err, io.EOF) {
			t.Fatal("cannot unwrap error")
		}
	})

	t.Run("Is matches the sentinel for the failure", func(t *testing.T) {
		err := error(&ErrWrapper{Failure: FailureWrite, WrappedErr: io.EOF})
		if !errors.Is(err, ErrWrite) {
			t.Fatal("should match ErrWrite")
		}
		if errors.Is(err, ErrRead) {
			t.Fatal("should not match ErrRead")
		}
	})
}

func TestNewErrWrapper(t *testing.T) {
	expectPanic := func(t *testing.T, f func()) {
		var recovered bool
		func() {
			defer func() {
				recovered = recover() != nil
			}()
			f()
		}()
		if !recovered {
			t.Fatal("did not panic")
		}
	}

	t.Run("panics if the failure is empty", func(t *testing.T) {
		expectPanic(t, func() {
			NewErrWrapper("", ReadOperation, io.EOF)
		})
	})

	t.Run("panics if the operation is empty", func(t *testing.T) {
		expectPanic(t, func() {
			NewErrWrapper(FailureRead, "", io.EOF)
		})
	})

	t.Run("panics if the error is nil", func(t *testing.T) {
		expectPanic(t, func() {
			NewErrWrapper(FailureRead, ReadOperation, nil)
		})
	})

	t.Run("otherwise, works as intended", func(t *testing.T) {
		ew := NewErrWrapper(FailureRead, ReadOperation, syscall.ECONNRESET)
		if ew.Failure != FailureRead {
			t.Fatal("unexpected failure")
		}
		if ew.Operation != ReadOperation {
			t.Fatal("unexpected operation")
		}
		if ew.Detail != FailureConnectionReset {
			t.Fatal("unexpected detail", ew.Detail)
		}
		if ew.WrappedErr != syscall.ECONNRESET {
			t.Fatal("unexpected WrappedErr")
		}
	})

	t.Run("when the underlying error is already wrapped", func(t *testing.T) {
		inner := NewErrWrapper(FailureRead, ReadOperation, io.EOF)
		outer := NewErrWrapper(FailureWrite, WriteOperation, inner)
		if outer != inner {
			t.Fatal("should have returned the inner wrapper")
		}
	})
}

func TestMaybeNewErrWrapper(t *testing.T) {
	t.Run("with nil error", func(t *testing.T) {
		if MaybeNewErrWrapper(FailureRead, ReadOperation, nil) != nil {
			t.Fatal("expected nil error")
		}
	})

	t.Run("with non-nil error", func(t *testing.T) {
		err := MaybeNewErrWrapper(FailureRead, ReadOperation, io.EOF)
		if !errors.Is(err, ErrRead) {
			t.Fatal("unexpected error", err)
		}
	})
}

func TestNewProtocolError(t *testing.T) {
	err := NewProtocolError(FailureMalformedHeader, ParseOperation, "missing colon at offset %d", 17)
	if err.Error() != "malformed_header: missing colon at offset 17" {
		t.Fatal("unexpected error string", err.Error())
	}
	if !errors.Is(err, ErrMalformedHeader) {
		t.Fatal("should match ErrMalformedHeader")
	}
	if err.WrappedErr == nil {
		t.Fatal("expected a wrapped error")
	}
}

func TestFailureOf(t *testing.T) {
	if FailureOf(nil) != "" {
		t.Fatal("expected empty string for nil")
	}
	if FailureOf(io.EOF) != "unknown_failure" {
		t.Fatal("expected unknown_failure for unwrapped errors")
	}
	err := NewErrWrapper(FailureConnect, ConnectOperation, syscall.ECONNREFUSED)
	if FailureOf(err) != FailureConnect {
		t.Fatal("unexpected failure")
	}
}
