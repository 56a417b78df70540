package netxlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
)

// ClassifyGenericError maps an I/O error to a short detail string
// such as FailureConnectionRefused or FailureGenericTimeoutError.
//
// If the input error is an *ErrWrapper we don't perform the
// classification again and we return its Error.
//
// If everything else fails, this classifier returns a string
// like "unknown_failure: XXX" where XXX is the original error string.
func ClassifyGenericError(err error) string {
	var errwrapper *ErrWrapper
	if errors.As(err, &errwrapper) {
		return errwrapper.Error()
	}

	// Classify system errors first so we do not depend on the
	// strings used by the specific operating system.
	if failure := classifySyscallError(err); failure != "" {
		return failure
	}

	if failure := classifyDNSError(err); failure != "" {
		return failure
	}

	if errors.Is(err, context.Canceled) {
		return FailureInterrupted
	}

	if failure := classifyWithStringSuffix(err); failure != "" {
		return failure
	}

	return fmt.Sprintf("unknown_failure: %s", err.Error())
}

// classifySyscallError returns an empty string if err is not a known
// system call error.
func classifySyscallError(err error) string {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return ""
	}
	switch errno {
	case syscall.ECONNREFUSED:
		return FailureConnectionRefused
	case syscall.ECONNRESET:
		return FailureConnectionReset
	case syscall.ECONNABORTED:
		return FailureConnectionAborted
	case syscall.EPIPE:
		return FailureBrokenPipe
	case syscall.EHOSTUNREACH:
		return FailureHostUnreachable
	case syscall.ENETUNREACH:
		return FailureNetworkUnreachable
	case syscall.ETIMEDOUT:
		return FailureGenericTimeoutError
	case syscall.EINTR:
		return FailureInterrupted
	default:
		return ""
	}
}

// classifyWithStringSuffix is a subset of ClassifyGenericError that
// performs classification by looking at error suffixes. This function
// will return an empty string if it cannot classify the error.
func classifyWithStringSuffix(err error) string {
	s := err.Error()
	if strings.HasSuffix(s, "operation was canceled") {
		return FailureInterrupted
	}
	if strings.HasSuffix(s, "EOF") {
		return FailureEOFError
	}
	if strings.HasSuffix(s, "context deadline exceeded") {
		return FailureGenericTimeoutError
	}
	if strings.HasSuffix(s, "i/o timeout") {
		return FailureGenericTimeoutError
	}
	if strings.HasSuffix(s, "use of closed network connection") {
		return FailureConnectionAlreadyClosed
	}
	return "" // not found
}
