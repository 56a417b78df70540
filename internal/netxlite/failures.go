package netxlite

//
// Failure strings and operations
//

// These are the failure strings identifying each kind of error
// returned by this package and by the rawhttp package.
const (
	// FailureConnect means that we could not connect (including
	// when the address or the port are invalid).
	FailureConnect = "connect_error"

	// FailureWrite means that sending data failed.
	FailureWrite = "write_error"

	// FailureRead means that receiving data failed.
	FailureRead = "read_error"

	// FailureBufferOverflow means the response exceeded the
	// maximum size allowed by the buffer policy.
	FailureBufferOverflow = "buffer_overflow"

	// FailureMalformedStatusLine means the status line is invalid.
	FailureMalformedStatusLine = "malformed_status_line"

	// FailureMalformedHeader means a header line is invalid.
	FailureMalformedHeader = "malformed_header"

	// FailureTruncatedResponse means the response is too short
	// to contain a status line.
	FailureTruncatedResponse = "truncated_response"

	// FailureContentLengthMismatch means the declared Content-Length
	// differs from the number of bytes following the headers.
	FailureContentLengthMismatch = "content_length_mismatch"

	// FailureChunkedDecode means the chunked framing is corrupt.
	FailureChunkedDecode = "chunked_decode_error"

	// FailureRequestTooLarge means the rendered header block does
	// not fit into the request builder capacity.
	FailureRequestTooLarge = "request_too_large"

	// FailureInvalidRequest means the request fields are invalid.
	FailureInvalidRequest = "invalid_request"

	// FailureDNSNotFound means we could not map a hostname
	// to an IPv4 address.
	FailureDNSNotFound = "dns_not_found"
)

// These are the detail strings produced by [ClassifyGenericError].
const (
	FailureConnectionRefused       = "connection_refused"
	FailureConnectionReset         = "connection_reset"
	FailureConnectionAborted       = "connection_aborted"
	FailureBrokenPipe              = "broken_pipe"
	FailureHostUnreachable         = "host_unreachable"
	FailureNetworkUnreachable      = "network_unreachable"
	FailureGenericTimeoutError     = "generic_timeout_error"
	FailureEOFError                = "eof_error"
	FailureInterrupted             = "interrupted"
	FailureConnectionAlreadyClosed = "connection_already_closed"
	FailureDNSNoAnswer             = "dns_no_answer"
	FailureDNSNXDOMAINError        = "dns_nxdomain_error"
	FailureDNSServerMisbehaving    = "dns_server_misbehaving"
	FailureDNSReplyWithWrongID     = "dns_reply_with_wrong_query_id"
)

// Operations that may fail.
const (
	// ConnectOperation is the operation where we connect.
	ConnectOperation = "connect"

	// WriteOperation is the operation where we send.
	WriteOperation = "write"

	// ReadOperation is the operation where we receive.
	ReadOperation = "read"

	// ResolveOperation is the operation where we resolve a hostname.
	ResolveOperation = "resolve"

	// BuildRequestOperation is the operation where we render the request.
	BuildRequestOperation = "build_request"

	// ParseOperation is the operation where we parse the response.
	ParseOperation = "parse"

	// DecodeChunkedOperation is the operation where we reassemble
	// a chunked body.
	DecodeChunkedOperation = "decode_chunked"
)

// failureSentinel is the type of the sentinel errors below. Use
// errors.Is to check whether an [*ErrWrapper] has a given failure.
type failureSentinel struct {
	failure string
}

func (e *failureSentinel) Error() string {
	return e.failure
}

var (
	// ErrConnect matches errors with FailureConnect.
	ErrConnect error = &failureSentinel{FailureConnect}

	// ErrWrite matches errors with FailureWrite.
	ErrWrite error = &failureSentinel{FailureWrite}

	// ErrRead matches errors with FailureRead.
	ErrRead error = &failureSentinel{FailureRead}

	// ErrBufferOverflow matches errors with FailureBufferOverflow.
	ErrBufferOverflow error = &failureSentinel{FailureBufferOverflow}

	// ErrMalformedStatusLine matches errors with FailureMalformedStatusLine.
	ErrMalformedStatusLine error = &failureSentinel{FailureMalformedStatusLine}

	// ErrMalformedHeader matches errors with FailureMalformedHeader.
	ErrMalformedHeader error = &failureSentinel{FailureMalformedHeader}

	// ErrTruncatedResponse matches errors with FailureTruncatedResponse.
	ErrTruncatedResponse error = &failureSentinel{FailureTruncatedResponse}

	// ErrContentLengthMismatch matches errors with FailureContentLengthMismatch.
	ErrContentLengthMismatch error = &failureSentinel{FailureContentLengthMismatch}

	// ErrChunkedDecode matches errors with FailureChunkedDecode.
	ErrChunkedDecode error = &failureSentinel{FailureChunkedDecode}

	// ErrRequestTooLarge matches errors with FailureRequestTooLarge.
	ErrRequestTooLarge error = &failureSentinel{FailureRequestTooLarge}

	// ErrInvalidRequest matches errors with FailureInvalidRequest.
	ErrInvalidRequest error = &failureSentinel{FailureInvalidRequest}

	// ErrDNSNotFound matches errors with FailureDNSNotFound.
	ErrDNSNotFound error = &failureSentinel{FailureDNSNotFound}
)
