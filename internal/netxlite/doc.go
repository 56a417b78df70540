// Package netxlite contains the transport layer of the HTTP client.
//
// We connect to numeric IPv4 or IPv6 addresses with per-call read and
// write timeouts, we write requests with retries on EINTR and on a stalled
// send buffer, and we read responses until EOF into a growable buffer.
//
// Every error returned by this package is an [*ErrWrapper] whose Failure
// field tells the caller what kind of error occurred. The same failure
// strings are used by the rawhttp package for protocol errors.
//
// This package also contains the resolvers used to map the hostname to
// an IPv4 address when the caller does not provide one.
package netxlite
