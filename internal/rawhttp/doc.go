// Package rawhttp implements a minimal blocking HTTP/1.1 client.
//
// Each [*Client.Do] call opens one TCP connection, sends one request with
// "Connection: close", reads the response until EOF and parses it. The
// parsed [*Response] does not copy the body or the cookie; it points into
// the raw bytes we received.
//
// There is no connection reuse, no TLS, and no redirect handling.
package rawhttp
