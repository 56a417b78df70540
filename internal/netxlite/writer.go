package netxlite

//
// Transport I/O: write path
//

import (
	"errors"
	"net"
	"os"
	"syscall"
	"time"
)

// ErrPeerClosed indicates that Write returned zero bytes and no error,
// which we interpret as the peer having closed the connection.
var ErrPeerClosed = errors.New("peer closed the connection")

// WriteAll writes all the data to conn or fails.
//
// Partial writes are resumed and EINTR is retried immediately. When a
// Write times out or would block, we wait at most wait for the send buffer
// to drain and try again; if also that attempt makes no progress, or wait
// is zero, we fail. On failure, the returned error is an [*ErrWrapper]
// with FailureWrite.
func WriteAll(conn net.Conn, data []byte, wait time.Duration) error {
	waited := false
	for len(data) > 0 {
		count, err := conn.Write(data)
		data = data[count:]
		if count > 0 {
			waited = false
		}
		switch {
		case err == nil && count == 0:
			return NewErrWrapper(FailureWrite, WriteOperation, ErrPeerClosed)

		case err == nil:
			// fallthrough to write the rest

		case errors.Is(err, syscall.EINTR):
			// just retry

		case isWriteStall(err) && !waited && wait > 0:
			waited = true
			if err := conn.SetWriteDeadline(time.Now().Add(wait)); err != nil {
				return NewErrWrapper(FailureWrite, WriteOperation, err)
			}

		default:
			return NewErrWrapper(FailureWrite, WriteOperation, err)
		}
	}
	return nil
}

// isWriteStall returns whether err means that the send buffer is full.
func isWriteStall(err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, syscall.EAGAIN)
}
