package netxlite

//
// Per-call I/O timeouts
//

import (
	"net"
	"time"
)

// timeoutConn is a net.Conn that bounds each Read and Write with
// a fresh deadline, which is how SO_RCVTIMEO and SO_SNDTIMEO behave.
//
// An explicit SetReadDeadline or SetWriteDeadline call replaces the
// default deadline for the next call only.
type timeoutConn struct {
	net.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
	nextRead     time.Time
	nextWrite    time.Time
}

func newTimeoutConn(conn net.Conn, readTimeout, writeTimeout time.Duration) net.Conn {
	return &timeoutConn{
		Conn:         conn,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Read implements net.Conn.
func (c *timeoutConn) Read(b []byte) (int, error) {
	deadline := c.nextRead
	c.nextRead = time.Time{}
	if deadline.IsZero() && c.readTimeout > 0 {
		deadline = time.Now().Add(c.readTimeout)
	}
	if err := c.Conn.SetReadDeadline(deadline); err != nil {
		return 0, err
	}
	return c.Conn.Read(b)
}

// Write implements net.Conn.
func (c *timeoutConn) Write(b []byte) (int, error) {
	deadline := c.nextWrite
	c.nextWrite = time.Time{}
	if deadline.IsZero() && c.writeTimeout > 0 {
		deadline = time.Now().Add(c.writeTimeout)
	}
	if err := c.Conn.SetWriteDeadline(deadline); err != nil {
		return 0, err
	}
	return c.Conn.Write(b)
}

// SetDeadline implements net.Conn.
func (c *timeoutConn) SetDeadline(t time.Time) error {
	c.nextRead, c.nextWrite = t, t
	return nil
}

// SetReadDeadline implements net.Conn.
func (c *timeoutConn) SetReadDeadline(t time.Time) error {
	c.nextRead = t
	return nil
}

// SetWriteDeadline implements net.Conn.
func (c *timeoutConn) SetWriteDeadline(t time.Time) error {
	c.nextWrite = t
	return nil
}
