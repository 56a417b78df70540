package mocks

import (
	"net"
	"time"
)

// Conn is a mockable net.Conn such as the ones returned by the Connector
// and used by the UDP resolver. MockRead and MockWrite are mandatory. A nil
// MockClose or deadline setter succeeds, since the code under test calls
// them on every connection and most tests do not care.
type Conn struct {
	MockRead             func(b []byte) (int, error)
	MockWrite            func(b []byte) (int, error)
	MockClose            func() error
	MockSetDeadline      func(t time.Time) error
	MockSetReadDeadline  func(t time.Time) error
	MockSetWriteDeadline func(t time.Time) error

	// Local and Remote are the endpoints; nil means 127.0.0.1:0.
	Local, Remote net.Addr
}

var _ net.Conn = &Conn{}

// Read calls MockRead.
func (c *Conn) Read(b []byte) (int, error) {
	return c.MockRead(b)
}

// Write calls MockWrite.
func (c *Conn) Write(b []byte) (int, error) {
	return c.MockWrite(b)
}

// Close calls MockClose, if set.
func (c *Conn) Close() error {
	return maybeCall(c.MockClose)
}

// LocalAddr returns Local.
func (c *Conn) LocalAddr() net.Addr {
	return addrOrLoopback(c.Local)
}

// RemoteAddr returns Remote.
func (c *Conn) RemoteAddr() net.Addr {
	return addrOrLoopback(c.Remote)
}

// SetDeadline calls MockSetDeadline, if set.
func (c *Conn) SetDeadline(t time.Time) error {
	return maybeCallWithTime(c.MockSetDeadline, t)
}

// SetReadDeadline calls MockSetReadDeadline, if set.
func (c *Conn) SetReadDeadline(t time.Time) error {
	return maybeCallWithTime(c.MockSetReadDeadline, t)
}

// SetWriteDeadline calls MockSetWriteDeadline, if set.
func (c *Conn) SetWriteDeadline(t time.Time) error {
	return maybeCallWithTime(c.MockSetWriteDeadline, t)
}

func maybeCall(fx func() error) error {
	if fx == nil {
		return nil
	}
	return fx()
}

func maybeCallWithTime(fx func(time.Time) error, t time.Time) error {
	if fx == nil {
		return nil
	}
	return fx(t)
}

func addrOrLoopback(addr net.Addr) net.Addr {
	if addr == nil {
		return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)}
	}
	return addr
}
