package netxlite

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/iotnet/minihttp/internal/model"
)

// Timeouts contains the timeouts bounding each blocking operation.
type Timeouts struct {
	// Connect bounds the TCP handshake.
	Connect time.Duration

	// Read bounds each Read call.
	Read time.Duration

	// Write bounds each Write call.
	Write time.Duration

	// WriteWait is the extra time we wait for a stalled
	// send buffer to drain before giving up.
	WriteWait time.Duration
}

// DefaultTimeouts returns the default [Timeouts].
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Connect:   10 * time.Second,
		Read:      10 * time.Second,
		Write:     10 * time.Second,
		WriteWait: time.Second,
	}
}

// WithDefaults returns a copy of t where each zero or negative
// field has the value it has in [DefaultTimeouts].
func (t Timeouts) WithDefaults() Timeouts {
	def := DefaultTimeouts()
	if t.Connect <= 0 {
		t.Connect = def.Connect
	}
	if t.Read <= 0 {
		t.Read = def.Read
	}
	if t.Write <= 0 {
		t.Write = def.Write
	}
	if t.WriteWait <= 0 {
		t.WriteWait = def.WriteWait
	}
	return t
}

var (
	// ErrInvalidAddress indicates that the address is not a numeric IP address.
	ErrInvalidAddress = errors.New("invalid IP address")

	// ErrInvalidPort indicates that the port is outside of the [1, 65535] range.
	ErrInvalidPort = errors.New("invalid port")
)

// Connector establishes TCP connections with numeric IP addresses.
//
// The zero value is invalid; use [NewConnector].
type Connector struct {
	dialer   model.Dialer
	logger   model.Logger
	timeouts Timeouts
}

// NewConnector creates a new [*Connector]. A nil logger means we don't
// log and a nil network means we use the standard library.
func NewConnector(logger model.Logger, network model.UnderlyingNetwork, timeouts Timeouts) *Connector {
	logger = model.ValidLoggerOrDefault(logger)
	return &Connector{
		dialer: &dialerLogger{
			Dialer: &dialerErrWrapper{
				Dialer: &dialerSystem{
					Network: validNetworkOrDefault(network),
					Timeout: timeouts.Connect,
				},
			},
			Logger: logger,
		},
		logger:   logger,
		timeouts: timeouts,
	}
}

// Connect connects to the given IP address and port. The returned
// conn enforces the read and write timeouts on each I/O call. On
// failure, the returned error is an [*ErrWrapper] with FailureConnect.
func (c *Connector) Connect(ctx context.Context, address string, port int) (net.Conn, error) {
	if net.ParseIP(address) == nil {
		err := fmt.Errorf("%w: %q", ErrInvalidAddress, address)
		return nil, NewErrWrapper(FailureConnect, ConnectOperation, err)
	}
	if port <= 0 || port > 65535 {
		err := fmt.Errorf("%w: %d", ErrInvalidPort, port)
		return nil, NewErrWrapper(FailureConnect, ConnectOperation, err)
	}
	endpoint := net.JoinHostPort(address, strconv.Itoa(port))
	conn, err := c.dialer.DialContext(ctx, "tcp", endpoint)
	if err != nil {
		return nil, err
	}
	return newTimeoutConn(conn, c.timeouts.Read, c.timeouts.Write), nil
}

// Timeouts returns the timeouts used by this connector.
func (c *Connector) Timeouts() Timeouts {
	return c.timeouts
}

// dialerSystem dials using the underlying network.
type dialerSystem struct {
	// Network is the underlying network.
	Network model.UnderlyingNetwork

	// Timeout is the connect timeout; zero means no timeout.
	Timeout time.Duration
}

var _ model.Dialer = &dialerSystem{}

// DialContext implements model.Dialer.
func (d *dialerSystem) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	return d.Network.DialContext(ctx, network, address)
}

// dialerErrWrapper is a dialer that performs error wrapping.
type dialerErrWrapper struct {
	Dialer model.Dialer
}

var _ model.Dialer = &dialerErrWrapper{}

// DialContext implements model.Dialer.
func (d *dialerErrWrapper) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	conn, err := d.Dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, NewErrWrapper(FailureConnect, ConnectOperation, err)
	}
	return conn, nil
}

// dialerLogger is a Dialer with logging.
type dialerLogger struct {
	// Dialer is the underlying dialer.
	Dialer model.Dialer

	// Logger is the underlying logger.
	Logger model.Logger
}

var _ model.Dialer = &dialerLogger{}

// DialContext implements model.Dialer.
func (d *dialerLogger) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	d.Logger.Debugf("connect %s/%s...", address, network)
	start := time.Now()
	conn, err := d.Dialer.DialContext(ctx, network, address)
	elapsed := time.Since(start)
	if err != nil {
		d.Logger.Debugf("connect %s/%s... %s in %s", address, network, err, elapsed)
		return nil, err
	}
	d.Logger.Debugf("connect %s/%s... ok in %s", address, network, elapsed)
	return conn, nil
}
