package testingx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/iotnet/minihttp/internal/model"
	"github.com/iotnet/minihttp/internal/runtimex"
)

// CloseVerify verifies that we close each connection exactly once.
//
// The zero value of this struct is ready to use.
type CloseVerify struct {
	mu     sync.Mutex
	open   map[string]bool
	closes map[string]int
	dials  int
}

func (cv *CloseVerify) addConn(key string) {
	defer cv.mu.Unlock()
	cv.mu.Lock()
	if cv.open == nil {
		cv.open = make(map[string]bool)
		cv.closes = make(map[string]int)
	}
	_, good := cv.closes[key]
	runtimex.Assert(!good, fmt.Sprintf("we're already tracking: %s", key))
	cv.open[key] = true
	cv.closes[key] = 0
	cv.dials++
}

func (cv *CloseVerify) closeConn(key string) {
	defer cv.mu.Unlock()
	cv.mu.Lock()
	_, good := cv.closes[key]
	runtimex.Assert(good, fmt.Sprintf("we're not tracking: %s", key))
	delete(cv.open, key)
	cv.closes[key]++
}

// Dials returns the number of connections we have tracked.
func (cv *CloseVerify) Dials() int {
	defer cv.mu.Unlock()
	cv.mu.Lock()
	return cv.dials
}

// CheckClosedOnce returns an error if some connections are still
// open or have been closed more than once.
func (cv *CloseVerify) CheckClosedOnce() error {
	defer cv.mu.Unlock()
	cv.mu.Lock()
	var errorv []error
	for key := range cv.open {
		errorv = append(errorv, fmt.Errorf("%s has not been closed", key))
	}
	for key, count := range cv.closes {
		if count > 1 {
			errorv = append(errorv, fmt.Errorf("%s has been closed %d times", key, count))
		}
	}
	return errors.Join(errorv...) // returns nil if empty
}

// WrapUnderlyingNetwork returns a [model.UnderlyingNetwork] that comunicates
// sockets open and close events to the [*CloseVerify] struct.
func (cv *CloseVerify) WrapUnderlyingNetwork(unet model.UnderlyingNetwork) model.UnderlyingNetwork {
	return &closeVerifyUnderlyingNetwork{
		UnderlyingNetwork: unet,
		cv:                cv,
	}
}

type closeVerifyUnderlyingNetwork struct {
	model.UnderlyingNetwork
	cv *CloseVerify
}

// DialContext implements model.UnderlyingNetwork.
func (unet *closeVerifyUnderlyingNetwork) DialContext(
	ctx context.Context, network, address string) (net.Conn, error) {
	conn, err := unet.UnderlyingNetwork.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}

	localAddr := conn.LocalAddr()
	key := fmt.Sprintf("%s/%s", localAddr.String(), localAddr.Network())
	unet.cv.addConn(key)

	return &closeVerifyConn{Conn: conn, cv: unet.cv, key: key}, nil
}

type closeVerifyConn struct {
	net.Conn
	cv  *CloseVerify
	key string
}

func (c *closeVerifyConn) Close() error {
	c.cv.closeConn(c.key)
	return c.Conn.Close()
}
