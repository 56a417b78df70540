package mocks

import (
	"context"
	"net"

	"github.com/iotnet/minihttp/internal/model"
)

// Dialer is a mockable model.Dialer.
type Dialer struct {
	MockDialContext func(ctx context.Context, network, address string) (net.Conn, error)
}

// DialContext calls MockDialContext.
func (d *Dialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return d.MockDialContext(ctx, network, address)
}

var _ model.Dialer = &Dialer{}

// UnderlyingNetwork is a mockable model.UnderlyingNetwork.
type UnderlyingNetwork struct {
	MockDialContext func(ctx context.Context, network, address string) (net.Conn, error)
}

// DialContext calls MockDialContext.
func (un *UnderlyingNetwork) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return un.MockDialContext(ctx, network, address)
}

var _ model.UnderlyingNetwork = &UnderlyingNetwork{}
