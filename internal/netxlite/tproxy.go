package netxlite

import (
	"context"
	"net"

	"github.com/iotnet/minihttp/internal/model"
)

// DefaultTProxy is the default [model.UnderlyingNetwork] implementation,
// which uses the standard library.
type DefaultTProxy struct{}

var _ model.UnderlyingNetwork = &DefaultTProxy{}

// DialContext implements model.UnderlyingNetwork.
func (tp *DefaultTProxy) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	d := &net.Dialer{}
	return d.DialContext(ctx, network, address)
}

// validNetworkOrDefault returns network, if not nil, or a [*DefaultTProxy].
func validNetworkOrDefault(network model.UnderlyingNetwork) model.UnderlyingNetwork {
	if network != nil {
		return network
	}
	return &DefaultTProxy{}
}
