package netxlite

//
// Resolver implementations and decorators
//

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/iotnet/minihttp/internal/model"
	"golang.org/x/net/idna"
)

// NewResolverSystem creates a new resolver using the system
// getaddrinfo through the standard library.
func NewResolverSystem(logger model.Logger) model.Resolver {
	return WrapResolver(logger, &resolverSystem{})
}

// NewResolverUDP creates a new resolver sending A queries to the given
// address (e.g., 8.8.8.8:53) over UDP. A nil dialer means we use the
// standard library to create the UDP sockets.
func NewResolverUDP(logger model.Logger, dialer model.Dialer, address string) model.Resolver {
	if dialer == nil {
		dialer = &DefaultTProxy{}
	}
	return WrapResolver(logger, &resolverUDP{
		dialer:  dialer,
		address: address,
	})
}

// WrapResolver creates a new resolver that wraps an existing resolver
// to add these properties:
//
// 1. handles IDNA;
//
// 2. performs logging;
//
// 3. short-circuits IP addresses;
//
// 4. wraps errors with FailureDNSNotFound.
func WrapResolver(logger model.Logger, resolver model.Resolver) model.Resolver {
	return &resolverIDNA{
		Resolver: &resolverLogger{
			Resolver: &resolverShortCircuitIPAddr{
				Resolver: &resolverErrWrapper{
					Resolver: resolver,
				},
			},
			Logger: model.ValidLoggerOrDefault(logger),
		},
	}
}

// ResolveIPv4 returns the first IPv4 address of hostname. On failure,
// the returned error is an [*ErrWrapper] with FailureDNSNotFound and
// ResolveOperation, even when the resolver failed to dial its server.
func ResolveIPv4(ctx context.Context, resolver model.Resolver, hostname string) (string, error) {
	addrs, err := resolver.LookupHost(ctx, hostname)
	if err != nil {
		return "", newResolveError(err)
	}
	for _, addr := range addrs {
		if ip := net.ParseIP(addr); ip != nil && ip.To4() != nil {
			return addr, nil
		}
	}
	return "", NewProtocolError(FailureDNSNotFound, ResolveOperation, "no IPv4 address for %s", hostname)
}

// resolverSystem is the system resolver.
type resolverSystem struct {
	testableTimeout    time.Duration
	testableLookupHost func(ctx context.Context, domain string) ([]string, error)
}

var _ model.Resolver = &resolverSystem{}

func (r *resolverSystem) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	// getaddrinfo may block for a long time, so we bound it and we do not
	// wait for the lookup goroutine when the context expires.
	addrsch, errch := make(chan []string, 1), make(chan error, 1)
	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()
	go func() {
		addrs, err := r.lookupHost()(ctx, hostname)
		if err != nil {
			errch <- err
			return
		}
		addrsch <- addrs
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case addrs := <-addrsch:
		return addrs, nil
	case err := <-errch:
		return nil, err
	}
}

func (r *resolverSystem) timeout() time.Duration {
	if r.testableTimeout > 0 {
		return r.testableTimeout
	}
	return 15 * time.Second
}

func (r *resolverSystem) lookupHost() func(ctx context.Context, domain string) ([]string, error) {
	if r.testableLookupHost != nil {
		return r.testableLookupHost
	}
	return net.DefaultResolver.LookupHost
}

func (r *resolverSystem) Network() string {
	return "system"
}

func (r *resolverSystem) Address() string {
	return ""
}

// resolverLogger is a resolver that emits events
type resolverLogger struct {
	model.Resolver
	Logger model.Logger
}

var _ model.Resolver = &resolverLogger{}

func (r *resolverLogger) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	prefix := fmt.Sprintf("resolve[A] %s with %s (%s)", hostname, r.Network(), r.Address())
	r.Logger.Debugf("%s...", prefix)
	start := time.Now()
	addrs, err := r.Resolver.LookupHost(ctx, hostname)
	elapsed := time.Since(start)
	if err != nil {
		r.Logger.Debugf("%s... %s in %s", prefix, err, elapsed)
		return nil, err
	}
	r.Logger.Debugf("%s... %+v in %s", prefix, addrs, elapsed)
	return addrs, nil
}

// resolverIDNA supports resolving Internationalized Domain Names.
//
// See RFC3492 for more information.
type resolverIDNA struct {
	model.Resolver
}

func (r *resolverIDNA) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	host, err := idna.ToASCII(hostname)
	if err != nil {
		return nil, NewErrWrapper(FailureDNSNotFound, ResolveOperation, err)
	}
	return r.Resolver.LookupHost(ctx, host)
}

// resolverShortCircuitIPAddr recognizes when the input hostname is an
// IP address and returns it immediately to the caller.
type resolverShortCircuitIPAddr struct {
	model.Resolver
}

func (r *resolverShortCircuitIPAddr) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	if net.ParseIP(hostname) != nil {
		return []string{hostname}, nil
	}
	return r.Resolver.LookupHost(ctx, hostname)
}

// resolverErrWrapper is a Resolver that knows about wrapping errors.
type resolverErrWrapper struct {
	model.Resolver
}

var _ model.Resolver = &resolverErrWrapper{}

func (r *resolverErrWrapper) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	addrs, err := r.Resolver.LookupHost(ctx, hostname)
	if err != nil {
		return nil, newResolveError(err)
	}
	return addrs, nil
}

// newResolveError wraps err as a FailureDNSNotFound error. Unlike
// [NewErrWrapper], it rewraps errors carrying another failure (e.g.,
// FailureConnect from the dialer) so that we always blame resolving. The
// inner wrapper stays reachable using errors.Is and errors.As.
func newResolveError(err error) *ErrWrapper {
	var wrapper *ErrWrapper
	if errors.As(err, &wrapper) {
		if wrapper.Failure == FailureDNSNotFound {
			return wrapper
		}
		return &ErrWrapper{
			Failure:    FailureDNSNotFound,
			Operation:  ResolveOperation,
			Detail:     wrapper.Error(),
			WrappedErr: err,
		}
	}
	return NewErrWrapper(FailureDNSNotFound, ResolveOperation, err)
}
