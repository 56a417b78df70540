package netxlite

//
// A-only resolver speaking DNS over UDP
//

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/iotnet/minihttp/internal/model"
	"github.com/miekg/dns"
)

var (
	// ErrDNSNoSuchHost indicates that the server returned NXDOMAIN.
	ErrDNSNoSuchHost = errors.New("dns: no such host")

	// ErrDNSNoAnswer indicates that the reply contains no A records.
	ErrDNSNoAnswer = errors.New("dns: no answer")

	// ErrDNSServerMisbehaving indicates any other unsuccessful Rcode.
	ErrDNSServerMisbehaving = errors.New("dns: server misbehaving")

	// ErrDNSReplyWithWrongID indicates the reply ID differs from the query ID.
	ErrDNSReplyWithWrongID = errors.New("dns: reply with wrong query ID")
)

// dnsUDPTimeout is the same timeout used by Bionic.
const dnsUDPTimeout = 5 * time.Second

// resolverUDP sends A queries over UDP.
type resolverUDP struct {
	dialer  model.Dialer
	address string
}

var _ model.Resolver = &resolverUDP{}

// LookupHost implements model.Resolver.
func (r *resolverUDP) LookupHost(ctx context.Context, hostname string) ([]string, error) {
	query := new(dns.Msg)
	query.SetQuestion(dns.Fqdn(hostname), dns.TypeA)
	query.RecursionDesired = true
	rawQuery, err := query.Pack()
	if err != nil {
		return nil, err
	}
	rawReply, err := r.roundTrip(ctx, rawQuery)
	if err != nil {
		return nil, err
	}
	reply := new(dns.Msg)
	if err := reply.Unpack(rawReply); err != nil {
		return nil, err
	}
	return r.decodeA(query, reply)
}

func (r *resolverUDP) roundTrip(ctx context.Context, query []byte) ([]byte, error) {
	conn, err := r.dialer.DialContext(ctx, "udp", r.address)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	deadline := time.Now().Add(dnsUDPTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, err
	}
	if _, err := conn.Write(query); err != nil {
		return nil, err
	}
	reply := make([]byte, dns.MaxMsgSize)
	count, err := conn.Read(reply)
	if err != nil {
		return nil, err
	}
	return reply[:count], nil
}

func (r *resolverUDP) decodeA(query, reply *dns.Msg) ([]string, error) {
	if reply.Id != query.Id {
		return nil, ErrDNSReplyWithWrongID
	}
	switch reply.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return nil, ErrDNSNoSuchHost
	default:
		return nil, ErrDNSServerMisbehaving
	}
	var addrs []string
	for _, answer := range reply.Answer {
		if record, ok := answer.(*dns.A); ok {
			addrs = append(addrs, record.A.String())
		}
	}
	if len(addrs) <= 0 {
		return nil, ErrDNSNoAnswer
	}
	return addrs, nil
}

// Network implements model.Resolver.
func (r *resolverUDP) Network() string {
	return "udp"
}

// Address implements model.Resolver.
func (r *resolverUDP) Address() string {
	return r.address
}

// classifyDNSError returns an empty string if err is not a DNS error.
func classifyDNSError(err error) string {
	switch {
	case errors.Is(err, ErrDNSNoSuchHost):
		return FailureDNSNXDOMAINError
	case errors.Is(err, ErrDNSNoAnswer):
		return FailureDNSNoAnswer
	case errors.Is(err, ErrDNSServerMisbehaving):
		return FailureDNSServerMisbehaving
	case errors.Is(err, ErrDNSReplyWithWrongID):
		return FailureDNSReplyWithWrongID
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return FailureDNSNXDOMAINError
	}
	return ""
}
