package rawhttp

//
// The request/response pipeline
//

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/iotnet/minihttp/internal/model"
	"github.com/iotnet/minihttp/internal/netxlite"
	"github.com/valyala/bytebufferpool"
)

// ClientConfig contains the [*Client] configuration. The zero value
// is valid and uses the defaults.
type ClientConfig struct {
	// Logger is the logger; nil means model.DiscardLogger.
	Logger model.Logger

	// Network is the underlying network; nil means the stdlib.
	Network model.UnderlyingNetwork

	// Resolver maps Request.Host to an address when Request.Address is
	// empty; nil means the system resolver.
	Resolver model.Resolver

	// Timeouts bounds the I/O; each zero field means its default.
	Timeouts netxlite.Timeouts

	// BufferPolicy controls the receive buffer; each zero field means
	// its netxlite.DefaultBufferPolicy value. When the resulting policy
	// is invalid, Do fails with FailureInvalidRequest before any I/O.
	BufferPolicy netxlite.BufferPolicy

	// UserAgent overrides the default User-Agent.
	UserAgent string

	// MaxHeaderBytes overrides DefaultMaxHeaderBytes.
	MaxHeaderBytes int

	// Metrics is optional.
	Metrics *Metrics
}

// Client sends requests using a new connection for each request.
//
// A Client is safe for concurrent use because each call to Do owns its
// connection and its buffer.
type Client struct {
	builder   *RequestBuilder
	connector *netxlite.Connector
	logger    model.Logger
	metrics   *Metrics
	policy    netxlite.BufferPolicy
	policyErr error
	resolver  model.Resolver
	timeNow   func() time.Time
	timeouts  netxlite.Timeouts
}

// NewClient creates a new [*Client].
func NewClient(config ClientConfig) *Client {
	logger := model.ValidLoggerOrDefault(config.Logger)
	timeouts := config.Timeouts.WithDefaults()
	policy := config.BufferPolicy.WithDefaults()
	var policyErr error
	if err := policy.Validate(); err != nil {
		policyErr = netxlite.NewErrWrapper(netxlite.FailureInvalidRequest,
			netxlite.BuildRequestOperation, err)
	}
	resolver := config.Resolver
	if resolver == nil {
		resolver = netxlite.NewResolverSystem(logger)
	}
	return &Client{
		builder: &RequestBuilder{
			UserAgent:      config.UserAgent,
			MaxHeaderBytes: config.MaxHeaderBytes,
		},
		connector: netxlite.NewConnector(logger, config.Network, timeouts),
		logger:    logger,
		metrics:   config.Metrics,
		policy:    policy,
		policyErr: policyErr,
		resolver:  resolver,
		timeNow:   time.Now,
		timeouts:  timeouts,
	}
}

// Do sends the request and returns the parsed response.
//
// The returned response is never nil. On failure, it contains whatever
// we could gather (e.g., the raw bytes when parsing fails) and the error
// is an [*netxlite.ErrWrapper] describing what went wrong.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	stats := &requestStats{}
	start := c.timeNow()
	resp, err := c.do(ctx, req, stats)
	stats.elapsed = c.timeNow().Sub(start)
	stats.failure = netxlite.FailureOf(err)
	c.logger.Debugf("request... %s in %s", model.ErrorToStringOrOK(err), stats.elapsed)
	c.metrics.observe(stats)
	return resp, err
}

func (c *Client) do(ctx context.Context, req *Request, stats *requestStats) (*Response, error) {
	if c.policyErr != nil {
		c.logger.Debugf("buffer policy... %s", c.policyErr)
		return &Response{}, c.policyErr
	}
	header, err := c.builder.Build(req)
	if err != nil {
		c.logger.Debugf("build request... %s", err)
		return &Response{}, err
	}
	defer bytebufferpool.Put(header)

	address := req.Address
	if address == "" {
		address, err = netxlite.ResolveIPv4(ctx, c.resolver, req.Host)
		if err != nil {
			return &Response{}, err
		}
	}

	endpoint := net.JoinHostPort(address, strconv.Itoa(req.Port))
	conn, err := c.connector.Connect(ctx, address, req.Port)
	if err != nil {
		return &Response{}, err
	}
	if c.metrics != nil {
		conn = stats.meter(conn)
	}

	if err := c.send(conn, endpoint, header.B, req.Body); err != nil {
		conn.Close()
		return &Response{}, err
	}

	c.logger.Debugf("read %s...", endpoint)
	buf, err := netxlite.ReadAll(conn, c.policy)
	conn.Close()
	if buf != nil {
		stats.growths = buf.Growths()
	}
	if err != nil {
		c.logger.Debugf("read %s... %s", endpoint, err)
		resp := &Response{}
		if buf != nil {
			resp.raw = buf.Bytes()
			resp.Growths = buf.Growths()
		}
		return resp, err
	}
	c.logger.Debugf("read %s... %d bytes", endpoint, buf.Len())

	resp, err := Parse(buf.Bytes())
	resp.Growths = buf.Growths()
	if err != nil {
		c.logger.Debugf("parse... %s", err)
		return resp, err
	}
	c.logger.Debugf("parse... status=%d chunked=%v length=%d",
		resp.StatusCode, resp.Chunked, resp.ContentLength)
	return resp, nil
}

// send writes the header block and the body, if any.
func (c *Client) send(conn net.Conn, endpoint string, header, body []byte) error {
	c.logger.Debugf("write %s... %d+%d bytes", endpoint, len(header), len(body))
	if err := netxlite.WriteAll(conn, header, c.timeouts.WriteWait); err != nil {
		c.logger.Debugf("write %s... %s", endpoint, err)
		return err
	}
	if len(body) > 0 {
		if err := netxlite.WriteAll(conn, body, c.timeouts.WriteWait); err != nil {
			c.logger.Debugf("write %s... %s", endpoint, err)
			return err
		}
	}
	return nil
}
