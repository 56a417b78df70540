package config

import (
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/iotnet/minihttp/internal/model"
	"github.com/iotnet/minihttp/internal/netxlite"
	"github.com/iotnet/minihttp/internal/rawhttp"
	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
	"golang.org/x/net/http/httpguts"
)

// ReadConfig reads the configuration from the path
func ReadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c, err := ParseConfig(b)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	c.path = path
	return c, err
}

// ParseConfig returns config from JSON bytes. Comments and trailing
// commas are allowed.
func ParseConfig(b []byte) (*Config, error) {
	var c Config

	std, err := hujson.Standardize(b)
	if err != nil {
		return nil, errors.Wrap(err, "parsing json")
	}
	if err := json.Unmarshal(std, &c); err != nil {
		return nil, errors.Wrap(err, "parsing json")
	}

	if err := c.Default(); err != nil {
		return nil, errors.Wrap(err, "defaulting")
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating")
	}

	return &c, nil
}

// Config for the minihttp client
type Config struct {
	Comment string `json:"_"`

	// UserAgent overrides the default User-Agent.
	UserAgent string `json:"user_agent"`

	// MaxHeaderBytes bounds the serialized request header block.
	MaxHeaderBytes int `json:"max_header_bytes"`

	Timeouts Timeouts `json:"timeouts"`
	Buffer   Buffer   `json:"buffer"`

	// Resolver is the host:port of a DNS server to query over
	// UDP. Empty means the system resolver.
	Resolver string `json:"resolver"`

	path string
}

// Timeouts contains the I/O timeouts in seconds.
type Timeouts struct {
	ConnectSeconds   float64 `json:"connect_seconds"`
	ReadSeconds      float64 `json:"read_seconds"`
	WriteSeconds     float64 `json:"write_seconds"`
	WriteWaitSeconds float64 `json:"write_wait_seconds"`
}

// Buffer contains the receive buffer policy.
type Buffer struct {
	InitialSize   int `json:"initial_size"`
	GrowThreshold int `json:"grow_threshold"`
	ReadSize      int `json:"read_size"`
	MaxSize       int `json:"max_size"`
}

// New returns a config where every setting has its default value.
func New() *Config {
	c := &Config{}
	_ = c.Default()
	return c
}

// Path returns the path from which we read the config, if any.
func (c *Config) Path() string {
	return c.path
}

// Default fills the zero fields with the default settings
func (c *Config) Default() error {
	if c.UserAgent == "" {
		c.UserAgent = model.HTTPHeaderUserAgent
	}
	if c.MaxHeaderBytes == 0 {
		c.MaxHeaderBytes = rawhttp.DefaultMaxHeaderBytes
	}

	timeouts := netxlite.DefaultTimeouts()
	defaultSeconds(&c.Timeouts.ConnectSeconds, timeouts.Connect)
	defaultSeconds(&c.Timeouts.ReadSeconds, timeouts.Read)
	defaultSeconds(&c.Timeouts.WriteSeconds, timeouts.Write)
	defaultSeconds(&c.Timeouts.WriteWaitSeconds, timeouts.WriteWait)

	policy := netxlite.DefaultBufferPolicy()
	defaultInt(&c.Buffer.InitialSize, policy.InitialSize)
	defaultInt(&c.Buffer.GrowThreshold, policy.GrowThreshold)
	defaultInt(&c.Buffer.ReadSize, policy.ReadSize)
	defaultInt(&c.Buffer.MaxSize, policy.MaxSize)
	return nil
}

func defaultSeconds(v *float64, d time.Duration) {
	if *v == 0 {
		*v = d.Seconds()
	}
}

func defaultInt(v *int, d int) {
	if *v == 0 {
		*v = d
	}
}

// Validate the config file
func (c *Config) Validate() error {
	if !httpguts.ValidHeaderFieldValue(c.UserAgent) {
		return errors.New("user_agent is not a valid header value")
	}
	if c.MaxHeaderBytes < 0 {
		return errors.New("max_header_bytes must be positive")
	}
	t := c.Timeouts
	if t.ConnectSeconds <= 0 || t.ReadSeconds <= 0 || t.WriteSeconds <= 0 || t.WriteWaitSeconds < 0 {
		return errors.New("timeouts must be positive")
	}
	if err := c.bufferPolicy().Validate(); err != nil {
		return errors.Wrap(err, "buffer")
	}
	return nil
}

func (c *Config) timeouts() netxlite.Timeouts {
	return netxlite.Timeouts{
		Connect:   seconds(c.Timeouts.ConnectSeconds),
		Read:      seconds(c.Timeouts.ReadSeconds),
		Write:     seconds(c.Timeouts.WriteSeconds),
		WriteWait: seconds(c.Timeouts.WriteWaitSeconds),
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func (c *Config) bufferPolicy() netxlite.BufferPolicy {
	return netxlite.BufferPolicy{
		InitialSize:   c.Buffer.InitialSize,
		GrowThreshold: c.Buffer.GrowThreshold,
		ReadSize:      c.Buffer.ReadSize,
		MaxSize:       c.Buffer.MaxSize,
	}
}

// ClientConfig returns the [rawhttp.ClientConfig] described by this config.
func (c *Config) ClientConfig(logger model.Logger) rawhttp.ClientConfig {
	cc := rawhttp.ClientConfig{
		Logger:         logger,
		Timeouts:       c.timeouts(),
		BufferPolicy:   c.bufferPolicy(),
		UserAgent:      c.UserAgent,
		MaxHeaderBytes: c.MaxHeaderBytes,
	}
	if c.Resolver != "" {
		cc.Resolver = netxlite.NewResolverUDP(logger, nil, c.Resolver)
	}
	return cc
}
