package main

//
// Flags describing the request to send
//

import (
	"errors"

	"github.com/iotnet/minihttp/internal/edgeaddr"
	"github.com/iotnet/minihttp/internal/rawhttp"
	"github.com/spf13/pflag"
)

// errAddressAndCloudflare indicates that the user asked both for a
// specific address and for a random edge address.
var errAddressAndCloudflare = errors.New("--address and --cloudflare are mutually exclusive")

// targetOptions contains the flags shared by fetch and probe.
type targetOptions struct {
	Address     string
	Cloudflare  bool
	ContentType string
	Cookie      string
	Data        string
	Host        string
	Method      string
	Path        string
	Port        int
}

func (o *targetOptions) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.Address, "address", "", "IPv4 or IPv6 address to connect to (default: resolve --host)")
	flags.BoolVar(&o.Cloudflare, "cloudflare", false, "connect to a random Cloudflare edge address")
	flags.StringVar(&o.ContentType, "content-type", string(rawhttp.ContentTypeTextPlain), "content type of the request")
	flags.StringVar(&o.Cookie, "cookie", "", "value of the Cookie header")
	flags.StringVarP(&o.Data, "data", "d", "", "request body")
	flags.StringVar(&o.Host, "host", "", "value of the Host header")
	flags.StringVarP(&o.Method, "method", "X", string(rawhttp.MethodGet), "request method")
	flags.StringVar(&o.Path, "path", "/", "request path")
	flags.IntVarP(&o.Port, "port", "p", 80, "TCP port")
}

// newRequest creates the request described by the flags.
func (o *targetOptions) newRequest() (*rawhttp.Request, error) {
	method, err := rawhttp.ParseMethod(o.Method)
	if err != nil {
		return nil, err
	}
	contentType, err := rawhttp.ParseContentType(o.ContentType)
	if err != nil {
		return nil, err
	}
	if o.Cloudflare && o.Address != "" {
		return nil, errAddressAndCloudflare
	}
	req := rawhttp.NewRequest(o.Host, o.Path)
	req.Method = method
	req.ContentType = contentType
	req.Port = o.Port
	req.Address = o.Address
	req.Cookie = o.Cookie
	if o.Cloudflare {
		req.Address = edgeaddr.RandomCloudflareAddress(edgeaddr.New())
	}
	if o.Data != "" {
		req.Body = []byte(o.Data)
	}
	return req, req.Validate()
}
