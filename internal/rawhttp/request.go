package rawhttp

import (
	"fmt"
	"strings"

	"github.com/iotnet/minihttp/internal/netxlite"
	"golang.org/x/net/http/httpguts"
)

// Method is an HTTP request method.
type Method string

// These are the methods we support.
const (
	MethodGet     = Method("GET")
	MethodPost    = Method("POST")
	MethodPut     = Method("PUT")
	MethodDelete  = Method("DELETE")
	MethodOptions = Method("OPTIONS")
)

// Valid returns whether m is one of the methods we support.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodOptions:
		return true
	default:
		return false
	}
}

// ParseMethod converts a case-insensitive method name to a [Method].
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(s))
	if !m.Valid() {
		return "", netxlite.NewProtocolError(netxlite.FailureInvalidRequest,
			netxlite.BuildRequestOperation, "unsupported method %q", s)
	}
	return m, nil
}

// ContentType is the value of the Content-Type header.
type ContentType string

// These are the content types we support.
const (
	ContentTypeTextPlain      = ContentType("text/plain")
	ContentTypeOctetStream    = ContentType("application/octet-stream")
	ContentTypeFormURLEncoded = ContentType("application/x-www-form-urlencoded")
	ContentTypeJSON           = ContentType("application/json")
)

// Valid returns whether ct is one of the content types we support.
func (ct ContentType) Valid() bool {
	switch ct {
	case ContentTypeTextPlain, ContentTypeOctetStream, ContentTypeFormURLEncoded, ContentTypeJSON:
		return true
	default:
		return false
	}
}

// ParseContentType converts a content type name to a [ContentType].
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(s))
	if !ct.Valid() {
		return "", netxlite.NewProtocolError(netxlite.FailureInvalidRequest,
			netxlite.BuildRequestOperation, "unsupported content type %q", s)
	}
	return ct, nil
}

// Request is the request to send.
type Request struct {
	// Method is the request method.
	Method Method

	// Address is the numeric IP address to connect to. When empty, we
	// resolve Host and use its first IPv4 address.
	Address string

	// Host is the value of the Host header.
	Host string

	// Port is the TCP port to connect to.
	Port int

	// Path contains the path and the query.
	Path string

	// ContentType is the value of the Content-Type header.
	ContentType ContentType

	// Cookie is the value of the Cookie header, which we always
	// send, even when it's empty.
	Cookie string

	// Body is the request body. A nil Body means there is no body,
	// while an empty Body is sent with "Content-Length: 0".
	Body []byte
}

// NewRequest creates a GET request for the given host and path using
// port 80 and the text/plain content type.
func NewRequest(host, path string) *Request {
	return &Request{
		Method:      MethodGet,
		Host:        host,
		Port:        80,
		Path:        path,
		ContentType: ContentTypeTextPlain,
	}
}

// Validate returns an [*netxlite.ErrWrapper] with FailureInvalidRequest
// when the request cannot be rendered into a valid header block.
func (r *Request) Validate() error {
	if r == nil {
		return netxlite.NewProtocolError(netxlite.FailureInvalidRequest,
			netxlite.BuildRequestOperation, "nil request")
	}
	if err := r.validate(); err != "" {
		return netxlite.NewProtocolError(netxlite.FailureInvalidRequest,
			netxlite.BuildRequestOperation, "%s", err)
	}
	return nil
}

func (r *Request) validate() string {
	switch {
	case !r.Method.Valid():
		return fmt.Sprintf("unsupported method %q", r.Method)
	case !r.ContentType.Valid():
		return fmt.Sprintf("unsupported content type %q", r.ContentType)
	case r.Port <= 0 || r.Port > 65535:
		return fmt.Sprintf("invalid port %d", r.Port)
	case r.Host == "":
		return "empty host"
	case !httpguts.ValidHostHeader(r.Host) || !httpguts.ValidHeaderFieldValue(r.Host):
		return fmt.Sprintf("invalid host %q", r.Host)
	case !validPath(r.Path):
		return fmt.Sprintf("invalid path %q", r.Path)
	case !httpguts.ValidHeaderFieldValue(r.Cookie):
		return "invalid cookie"
	default:
		return ""
	}
}

// validPath returns whether path can appear in the request line.
func validPath(path string) bool {
	if path == "" || (path[0] != '/' && path != "*") {
		return false
	}
	for i := 0; i < len(path); i++ {
		if path[i] <= ' ' || path[i] == 0x7f {
			return false
		}
	}
	return true
}
