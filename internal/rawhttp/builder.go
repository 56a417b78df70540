package rawhttp

//
// Request header rendering
//

import (
	"strconv"

	"github.com/iotnet/minihttp/internal/model"
	"github.com/iotnet/minihttp/internal/netxlite"
	"github.com/valyala/bytebufferpool"
)

// DefaultMaxHeaderBytes is the default capacity of the header block.
const DefaultMaxHeaderBytes = 4096

// RequestBuilder renders request header blocks.
//
// The zero value is ready to use and renders using the defaults.
type RequestBuilder struct {
	// UserAgent is the User-Agent; empty means model.HTTPHeaderUserAgent.
	UserAgent string

	// MaxHeaderBytes is the header block capacity; zero or negative
	// means DefaultMaxHeaderBytes.
	MaxHeaderBytes int
}

// Build validates the request and renders its header block into a
// pooled buffer. The caller owns the buffer and should return it
// using bytebufferpool.Put when done.
//
// The body is not part of the header block and should be sent using
// a separate write. Rendering more than MaxHeaderBytes fails with
// FailureRequestTooLarge.
func (rb *RequestBuilder) Build(req *Request) (*bytebufferpool.ByteBuffer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	bb := bytebufferpool.Get()
	bb.WriteString(string(req.Method))
	bb.WriteString(" ")
	bb.WriteString(req.Path)
	bb.WriteString(" HTTP/1.1\r\n")
	writeHeader(bb, "Host", req.Host)
	writeHeader(bb, "Accept", model.HTTPHeaderAccept)
	writeHeader(bb, "Accept-Language", model.HTTPHeaderAcceptLanguage)
	writeHeader(bb, "Connection", "close")
	writeHeader(bb, "User-Agent", rb.userAgent())
	writeHeader(bb, "Content-Type", string(req.ContentType))
	writeHeader(bb, "Cookie", req.Cookie)
	if req.Body != nil {
		writeHeader(bb, "Content-Length", strconv.Itoa(len(req.Body)))
	}
	bb.WriteString("\r\n")
	if limit := rb.maxHeaderBytes(); bb.Len() > limit {
		size := bb.Len()
		bytebufferpool.Put(bb)
		return nil, netxlite.NewProtocolError(netxlite.FailureRequestTooLarge,
			netxlite.BuildRequestOperation, "header block is %d bytes, limit is %d", size, limit)
	}
	return bb, nil
}

func writeHeader(bb *bytebufferpool.ByteBuffer, name, value string) {
	bb.WriteString(name)
	bb.WriteString(": ")
	bb.WriteString(value)
	bb.WriteString("\r\n")
}

func (rb *RequestBuilder) userAgent() string {
	if rb.UserAgent != "" {
		return rb.UserAgent
	}
	return model.HTTPHeaderUserAgent
}

func (rb *RequestBuilder) maxHeaderBytes() int {
	if rb.MaxHeaderBytes > 0 {
		return rb.MaxHeaderBytes
	}
	return DefaultMaxHeaderBytes
}

// BuildRequest renders the header block of req using the default
// builder and returns a copy of it.
func BuildRequest(req *Request) ([]byte, error) {
	rb := &RequestBuilder{}
	bb, err := rb.Build(req)
	if err != nil {
		return nil, err
	}
	defer bytebufferpool.Put(bb)
	return append([]byte{}, bb.B...), nil
}
