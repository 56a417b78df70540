package rawhttp

//
// Response parsing
//

import (
	"bytes"
	"strconv"

	"github.com/iotnet/minihttp/internal/netxlite"
)

// minResponseSize is the minimum size of something that could start
// with a status line.
const minResponseSize = 6

var crlf = []byte("\r\n")

// Parse parses the raw bytes of a response that has been read until
// EOF, decoding chunked bodies in place. The returned response is never
// nil and keeps a reference to raw even when parsing fails.
//
// Failures are [*netxlite.ErrWrapper] with one of these failures:
// FailureTruncatedResponse, FailureMalformedStatusLine,
// FailureMalformedHeader, FailureContentLengthMismatch,
// FailureChunkedDecode.
func Parse(raw []byte) (*Response, error) {
	resp := &Response{raw: raw}
	if len(raw) < minResponseSize {
		return resp, netxlite.NewProtocolError(netxlite.FailureTruncatedResponse,
			netxlite.ParseOperation, "response is %d bytes", len(raw))
	}

	lineEnd := bytes.Index(raw, crlf)
	if lineEnd < 0 {
		return resp, newStatusLineError("missing CRLF")
	}
	status, err := parseStatusLine(raw[:lineEnd])
	if err != nil {
		return resp, err
	}
	resp.StatusCode = status

	p := &headerParser{raw: raw, offset: lineEnd + 2, declared: -1}
	if err := p.parse(resp); err != nil {
		return resp, err
	}
	resp.bodyOffset = p.offset
	remaining := len(raw) - p.offset

	if resp.Chunked {
		length, err := DecodeChunked(raw, p.offset, len(raw))
		if err != nil {
			return resp, err
		}
		resp.ContentLength = length
		return resp, nil
	}

	if p.declared >= 0 && p.declared != int64(remaining) {
		return resp, netxlite.NewProtocolError(netxlite.FailureContentLengthMismatch,
			netxlite.ParseOperation, "declared %d bytes, received %d", p.declared, remaining)
	}
	resp.ContentLength = remaining
	return resp, nil
}

func newStatusLineError(detail string) error {
	return netxlite.NewProtocolError(netxlite.FailureMalformedStatusLine,
		netxlite.ParseOperation, "%s", detail)
}

// parseStatusLine parses a line like "HTTP/1.1 200 OK" and returns the
// status code, which must consist of exactly three digits.
func parseStatusLine(line []byte) (int, error) {
	if !bytes.HasPrefix(line, []byte("HTTP/1.")) {
		return 0, newStatusLineError("missing HTTP/1.x version")
	}
	sp := bytes.IndexByte(line, ' ')
	if sp < 0 {
		return 0, newStatusLineError("missing status code")
	}
	code := line[sp+1:]
	if end := bytes.IndexByte(code, ' '); end >= 0 {
		code = code[:end]
	}
	if len(code) != 3 || !isDigits(code) {
		return 0, newStatusLineError("status code is not three digits")
	}
	status, _ := strconv.Atoi(string(code))
	if status < 100 {
		return 0, newStatusLineError("status code out of range")
	}
	return status, nil
}

// headerParser walks the header block.
type headerParser struct {
	raw      []byte
	offset   int
	declared int64
}

// parse consumes the header lines including the empty line, leaving
// offset at the beginning of the body.
func (p *headerParser) parse(resp *Response) error {
	for {
		if p.offset >= len(p.raw) {
			// no empty line but data ends at a line boundary
			return nil
		}
		end := bytes.Index(p.raw[p.offset:], crlf)
		if end < 0 {
			return p.newError("header line without CRLF")
		}
		start := p.offset
		line := p.raw[start : start+end]
		p.offset = start + end + 2
		if len(line) <= 0 {
			return nil
		}
		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			return p.newError("header line without colon")
		}
		name := line[:colon]
		valueStart, valueEnd := trimOWS(line, colon+1, len(line))
		value := line[valueStart:valueEnd]
		switch {
		case bytes.EqualFold(name, []byte("Content-Length")):
			if !isDigits(value) {
				return p.newError("invalid Content-Length")
			}
			declared, err := strconv.ParseInt(string(value), 10, 64)
			if err != nil {
				return p.newError("invalid Content-Length")
			}
			p.declared = declared
		case bytes.EqualFold(name, []byte("Set-Cookie")):
			resp.hasCookie = true
			resp.cookieOffset = start + valueStart
			resp.cookieLength = valueEnd - valueStart
		case bytes.EqualFold(name, []byte("Transfer-Encoding")):
			resp.Chunked = bytes.EqualFold(value, []byte("chunked"))
		}
	}
}

func (p *headerParser) newError(detail string) error {
	return netxlite.NewProtocolError(netxlite.FailureMalformedHeader,
		netxlite.ParseOperation, "%s", detail)
}

// trimOWS returns the bounds of line[start:end] without leading and
// trailing spaces and tabs.
func trimOWS(line []byte, start, end int) (int, int) {
	for start < end && (line[start] == ' ' || line[start] == '\t') {
		start++
	}
	for end > start && (line[end-1] == ' ' || line[end-1] == '\t') {
		end--
	}
	return start, end
}

// isDigits returns whether v is a non-empty sequence of ASCII digits.
func isDigits(v []byte) bool {
	if len(v) <= 0 {
		return false
	}
	for _, c := range v {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
