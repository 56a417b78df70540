package rawhttp

// Response is a parsed response.
//
// Body and Cookie return views into the raw bytes we received rather
// than copies. After Release, such views must not be used anymore.
type Response struct {
	// StatusCode is the status code.
	StatusCode int

	// Chunked indicates "Transfer-Encoding: chunked".
	Chunked bool

	// ContentLength is the length of the body. For chunked responses,
	// this is the length after decoding.
	ContentLength int

	// Growths is how many times the receive buffer had to grow.
	Growths int

	raw          []byte
	bodyOffset   int
	cookieOffset int
	cookieLength int
	hasCookie    bool
}

// Body returns the body. The result aliases the raw response.
func (r *Response) Body() []byte {
	if r.raw == nil || r.ContentLength <= 0 {
		return nil
	}
	return r.raw[r.bodyOffset : r.bodyOffset+r.ContentLength]
}

// Cookie returns the value of the last Set-Cookie header and whether there
// was such a header. The result aliases the raw response.
func (r *Response) Cookie() ([]byte, bool) {
	if r.raw == nil || !r.hasCookie {
		return nil, false
	}
	return r.raw[r.cookieOffset : r.cookieOffset+r.cookieLength], true
}

// Raw returns the bytes we received. For chunked responses, the bytes
// following the header block have been decoded in place.
func (r *Response) Raw() []byte {
	return r.raw
}

// Release drops the reference to the raw response.
func (r *Response) Release() {
	r.raw = nil
	r.hasCookie = false
	r.bodyOffset, r.cookieOffset, r.cookieLength = 0, 0, 0
}
