package rawhttp

//
// In-place decoding of chunked bodies
//

import (
	"bytes"
	"strconv"

	"github.com/iotnet/minihttp/internal/netxlite"
)

// maxChunkSizeDigits is the maximum number of hex digits of a
// chunk size, i.e., the ones fitting into 64 bits.
const maxChunkSizeDigits = 16

// DecodeChunked decodes the chunked body in buf[start:end] in place and
// returns the decoded length. The decoded bytes start at buf[start].
//
// Decoding in place is safe because the decoded data is never longer than
// the encoded data, so we never write past what we have already read.
// Chunk extensions and trailers are discarded. Failures are
// [*netxlite.ErrWrapper] with FailureChunkedDecode.
func DecodeChunked(buf []byte, start, end int) (int, error) {
	in, out := start, start
	for {
		if in >= end {
			return 0, newChunkedError("missing last chunk")
		}
		lineEnd := bytes.Index(buf[in:end], crlf)
		if lineEnd < 0 {
			return 0, newChunkedError("missing CRLF after chunk size")
		}
		size, err := parseChunkSize(buf[in : in+lineEnd])
		if err != nil {
			return 0, err
		}
		in += lineEnd + 2
		if size == 0 {
			return out - start, nil
		}
		if size > uint64(end-in) {
			return 0, newChunkedError("chunk size exceeds the remaining data")
		}
		count := int(size)
		copy(buf[out:out+count], buf[in:in+count])
		out += count
		in += count
		if end-in < 2 || buf[in] != '\r' || buf[in+1] != '\n' {
			return 0, newChunkedError("missing CRLF after chunk data")
		}
		in += 2
	}
}

// parseChunkSize parses a chunk size line without its CRLF.
func parseChunkSize(line []byte) (uint64, error) {
	if semicolon := bytes.IndexByte(line, ';'); semicolon >= 0 {
		line = line[:semicolon]
	}
	s, e := trimOWS(line, 0, len(line))
	line = line[s:e]
	if len(line) <= 0 || len(line) > maxChunkSizeDigits {
		return 0, newChunkedError("invalid chunk size length")
	}
	size, err := strconv.ParseUint(string(line), 16, 64)
	if err != nil {
		return 0, newChunkedError("invalid chunk size")
	}
	return size, nil
}

func newChunkedError(detail string) error {
	return netxlite.NewProtocolError(netxlite.FailureChunkedDecode,
		netxlite.DecodeChunkedOperation, "%s", detail)
}
