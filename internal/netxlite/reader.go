package netxlite

//
// Transport I/O: read path
//

import (
	"errors"
	"io"
	"syscall"
)

// ReadAll reads from r into a [*Buffer] until EOF.
//
// We read at most policy.ReadSize bytes per call and grow the buffer
// according to the policy. EINTR is retried. Growing beyond the maximum
// size fails with FailureBufferOverflow and any other error fails with
// FailureRead. On failure we also return the partially filled buffer.
func ReadAll(r io.Reader, policy BufferPolicy) (*Buffer, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	buf := NewBuffer(policy)
	for {
		if err := buf.reserve(); err != nil {
			return buf, err
		}
		count, err := r.Read(buf.slot())
		buf.commit(count)
		switch {
		case err == nil:
			// continue reading
		case errors.Is(err, io.EOF):
			return buf, nil
		case errors.Is(err, syscall.EINTR):
			// just retry
		default:
			return buf, NewErrWrapper(FailureRead, ReadOperation, err)
		}
	}
}
