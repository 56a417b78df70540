package netxlite

//
// Growable receive buffer
//

import (
	"errors"
	"fmt"
)

// BufferPolicy controls how a [*Buffer] grows.
type BufferPolicy struct {
	// InitialSize is the initial capacity.
	InitialSize int

	// GrowThreshold is the amount of free space below which we double.
	GrowThreshold int

	// ReadSize is the maximum number of bytes we read per call.
	ReadSize int

	// MaxSize is the capacity we are not allowed to exceed.
	MaxSize int
}

// DefaultBufferPolicy returns the default [BufferPolicy].
func DefaultBufferPolicy() BufferPolicy {
	return BufferPolicy{
		InitialSize:   4096,
		GrowThreshold: 512,
		ReadSize:      256,
		MaxSize:       64 << 20,
	}
}

// WithDefaults returns a copy of p where each zero field has the
// value it has in [DefaultBufferPolicy].
func (p BufferPolicy) WithDefaults() BufferPolicy {
	def := DefaultBufferPolicy()
	if p.InitialSize == 0 {
		p.InitialSize = def.InitialSize
	}
	if p.GrowThreshold == 0 {
		p.GrowThreshold = def.GrowThreshold
	}
	if p.ReadSize == 0 {
		p.ReadSize = def.ReadSize
	}
	if p.MaxSize == 0 {
		p.MaxSize = def.MaxSize
	}
	return p
}

// ErrInvalidBufferPolicy indicates that a [BufferPolicy] is not valid.
var ErrInvalidBufferPolicy = errors.New("invalid buffer policy")

// Validate returns an error if the policy does not satisfy
// 0 < ReadSize <= GrowThreshold <= InitialSize <= MaxSize. With these
// constraints, a read never needs more space than what is free.
func (p BufferPolicy) Validate() error {
	switch {
	case p.ReadSize <= 0:
		return fmt.Errorf("%w: ReadSize must be positive", ErrInvalidBufferPolicy)
	case p.GrowThreshold < p.ReadSize:
		return fmt.Errorf("%w: GrowThreshold is smaller than ReadSize", ErrInvalidBufferPolicy)
	case p.InitialSize < p.GrowThreshold:
		return fmt.Errorf("%w: InitialSize is smaller than GrowThreshold", ErrInvalidBufferPolicy)
	case p.MaxSize < p.InitialSize:
		return fmt.Errorf("%w: MaxSize is smaller than InitialSize", ErrInvalidBufferPolicy)
	default:
		return nil
	}
}

// Buffer is an append-only byte buffer that doubles its capacity when
// the free space drops below the policy threshold.
//
// The zero value is invalid; use [NewBuffer].
type Buffer struct {
	data    []byte
	used    int
	growths int
	policy  BufferPolicy
}

// NewBuffer creates a [*Buffer] with the given policy's initial size. This
// function assumes that you have already validated the policy.
func NewBuffer(policy BufferPolicy) *Buffer {
	return &Buffer{
		data:   make([]byte, policy.InitialSize),
		policy: policy,
	}
}

// Bytes returns the bytes we have received so far. The returned slice
// aliases the buffer storage.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.used]
}

// Len returns the number of bytes we have received so far.
func (b *Buffer) Len() int {
	return b.used
}

// Cap returns the current capacity.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Growths returns how many times we have doubled the capacity.
func (b *Buffer) Growths() int {
	return b.growths
}

// reserve makes sure there are at least GrowThreshold free bytes by
// doubling the capacity when needed. Doubling beyond MaxSize fails
// with FailureBufferOverflow.
func (b *Buffer) reserve() error {
	if len(b.data)-b.used >= b.policy.GrowThreshold {
		return nil
	}
	size := len(b.data) * 2
	if size > b.policy.MaxSize {
		return NewProtocolError(FailureBufferOverflow, ReadOperation,
			"response exceeds %d bytes", b.policy.MaxSize)
	}
	data := make([]byte, size)
	copy(data, b.data[:b.used])
	b.data = data
	b.growths++
	return nil
}

// slot returns the region the next read should fill.
func (b *Buffer) slot() []byte {
	return b.data[b.used : b.used+min(b.policy.ReadSize, len(b.data)-b.used)]
}

// commit records that count bytes have been written into the slot.
func (b *Buffer) commit(count int) {
	b.used += count
}
