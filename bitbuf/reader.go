package bitbuf

import (
	"fmt"

	"github.com/arloliu/primepack/errs"
)

// Reader consumes a Buffer front to back, owning its own cursor.
//
// Readers exist so that decoders of untrusted bit data never index the
// buffer directly: running out of bits surfaces as ErrBufferExhausted
// instead of a panic, and the position bookkeeping cannot be aliased by
// two decode paths sharing one integer.
//
// A Reader does not copy the Buffer; the Buffer must not be modified while
// reads are in progress.
type Reader struct {
	buf *Buffer
	pos int
}

// NewReader creates a Reader positioned at bit 0 of buf.
func NewReader(buf *Buffer) *Reader {
	return &Reader{buf: buf}
}

// ReadBit consumes and returns the next bit.
//
// Returns:
//   - bool: The bit value
//   - error: ErrBufferExhausted when no bits remain
func (r *Reader) ReadBit() (bool, error) {
	if r.pos >= r.buf.cnt {
		return false, fmt.Errorf("%w: position %d", errs.ErrBufferExhausted, r.pos)
	}
	bit := r.buf.Bit(r.pos)
	r.pos++

	return bit, nil
}

// ReadBits consumes n bits and packs them least-significant-first into a
// uint32, matching the order AppendBit stores them.
//
// Panics if n is outside [0, 32]; the width is always a codec constant, so
// an invalid width is a caller bug. Returns ErrBufferExhausted without
// consuming anything when fewer than n bits remain.
func (r *Reader) ReadBits(n int) (uint32, error) {
	if n < 0 || n > 32 {
		panic(fmt.Sprintf("bitbuf: read width %d out of range [0, 32]", n))
	}
	if r.buf.cnt-r.pos < n {
		return 0, fmt.Errorf("%w: need %d bits at position %d, have %d", errs.ErrBufferExhausted, n, r.pos, r.buf.cnt-r.pos)
	}

	var v uint32
	for i := 0; i < n; i++ {
		if r.buf.Bit(r.pos + i) {
			v |= 1 << i
		}
	}
	r.pos += n

	return v, nil
}

// Pos returns the zero-based position of the next bit to be read.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	return r.buf.cnt - r.pos
}
