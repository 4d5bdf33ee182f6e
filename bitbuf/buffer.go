// Package bitbuf provides a growable, randomly addressable bit buffer and a
// cursor-owning reader over it.
//
// Buffer is the storage substrate for every variable-length encoding in
// primepack: bits are appended in order, addressed by zero-based index, and
// packed least-significant-bit first into byte-aligned backing storage.
//
// The textual form is the letter 'b' followed by one '0' or '1' character
// per bit in append order, so "b011" holds bit 0 = 0, bit 1 = 1, bit 2 = 1.
// It round-trips through String and Parse and is used for debugging, test
// fixtures, and log output.
//
// Reading positional state lives in Reader, never in the Buffer itself;
// multiple Readers can consume one Buffer independently.
package bitbuf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/arloliu/primepack/errs"
)

// Buffer is a growable sequence of bits.
//
// The zero value is an empty buffer ready for use. Index-based accessors
// (Bit, SetBit, Flip) treat an out-of-range index as a caller bug and
// panic; append and clip operations never panic.
//
// Invariant: bits at positions >= Len() within the last partial byte are
// always zero. AppendBit relies on this to OR new bits in place, and Equal
// relies on it to compare backing bytes directly.
type Buffer struct {
	b   []byte
	cnt int
}

// New creates an empty Buffer.
//
// Returns:
//   - *Buffer: A new buffer with length 0
func New() *Buffer {
	return &Buffer{}
}

// Len returns the number of bits in the buffer.
func (b *Buffer) Len() int {
	return b.cnt
}

// Bit returns the bit at the given zero-based index.
//
// Panics if i is outside [0, Len()).
func (b *Buffer) Bit(i int) bool {
	b.checkIndex(i)
	return (b.b[i>>3]>>(i&7))&1 == 1
}

// SetBit sets the bit at the given zero-based index.
//
// Panics if i is outside [0, Len()).
func (b *Buffer) SetBit(i int, bit bool) {
	b.checkIndex(i)
	if bit {
		b.b[i>>3] |= 1 << (i & 7)
	} else {
		b.b[i>>3] &^= 1 << (i & 7)
	}
}

// Flip inverts the bit at the given zero-based index.
//
// Panics if i is outside [0, Len()).
func (b *Buffer) Flip(i int) {
	b.checkIndex(i)
	b.b[i>>3] ^= 1 << (i & 7)
}

// AppendBit appends a single bit, growing the buffer by one position.
// Amortized O(1).
func (b *Buffer) AppendBit(bit bool) {
	if b.cnt&7 == 0 {
		// Start a fresh byte. Appending an explicit zero also clears any
		// stale content when capacity is reused after a shrinking Clip.
		b.b = append(b.b, 0)
	}
	if bit {
		b.b[b.cnt>>3] |= 1 << (b.cnt & 7)
	}
	b.cnt++
}

// AppendBits appends every bit of other, in order, to b.
func (b *Buffer) AppendBits(other *Buffer) {
	for i := 0; i < other.cnt; i++ {
		b.AppendBit(other.Bit(i))
	}
}

// Clip resizes the buffer to exactly n bits.
//
// Shrinking preserves bits [0, n) and zeroes the discarded positions so the
// trailing-zero invariant holds for later appends; growing appends zero
// bits. Clip is idempotent when n equals Len().
//
// Panics if n is negative.
func (b *Buffer) Clip(n int) {
	if n < 0 {
		panic(fmt.Sprintf("bitbuf: negative clip length %d", n))
	}

	switch {
	case n < b.cnt:
		if rem := n & 7; rem != 0 {
			b.b[n>>3] &= byte(1<<rem) - 1
		}
		b.b = b.b[:(n+7)>>3]
		b.cnt = n
	case n > b.cnt:
		for b.cnt < n {
			b.AppendBit(false)
		}
	}
}

// Equal reports whether both buffers hold the same bits in the same order.
func (b *Buffer) Equal(other *Buffer) bool {
	return b.cnt == other.cnt && bytes.Equal(b.b, other.b)
}

// Clone returns a deep copy that shares no storage with b.
func (b *Buffer) Clone() *Buffer {
	dup := &Buffer{cnt: b.cnt}
	if len(b.b) > 0 {
		dup.b = make([]byte, len(b.b))
		copy(dup.b, b.b)
	}

	return dup
}

// BitRange extracts count bits starting at position start into a new
// Buffer.
//
// Returns:
//   - *Buffer: Buffer holding the requested bits in order
//   - error: ErrBitRangeStart if start exceeds Len(), ErrBitRangeCount if
//     start+count does
func (b *Buffer) BitRange(start, count int) (*Buffer, error) {
	if start < 0 || start > b.cnt {
		return nil, fmt.Errorf("%w: start %d, length %d", errs.ErrBitRangeStart, start, b.cnt)
	}
	if count < 0 || start+count > b.cnt {
		return nil, fmt.Errorf("%w: start %d, count %d, length %d", errs.ErrBitRangeCount, start, count, b.cnt)
	}

	out := New()
	for i := start; i < start+count; i++ {
		out.AppendBit(b.Bit(i))
	}

	return out, nil
}

// String renders the buffer in textual form: 'b' followed by one character
// per bit in append order.
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.Grow(b.cnt + 1)
	sb.WriteByte('b')
	for i := 0; i < b.cnt; i++ {
		if b.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

// Parse converts the textual form produced by String back into a Buffer.
//
// Returns:
//   - *Buffer: Parsed buffer
//   - error: ErrInvalidBitString when the 'b' prefix is missing or any
//     character after it is not '0' or '1'
func Parse(s string) (*Buffer, error) {
	if len(s) == 0 || s[0] != 'b' {
		return nil, fmt.Errorf("%w: missing 'b' prefix", errs.ErrInvalidBitString)
	}

	out := New()
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '0':
			out.AppendBit(false)
		case '1':
			out.AppendBit(true)
		default:
			return nil, fmt.Errorf("%w: character %q at position %d", errs.ErrInvalidBitString, s[i], i)
		}
	}

	return out, nil
}

func (b *Buffer) checkIndex(i int) {
	if i < 0 || i >= b.cnt {
		panic(fmt.Sprintf("bitbuf: bit index %d out of range [0, %d)", i, b.cnt))
	}
}
