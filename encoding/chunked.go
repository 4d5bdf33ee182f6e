package encoding

import (
	"fmt"
	mathbits "math/bits"

	"github.com/arloliu/primepack/bitbuf"
)

// SmallValueMax is the largest magnitude the small-value code accepts.
// Run counts and exponents are biased by one before encoding, so the
// factorization wire format stays within this domain for every uint32.
const SmallValueMax = 31

// chunkedLayout is one instantiation of the self-delimiting chunked code.
//
// Encoding emits bit k of the value for k = 0..maxBits-1, least
// significant first. After emitting a bit whose offset is in the
// checkpoint mask, the encoder emits a stop bit 0 and finishes when no
// value bits remain, or a continuation bit 1 otherwise. Decoding mirrors
// this bit for bit.
//
// The historical source of this scheme carried several divergent codec
// revisions; they differ only in these two parameters, so a single layout
// value describes each of them.
type chunkedLayout struct {
	checkpoints uint32 // mask of bit offsets followed by a stop/continue flag
	maxBits     int    // value bits emitted when every checkpoint continues
}

var (
	// smallValueLayout encodes [0, 63] in 2-bit chunks; the public small
	// codec restricts it to [0, 31] so every value fits in 5 data bits and
	// the final chunk's high bit is always zero.
	smallValueLayout = chunkedLayout{checkpoints: 1<<1 | 1<<3, maxBits: 6}

	// lengthFieldLayout encodes the biased bit length (0..31) of a uint32.
	// The second checkpoint sits past the last emitted bit, so the field is
	// either 3 bits (lengths 0..3) or 6 bits (lengths 4..31).
	lengthFieldLayout = chunkedLayout{checkpoints: 1<<1 | 1<<5, maxBits: 5}
)

func (l chunkedLayout) maxValue() uint32 {
	return 1<<l.maxBits - 1
}

func (l chunkedLayout) append(dst *bitbuf.Buffer, v uint32) {
	if v > l.maxValue() {
		panic(fmt.Sprintf("encoding: value %d exceeds chunked layout maximum %d", v, l.maxValue()))
	}

	for k := 0; k < l.maxBits; k++ {
		dst.AppendBit(v>>k&1 == 1)
		if l.checkpoints>>k&1 == 1 {
			if v>>(k+1) == 0 {
				dst.AppendBit(false)
				return
			}
			dst.AppendBit(true)
		}
	}
}

func (l chunkedLayout) read(r *bitbuf.Reader) (uint32, error) {
	var v uint32
	for k := 0; k < l.maxBits; k++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit {
			v |= 1 << k
		}
		if l.checkpoints>>k&1 == 1 {
			more, err := r.ReadBit()
			if err != nil {
				return 0, err
			}
			if !more {
				return v, nil
			}
		}
	}

	return v, nil
}

// Encoder appends variable-length integer codes to a bit buffer.
//
// The zero encoder is not usable; create one with NewEncoder. Encoders are
// single-goroutine values, like the buffers they own.
type Encoder struct {
	bits *bitbuf.Buffer
}

// NewEncoder creates an Encoder with an empty bit buffer.
func NewEncoder() *Encoder {
	return &Encoder{bits: bitbuf.New()}
}

// PutSmall appends v with the small-value code.
//
// The domain is [0, SmallValueMax]; a larger value indicates a caller bug
// that would corrupt the encoding, so it panics.
func (e *Encoder) PutSmall(v uint32) {
	if v > SmallValueMax {
		panic(fmt.Sprintf("encoding: small value %d exceeds maximum %d", v, SmallValueMax))
	}
	smallValueLayout.append(e.bits, v)
}

// PutUint32 appends v with the general self-delimiting uint32 code:
// a chunked bit-length field followed by the raw value bits, LSB first.
// Every uint32 is encodable, including 0 and 0xFFFFFFFF.
func (e *Encoder) PutUint32(v uint32) {
	var field uint32
	if v > 0 {
		field = uint32(mathbits.Len32(v)) - 1
	}
	lengthFieldLayout.append(e.bits, field)

	width := int(field) + 1
	for k := 0; k < width; k++ {
		e.bits.AppendBit(v>>k&1 == 1)
	}
}

// Bits returns the underlying bit buffer.
//
// The buffer is not copied: appending to the encoder afterwards extends
// the same buffer.
func (e *Encoder) Bits() *bitbuf.Buffer {
	return e.bits
}

// Len returns the number of bits emitted so far.
func (e *Encoder) Len() int {
	return e.bits.Len()
}

// Decoder reads variable-length integer codes from a bit buffer through a
// cursor-owning Reader.
type Decoder struct {
	r *bitbuf.Reader
}

// NewDecoder creates a Decoder positioned at bit 0 of bits.
func NewDecoder(bits *bitbuf.Buffer) *Decoder {
	return &Decoder{r: bitbuf.NewReader(bits)}
}

// Small reads one small-value code.
//
// Returns:
//   - uint32: The decoded value
//   - error: Wrapped errs.ErrBufferExhausted on truncated input
func (d *Decoder) Small() (uint32, error) {
	return smallValueLayout.read(d.r)
}

// Uint32 reads one general uint32 code.
//
// Returns:
//   - uint32: The decoded value
//   - error: Wrapped errs.ErrBufferExhausted on truncated input
func (d *Decoder) Uint32() (uint32, error) {
	field, err := lengthFieldLayout.read(d.r)
	if err != nil {
		return 0, err
	}

	return d.r.ReadBits(int(field) + 1)
}

// Pos returns the bit position of the next read.
func (d *Decoder) Pos() int {
	return d.r.Pos()
}

// Remaining returns the number of unread bits.
func (d *Decoder) Remaining() int {
	return d.r.Remaining()
}
