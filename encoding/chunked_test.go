package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/primepack/errs"
)

func TestEncoder_PutSmall_KnownVectors(t *testing.T) {
	tests := []struct {
		value uint32
		bits  string
	}{
		{0, "b000"},
		{1, "b100"},
		{2, "b010"},
		{3, "b110"},
		{4, "b001100"},
		{5, "b101100"},
		{15, "b111110"},
		{16, "b00100110"},
		{21, "b10101110"},
		{31, "b11111110"},
	}

	for _, tt := range tests {
		enc := NewEncoder()
		enc.PutSmall(tt.value)
		require.Equal(t, tt.bits, enc.Bits().String(), "value %d", tt.value)
	}
}

func TestEncoder_PutSmall_RoundTrip(t *testing.T) {
	for v := uint32(0); v <= SmallValueMax; v++ {
		enc := NewEncoder()
		enc.PutSmall(v)
		require.LessOrEqual(t, enc.Len(), 8, "value %d", v)

		dec := NewDecoder(enc.Bits())
		got, err := dec.Small()
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, 0, dec.Remaining())
	}
}

func TestEncoder_PutSmall_DomainPanic(t *testing.T) {
	enc := NewEncoder()
	require.Panics(t, func() { enc.PutSmall(SmallValueMax + 1) })
	require.Panics(t, func() { enc.PutSmall(1 << 31) })
}

func TestEncoder_PutUint32_KnownVectors(t *testing.T) {
	tests := []struct {
		value uint32
		bits  string
	}{
		{0, "b0000"},
		{1, "b0001"},
		{2, "b10001"},
		{3, "b10011"},
		{7, "b010111"},
		{8, "b1100001"},
		{65535, "b1111101111111111111111"},
		{0xFFFFFFFF, "b11111111111111111111111111111111111111"},
	}

	for _, tt := range tests {
		enc := NewEncoder()
		enc.PutUint32(tt.value)
		require.Equal(t, tt.bits, enc.Bits().String(), "value %d", tt.value)
	}
}

func TestEncoder_PutUint32_RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 2, 3, 4, 5, 7, 8, 15, 16, 31, 32, 63, 64, 255, 256, 1023}
	for bit := 10; bit < 32; bit++ {
		values = append(values, 1<<bit-1, 1<<bit, 1<<bit+1)
	}
	values = append(values, 0x7FFFFFFF, 0x80000000, 0xDEADBEEF, 0xFFFFFFFF)

	for _, v := range values {
		enc := NewEncoder()
		enc.PutUint32(v)

		dec := NewDecoder(enc.Bits())
		got, err := dec.Uint32()
		require.NoError(t, err)
		require.Equal(t, v, got, "value %d", v)
		require.Equal(t, 0, dec.Remaining(), "value %d", v)
	}
}

// The length field is 3 bits for values below 16 and 6 bits otherwise,
// and the raw part is exactly the value's bit length (one bit for zero).
func TestEncoder_PutUint32_WireSize(t *testing.T) {
	tests := []struct {
		value uint32
		bits  int
	}{
		{0, 4},
		{1, 4},
		{2, 5},
		{15, 7},
		{16, 11},
		{0xFFFF, 22},
		{0xFFFFFFFF, 38},
	}

	for _, tt := range tests {
		enc := NewEncoder()
		enc.PutUint32(tt.value)
		require.Equal(t, tt.bits, enc.Len(), "value %d", tt.value)
	}
}

func TestEncoder_MixedSequence(t *testing.T) {
	enc := NewEncoder()
	enc.PutSmall(2)
	enc.PutUint32(65535)
	enc.PutSmall(31)
	enc.PutUint32(0)

	dec := NewDecoder(enc.Bits())

	v, err := dec.Small()
	require.NoError(t, err)
	require.Equal(t, uint32(2), v)

	v, err = dec.Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(65535), v)

	v, err = dec.Small()
	require.NoError(t, err)
	require.Equal(t, uint32(31), v)

	v, err = dec.Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0), v)

	require.Equal(t, enc.Len(), dec.Pos())
	require.Equal(t, 0, dec.Remaining())
}

// Every strict prefix of a valid encoding must fail cleanly instead of
// decoding to a wrong value.
func TestDecoder_Uint32_Truncated(t *testing.T) {
	for _, v := range []uint32{0, 7, 8, 65535, 0xFFFFFFFF} {
		enc := NewEncoder()
		enc.PutUint32(v)
		full := enc.Bits()

		for n := range full.Len() {
			prefix := full.Clone()
			prefix.Clip(n)

			dec := NewDecoder(prefix)
			_, err := dec.Uint32()
			require.ErrorIs(t, err, errs.ErrBufferExhausted, "value %d, prefix %d bits", v, n)
		}
	}
}

func TestDecoder_Small_Truncated(t *testing.T) {
	for _, v := range []uint32{0, 3, 4, 16, 31} {
		enc := NewEncoder()
		enc.PutSmall(v)
		full := enc.Bits()

		for n := range full.Len() {
			prefix := full.Clone()
			prefix.Clip(n)

			dec := NewDecoder(prefix)
			_, err := dec.Small()
			require.ErrorIs(t, err, errs.ErrBufferExhausted, "value %d, prefix %d bits", v, n)
		}
	}
}
