package bitbuf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/primepack/errs"
)

func TestBuffer_AppendBit_Get(t *testing.T) {
	buf := New()
	require.Equal(t, 0, buf.Len())

	pattern := []bool{true, false, true, true, false, false, true, false, true, true}
	for _, bit := range pattern {
		buf.AppendBit(bit)
	}

	require.Equal(t, len(pattern), buf.Len())
	for i, want := range pattern {
		require.Equal(t, want, buf.Bit(i), "bit %d", i)
	}
}

func TestBuffer_Bit_OutOfRangePanics(t *testing.T) {
	buf := New()
	buf.AppendBit(true)

	require.Panics(t, func() { buf.Bit(1) })
	require.Panics(t, func() { buf.Bit(-1) })
	require.Panics(t, func() { buf.SetBit(1, true) })
	require.Panics(t, func() { buf.Flip(1) })
}

func TestBuffer_SetBit(t *testing.T) {
	buf := New()
	for range 9 {
		buf.AppendBit(false)
	}

	buf.SetBit(0, true)
	buf.SetBit(8, true)
	require.True(t, buf.Bit(0))
	require.True(t, buf.Bit(8))
	require.False(t, buf.Bit(4))

	buf.SetBit(0, false)
	require.False(t, buf.Bit(0))
}

func TestBuffer_Flip(t *testing.T) {
	buf := New()
	buf.AppendBit(false)
	buf.AppendBit(true)

	buf.Flip(0)
	buf.Flip(1)
	require.True(t, buf.Bit(0))
	require.False(t, buf.Bit(1))

	buf.Flip(0)
	require.False(t, buf.Bit(0))
}

func TestBuffer_Clip_Shrink(t *testing.T) {
	buf := New()
	for range 12 {
		buf.AppendBit(true)
	}

	buf.Clip(5)
	require.Equal(t, 5, buf.Len())
	for i := range 5 {
		require.True(t, buf.Bit(i))
	}

	// Appends after a shrink must not resurrect discarded bits.
	buf.AppendBit(false)
	require.False(t, buf.Bit(5))
}

func TestBuffer_Clip_Grow(t *testing.T) {
	buf := New()
	buf.AppendBit(true)
	buf.AppendBit(true)

	buf.Clip(10)
	require.Equal(t, 10, buf.Len())
	require.True(t, buf.Bit(0))
	require.True(t, buf.Bit(1))
	for i := 2; i < 10; i++ {
		require.False(t, buf.Bit(i), "grown bit %d must be zero", i)
	}
}

func TestBuffer_Clip_Idempotent(t *testing.T) {
	buf, err := Parse("b1011001")
	require.NoError(t, err)

	want := buf.Clone()
	buf.Clip(buf.Len())
	require.True(t, buf.Equal(want))

	buf.Clip(3)
	once := buf.Clone()
	buf.Clip(3)
	require.True(t, buf.Equal(once))
}

func TestBuffer_Clip_NegativePanics(t *testing.T) {
	require.Panics(t, func() { New().Clip(-1) })
}

func TestBuffer_Equal(t *testing.T) {
	a, err := Parse("b10110")
	require.NoError(t, err)
	b, err := Parse("b10110")
	require.NoError(t, err)
	c, err := Parse("b10111")
	require.NoError(t, err)
	d, err := Parse("b1011")
	require.NoError(t, err)

	require.True(t, a.Equal(b))
	require.True(t, b.Equal(a))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(d))
	require.True(t, New().Equal(New()))
}

func TestBuffer_Clone_Independent(t *testing.T) {
	orig, err := Parse("b1100")
	require.NoError(t, err)

	dup := orig.Clone()
	require.True(t, orig.Equal(dup))

	dup.Flip(0)
	require.True(t, orig.Bit(0))
	require.False(t, dup.Bit(0))
}

func TestBuffer_AppendBits(t *testing.T) {
	a, err := Parse("b101")
	require.NoError(t, err)
	b, err := Parse("b0110")
	require.NoError(t, err)

	a.AppendBits(b)
	require.Equal(t, "b1010110", a.String())
}

func TestBuffer_BitRange(t *testing.T) {
	buf, err := Parse("b10110010")
	require.NoError(t, err)

	mid, err := buf.BitRange(2, 4)
	require.NoError(t, err)
	require.Equal(t, "b1100", mid.String())

	empty, err := buf.BitRange(8, 0)
	require.NoError(t, err)
	require.Equal(t, 0, empty.Len())

	_, err = buf.BitRange(9, 0)
	require.ErrorIs(t, err, errs.ErrBitRangeStart)

	_, err = buf.BitRange(5, 4)
	require.ErrorIs(t, err, errs.ErrBitRangeCount)
}

func TestBuffer_String(t *testing.T) {
	buf := New()
	require.Equal(t, "b", buf.String())

	buf.AppendBit(true)
	buf.AppendBit(false)
	buf.AppendBit(true)
	require.Equal(t, "b101", buf.String())
}

func TestParse_RoundTrip(t *testing.T) {
	for _, s := range []string{"b", "b0", "b1", "b101", "b00000000", "b101100101011001010110010101100101"} {
		buf, err := Parse(s)
		require.NoError(t, err)
		require.Equal(t, s, buf.String())
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "101", "x101", "b10x1", "b2", "b 1"} {
		_, err := Parse(s)
		require.ErrorIs(t, err, errs.ErrInvalidBitString, "input %q", s)
	}
}

func TestBuffer_CrossesByteBoundaries(t *testing.T) {
	buf := New()
	for i := range 64 {
		buf.AppendBit(i%3 == 0)
	}

	require.Equal(t, 64, buf.Len())
	for i := range 64 {
		require.Equal(t, i%3 == 0, buf.Bit(i), "bit %d", i)
	}
}
