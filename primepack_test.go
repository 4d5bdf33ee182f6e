package primepack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/primepack/encoding"
	"github.com/arloliu/primepack/errs"
	"github.com/arloliu/primepack/prime"
)

// testTable covers factoring for every value up to 1000*1000.
func testTable(t *testing.T) *prime.Table {
	t.Helper()

	table, err := prime.GenUpTo(1000)
	require.NoError(t, err)

	return table
}

// TestCompress_RoundTrip verifies compress/decompress recovers the value
func TestCompress_RoundTrip(t *testing.T) {
	table := testTable(t)

	tests := []struct {
		name string
		n    uint32
		bits int
	}{
		{name: "smallest", n: 2, bits: 10},
		{name: "power of two", n: 1024, bits: 13},
		{name: "smooth composite", n: 360, bits: 24},
		{name: "table prime", n: 997, bits: 20},
		{name: "semiprime", n: 997 * 991, bits: 27},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bits, err := Compress(tt.n, table)
			require.NoError(t, err)
			require.Equal(t, tt.bits, bits.Len())

			n, err := Decompress(bits, table)
			require.NoError(t, err)
			require.Equal(t, tt.n, n)
		})
	}
}

// TestCompress_AllCoveredValues round-trips every value the table indexes
func TestCompress_AllCoveredValues(t *testing.T) {
	table := testTable(t)

	for n := uint32(2); n <= 1000; n++ {
		bits, err := Compress(n, table)
		require.NoError(t, err, "compress %d", n)

		got, err := Decompress(bits, table)
		require.NoError(t, err, "decompress %d", n)
		require.Equal(t, n, got)
	}
}

// TestCompress_DomainErrors verifies 0 and 1 are rejected up front
func TestCompress_DomainErrors(t *testing.T) {
	table := testTable(t)

	for _, n := range []uint32{0, 1} {
		bits, err := Compress(n, table)
		require.ErrorIs(t, err, errs.ErrValueOutOfDomain)
		require.Nil(t, bits)
	}
}

// TestCompress_TableErrors verifies factoring failures pass through
func TestCompress_TableErrors(t *testing.T) {
	starter := prime.Starter()

	// 26 = 2*13, but the starter table tops out at 5 and 5*5 < 26.
	_, err := Compress(26, starter)
	require.ErrorIs(t, err, errs.ErrTableTooSmall)

	// 23 is prime and within the starter's coverage, but not an entry.
	_, err = Compress(23, starter)
	require.ErrorIs(t, err, errs.ErrPrimeNotIndexed)
}

// TestDecompress_Errors verifies corrupt or incompatible encodings fail
func TestDecompress_Errors(t *testing.T) {
	table := testTable(t)

	t.Run("truncated buffer", func(t *testing.T) {
		bits, err := Compress(360, table)
		require.NoError(t, err)

		bits.Clip(bits.Len() - 3)
		_, err = Decompress(bits, table)
		require.ErrorIs(t, err, errs.ErrBufferExhausted)
	})

	t.Run("index beyond table", func(t *testing.T) {
		bits, err := Compress(997, table)
		require.NoError(t, err)

		_, err = Decompress(bits, prime.Starter())
		require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	})

	t.Run("product overflow", func(t *testing.T) {
		// 997^5 does not fit in 32 bits, so the encoding is valid but the
		// value it names is not.
		idx, err := table.IndexOf(997)
		require.NoError(t, err)

		bits := encoding.EncodeFactors([]uint32{idx, idx, idx, idx, idx})
		_, err = Decompress(bits, table)
		require.ErrorIs(t, err, errs.ErrValueOverflow)
	})
}

// TestNewCompressor_Validation verifies constructor input checking
func TestNewCompressor_Validation(t *testing.T) {
	table := testTable(t)

	_, err := NewCompressor(nil)
	require.Error(t, err)

	_, err = NewCompressor(table, WithCacheSize(0))
	require.Error(t, err)

	_, err = NewCompressor(table, WithCacheSize(-4))
	require.Error(t, err)

	comp, err := NewCompressor(table)
	require.NoError(t, err)
	require.NotNil(t, comp)
}

// TestCompressor_RoundTrip verifies the cached path returns correct encodings
func TestCompressor_RoundTrip(t *testing.T) {
	table := testTable(t)
	comp, err := NewCompressor(table)
	require.NoError(t, err)

	// Two passes: the first populates the cache, the second hits it.
	for range 2 {
		for n := uint32(2); n <= 300; n++ {
			bits, err := comp.Compress(n)
			require.NoError(t, err)

			got, err := comp.Decompress(bits)
			require.NoError(t, err)
			require.Equal(t, n, got)
		}
	}
	require.Equal(t, 299, comp.Len())
}

// TestCompressor_CacheIsolation verifies callers cannot mutate cached state
func TestCompressor_CacheIsolation(t *testing.T) {
	table := testTable(t)
	comp, err := NewCompressor(table)
	require.NoError(t, err)

	first, err := comp.Compress(360)
	require.NoError(t, err)

	// Corrupt the returned buffer; the cache must be unaffected.
	first.Flip(0)

	second, err := comp.Compress(360)
	require.NoError(t, err)
	require.False(t, first.Equal(second))

	n, err := comp.Decompress(second)
	require.NoError(t, err)
	require.Equal(t, uint32(360), n)
}

// TestCompressor_CacheDisabled verifies WithCacheDisabled keeps nothing
func TestCompressor_CacheDisabled(t *testing.T) {
	table := testTable(t)
	comp, err := NewCompressor(table, WithCacheDisabled())
	require.NoError(t, err)

	for n := uint32(2); n <= 50; n++ {
		_, err := comp.Compress(n)
		require.NoError(t, err)
	}
	require.Equal(t, 0, comp.Len())
}

// TestCompressor_CacheEviction verifies the cache honors its size bound
func TestCompressor_CacheEviction(t *testing.T) {
	table := testTable(t)
	comp, err := NewCompressor(table, WithCacheSize(2))
	require.NoError(t, err)

	for _, n := range []uint32{10, 20, 30} {
		_, err := comp.Compress(n)
		require.NoError(t, err)
	}
	require.Equal(t, 2, comp.Len())
}

// TestCompressor_Ratio verifies encoded size relative to raw 32 bits
func TestCompressor_Ratio(t *testing.T) {
	table := testTable(t)
	comp, err := NewCompressor(table)
	require.NoError(t, err)

	// 2 encodes in 10 bits, 2^20 in 15 bits.
	r, err := comp.Ratio(2)
	require.NoError(t, err)
	require.InDelta(t, 0.3125, r, 1e-9)

	r, err = comp.Ratio(1 << 20)
	require.NoError(t, err)
	require.InDelta(t, 0.46875, r, 1e-9)

	_, err = comp.Ratio(1)
	require.ErrorIs(t, err, errs.ErrValueOutOfDomain)
}
