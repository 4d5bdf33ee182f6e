package pool

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ByteBuffer Tests
// =============================================================================

func TestNewByteBuffer(t *testing.T) {
	capacity := 1024
	bb := NewByteBuffer(capacity)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "new buffer should have zero length")
	assert.Equal(t, capacity, cap(bb.B), "new buffer should have specified capacity")
}

func TestByteBuffer_Bytes(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)
	bb.B = append(bb.B, []byte("hello")...)

	got := bb.Bytes()

	assert.Equal(t, []byte("hello"), got)
	// Should return the same underlying slice
	assert.True(t, &bb.B[0] == &got[0], "Bytes() should return the same underlying slice")
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)
	bb.B = append(bb.B, []byte("some data")...)
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, len(bb.B), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, cap(bb.B), "Reset should preserve capacity")
}

func TestByteBuffer_MustWrite(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)

	bb.MustWrite([]byte("hello"))
	assert.Equal(t, []byte("hello"), bb.B)

	bb.MustWrite([]byte(" world"))
	assert.Equal(t, []byte("hello world"), bb.B)
	assert.Equal(t, 11, bb.Len())
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("hello"), bb.B)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)
	bb.B = append(bb.B, []byte("test data")...)

	var buf bytes.Buffer
	n, err := bb.WriteTo(&buf)

	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "test data", buf.String())
}

func TestByteBuffer_WriteTo_ErrorPropagation(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)
	bb.B = append(bb.B, []byte("test")...)

	// errorWriter always returns an error
	errorWriter := &errorWriter{err: io.ErrShortWrite}
	n, err := bb.WriteTo(errorWriter)

	assert.Error(t, err)
	assert.Equal(t, io.ErrShortWrite, err)
	assert.Equal(t, int64(0), n)
}

func TestByteBuffer_SliceAndSetLength(t *testing.T) {
	bb := NewByteBuffer(64)
	bb.ExtendOrGrow(32)
	assert.Equal(t, 32, bb.Len())

	// Header-patch pattern: reserve space, fill later
	header := bb.Slice(0, 4)
	binary.BigEndian.PutUint32(header, 58)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x3A}, bb.B[:4])

	bb.SetLength(4)
	assert.Equal(t, 4, bb.Len())

	assert.Panics(t, func() { bb.Slice(2, 1) })
	assert.Panics(t, func() { bb.SetLength(-1) })
	assert.Panics(t, func() { bb.SetLength(cap(bb.B) + 1) })
}

func TestByteBuffer_Extend(t *testing.T) {
	bb := NewByteBuffer(16)

	require.True(t, bb.Extend(16), "extend within capacity should succeed")
	assert.Equal(t, 16, bb.Len())

	require.False(t, bb.Extend(1), "extend beyond capacity should fail")
	assert.Equal(t, 16, bb.Len())

	bb.ExtendOrGrow(8)
	assert.Equal(t, 24, bb.Len())
}

// =============================================================================
// ByteBuffer Grow Tests
// =============================================================================

func TestByteBuffer_Grow_SufficientCapacity(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)
	originalCap := cap(bb.B)

	bb.Grow(100) // Request growth smaller than available capacity

	assert.Equal(t, originalCap, cap(bb.B), "should not reallocate when capacity is sufficient")
}

func TestByteBuffer_Grow_SmallBuffer(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)
	bb.B = append(bb.B, make([]byte, TableBufferDefaultSize)...) // Fill to capacity

	bb.Grow(1024) // Request 1KB more

	assert.GreaterOrEqual(t, cap(bb.B), TableBufferDefaultSize+1024, "should have at least requested capacity")
	assert.Equal(t, TableBufferDefaultSize, len(bb.B), "length should not change")
}

func TestByteBuffer_Grow_MoreThanDefaultGrowth(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)
	bb.B = append(bb.B, make([]byte, TableBufferDefaultSize)...) // Fill to capacity

	hugeSize := TableBufferDefaultSize * 10
	bb.Grow(hugeSize)

	assert.GreaterOrEqual(t, cap(bb.B), TableBufferDefaultSize+hugeSize, "should accommodate huge growth request")
}

func TestByteBuffer_Grow_PreservesData(t *testing.T) {
	bb := NewByteBuffer(TableBufferDefaultSize)
	testData := []byte("important data that must be preserved")
	bb.B = append(bb.B, testData...)

	bb.Grow(TableBufferDefaultSize * 2) // Force reallocation

	assert.Equal(t, testData, bb.B, "data should be preserved after growth")
}

// =============================================================================
// Pool Tests
// =============================================================================

func TestGetTableBuffer(t *testing.T) {
	bb := GetTableBuffer()

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "pooled buffer should be empty")
	assert.GreaterOrEqual(t, cap(bb.B), TableBufferDefaultSize, "pooled buffer should have at least default capacity")
}

func TestPutTableBuffer_NilBuffer(t *testing.T) {
	// Should not panic
	assert.NotPanics(t, func() {
		PutTableBuffer(nil)
	})
}

func TestPool_ResetsClearsData(t *testing.T) {
	bb := GetTableBuffer()
	bb.B = append(bb.B, []byte("record bytes")...)

	PutTableBuffer(bb)

	// Get a buffer (might be the same one)
	bb2 := GetTableBuffer()
	assert.Equal(t, 0, len(bb2.B), "buffer should be empty after retrieval from pool")

	// Even if we got a different buffer, verify the original was reset
	assert.Equal(t, 0, len(bb.B), "PutTableBuffer should reset the buffer")
}

func TestPool_ConcurrentAccess(t *testing.T) {
	const numGoroutines = 100
	const numIterations = 1000

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for range numGoroutines {
		go func() {
			defer wg.Done()
			for range numIterations {
				bb := GetTableBuffer()
				bb.MustWrite([]byte("data"))
				assert.Equal(t, 4, bb.Len())
				PutTableBuffer(bb)
			}
		}()
	}

	wg.Wait()
}

func TestNewByteBufferPool(t *testing.T) {
	pool := NewByteBufferPool(8192, 65536)

	require.NotNil(t, pool)

	bb := pool.Get()
	require.NotNil(t, bb)
	assert.GreaterOrEqual(t, cap(bb.B), 8192, "buffer should have at least default size")

	pool.Put(bb)
}

func TestByteBufferPool_MaxThreshold_Discard(t *testing.T) {
	pool := NewByteBufferPool(1024, 4096)

	// Get a buffer and grow it beyond maxThreshold
	bb := pool.Get()
	bb.Grow(10000)

	assert.Greater(t, cap(bb.B), 4096, "buffer should have grown beyond threshold")

	// Put it back - should be discarded
	pool.Put(bb)

	// Get another buffer - should be a fresh one (not the large one)
	bb2 := pool.Get()
	assert.LessOrEqual(t, cap(bb2.B), 4096*2, "should not reuse buffer larger than threshold")
}

func TestByteBufferPool_MaxThreshold_Zero(t *testing.T) {
	pool := NewByteBufferPool(1024, 0) // 0 means no limit

	bb := pool.Get()
	bb.Grow(1024 * 1024)

	assert.Greater(t, cap(bb.B), 100000, "buffer should have grown to large size")

	// Put it back - should be accepted (no threshold)
	pool.Put(bb)

	bb2 := pool.Get()
	assert.NotNil(t, bb2)
}

func TestDefaultPools_Independence(t *testing.T) {
	tableBuf := GetTableBuffer()
	tableCap := cap(tableBuf.B)

	snapBuf := GetSnapshotBuffer()
	snapCap := cap(snapBuf.B)

	// Different default sizes (64KiB vs 256KiB)
	assert.NotEqual(t, tableCap, snapCap, "table and snapshot buffers should have different default sizes")
	assert.GreaterOrEqual(t, tableCap, TableBufferDefaultSize)
	assert.GreaterOrEqual(t, snapCap, SnapshotBufferDefaultSize)

	PutTableBuffer(tableBuf)
	PutSnapshotBuffer(snapBuf)
}

func TestSnapshotBuffer_MaxThreshold(t *testing.T) {
	bb := GetSnapshotBuffer()
	bb.Grow(10 * 1024 * 1024) // 10MiB, beyond SnapshotBufferMaxThreshold (8MiB)

	assert.Greater(t, cap(bb.B), SnapshotBufferMaxThreshold, "buffer should have grown beyond threshold")

	// Put it back - should be discarded
	PutSnapshotBuffer(bb)

	bb2 := GetSnapshotBuffer()
	assert.LessOrEqual(t, cap(bb2.B), SnapshotBufferMaxThreshold*2, "should not reuse overly large buffer")
}

// =============================================================================
// Integration Tests
// =============================================================================

// The table store's write path: append fixed-width records through the
// append API, flush, recycle.
func TestByteBuffer_RecordAppendPattern(t *testing.T) {
	bb := GetTableBuffer()
	defer PutTableBuffer(bb)

	primes := []uint32{2, 3, 5, 7, 11, 13}
	for _, p := range primes {
		bb.B = binary.BigEndian.AppendUint32(bb.B, p)
	}

	assert.Equal(t, 4*len(primes), bb.Len())
	for i, p := range primes {
		assert.Equal(t, p, binary.BigEndian.Uint32(bb.B[i*4:]))
	}

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(bb.Len()), n)
}

func TestByteBuffer_ResetAndReuse(t *testing.T) {
	bb := GetTableBuffer()
	defer PutTableBuffer(bb)

	bb.MustWrite([]byte("first"))
	assert.Equal(t, 5, bb.Len())

	bb.Reset()
	assert.Equal(t, 0, bb.Len())

	bb.MustWrite([]byte("second"))
	assert.Equal(t, 6, bb.Len())
	assert.Equal(t, []byte("second"), bb.B)
}

// =============================================================================
// Benchmark Tests
// =============================================================================

func BenchmarkByteBuffer_Write_Small(b *testing.B) {
	bb := GetTableBuffer()
	defer PutTableBuffer(bb)
	data := []byte("small data")

	b.ResetTimer()
	for b.Loop() {
		bb.Reset()
		bb.MustWrite(data)
	}
}

func BenchmarkByteBuffer_Write_Large(b *testing.B) {
	bb := GetTableBuffer()
	defer PutTableBuffer(bb)
	data := make([]byte, 64*1024) // 64KB

	b.ResetTimer()
	for b.Loop() {
		bb.Reset()
		bb.MustWrite(data)
	}
}

func BenchmarkPool_GetWritePut(b *testing.B) {
	data := []byte("benchmark data")

	b.ResetTimer()
	for b.Loop() {
		bb := GetTableBuffer()
		bb.MustWrite(data)
		PutTableBuffer(bb)
	}
}

func BenchmarkPool_vs_NewBuffer(b *testing.B) {
	data := make([]byte, 1024)

	b.Run("WithPool", func(b *testing.B) {
		for b.Loop() {
			bb := GetTableBuffer()
			bb.MustWrite(data)
			PutTableBuffer(bb)
		}
	})

	b.Run("WithoutPool", func(b *testing.B) {
		for b.Loop() {
			bb := NewByteBuffer(TableBufferDefaultSize)
			bb.MustWrite(data)
		}
	})
}

func BenchmarkConcurrentGetPut(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			bb := GetTableBuffer()
			bb.MustWrite([]byte("concurrent test data"))
			PutTableBuffer(bb)
		}
	})
}

// =============================================================================
// Helper Types and Functions
// =============================================================================

// errorWriter is a writer that always returns an error
type errorWriter struct {
	err error
}

func (ew *errorWriter) Write(p []byte) (n int, err error) {
	return 0, ew.err
}
