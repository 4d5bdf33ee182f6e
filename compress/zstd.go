package compress

// ZstdCompressor provides Zstandard compression for table snapshot payloads.
//
// This compressor is designed for scenarios where compression ratio is more
// important than compression speed, making it ideal for:
//   - Archived prime tables that are generated once and kept for years
//   - Network transmission of large tables between services
//   - Scenarios where decompression happens infrequently
//
// Two implementations back this type, selected at build time:
//   - cgo builds bind libzstd through valyala/gozstd
//   - pure-Go builds use klauspost/compress/zstd with pooled encoders
//
// Both emit standard zstd frames, so payloads are interchangeable across builds.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(payload)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
