// Package compress provides compression and decompression codecs for prime
// table snapshot payloads.
//
// Snapshot payloads are sequences of fixed-width uint32 records in a single
// byte order. Strictly ascending records repeat almost no byte sequences, so
// the match-based codecs hover near raw size; the high bytes change slowly
// and carry little entropy, though, which zstd's entropy coding turns into
// real savings. Compression is applied after serialization and recorded in
// the snapshot header, so readers pick the matching codec automatically.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Codecs are selected through the format.CompressionType enum:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	payload, err := codec.Compress(records)
//
// # Supported Algorithms
//
// **NoOp** (format.CompressionNone)
//
// Bypasses data untouched. Use when snapshots live on fast local disk and
// read latency dominates, or as a baseline for measurements.
//
// **Zstandard** (format.CompressionZstd)
//
// The only codec of the set that shrinks record payloads, typically around
// 2x on dense tables. Two implementations are selected by build tags: the
// cgo build uses valyala/gozstd (libzstd), the pure-Go build uses
// klauspost/compress/zstd with pooled encoders and decoders. Both produce
// standard zstd frames and interoperate freely, so a snapshot written by one
// build is readable by the other.
//
// **S2** (format.CompressionS2)
//
// Snappy-compatible format from klauspost/compress, with the highest
// compression throughput of the set. Record payloads stay near raw size;
// pick it when write speed matters more than footprint.
//
// **LZ4** (format.CompressionLZ4)
//
// Frame-format LZ4 via pierrec/lz4. Fastest decompression of the set, also
// near raw size on records; the frame carries unshrinkable blocks verbatim,
// so even tiny tables round-trip. Best when tables are read far more often
// than written.
//
// # Algorithm Selection Guide
//
// | Workload                      | Recommended | Reason                    |
// |-------------------------------|-------------|---------------------------|
// | Archived tables, cold storage | Zstd        | Only codec that shrinks   |
// | Frequently regenerated tables | S2          | Fastest compression       |
// | Read-heavy table serving      | LZ4         | Fastest decompression     |
// | Local scratch snapshots       | None        | No CPU overhead           |
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use. The zstd and lz4
// implementations pool their encoder state internally.
//
// # Error Handling
//
// Compression errors are rare. Decompression errors indicate corrupted or
// mismatched payloads; the snapshot layer additionally verifies an xxhash64
// checksum of the decompressed payload, so codec-level errors and silent
// corruption are both caught before a table is handed to callers.
package compress
