package prime

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/arloliu/primepack/compress"
	"github.com/arloliu/primepack/endian"
	"github.com/arloliu/primepack/errs"
	"github.com/arloliu/primepack/format"
	"github.com/arloliu/primepack/internal/options"
	"github.com/arloliu/primepack/internal/pool"
)

// Snapshot file layout, all header fields big-endian:
//
//	[0:2]   magic 0xEC31
//	[2]     format version, currently 1
//	[3]     flag byte: bits 0-3 compression type, bit 4 record byte order
//	[4:8]   record count
//	[8:12]  upper bound the table covers
//	[12:16] compressed payload size in bytes
//	[16:24] xxHash64 digest of the uncompressed payload
//	[24:32] reserved, zero
//
// The payload is the table's uint32 records in the flagged byte order,
// compressed with the flagged codec.
const (
	snapshotMagic      uint16 = 0xEC31
	snapshotVersion    byte   = 0x01
	snapshotHeaderSize        = 32
	snapshotSuffix            = ".pps"

	snapshotCompressionMask byte = 0b0000_1111
	snapshotEndianBit       byte = 0b0001_0000
)

type snapshotConfig struct {
	compression format.CompressionType
	endianness  format.EndiannessType
}

// SnapshotOption configures WriteSnapshot.
type SnapshotOption = options.Option[*snapshotConfig]

// WithSnapshotCompression sets the payload codec. The default is
// format.CompressionZstd.
func WithSnapshotCompression(c format.CompressionType) SnapshotOption {
	return options.New(func(cfg *snapshotConfig) error {
		if c < format.CompressionNone || c > format.CompressionLZ4 {
			return fmt.Errorf("invalid snapshot compression: %d", c)
		}
		cfg.compression = c
		return nil
	})
}

// WithSnapshotEndianness sets the payload record byte order. The default is
// format.EndianBig, matching plain table files.
func WithSnapshotEndianness(e format.EndiannessType) SnapshotOption {
	return options.New(func(cfg *snapshotConfig) error {
		if e != format.EndianBig && e != format.EndianLittle {
			return fmt.Errorf("invalid snapshot endianness: %d", e)
		}
		cfg.endianness = e
		return nil
	})
}

// WithSnapshotNativeEndianness writes payload records in the host's byte
// order, trading portability of the raw payload bytes for cheaper decoding
// on the writing host. The flag byte records the choice, so any host can
// still read the snapshot.
func WithSnapshotNativeEndianness() SnapshotOption {
	return options.NoError(func(cfg *snapshotConfig) {
		if endian.IsNativeLittleEndian() {
			cfg.endianness = format.EndianLittle
		} else {
			cfg.endianness = format.EndianBig
		}
	})
}

// SnapshotPath returns the snapshot file path for the given bound.
func (s *Store) SnapshotPath(upperBound uint32) string {
	return s.Path(upperBound) + snapshotSuffix
}

// WriteSnapshot persists the table as a compressed, checksummed snapshot.
//
// Snapshots exist for large tables where the plain format gets bulky: the
// full uint32 table is ~800MiB of records whose high bytes carry little
// entropy, which the default zstd codec cuts substantially. The xxHash64
// digest guards the payload end to end.
func (s *Store) WriteSnapshot(t *Table, upperBound uint32, opts ...SnapshotOption) error {
	cfg := snapshotConfig{
		compression: format.CompressionZstd,
		endianness:  format.EndianBig,
	}
	if err := options.Apply(&cfg, opts...); err != nil {
		return err
	}

	codec, err := compress.CreateCodec(cfg.compression, "snapshot")
	if err != nil {
		return err
	}

	recEngine := engineFor(cfg.endianness)
	payload := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(payload)

	payload.Grow(t.Len() * 4)
	for _, p := range t.primes {
		payload.B = recEngine.AppendUint32(payload.B, p)
	}
	digest := xxhash.Sum64(payload.B)

	compressed, err := codec.Compress(payload.B)
	if err != nil {
		return fmt.Errorf("compress snapshot payload: %w", err)
	}

	out := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(out)

	be := endian.GetBigEndianEngine()
	out.ExtendOrGrow(snapshotHeaderSize)
	hdr := out.Slice(0, snapshotHeaderSize)
	be.PutUint16(hdr[0:2], snapshotMagic)
	hdr[2] = snapshotVersion
	hdr[3] = snapshotFlag(cfg.compression, cfg.endianness)
	be.PutUint32(hdr[4:8], uint32(t.Len()))
	be.PutUint32(hdr[8:12], upperBound)
	be.PutUint32(hdr[12:16], uint32(len(compressed)))
	be.PutUint64(hdr[16:24], digest)
	clear(hdr[24:snapshotHeaderSize])
	out.MustWrite(compressed)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	path := s.SnapshotPath(upperBound)
	s.logger.Info("writing prime table snapshot",
		zap.String("path", path),
		zap.Int("count", t.Len()),
		zap.String("compression", cfg.compression.String()),
		zap.String("endianness", cfg.endianness.String()),
		zap.Int("payload_bytes", payload.Len()),
		zap.Int("compressed_bytes", len(compressed)),
	)

	if err := os.WriteFile(path, out.B, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	return nil
}

// ReadSnapshot loads and validates the snapshot for upperBound.
//
// Returns:
//   - *Table: The stored table
//   - error: The os error when the file is missing, or a wrapped
//     errs.ErrInvalidMagic, errs.ErrInvalidHeader, errs.ErrChecksumMismatch
//     or errs.ErrCorruptTableFile describing what failed validation
func (s *Store) ReadSnapshot(upperBound uint32) (*Table, error) {
	raw, err := os.ReadFile(s.SnapshotPath(upperBound))
	if err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	return decodeSnapshot(raw, upperBound)
}

func decodeSnapshot(raw []byte, upperBound uint32) (*Table, error) {
	if len(raw) < snapshotHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is smaller than the snapshot header", errs.ErrInvalidHeader, len(raw))
	}

	be := endian.GetBigEndianEngine()
	if m := be.Uint16(raw[0:2]); m != snapshotMagic {
		return nil, fmt.Errorf("%w: 0x%04X", errs.ErrInvalidMagic, m)
	}
	if v := raw[2]; v != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", errs.ErrInvalidHeader, v)
	}
	compression, endianness, err := parseSnapshotFlag(raw[3])
	if err != nil {
		return nil, err
	}

	count := be.Uint32(raw[4:8])
	bound := be.Uint32(raw[8:12])
	compressedSize := be.Uint32(raw[12:16])
	digest := be.Uint64(raw[16:24])

	if bound != upperBound {
		return nil, fmt.Errorf("%w: snapshot covers %d, expected %d", errs.ErrInvalidHeader, bound, upperBound)
	}
	body := raw[snapshotHeaderSize:]
	if uint64(len(body)) != uint64(compressedSize) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header claims %d", errs.ErrInvalidHeader, len(body), compressedSize)
	}

	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}
	payload, err := codec.Decompress(body)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot payload: %w", err)
	}

	if xxhash.Sum64(payload) != digest {
		return nil, fmt.Errorf("%w: snapshot payload digest mismatch", errs.ErrChecksumMismatch)
	}
	if uint64(len(payload)) != uint64(count)*4 {
		return nil, fmt.Errorf("%w: payload holds %d bytes, header claims %d records", errs.ErrInvalidHeader, len(payload), count)
	}

	return tableFromRecords(payload, engineFor(endianness))
}

// snapshotFlag packs compression and byte order into the header flag byte.
func snapshotFlag(c format.CompressionType, e format.EndiannessType) byte {
	flag := byte(c) & snapshotCompressionMask
	if e == format.EndianLittle {
		flag |= snapshotEndianBit
	}

	return flag
}

// parseSnapshotFlag unpacks and validates the header flag byte.
func parseSnapshotFlag(flag byte) (format.CompressionType, format.EndiannessType, error) {
	if rest := flag &^ (snapshotCompressionMask | snapshotEndianBit); rest != 0 {
		return 0, 0, fmt.Errorf("%w: reserved flag bits set: 0x%02X", errs.ErrInvalidHeader, flag)
	}

	c := format.CompressionType(flag & snapshotCompressionMask)
	if c < format.CompressionNone || c > format.CompressionLZ4 {
		return 0, 0, fmt.Errorf("%w: unknown compression 0x%X", errs.ErrInvalidHeader, byte(c))
	}

	e := format.EndianBig
	if flag&snapshotEndianBit != 0 {
		e = format.EndianLittle
	}

	return c, e, nil
}

func engineFor(e format.EndiannessType) endian.EndianEngine {
	if e == format.EndianLittle {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}
