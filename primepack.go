// Package primepack compresses unsigned 32-bit integers through their prime
// factorizations.
//
// A value is factored against a prime table into a list of table indices,
// the list is collapsed into prime-power runs, and the runs are written with
// a self-delimiting variable-length bit code. Values built from small primes
// (powers of two, round numbers, products of a few low factors) encode well
// below their raw 32 bits, while a prime near 2^32 costs about 46 bits, so
// the scheme pays off on data skewed toward composite values rather than on
// uniformly random input.
//
// # Core Features
//
//   - Prime tables with binary-search lookups and trial-division factoring
//   - Parallel sieve generation for tables covering the full uint32 range
//   - Self-delimiting bit codec, no byte alignment or length prefix needed
//   - Table persistence as raw record files or compressed, checksummed
//     snapshots (None, Zstd, S2, LZ4)
//   - LRU-cached Compressor for workloads that revisit hot values
//   - Measurement harness for compression-rate experiments
//
// # Basic Usage
//
// Compressing and decompressing single values:
//
//	import "github.com/arloliu/primepack"
//	import "github.com/arloliu/primepack/prime"
//
//	// Factoring n needs a table prime at or above sqrt(n); a table up to
//	// 65537 covers the whole uint32 range.
//	table, _ := prime.GenUpTo(65537)
//
//	bits, _ := primepack.Compress(360, table) // 2^3 * 3^2 * 5
//	fmt.Println(bits.Len())                   // 24, down from 32
//
//	n, _ := primepack.Decompress(bits, table)
//	fmt.Println(n) // 360
//
// Reusing factorizations across a stream of values:
//
//	comp, _ := primepack.NewCompressor(table, primepack.WithCacheSize(1 << 16))
//	for _, v := range values {
//	    bits, err := comp.Compress(v)
//	    if err != nil {
//	        // value is prime and beyond the table, or table too small
//	        continue
//	    }
//	    store(v, bits)
//	}
//
// Large tables come from the parallel generator and persist between runs:
//
//	store, _ := prime.NewStore(dir)
//	gen, _ := prime.NewGenerator(prime.WithWorkers(8))
//	table, _ := store.Ensure(65537, gen)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the prime,
// encoding, and bitbuf packages, covering the common compress/decompress
// cases. For table generation, persistence, verification, and the raw
// factor-index codec, use those packages directly.
package primepack

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arloliu/primepack/bitbuf"
	"github.com/arloliu/primepack/encoding"
	"github.com/arloliu/primepack/errs"
	"github.com/arloliu/primepack/internal/options"
	"github.com/arloliu/primepack/prime"
)

const (
	// defaultCacheSize bounds the Compressor's encoding cache. At roughly
	// 100 bytes per cached buffer this keeps the default cache under half a
	// megabyte.
	defaultCacheSize = 4096

	// rawValueBits is the cost of storing a value without compression.
	rawValueBits = 32
)

// Compress factors n against table and encodes the factorization as a
// self-delimiting bit string.
//
// Parameters:
//   - n: The value to compress. Must be at least 2; 0 and 1 have no prime
//     factorization and return errs.ErrValueOutOfDomain.
//   - table: The prime table to factor against. Its largest prime must be
//     at least sqrt(n), or factoring fails with errs.ErrTableTooSmall.
//
// Returns:
//   - *bitbuf.Buffer: The encoded factorization.
//   - error: errs.ErrValueOutOfDomain, errs.ErrTableTooSmall, or
//     errs.ErrPrimeNotIndexed when n is prime but beyond the table.
//
// The encoding is not guaranteed to be shorter than 32 bits; compare
// bits.Len() against the raw size when compression is conditional.
//
// Example:
//
//	bits, err := primepack.Compress(1024, table)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(bits) // the encoded form of 2^10
func Compress(n uint32, table *prime.Table) (*bitbuf.Buffer, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: %d", errs.ErrValueOutOfDomain, n)
	}

	indices, err := table.Factor(n)
	if err != nil {
		return nil, err
	}

	return encoding.EncodeFactors(indices), nil
}

// Decompress decodes a factorization produced by Compress and rebuilds the
// original value against table.
//
// The table must contain every prime the encoding refers to; a table at
// least as large as the one used to compress always satisfies this.
//
// Returns:
//   - uint32: The reconstructed value.
//   - error: errs.ErrBufferExhausted for truncated input,
//     errs.ErrIndexOutOfRange when an index exceeds the table, or
//     errs.ErrValueOverflow when the product does not fit in 32 bits.
//
// Example:
//
//	n, err := primepack.Decompress(bits, table)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Decompress(bits *bitbuf.Buffer, table *prime.Table) (uint32, error) {
	indices, err := encoding.DecodeFactors(bits)
	if err != nil {
		return 0, err
	}

	return table.Compose(indices)
}

type compressorConfig struct {
	cacheSize int
}

// CompressorOption configures NewCompressor.
type CompressorOption = options.Option[*compressorConfig]

// WithCacheSize sets the number of encodings the Compressor retains. The
// default is 4096 entries.
func WithCacheSize(n int) CompressorOption {
	return options.New(func(cfg *compressorConfig) error {
		if n <= 0 {
			return fmt.Errorf("cache size must be positive, got %d", n)
		}
		cfg.cacheSize = n

		return nil
	})
}

// WithCacheDisabled turns the encoding cache off. Every Compress call then
// factors from scratch, which is the better trade when values rarely repeat.
func WithCacheDisabled() CompressorOption {
	return options.NoError(func(cfg *compressorConfig) {
		cfg.cacheSize = 0
	})
}

// Compressor compresses values against a fixed table, caching recent
// encodings so repeated values skip the factoring loop.
//
// A Compressor is safe for concurrent use: the table is immutable and the
// cache synchronizes internally. Cached buffers are cloned on every hit, so
// callers own the buffers they receive and may mutate them freely.
type Compressor struct {
	table *prime.Table
	cache *lru.Cache[uint32, *bitbuf.Buffer]
}

// NewCompressor creates a Compressor over table.
//
// Parameters:
//   - table: The prime table to factor against.
//   - opts: Optional configuration (WithCacheSize, WithCacheDisabled).
//
// Returns:
//   - *Compressor: The created compressor.
//   - error: An error if table is nil or an option is invalid.
//
// Example:
//
//	comp, err := primepack.NewCompressor(table, primepack.WithCacheSize(1<<16))
func NewCompressor(table *prime.Table, opts ...CompressorOption) (*Compressor, error) {
	if table == nil {
		return nil, errors.New("table cannot be nil")
	}

	cfg := compressorConfig{cacheSize: defaultCacheSize}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	c := &Compressor{table: table}
	if cfg.cacheSize > 0 {
		cache, err := lru.New[uint32, *bitbuf.Buffer](cfg.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create encoding cache: %w", err)
		}
		c.cache = cache
	}

	return c, nil
}

// Compress returns the encoded factorization of n, serving repeated values
// from the cache. Errors are not cached; a value that failed to factor is
// retried on the next call.
func (c *Compressor) Compress(n uint32) (*bitbuf.Buffer, error) {
	if c.cache != nil {
		if bits, ok := c.cache.Get(n); ok {
			return bits.Clone(), nil
		}
	}

	bits, err := Compress(n, c.table)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Add(n, bits.Clone())
	}

	return bits, nil
}

// Decompress rebuilds a value from an encoding produced by this or any
// compatible Compressor.
func (c *Compressor) Decompress(bits *bitbuf.Buffer) (uint32, error) {
	return Decompress(bits, c.table)
}

// Ratio reports the encoded size of n as a fraction of its raw 32-bit cost.
// A ratio below 1.0 means the encoding is smaller than the raw value.
//
// Example:
//
//	r, _ := comp.Ratio(1 << 20)
//	fmt.Printf("%.2f\n", r) // well under 1.0: 2^20 is a single short run
func (c *Compressor) Ratio(n uint32) (float64, error) {
	bits, err := c.Compress(n)
	if err != nil {
		return 0, err
	}

	return float64(bits.Len()) / rawValueBits, nil
}

// Len reports the number of cached encodings. Zero when the cache is
// disabled.
func (c *Compressor) Len() int {
	if c.cache == nil {
		return 0
	}

	return c.cache.Len()
}
