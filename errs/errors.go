// Package errs defines the sentinel errors shared across primepack packages.
//
// Callers match these with errors.Is; call sites add context by wrapping
// with fmt.Errorf("%w: ...", errs.ErrXxx, ...). The package deliberately
// contains no error types with state: a sentinel plus wrapped context keeps
// comparisons cheap and unambiguous.
//
// Preconditions (caller bugs such as an out-of-range bit index or an empty
// factor list handed to the encoder) are not represented here; those panic
// at the violation site instead of returning an error.
package errs

import "errors"

// Bit buffer and decode errors.
//
// Decoding consumes untrusted bit data, so running out of bits must surface
// as ErrBufferExhausted rather than an out-of-bounds access.
var (
	// ErrBufferExhausted indicates a read past the end of a bit buffer.
	ErrBufferExhausted = errors.New("bit buffer exhausted")

	// ErrInvalidBitString indicates a textual bit string without the leading
	// 'b' prefix or with characters other than '0' and '1'.
	ErrInvalidBitString = errors.New("invalid bit string")

	// ErrBitRangeStart indicates a sub-range extraction starting past the
	// end of the buffer.
	ErrBitRangeStart = errors.New("bit range start exceeds buffer length")

	// ErrBitRangeCount indicates a sub-range extraction running past the
	// end of the buffer.
	ErrBitRangeCount = errors.New("bit range count exceeds buffer length")

	// ErrIndexOutOfRange indicates a decoded prime index that does not fit
	// the table it is resolved against.
	ErrIndexOutOfRange = errors.New("prime index out of table range")

	// ErrValueOverflow indicates a decoded factorization whose product does
	// not fit in 32 bits.
	ErrValueOverflow = errors.New("factorization product overflows uint32")

	// ErrValueOutOfDomain indicates an integer outside [2, 0xFFFFFFFF],
	// which has no prime factorization in this scheme.
	ErrValueOutOfDomain = errors.New("value has no prime factorization")
)

// Prime table errors. The first two are recoverable "grow the table and
// retry" conditions; ErrFactorInternal flags a state the factoring
// algorithm should never reach and indicates a logic defect.
var (
	// ErrTableTooSmall indicates the table cannot prove primality of a
	// remaining factor: its largest prime is below the square root of the
	// number being factored.
	ErrTableTooSmall = errors.New("prime table too small to factor value")

	// ErrPrimeNotIndexed indicates the value was proved prime but is not
	// present in the table, so no index can be returned for it.
	ErrPrimeNotIndexed = errors.New("value is prime but not in table")

	// ErrNotInTable indicates a lookup of a value that is not a table entry.
	ErrNotInTable = errors.New("value not in prime table")

	// ErrRangeNotCovered indicates the known primes do not cover the square
	// root of a generation range's upper bound.
	ErrRangeNotCovered = errors.New("known primes do not cover range")

	// ErrFactorInternal indicates the factoring loop terminated with an
	// unexplained remainder.
	ErrFactorInternal = errors.New("factoring algorithm invariant violated")
)

// Persistence errors for the snapshot format. The raw record format has no
// header, so only size consistency applies to it (ErrCorruptTableFile).
var (
	// ErrInvalidMagic indicates a snapshot file without the snapshot magic
	// number.
	ErrInvalidMagic = errors.New("invalid snapshot magic number")

	// ErrInvalidHeader indicates a snapshot header with an unsupported
	// version, flag combination, or inconsistent sizes.
	ErrInvalidHeader = errors.New("invalid snapshot header")

	// ErrChecksumMismatch indicates snapshot payload corruption detected by
	// the checksum.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")

	// ErrCorruptTableFile indicates a persisted table whose contents cannot
	// form a valid ascending prime table.
	ErrCorruptTableFile = errors.New("corrupt prime table file")
)

// Concurrency errors. Both are fatal for a generation run: once a worker's
// contribution is lost or arrives out of order, the merged table cannot be
// trusted.
var (
	// ErrWorkerTimeout indicates a worker result did not arrive within the
	// configured receive timeout.
	ErrWorkerTimeout = errors.New("timed out waiting for worker result")

	// ErrShardOrder indicates a merged chunk that would break the global
	// ascending order of the table.
	ErrShardOrder = errors.New("shard result breaks ascending order")
)
