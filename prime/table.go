package prime

import (
	"fmt"
	"slices"

	"github.com/arloliu/primepack/errs"
)

// starterPrimes seeds every generated table. A table containing all primes
// up to m can certify primality for any candidate up to m*m, so {2, 3, 5}
// bootstraps generation for ranges up to 25 and, by squaring, beyond.
var starterPrimes = [...]uint32{2, 3, 5}

// Table is an ascending list of the prime numbers from 2 up to some bound,
// with no gaps. Factorizations refer to primes by their index in the table,
// which is what makes the encoded form compact.
//
// A Table is immutable after construction and safe for concurrent use.
type Table struct {
	primes []uint32
}

// Starter returns a fresh table holding the starter primes {2, 3, 5}.
func Starter() *Table {
	primes := make([]uint32, len(starterPrimes))
	copy(primes, starterPrimes[:])

	return &Table{primes: primes}
}

// NewTable creates a table from the given primes.
//
// The slice is copied, so the caller keeps ownership of its argument.
//
// Parameters:
//   - primes: Strictly ascending prime values, starting at 2 or above
//
// Returns:
//   - *Table: The constructed table
//   - error: Validation error when the slice is empty or not strictly ascending
func NewTable(primes []uint32) (*Table, error) {
	if err := CheckAscending(primes); err != nil {
		return nil, err
	}

	cp := make([]uint32, len(primes))
	copy(cp, primes)

	return &Table{primes: cp}, nil
}

// newTableOwned wraps a slice whose ordering the caller has already
// established. The table takes ownership of the slice.
func newTableOwned(primes []uint32) *Table {
	return &Table{primes: primes}
}

// CheckAscending validates that primes is non-empty, starts at 2 or above,
// and is strictly ascending. It does not test primality.
func CheckAscending(primes []uint32) error {
	if len(primes) == 0 {
		return fmt.Errorf("prime table cannot be empty")
	}
	if primes[0] < 2 {
		return fmt.Errorf("prime table starts at %d, smallest prime is 2", primes[0])
	}
	for i := 1; i < len(primes); i++ {
		if primes[i] <= primes[i-1] {
			return fmt.Errorf("prime table not ascending: %d after %d at index %d", primes[i], primes[i-1], i)
		}
	}

	return nil
}

// Len returns the number of primes in the table.
func (t *Table) Len() int {
	return len(t.primes)
}

// Last returns the largest prime in the table.
func (t *Table) Last() uint32 {
	return t.primes[len(t.primes)-1]
}

// At returns the prime at index i. Panics if i is out of range.
func (t *Table) At(i int) uint32 {
	return t.primes[i]
}

// Primes returns the table's backing slice.
//
// The slice is shared, not copied; callers must treat it as read-only.
func (t *Table) Primes() []uint32 {
	return t.primes
}

// IndexOf returns the table index of prime p.
//
// Returns:
//   - uint32: Index of p in the table
//   - error: Wrapped errs.ErrNotInTable when p is absent
func (t *Table) IndexOf(p uint32) (uint32, error) {
	idx, ok := slices.BinarySearch(t.primes, p)
	if !ok {
		return 0, fmt.Errorf("%w: %d", errs.ErrNotInTable, p)
	}

	return uint32(idx), nil
}

// Contains reports whether p is one of the table's primes.
func (t *Table) Contains(p uint32) bool {
	_, err := t.IndexOf(p)
	return err == nil
}

// PrimesAt maps table indices back to the primes they denote.
//
// Returns:
//   - []uint32: One prime per input index, in input order
//   - error: Wrapped errs.ErrIndexOutOfRange when an index is past the table
func (t *Table) PrimesAt(indices []uint32) ([]uint32, error) {
	out := make([]uint32, 0, len(indices))
	for _, idx := range indices {
		if int64(idx) >= int64(len(t.primes)) {
			return nil, fmt.Errorf("%w: prime index %d in table of %d", errs.ErrIndexOutOfRange, idx, len(t.primes))
		}
		out = append(out, t.primes[idx])
	}

	return out, nil
}
