package prime

import (
	"fmt"
	"math"

	"github.com/arloliu/primepack/errs"
)

// Factor decomposes n into prime table indices whose primes multiply back
// to n. Repeated factors appear as repeated indices, and the result is
// sorted ascending because trial division always finds the smallest factor
// first.
//
// The table must cover n: its largest prime squared must reach n, otherwise
// a remaining cofactor could be a prime the table has never seen. Values 0
// and 1 have no prime factorization and report errs.ErrPrimeNotIndexed.
//
// Parameters:
//   - n: The value to factor
//
// Returns:
//   - []uint32: Ascending table indices, one per prime power
//   - error: Wrapped errs.ErrTableTooSmall, errs.ErrPrimeNotIndexed or
//     errs.ErrFactorInternal
func (t *Table) Factor(n uint32) ([]uint32, error) {
	last := uint64(t.Last())
	if last*last < uint64(n) {
		return nil, fmt.Errorf("%w: last prime %d cannot certify factors of %d", errs.ErrTableTooSmall, t.Last(), n)
	}

	var factors []uint32

	remainder := n
	scan := 0
	for remainder > 1 {
		// A remainder that is itself a table prime finishes the job.
		if idx, err := t.IndexOf(remainder); err == nil {
			factors = append(factors, idx)
			return factors, nil
		}

		found := false
		for scan < len(t.primes) {
			p := t.primes[scan]
			if remainder%p == 0 {
				factors = append(factors, uint32(scan))
				remainder /= p
				found = true
				scan = 0

				break
			}
			// Past sqrt(n) no untried table prime can divide the remainder.
			if uint64(p)*uint64(p) > uint64(n) {
				break
			}
			scan++
		}
		if !found {
			break
		}
	}

	switch {
	case uint32(math.Sqrt(float64(n))) > t.Last():
		return nil, fmt.Errorf("%w: table ends at %d, factoring %d needs primes up to its square root", errs.ErrTableTooSmall, t.Last(), n)
	case len(factors) == 0:
		return nil, fmt.Errorf("%w: %d has no factor in the table", errs.ErrPrimeNotIndexed, n)
	case remainder > 1:
		return nil, fmt.Errorf("%w: remainder %d left after factoring %d", errs.ErrFactorInternal, remainder, n)
	}

	return factors, nil
}

// Compose multiplies the primes denoted by the given table indices,
// reversing Factor.
//
// Returns:
//   - uint32: The product of the indexed primes. An empty index list
//     yields 1, the empty product
//   - error: Wrapped errs.ErrIndexOutOfRange for an unknown index, or
//     errs.ErrValueOverflow when the product leaves uint32 range
func (t *Table) Compose(indices []uint32) (uint32, error) {
	product := uint64(1)
	for _, idx := range indices {
		if int64(idx) >= int64(len(t.primes)) {
			return 0, fmt.Errorf("%w: prime index %d in table of %d", errs.ErrIndexOutOfRange, idx, len(t.primes))
		}
		product *= uint64(t.primes[idx])
		if product > math.MaxUint32 {
			return 0, fmt.Errorf("%w: product of indexed primes exceeds uint32", errs.ErrValueOverflow)
		}
	}

	return uint32(product), nil
}
