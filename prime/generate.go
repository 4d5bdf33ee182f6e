package prime

import (
	"fmt"
	"math"

	"github.com/arloliu/primepack/errs"
)

// GenRange finds the primes in the closed interval [lo, hi] by trial
// division against the table.
//
// coveredTo declares the bound the table is complete up to; its square must
// reach hi, otherwise a candidate could have a prime factor the table does
// not hold and composites would slip through. The caller vouches for
// coveredTo, it is not verified against the table contents.
//
// Parameters:
//   - coveredTo: Bound the table holds every prime up to
//   - lo: Lower end of the candidate interval, inclusive
//   - hi: Upper end of the candidate interval, inclusive
//
// Returns:
//   - []uint32: Ascending primes within [lo, hi], nil when there are none
//   - error: Wrapped errs.ErrRangeNotCovered when coveredTo*coveredTo < hi
func (t *Table) GenRange(coveredTo, lo, hi uint32) ([]uint32, error) {
	if uint64(coveredTo)*uint64(coveredTo) < uint64(hi) {
		return nil, fmt.Errorf("%w: table covering %d cannot certify candidates up to %d", errs.ErrRangeNotCovered, coveredTo, hi)
	}

	// Candidates advance in steps of two, so 2 never divides any of them
	// and can be skipped as a divisor.
	divisors := t.primes
	if divisors[0] == 2 {
		divisors = divisors[1:]
	}

	candidate := lo
	if candidate%2 == 0 {
		candidate++
	}

	var found []uint32
	for candidate <= hi {
		composite := false
		for _, p := range divisors {
			if candidate%p == 0 {
				composite = true
				break
			}
		}
		if !composite {
			found = append(found, candidate)
		}

		if candidate >= math.MaxUint32-1 {
			break
		}
		candidate += 2
	}

	return found, nil
}

// GenUpTo generates the complete prime table from 2 up to n, starting from
// the starter primes and extending in rounds. Each round may reach as far
// as the square of the largest prime found so far, so coverage grows
// quadratically until it hits n.
//
// Values of n below the starter bound return the starter table unchanged,
// so the result can cover slightly more than n but never less.
func GenUpTo(n uint32) (*Table, error) {
	primes := make([]uint32, len(starterPrimes))
	copy(primes, starterPrimes[:])

	for {
		last := primes[len(primes)-1]
		largest := uint64(last) * uint64(last)
		if largest > math.MaxUint32 {
			largest = math.MaxUint32
		}

		hi := n
		if largest < uint64(n) {
			hi = uint32(largest)
		}

		covered := Table{primes: primes}
		next, err := covered.GenRange(last, last+1, hi)
		if err != nil {
			return nil, err
		}
		primes = append(primes, next...)

		if hi == n {
			break
		}
	}

	return newTableOwned(primes), nil
}
