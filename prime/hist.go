package prime

import "math"

// ratioHistogramBuckets covers floor(log2(p)) for every uint32 prime:
// log2(2) = 1 up to log2(4294967291) just under 32.
const ratioHistogramBuckets = 32

// IndexRatioHistogram reports how densely the table's indices pack its
// primes. For each prime p at index k within [idxLo, idxHi), the ratio k/p
// is accumulated in bucket floor(log2(p)), and each bucket holding samples
// is reduced to its mean.
//
// The ratio approaches 1/ln(p) for large p, so the histogram shows the
// compression headroom gained by storing indices instead of primes at each
// magnitude.
//
// Index bounds outside the table are clamped, not rejected.
func (t *Table) IndexRatioHistogram(idxLo, idxHi int) []float64 {
	if idxLo < 0 {
		idxLo = 0
	}
	if idxHi > len(t.primes) {
		idxHi = len(t.primes)
	}

	hist := make([]float64, ratioHistogramBuckets)
	counts := make([]uint32, ratioHistogramBuckets)
	for k := idxLo; k < idxHi; k++ {
		p := float64(t.primes[k])
		bucket := int(math.Log2(p))
		hist[bucket] += float64(k) / p
		counts[bucket]++
	}

	for i := range hist {
		if counts[i] != 0 && hist[i] != 0 {
			hist[i] /= float64(counts[i])
		}
	}

	return hist
}
