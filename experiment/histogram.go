package experiment

// Histogram is a fixed-width bucket counter for small non-negative
// measurements. Out-of-range observations are clamped into the edge
// buckets rather than dropped, so Total always equals the number of
// observations.
type Histogram struct {
	name    string
	buckets []uint32
}

// NewHistogram creates a histogram with the given bucket count.
// Panics if buckets is not positive.
func NewHistogram(name string, buckets int) *Histogram {
	if buckets <= 0 {
		panic("experiment: histogram needs at least one bucket")
	}

	return &Histogram{
		name:    name,
		buckets: make([]uint32, buckets),
	}
}

// Name returns the histogram's name.
func (h *Histogram) Name() string {
	return h.name
}

// Observe counts one observation in the given bucket, clamping
// out-of-range buckets to the nearest edge.
func (h *Histogram) Observe(bucket int) {
	if bucket < 0 {
		bucket = 0
	}
	if bucket >= len(h.buckets) {
		bucket = len(h.buckets) - 1
	}
	h.buckets[bucket]++
}

// Buckets returns the histogram's backing counts.
//
// The slice is shared, not copied; callers must treat it as read-only.
func (h *Histogram) Buckets() []uint32 {
	return h.buckets
}

// Total returns the number of observations.
func (h *Histogram) Total() uint64 {
	var total uint64
	for _, v := range h.buckets {
		total += uint64(v)
	}

	return total
}

// ExpectedValue returns the mean bucket index weighted by counts,
// or 0 for an empty histogram.
func (h *Histogram) ExpectedValue() float64 {
	var weighted, sum float64
	for k, v := range h.buckets {
		weighted += float64(k) * float64(v)
		sum += float64(v)
	}
	if sum == 0 {
		return 0
	}

	return weighted / sum
}
