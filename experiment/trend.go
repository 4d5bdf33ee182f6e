package experiment

import (
	"fmt"
	"math"
)

// BitsTrend models encoded size as a function of value magnitude:
//
//	bits = a + b * log2(value)
//
// The dominant cost of a factor encoding is the index delta of the value's
// largest prime factor, which grows with the value's magnitude, so encoded
// size tracks log2 of the value far better than the value itself.
type BitsTrend struct {
	// A is the intercept in bits.
	A float64
	// B is the slope in bits per doubling of the value.
	B float64
	// RSquared is the coefficient of determination (0-1, higher is better).
	RSquared float64
	// RMSE is the root mean square error in bits.
	RMSE float64
}

// FitBitsTrend fits the trend to (value, encoded bits) points with least
// squares on x' = log2(value).
//
// Parameters:
//   - values: Sampled values, each at least 1
//   - bits: Encoded size in bits for the value at the same position
//
// Returns:
//   - *BitsTrend: The fitted model, nil when fewer than two points are
//     given or the points share a single magnitude
func FitBitsTrend(values, bits []float64) *BitsTrend {
	n := len(values)
	if n < 2 || len(bits) != n {
		return nil
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i := range n {
		xi := math.Log2(values[i])
		yi := bits[i]
		sumX += xi
		sumY += yi
		sumXY += xi * yi
		sumX2 += xi * xi
	}

	meanX := sumX / float64(n)
	meanY := sumY / float64(n)
	denom := sumX2 - float64(n)*meanX*meanX
	if denom == 0 {
		return nil
	}
	b := (sumXY - float64(n)*meanX*meanY) / denom
	a := meanY - b*meanX

	var ssTot, ssRes float64
	for i := range n {
		predicted := a + b*math.Log2(values[i])
		ssTot += (bits[i] - meanY) * (bits[i] - meanY)
		ssRes += (bits[i] - predicted) * (bits[i] - predicted)
	}

	r2 := 0.0
	if ssTot != 0 {
		r2 = 1.0 - ssRes/ssTot
	}

	return &BitsTrend{
		A:        a,
		B:        b,
		RSquared: r2,
		RMSE:     math.Sqrt(ssRes / float64(n)),
	}
}

// Estimate predicts the encoded size in bits for a value.
func (t *BitsTrend) Estimate(value float64) float64 {
	if value < 1 {
		return t.A
	}

	return t.A + t.B*math.Log2(value)
}

// Formula returns the fitted model in human-readable form.
func (t *BitsTrend) Formula() string {
	return fmt.Sprintf("bits = %.2f + %.2f * log2(value)", t.A, t.B)
}

// String returns a short summary of the fit.
func (t *BitsTrend) String() string {
	return fmt.Sprintf("BitsTrend{%s, R²: %.4f, RMSE: %.2f}", t.Formula(), t.RSquared, t.RMSE)
}
