package encoding

import (
	"fmt"
	"strings"

	"github.com/arloliu/primepack/bitbuf"
)

// PrimePower is one run of a factorization: a prime-table index raised to
// an exponent. A full factorization is an ascending slice of PrimePower
// values with strictly increasing indices.
type PrimePower struct {
	Index uint32
	Exp   uint8
}

// RunLengths groups a flat, ascending prime-index list into runs.
//
// Consecutive equal indices collapse into a single PrimePower with the
// repeat count as exponent. The input must be sorted ascending and
// non-empty; an empty list indicates a caller bug, so it panics.
func RunLengths(indices []uint32) []PrimePower {
	if len(indices) == 0 {
		panic("encoding: factor index list is empty")
	}

	runs := []PrimePower{{Index: indices[0], Exp: 1}}
	for _, idx := range indices[1:] {
		last := &runs[len(runs)-1]
		if idx == last.Index {
			last.Exp++
			continue
		}
		runs = append(runs, PrimePower{Index: idx, Exp: 1})
	}

	return runs
}

// ExpandRunLengths flattens runs back into the index list RunLengths was
// built from, repeating each index Exp times.
func ExpandRunLengths(runs []PrimePower) []uint32 {
	n := 0
	for _, run := range runs {
		n += int(run.Exp)
	}

	out := make([]uint32, 0, n)
	for _, run := range runs {
		for range int(run.Exp) {
			out = append(out, run.Index)
		}
	}

	return out
}

// EncodeFactors encodes a flat, ascending prime-index factorization into
// a fresh bit buffer.
//
// The wire layout is the run count minus one in the small-value code,
// then every run's exponent minus one in the small-value code, then every
// run's index delta in the general uint32 code. Deltas are taken against
// the previous run's index, starting from zero, so the first delta is the
// first index itself.
//
// The input must be non-empty; factoring any n >= 2 yields at least one
// index, so an empty list indicates a caller bug and panics.
func EncodeFactors(indices []uint32) *bitbuf.Buffer {
	runs := RunLengths(indices)

	enc := NewEncoder()
	enc.PutSmall(uint32(len(runs)) - 1)
	for _, run := range runs {
		enc.PutSmall(uint32(run.Exp) - 1)
	}

	prev := uint32(0)
	for _, run := range runs {
		enc.PutUint32(run.Index - prev)
		prev = run.Index
	}

	return enc.Bits()
}

// DecodeFactors decodes a factorization produced by EncodeFactors back
// into the flat, ascending prime-index list.
//
// Bits past the end of the encoding are ignored, so a decoder can share a
// buffer with trailing content.
//
// Returns:
//   - []uint32: The decoded index list, one entry per prime power
//   - error: Wrapped errs.ErrBufferExhausted when the buffer truncates
//     mid-encoding
func DecodeFactors(bits *bitbuf.Buffer) ([]uint32, error) {
	dec := NewDecoder(bits)

	nRuns, err := dec.Small()
	if err != nil {
		return nil, fmt.Errorf("decode run count: %w", err)
	}

	runs := make([]PrimePower, nRuns+1)
	for i := range runs {
		exp, err := dec.Small()
		if err != nil {
			return nil, fmt.Errorf("decode exponent of run %d: %w", i, err)
		}
		runs[i].Exp = uint8(exp) + 1
	}

	prev := uint32(0)
	for i := range runs {
		delta, err := dec.Uint32()
		if err != nil {
			return nil, fmt.Errorf("decode index delta of run %d: %w", i, err)
		}
		prev += delta
		runs[i].Index = prev
	}

	return ExpandRunLengths(runs), nil
}

// FormatFactorEncoding renders the encoding of indices with each field as
// its own bit string, for logs and debugging:
//
//	b010 [ b000 b000 b000 ] [ b0000 b0001 b0001 ]
//
// The first field is the run count, the first group the exponents, the
// second group the index deltas. Concatenating all fields in order yields
// the exact EncodeFactors output.
func FormatFactorEncoding(indices []uint32) string {
	runs := RunLengths(indices)

	field := func(emit func(e *Encoder)) string {
		e := NewEncoder()
		emit(e)
		return e.Bits().String()
	}

	var sb strings.Builder
	sb.WriteString(field(func(e *Encoder) { e.PutSmall(uint32(len(runs)) - 1) }))

	sb.WriteString(" [")
	for _, run := range runs {
		sb.WriteByte(' ')
		sb.WriteString(field(func(e *Encoder) { e.PutSmall(uint32(run.Exp) - 1) }))
	}
	sb.WriteString(" ] [")

	prev := uint32(0)
	for _, run := range runs {
		delta := run.Index - prev
		prev = run.Index
		sb.WriteByte(' ')
		sb.WriteString(field(func(e *Encoder) { e.PutUint32(delta) }))
	}
	sb.WriteString(" ]")

	return sb.String()
}
