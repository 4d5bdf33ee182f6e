// Package encoding implements the variable-length integer codec and the
// factorization wire format used by primepack.
//
// # Chunked codec
//
// Both integer codes are instances of one self-delimiting chunked layout:
// value bits are emitted least-significant-first, and at fixed checkpoint
// offsets the encoder emits a flag bit deciding whether the code stops
// (all remaining value bits are zero) or continues. A decoder therefore
// knows the exact length of every code from the bits alone, with no
// external length information.
//
// Two layouts are in use:
//
//   - Small values in [0, 31] (run counts and exponents, biased by one):
//     2-bit chunks with checkpoints after bits 1 and 3, at most 8 bits on
//     the wire.
//   - The bit-length field of the general uint32 code: checkpoints after
//     bits 1 and 5 with at most 5 value bits, so the field occupies 3 or
//     6 bits.
//
// The general uint32 code is the length field (holding bitlen(v)-1, zero
// for v = 0) followed by the raw value in exactly bitlen(v) bits, with
// v = 0 emitted as a single zero bit. It covers the full uint32 range
// without ambiguity; 0xFFFFFFFF costs 38 bits, small values as little as
// 4 bits:
//
//	PutUint32(0)  -> b0000
//	PutUint32(7)  -> b010111
//	PutUint32(8)  -> b1100001
//
// # Factorization wire format
//
// EncodeFactors turns a non-empty, non-decreasing sequence of prime-table
// indices into bits. The run-length form is computed first, then the code
// emits small(runCount-1), small(exp-1) for every run, and uint32(delta)
// for every run, where delta is the run's index minus the previous run's
// index (zero for the first run). Deltas shrink because run indices are
// strictly increasing; exponents and counts are biased by one because a
// run with exponent zero, and a factorization with zero runs, cannot
// occur.
//
// DecodeFactors reverses this exactly. It is the one operation in the
// package that consumes untrusted bit data, so truncated input surfaces
// as an error wrapping errs.ErrBufferExhausted rather than a panic.
package encoding
