package experiment

// lcg is a 64-bit linear congruential generator using Knuth's MMIX
// constants. The low bits of an LCG are weak, so each step yields only
// the upper 32 bits of the state.
//
// Sampling needs reproducible runs, not cryptographic quality; a seeded
// LCG keeps reports comparable across hosts and runs.
type lcg struct {
	state uint64
}

func newLCG(seed uint64) *lcg {
	return &lcg{state: seed}
}

// Uint32 advances the generator and returns the next value.
func (r *lcg) Uint32() uint32 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return uint32(r.state >> 32)
}
