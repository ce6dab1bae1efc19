package rng

import "github.com/kobold/advplanner/pkg/engine"

// Stream is a checkpointable PRNG satisfying engine.PRNG. Unlike RNG, which
// wraps math/rand.Rand for one-shot deterministic derivation, Stream keeps
// its entire state in a single uint64 (a splitmix64 generator) plus a
// monotone call counter, so Save/Restore/Advance are exact and cheap — the
// Speculative Executor (pkg/speculative) relies on Save/Restore being
// involutive down to the bit (spec.md §8 invariant 6).
type Stream struct {
	state uint64
	calls uint64
}

// NewStream seeds a Stream. Two Streams created with the same seed produce
// identical sequences.
func NewStream(seed uint64) *Stream {
	return &Stream{state: seed}
}

// streamCheckpoint is the Checkpoint implementation Stream.Save returns; it
// is a plain value, so copying it (as Save does) is always safe.
type streamCheckpoint struct {
	state uint64
	calls uint64
}

func (c streamCheckpoint) CallCount() uint64 { return c.calls }

// Save returns an opaque snapshot of s's current state.
func (s *Stream) Save() engine.Checkpoint {
	return streamCheckpoint{state: s.state, calls: s.calls}
}

// Restore resets s to a previously-saved checkpoint. Panics if cp was not
// produced by this Stream type — a programmer error, not a runtime
// condition the planner should recover from.
func (s *Stream) Restore(cp engine.Checkpoint) {
	sc, ok := cp.(streamCheckpoint)
	if !ok {
		panic("rng: Stream.Restore given a Checkpoint not produced by Stream.Save")
	}
	s.state = sc.state
	s.calls = sc.calls
}

// CallCount returns the number of values drawn from s so far.
func (s *Stream) CallCount() uint64 { return s.calls }

// next advances the splitmix64 generator one step and returns the raw
// 64-bit output. See Steele, Lea & Flood, "Fast Splittable
// Pseudorandom Number Generators" (2014).
func (s *Stream) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	s.calls++
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Advance draws and discards n values, leaving CallCount advanced by n
// without materializing the intermediate values — used by the Speculative
// Executor to fast-forward the real engine's PRNG past a simulated
// detour's draws (spec.md §6).
func (s *Stream) Advance(n int) {
	for i := 0; i < n; i++ {
		s.next()
	}
}

// Uint64 draws a raw 64-bit value.
func (s *Stream) Uint64() uint64 { return s.next() }

// Intn draws a value in [0, n). Panics if n <= 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic("rng: Stream.Intn called with n <= 0")
	}
	return int(s.next() % uint64(n))
}

// Float64 draws a value in [0.0, 1.0).
func (s *Stream) Float64() float64 {
	// 53 significant bits, matching math/rand's Float64 precision.
	return float64(s.next()>>11) / (1 << 53)
}

// Bool draws a fair coin flip.
func (s *Stream) Bool() bool { return s.next()&1 == 1 }
