// Package rng provides deterministic random number generation for the
// planner: RNG (this file's sibling, rng.go) derives named, reproducible
// sequences from a master seed for the two route-map Embedders
// (pkg/embedding) that pkg/export's SVG renderer calls — the renderer
// hands the chosen Embedder one RNG derived for the purpose
// "route_map_layout", and a different purpose string yields an
// independent sequence.
// Stream (stream.go) is the checkpointable PRNG the Speculative Executor
// treats as a stand-in for the real engine's PRNG; it shares this package
// because both are "deterministic draws from a seed," but the two types
// serve unrelated callers and neither wraps the other.
//
// # Sub-Seed Derivation (RNG)
//
// Each RNG derives its seed using SHA-256:
//
//	seed_purpose = H(masterSeed, purpose, configHash)
//
// This ensures that the same (masterSeed, purpose, configHash) always
// yields the same sequence, that different purposes get independent
// sequences, and that changing the config changes the sequence.
//
// # Checkpointing (Stream)
//
// Stream exposes Save/Restore/Advance directly over its own tiny explicit
// state (a splitmix64 generator) rather than wrapping math/rand.Rand,
// because math/rand.Rand exposes no serializable internal state: there is
// no way to snapshot and later restore an arbitrary *rand.Rand exactly.
// Stream sidesteps that by keeping its entire state in one uint64 plus a
// monotone call counter, both trivially copyable, which is what
// spec.md §3's PRNGCheckpoint and §8 invariant 6 (speculative execution
// must leave PRNG state bitwise unchanged) require.
package rng
