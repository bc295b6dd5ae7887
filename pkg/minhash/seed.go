package minhash

import "math/rand"

// seedLow and seedHigh bound the per-permutation seed draw, mirroring the
// reference implementation's [1, 100_000_000) range for its own RNG draws.
// The underlying generator differs (Go's math/rand vs. NumPy's Mersenne
// Twister), so the exact seed values are not bit-portable to the Python
// reference; they are, however, fully deterministic within this
// implementation for a given user seed (spec P2).
const (
	seedLow  = 1
	seedHigh = 100_000_000
)

// deriveSeeds draws n deterministic per-permutation seeds from userSeed.
func deriveSeeds(userSeed int64, n int) []uint32 {
	rng := rand.New(rand.NewSource(userSeed))
	seeds := make([]uint32, n)
	for i := range seeds {
		seeds[i] = uint32(seedLow + rng.Int63n(seedHigh-seedLow))
	}
	return seeds
}

// deriveSeed draws the single seed used by the k_smallest_values method.
func deriveSeed(userSeed int64) uint32 {
	return deriveSeeds(userSeed, 1)[0]
}
