package util

import "math/rand"

// New returns a generator seeded with seed; zero is mapped to 1 so an
// unset flag still gives a reproducible stream.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

// SubSeed derives the seed for job i of a batch started from seed.
func SubSeed(seed int64, i int) int64 {
	return seed + int64(i)*7919
}
