package bank

import "math/rand"

// RandomSource draws the random numbers the insertion simulator uses.
type RandomSource interface {
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int
}

// NewRandomSource returns a pseudo-random source with the given seed.
func NewRandomSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}
