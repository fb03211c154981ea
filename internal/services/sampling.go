package services

import "math/rand/v2"

// Rand is the randomness source used for word sampling.
type Rand interface {
	IntN(n int) int
}

// globalRand uses the goroutine-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// sample returns up to n items drawn uniformly without replacement. It runs
// a partial Fisher-Yates shuffle over a copy, so storage order never biases
// the result and items is left untouched.
func sample[T any](rng Rand, items []T, n int) []T {
	if n <= 0 || len(items) == 0 {
		return []T{}
	}
	pool := make([]T, len(items))
	copy(pool, items)
	if n > len(pool) {
		n = len(pool)
	}
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
