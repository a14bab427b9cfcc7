// Package randutil centralises how random sources are seeded so that
// every call site gets reproducible sequences from a single int64.
package randutil

import (
	"math/rand"
	"time"
)

// New returns a *rand.Rand seeded deterministically from seed. The seed
// is mixed first so that nearby seeds (consecutive table numbers, say)
// do not produce correlated shuffles.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(int64(mix(uint64(seed)))))
}

// NewWallClock returns a source seeded from the current time.
func NewWallClock() *rand.Rand {
	return New(time.Now().UnixNano())
}

// mix is the splitmix64 finalizer.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
