package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
)

// SeedSize is the size of every seed drawn from or handed to the modules.
const SeedSize = 32

var (
	randMu sync.RWMutex
	// randReader is the secure random source. It is crypto/rand unless
	// replaced through SetRandReaderForTesting.
	randReader io.Reader = rand.Reader
)

// SecureRandom fills buf from the secure random source.
// A failure or short read zeroes buf and returns ErrEntropy.
// There is no fallback source.
func SecureRandom(buf []byte) error {
	randMu.RLock()
	r := randReader
	randMu.RUnlock()

	if _, err := io.ReadFull(r, buf); err != nil {
		clear(buf)
		return fmt.Errorf("%w: %v", ErrEntropy, err)
	}
	return nil
}

// NewSeed draws a fresh 32-byte seed.
func NewSeed() ([SeedSize]byte, error) {
	var seed [SeedSize]byte
	if err := SecureRandom(seed[:]); err != nil {
		return seed, err
	}
	return seed, nil
}
