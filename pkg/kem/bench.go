package kem

import (
	"fmt"
	"time"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// BenchmarkKeygen runs Generate iterations times and returns the average
// duration of one key generation, entropy draw included.
func BenchmarkKeygen(iterations int) (time.Duration, error) {
	if iterations <= 0 {
		return 0, fmt.Errorf("%w: iterations must be positive, got %d", crypto.ErrInvalidInput, iterations)
	}

	start := time.Now()
	for i := 0; i < iterations; i++ {
		if _, err := Generate(); err != nil {
			return 0, err
		}
	}
	return time.Since(start) / time.Duration(iterations), nil
}

// BenchmarkEncapsulate returns the average duration of one encapsulation
// against publicKey. A first, untimed encapsulation rejects a malformed key
// before the loop starts.
func BenchmarkEncapsulate(iterations int, publicKey []byte) (time.Duration, error) {
	if iterations <= 0 {
		return 0, fmt.Errorf("%w: iterations must be positive, got %d", crypto.ErrInvalidInput, iterations)
	}
	if _, err := Encapsulate(publicKey); err != nil {
		return 0, err
	}

	start := time.Now()
	for i := 0; i < iterations; i++ {
		ks, err := freshKeystream()
		if err != nil {
			return 0, err
		}
		if _, _, err := prim.encaps(publicKey, ks); err != nil {
			return 0, err
		}
	}
	return time.Since(start) / time.Duration(iterations), nil
}
