package dsa

import (
	"fmt"
	"time"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// BenchmarkSign returns the average duration of one SignWithKey call over
// a 32-byte message.
func BenchmarkSign(iterations int, privateKey []byte) (time.Duration, error) {
	if iterations <= 0 {
		return 0, fmt.Errorf("%w: iterations must be positive, got %d", crypto.ErrInvalidInput, iterations)
	}

	msg := make([]byte, 32)
	start := time.Now()
	for i := 0; i < iterations; i++ {
		if _, err := SignWithKey(privateKey, msg); err != nil {
			return 0, err
		}
	}
	return time.Since(start) / time.Duration(iterations), nil
}
