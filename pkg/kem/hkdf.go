package kem

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// MaxDerivedKeySize is the HKDF-SHA256 output limit (255 * 32).
const MaxDerivedKeySize = 255 * sha256.Size

// DeriveKey expands a 32-byte shared secret into an application key of
// the given length using HKDF-SHA256.
func DeriveKey(sharedSecret, salt, info []byte, length int) ([]byte, error) {
	if err := checkLen(crypto.ErrInvalidInput, "shared secret", sharedSecret, SharedSecretSize); err != nil {
		return nil, err
	}
	if length <= 0 || length > MaxDerivedKeySize {
		return nil, fmt.Errorf("%w: derived key length must be in 1..%d, got %d", crypto.ErrInvalidInput, MaxDerivedKeySize, length)
	}

	r := hkdf.New(sha256.New, sharedSecret, salt, info)
	key := make([]byte, length)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}
