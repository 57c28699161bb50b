package dsa

import (
	"fmt"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/sha3"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// whitenSeed maps a caller seed to the generator seed: SHA3-256(seed).
func whitenSeed(seed []byte) ([crypto.SeedSize]byte, error) {
	if len(seed) != crypto.SeedSize {
		return [crypto.SeedSize]byte{}, crypto.LengthError(crypto.ErrInvalidSeedLength, "seed", crypto.SeedSize, len(seed))
	}
	return sha3.Sum256(seed), nil
}

// keystream is the ChaCha20 keystream keyed with a 32-byte seed (zero
// nonce, counter 0). ML-DSA KeyGen takes its first 32 bytes as xi.
type keystream struct {
	c *chacha20.Cipher
}

func newKeystream(seed [crypto.SeedSize]byte) (*keystream, error) {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create keystream: %w", err)
	}
	return &keystream{c: c}, nil
}

func (k *keystream) Read(p []byte) (int, error) {
	clear(p)
	k.c.XORKeyStream(p, p)
	return len(p), nil
}

func freshKeystream() (*keystream, error) {
	seed, err := crypto.NewSeed()
	if err != nil {
		return nil, err
	}
	return newKeystream(seed)
}

func checkLen(kind error, what string, buf []byte, want int) error {
	if len(buf) != want {
		return crypto.LengthError(kind, what, want, len(buf))
	}
	return nil
}
