package crypto

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the KEM and DSA modules.
// Callers match with errors.Is; messages carry the details.
var (
	// ErrEntropy is returned when the secure random source fails or
	// returns fewer bytes than requested. It is never retried internally.
	ErrEntropy = errors.New("secure random source failed")

	// ErrInvalidInput is the parent of every length error. It is detected
	// before any cryptographic operation is attempted.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidKeyLength is returned for a public or private key of the wrong size.
	ErrInvalidKeyLength = fmt.Errorf("%w: invalid key length", ErrInvalidInput)

	// ErrInvalidCiphertextLength is returned for a ciphertext of the wrong size.
	ErrInvalidCiphertextLength = fmt.Errorf("%w: invalid ciphertext length", ErrInvalidInput)

	// ErrInvalidSignatureLength is returned for a signature of the wrong size.
	ErrInvalidSignatureLength = fmt.Errorf("%w: invalid signature length", ErrInvalidInput)

	// ErrInvalidSeedLength is returned when a caller seed is not 32 bytes.
	ErrInvalidSeedLength = fmt.Errorf("%w: seed must be exactly 32 bytes", ErrInvalidInput)

	// ErrInvalidKeyEncoding is returned when a correctly sized key fails
	// the primitive's structural decode.
	ErrInvalidKeyEncoding = errors.New("invalid key encoding")

	// ErrInvalidCiphertextEncoding is returned when a correctly sized
	// ciphertext fails the primitive's structural decode.
	ErrInvalidCiphertextEncoding = errors.New("invalid ciphertext encoding")

	// ErrDecapsulation is returned when the decapsulation primitive fails.
	ErrDecapsulation = errors.New("decapsulation failed")

	// ErrSigning is returned when the signing primitive fails.
	ErrSigning = errors.New("signing failed")
)

// LengthError formats a length mismatch under one of the length sentinels.
//
//	crypto.LengthError(crypto.ErrInvalidKeyLength, "public key", 1184, len(pub))
func LengthError(kind error, what string, expected, got int) error {
	return fmt.Errorf("%w: %s: expected %d, got %d", kind, what, expected, got)
}

// IsInvalidInput reports whether err is a length error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
