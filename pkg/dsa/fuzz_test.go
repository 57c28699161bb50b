package dsa

import (
	"errors"
	"testing"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// =============================================================================
// Boundary Fuzz Tests
// =============================================================================

// FuzzVerify checks that Verify never panics and only errors on bad sizes.
func FuzzVerify(f *testing.F) {
	kp, err := FromSeed(make([]byte, 32))
	if err != nil {
		f.Fatal(err)
	}
	sig, err := kp.Sign([]byte("seed"))
	if err != nil {
		f.Fatal(err)
	}
	f.Add(kp.PublicKey(), []byte("seed"), sig)
	f.Add([]byte{}, []byte{}, []byte{})
	f.Add(make([]byte, PublicKeySize), []byte("x"), make([]byte, SignatureSize))

	f.Fuzz(func(t *testing.T, pub, msg, sig []byte) {
		ok, err := Verify(pub, msg, sig)
		if err != nil {
			if ok {
				t.Fatal("reported valid with an error")
			}
			if !errors.Is(err, crypto.ErrInvalidInput) && !errors.Is(err, crypto.ErrInvalidKeyEncoding) {
				t.Fatalf("unexpected error class: %v", err)
			}
			if len(pub) == PublicKeySize && len(sig) == SignatureSize && errors.Is(err, crypto.ErrInvalidInput) {
				t.Fatalf("correct sizes gave a length error: %v", err)
			}
		}
	})
}

// FuzzSignWithKey feeds arbitrary private keys through the size and range checks.
func FuzzSignWithKey(f *testing.F) {
	kp, err := FromSeed(make([]byte, 32))
	if err != nil {
		f.Fatal(err)
	}
	f.Add(kp.PrivateKey())
	f.Add([]byte{})
	f.Add(make([]byte, PrivateKeySize))

	f.Fuzz(func(t *testing.T, priv []byte) {
		sig, err := SignWithKey(priv, []byte("fuzz"))
		if err != nil {
			if sig != nil {
				t.Fatal("non-nil signature with error")
			}
			if len(priv) != PrivateKeySize && !errors.Is(err, crypto.ErrInvalidKeyLength) {
				t.Fatalf("wrong-size key gave %v", err)
			}
			return
		}
		if len(sig) != SignatureSize {
			t.Fatalf("signature len = %d", len(sig))
		}
	})
}
