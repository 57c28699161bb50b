// Package kem implements the ML-KEM-768 (FIPS 203) key encapsulation module.
//
// A KeyPair is created once, by Generate, FromSeed or FromKeys, and is
// immutable afterwards. Every operation that needs a private key also
// exists as a stateless function taking the key explicitly.
//
// Inputs are length-checked before any cryptographic work. Failures are
// reported with the sentinels of pkg/crypto and never carry partial secrets.
package kem

import (
	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// Fixed ML-KEM-768 sizes in bytes.
const (
	PublicKeySize    = 1184
	PrivateKeySize   = 2400
	CiphertextSize   = 1088
	SharedSecretSize = 32
	SeedSize         = crypto.SeedSize
)

// Algorithm is the algorithm implemented by this package.
const Algorithm = crypto.AlgMLKEM768

var prim primitive = mlkem768Primitive{}

// KeyPair is an ML-KEM-768 identity.
type KeyPair struct {
	publicKey  []byte
	privateKey []byte
}

// Encapsulation is the result of one encapsulation. Ciphertext and
// SharedSecret are always produced together.
type Encapsulation struct {
	Ciphertext   []byte
	SharedSecret []byte
}

// Sizes lists the fixed encoding sizes for client-side pre-validation.
type Sizes struct {
	PublicKey    int `json:"publicKey"`
	SecretKey    int `json:"secretKey"`
	Ciphertext   int `json:"ciphertext"`
	SharedSecret int `json:"sharedSecret"`
}

// KeySizes returns the fixed ML-KEM-768 sizes.
func KeySizes() Sizes {
	return Sizes{
		PublicKey:    PublicKeySize,
		SecretKey:    PrivateKeySize,
		Ciphertext:   CiphertextSize,
		SharedSecret: SharedSecretSize,
	}
}

// Generate creates a key pair from 32 fresh bytes of the secure random
// source. An entropy failure is returned as crypto.ErrEntropy.
func Generate() (*KeyPair, error) {
	ks, err := freshKeystream()
	if err != nil {
		return nil, err
	}
	return generateFrom(ks)
}

// FromSeed derives a key pair deterministically from a 32-byte seed.
// The seed is hashed with SHA3-256 before it seeds the generator, so the
// same seed always yields byte-identical keys.
func FromSeed(seed []byte) (*KeyPair, error) {
	derived, err := whitenSeed(seed)
	if err != nil {
		return nil, err
	}
	ks, err := newKeystream(derived)
	if err != nil {
		return nil, err
	}
	return generateFrom(ks)
}

func generateFrom(ks *keystream) (*KeyPair, error) {
	pub, priv, err := prim.keygen(ks)
	if err != nil {
		return nil, err
	}
	return &KeyPair{publicKey: pub, privateKey: priv}, nil
}

// FromKeys pairs existing key material after checking both lengths.
// It does not check that the two halves belong together; a mismatched
// pair only shows up later as shared secrets that disagree.
func FromKeys(publicKey, privateKey []byte) (*KeyPair, error) {
	if err := checkLen(crypto.ErrInvalidKeyLength, "public key", publicKey, PublicKeySize); err != nil {
		return nil, err
	}
	if err := checkLen(crypto.ErrInvalidKeyLength, "private key", privateKey, PrivateKeySize); err != nil {
		return nil, err
	}
	return &KeyPair{
		publicKey:  clone(publicKey),
		privateKey: clone(privateKey),
	}, nil
}

// PublicKey returns a copy of the encoded public key.
func (kp *KeyPair) PublicKey() []byte {
	return clone(kp.publicKey)
}

// PrivateKey returns a copy of the encoded private key.
func (kp *KeyPair) PrivateKey() []byte {
	return clone(kp.privateKey)
}

// Algorithm returns crypto.AlgMLKEM768.
func (kp *KeyPair) Algorithm() crypto.AlgorithmID {
	return Algorithm
}

// Encapsulate calls the package-level Encapsulate. The held keys are not
// used; the method exists so a KeyPair offers both sides of the exchange.
func (kp *KeyPair) Encapsulate(peerPublicKey []byte) (*Encapsulation, error) {
	return Encapsulate(peerPublicKey)
}

// Encapsulate establishes a fresh shared secret for the holder of
// peerPublicKey. Every call draws new randomness; it is never reused.
func Encapsulate(peerPublicKey []byte) (*Encapsulation, error) {
	if err := checkLen(crypto.ErrInvalidKeyLength, "public key", peerPublicKey, PublicKeySize); err != nil {
		return nil, err
	}

	ks, err := freshKeystream()
	if err != nil {
		return nil, err
	}

	ct, ss, err := prim.encaps(peerPublicKey, ks)
	if err != nil {
		return nil, err
	}
	return &Encapsulation{Ciphertext: ct, SharedSecret: ss}, nil
}

// Decapsulate recovers the shared secret from a ciphertext addressed to
// this key pair.
func (kp *KeyPair) Decapsulate(ciphertext []byte) ([]byte, error) {
	return DecapsulateWithKey(kp.privateKey, ciphertext)
}

// DecapsulateWithKey is the stateless form of Decapsulate.
//
// A well-formed ciphertext that was not produced for this key does not
// fail: ML-KEM implicitly rejects it and returns an unrelated secret.
func DecapsulateWithKey(privateKey, ciphertext []byte) ([]byte, error) {
	if err := checkLen(crypto.ErrInvalidCiphertextLength, "ciphertext", ciphertext, CiphertextSize); err != nil {
		return nil, err
	}
	if err := checkLen(crypto.ErrInvalidKeyLength, "private key", privateKey, PrivateKeySize); err != nil {
		return nil, err
	}
	return prim.decaps(privateKey, ciphertext)
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
