// Package dsa implements the ML-DSA-65 (FIPS 204) signature module.
//
// Signing and verification always use the empty domain-separation
// context. Verify distinguishes malformed input, which is an error, from a
// well-formed signature that does not verify, which is (false, nil).
package dsa

import (
	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// Fixed ML-DSA-65 sizes in bytes.
const (
	PublicKeySize  = 1952
	PrivateKeySize = 4032
	SignatureSize  = 3309
	SeedSize       = crypto.SeedSize
)

// Algorithm is the algorithm implemented by this package.
const Algorithm = crypto.AlgMLDSA65

// emptyContext is the domain-separation context of every sign and verify.
var emptyContext = []byte{}

var prim primitive = mldsa65Primitive{}

// KeyPair is an ML-DSA-65 identity.
type KeyPair struct {
	publicKey  []byte
	privateKey []byte
}

// Sizes lists the fixed encoding sizes.
type Sizes struct {
	PublicKey int `json:"publicKey"`
	SecretKey int `json:"secretKey"`
	Signature int `json:"signature"`
}

// KeySizes returns the fixed ML-DSA-65 sizes.
func KeySizes() Sizes {
	return Sizes{
		PublicKey: PublicKeySize,
		SecretKey: PrivateKeySize,
		Signature: SignatureSize,
	}
}

// Generate creates a key pair from 32 fresh bytes of the secure random source.
func Generate() (*KeyPair, error) {
	ks, err := freshKeystream()
	if err != nil {
		return nil, err
	}
	return generateFrom(ks)
}

// FromSeed derives a key pair deterministically from a 32-byte seed,
// hashed with SHA3-256 before it seeds the generator.
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
// The halves are not checked against each other.
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

// Algorithm returns crypto.AlgMLDSA65.
func (kp *KeyPair) Algorithm() crypto.AlgorithmID {
	return Algorithm
}

// Sign signs message with the held private key.
func (kp *KeyPair) Sign(message []byte) ([]byte, error) {
	return SignWithKey(kp.privateKey, message)
}

// SignWithKey is the stateless form of Sign. Each call draws a fresh
// 32-byte seed from the secure random source and signs with its
// keystream; an entropy failure is crypto.ErrEntropy. message may be
// empty.
func SignWithKey(privateKey, message []byte) ([]byte, error) {
	if err := checkLen(crypto.ErrInvalidKeyLength, "private key", privateKey, PrivateKeySize); err != nil {
		return nil, err
	}
	ks, err := freshKeystream()
	if err != nil {
		return nil, err
	}
	return prim.sign(privateKey, message, emptyContext, ks)
}

// Verify checks signature against the held public key.
func (kp *KeyPair) Verify(message, signature []byte) (bool, error) {
	return Verify(kp.publicKey, message, signature)
}

// Verify reports whether signature is a valid signature of message under
// publicKey. Wrong sizes are errors; a wrong signature is (false, nil).
func Verify(publicKey, message, signature []byte) (bool, error) {
	if err := checkLen(crypto.ErrInvalidKeyLength, "public key", publicKey, PublicKeySize); err != nil {
		return false, err
	}
	if err := checkLen(crypto.ErrInvalidSignatureLength, "signature", signature, SignatureSize); err != nil {
		return false, err
	}
	return prim.verify(publicKey, message, emptyContext, signature)
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
