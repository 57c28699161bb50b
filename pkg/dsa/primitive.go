package dsa

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"golang.org/x/crypto/sha3"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// primitive is the lattice signature scheme this package wraps. Inputs
// are already length-checked when they reach it.
type primitive interface {
	keygen(rng io.Reader) (pub, priv []byte, err error)
	sign(priv, msg, ctx []byte, rng io.Reader) ([]byte, error)
	verify(pub, msg, ctx, sig []byte) (bool, error)
}

// mldsa65Primitive implements primitive with circl's ML-DSA-65.
type mldsa65Primitive struct{}

var _ primitive = mldsa65Primitive{}

func (mldsa65Primitive) keygen(rng io.Reader) ([]byte, []byte, error) {
	pk, sk, err := mldsa65.GenerateKey(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("key generation failed: %w", err)
	}
	return pk.Bytes(), sk.Bytes(), nil
}

// sign produces a hedged signature with 32 bytes of randomness from rng.
//
// circl only hedges with bytes it reads from crypto/rand itself. The
// signing nonce seed is rho' = H(K || rnd || mu) and K feeds nothing
// else, so the key is re-keyed with K' = SHA3-256(K || rnd) and signed in
// deterministic mode: rho' = H(K' || 0^32 || mu). The signature is a
// standard ML-DSA-65 signature.
func (mldsa65Primitive) sign(priv, msg, ctx []byte, rng io.Reader) (sig []byte, err error) {
	if err := checkPrivateKeyEncoding(priv); err != nil {
		return nil, err
	}

	var rnd [32]byte
	if _, err := io.ReadFull(rng, rnd[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", crypto.ErrEntropy, err)
	}
	hedged := hedgeKey(priv, rnd)
	clear(rnd[:])
	defer clear(hedged)

	var sk mldsa65.PrivateKey
	if err := sk.UnmarshalBinary(hedged); err != nil {
		return nil, fmt.Errorf("%w: private key: %v", crypto.ErrInvalidKeyEncoding, err)
	}

	defer func() {
		if r := recover(); r != nil {
			sig = nil
			err = fmt.Errorf("%w: %v", crypto.ErrSigning, r)
		}
	}()

	sig = make([]byte, mldsa65.SignatureSize)
	if err := mldsa65.SignTo(&sk, msg, ctx, false, sig); err != nil {
		return nil, fmt.Errorf("%w: %v", crypto.ErrSigning, err)
	}
	return sig, nil
}

// hedgeKey returns a copy of priv whose K field is SHA3-256(K || rnd).
func hedgeKey(priv []byte, rnd [32]byte) []byte {
	out := clone(priv)
	k := out[skKeyOffset : skKeyOffset+32]

	h := sha3.New256()
	h.Write(k)
	h.Write(rnd[:])
	copy(k, h.Sum(nil))
	return out
}

func (mldsa65Primitive) verify(pub, msg, ctx, sig []byte) (bool, error) {
	var pk mldsa65.PublicKey
	if err := pk.UnmarshalBinary(pub); err != nil {
		return false, fmt.Errorf("%w: public key: %v", crypto.ErrInvalidKeyEncoding, err)
	}
	return mldsa65.Verify(&pk, msg, ctx, sig), nil
}

// Private key layout (FIPS 204 skEncode, ML-DSA-65):
// rho(32) || K(32) || tr(64) || s1 (5 polys) || s2 (6 polys) || t0 (6 polys).
const (
	skKeyOffset = 32
	skEtaOffset = 32 + 32 + 64
	skEtaBytes  = (5 + 6) * 128
	skEtaMax    = 2 * 4
)

// checkPrivateKeyEncoding applies the skDecode range check: every packed
// coefficient of s1 and s2 encodes eta - c with 0 <= c <= 2*eta.
// Every byte is scanned whatever the outcome.
func checkPrivateKeyEncoding(priv []byte) error {
	var bad uint32
	for _, b := range priv[skEtaOffset : skEtaOffset+skEtaBytes] {
		bad |= uint32(skEtaMax-int32(b&0x0F)) >> 31
		bad |= uint32(skEtaMax-int32(b>>4)) >> 31
	}
	if bad != 0 {
		return fmt.Errorf("%w: private key: s1/s2 coefficient out of range", crypto.ErrInvalidKeyEncoding)
	}
	return nil
}
