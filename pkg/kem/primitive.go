package kem

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/kem/mlkem/mlkem768"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// primitive is the lattice KEM this package wraps. Inputs are already
// length-checked when they reach it.
type primitive interface {
	keygen(rng io.Reader) (pub, priv []byte, err error)
	encaps(pub []byte, rng io.Reader) (ct, ss []byte, err error)
	decaps(priv, ct []byte) (ss []byte, err error)
}

// mlkem768Primitive implements primitive with circl's ML-KEM-768.
type mlkem768Primitive struct{}

var _ primitive = mlkem768Primitive{}

func (mlkem768Primitive) keygen(rng io.Reader) ([]byte, []byte, error) {
	pk, sk, err := mlkem768.GenerateKeyPair(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("key generation failed: %w", err)
	}

	pub := make([]byte, mlkem768.PublicKeySize)
	priv := make([]byte, mlkem768.PrivateKeySize)
	pk.Pack(pub)
	sk.Pack(priv)
	return pub, priv, nil
}

func (mlkem768Primitive) encaps(pub []byte, rng io.Reader) ([]byte, []byte, error) {
	var pk mlkem768.PublicKey
	if err := pk.Unpack(pub); err != nil {
		return nil, nil, fmt.Errorf("%w: public key: %v", crypto.ErrInvalidKeyEncoding, err)
	}

	m := make([]byte, mlkem768.EncapsulationSeedSize)
	defer clear(m)
	if _, err := io.ReadFull(rng, m); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", crypto.ErrEntropy, err)
	}

	ct := make([]byte, mlkem768.CiphertextSize)
	ss := make([]byte, mlkem768.SharedKeySize)
	pk.EncapsulateTo(ct, ss, m)
	return ct, ss, nil
}

func (mlkem768Primitive) decaps(priv, ct []byte) (ss []byte, err error) {
	var sk mlkem768.PrivateKey
	if err := sk.Unpack(priv); err != nil {
		return nil, fmt.Errorf("%w: private key: %v", crypto.ErrInvalidKeyEncoding, err)
	}

	defer func() {
		if r := recover(); r != nil {
			ss = nil
			err = fmt.Errorf("%w: %v", crypto.ErrDecapsulation, r)
		}
	}()

	ss = make([]byte, mlkem768.SharedKeySize)
	sk.DecapsulateTo(ss, ct)
	return ss, nil
}
