package dsa

import (
	"encoding/pem"
	"fmt"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// PEM block types. The block bytes are the raw FIPS 204 encodings.
const (
	PEMTypePrivateKey = "ML-DSA-65 PRIVATE KEY"
	PEMTypePublicKey  = "ML-DSA-65 PUBLIC KEY"
)

// MarshalPEM encodes the private key block followed by the public key block.
func (kp *KeyPair) MarshalPEM() []byte {
	out := pem.EncodeToMemory(&pem.Block{Type: PEMTypePrivateKey, Bytes: kp.privateKey})
	return append(out, MarshalPublicKeyPEM(kp.publicKey)...)
}

// MarshalPublicKeyPEM encodes a public key as a single PEM block.
func MarshalPublicKeyPEM(publicKey []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: PEMTypePublicKey, Bytes: publicKey})
}

// ParseKeyPairPEM reads a file written by MarshalPEM.
func ParseKeyPairPEM(data []byte) (*KeyPair, error) {
	var priv, pub []byte
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		switch block.Type {
		case PEMTypePrivateKey:
			if priv == nil {
				priv = block.Bytes
			}
		case PEMTypePublicKey:
			if pub == nil {
				pub = block.Bytes
			}
		}
	}

	if priv == nil {
		return nil, fmt.Errorf("no %s block found", PEMTypePrivateKey)
	}
	if pub == nil {
		return nil, fmt.Errorf("no %s block found", PEMTypePublicKey)
	}
	return FromKeys(pub, priv)
}

// ParsePublicKeyPEM returns the first public key block of data.
func ParsePublicKeyPEM(data []byte) ([]byte, error) {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, fmt.Errorf("no %s block found", PEMTypePublicKey)
		}
		if block.Type == PEMTypePublicKey {
			if err := checkLen(crypto.ErrInvalidKeyLength, "public key", block.Bytes, PublicKeySize); err != nil {
				return nil, err
			}
			return block.Bytes, nil
		}
	}
}
