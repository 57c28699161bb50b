package kem

import (
	"encoding/pem"
	"fmt"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// PEM block types. The block bytes are the raw FIPS 203 encodings.
const (
	PEMTypePrivateKey = "ML-KEM-768 PRIVATE KEY"
	PEMTypePublicKey  = "ML-KEM-768 PUBLIC KEY"
)

// MarshalPEM encodes the key pair as a private key block followed by
// its public key block.
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
	blocks := decodeBlocks(data)

	priv, ok := blocks[PEMTypePrivateKey]
	if !ok {
		return nil, fmt.Errorf("no %s block found", PEMTypePrivateKey)
	}
	pub, ok := blocks[PEMTypePublicKey]
	if !ok {
		return nil, fmt.Errorf("no %s block found", PEMTypePublicKey)
	}
	return FromKeys(pub, priv)
}

// ParsePublicKeyPEM returns the public key of a public key file or of a
// key pair file.
func ParsePublicKeyPEM(data []byte) ([]byte, error) {
	pub, ok := decodeBlocks(data)[PEMTypePublicKey]
	if !ok {
		return nil, fmt.Errorf("no %s block found", PEMTypePublicKey)
	}
	if err := checkLen(crypto.ErrInvalidKeyLength, "public key", pub, PublicKeySize); err != nil {
		return nil, err
	}
	return pub, nil
}

// decodeBlocks indexes the PEM blocks of data by type. Later blocks of
// the same type are ignored.
func decodeBlocks(data []byte) map[string][]byte {
	blocks := make(map[string][]byte)
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return blocks
		}
		if _, seen := blocks[block.Type]; !seen {
			blocks[block.Type] = block.Bytes
		}
	}
}
