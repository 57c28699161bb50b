// Package crypto holds what the KEM and DSA modules share: algorithm
// descriptors, the error taxonomy and the secure random source.
// The lattice primitives themselves come from cloudflare/circl.
package crypto

import (
	"encoding/asn1"
	"fmt"
	"sort"
)

// Version is the library version reported by the CLI and the HTTP API.
const Version = "0.1.0"

// AlgorithmID identifies a cryptographic algorithm.
type AlgorithmID string

// Post-quantum algorithms.
const (
	AlgMLKEM768 AlgorithmID = "ml-kem-768"
	AlgMLDSA65  AlgorithmID = "ml-dsa-65"
)

// AlgorithmType categorizes algorithms.
type AlgorithmType int

const (
	TypeUnknown AlgorithmType = iota
	TypePQCKEM
	TypePQCSignature
)

// String returns "kem", "signature" or "unknown".
func (t AlgorithmType) String() string {
	switch t {
	case TypePQCKEM:
		return "kem"
	case TypePQCSignature:
		return "signature"
	default:
		return "unknown"
	}
}

// Level3 is the security level label shared by both parameter sets.
const Level3 = "Level 3 (192-bit post-quantum)"

// Info describes an algorithm and its fixed encoding sizes.
// Sizes that do not apply to the algorithm are zero.
type Info struct {
	ID               AlgorithmID   `json:"id" yaml:"id"`
	Type             AlgorithmType `json:"-" yaml:"-"`
	Algorithm        string        `json:"algorithm" yaml:"algorithm"`
	Standard         string        `json:"standard" yaml:"standard"`
	SecurityLevel    string        `json:"securityLevel" yaml:"security_level"`
	OID              string        `json:"oid" yaml:"oid"`
	PublicKeySize    int           `json:"publicKeySize" yaml:"public_key_size"`
	SecretKeySize    int           `json:"secretKeySize" yaml:"secret_key_size"`
	CiphertextSize   int           `json:"ciphertextSize,omitempty" yaml:"ciphertext_size,omitempty"`
	SharedSecretSize int           `json:"sharedSecretSize,omitempty" yaml:"shared_secret_size,omitempty"`
	SignatureSize    int           `json:"signatureSize,omitempty" yaml:"signature_size,omitempty"`
}

type algorithmInfo struct {
	Type  AlgorithmType
	OID   asn1.ObjectIdentifier
	Info  Info
	Label string
}

// algorithms maps AlgorithmID to its metadata.
var algorithms = map[AlgorithmID]algorithmInfo{
	// FIPS 203
	AlgMLKEM768: {
		Type:  TypePQCKEM,
		OID:   asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 4, 2},
		Label: "ML-KEM-768",
		Info: Info{
			Standard:         "FIPS 203",
			SecurityLevel:    Level3,
			PublicKeySize:    1184,
			SecretKeySize:    2400,
			CiphertextSize:   1088,
			SharedSecretSize: 32,
		},
	},

	// FIPS 204
	AlgMLDSA65: {
		Type:  TypePQCSignature,
		OID:   asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 3, 18},
		Label: "ML-DSA-65",
		Info: Info{
			Standard:      "FIPS 204",
			SecurityLevel: Level3,
			PublicKeySize: 1952,
			SecretKeySize: 4032,
			SignatureSize: 3309,
		},
	},
}

// IsValid returns true if the algorithm is recognized.
func (a AlgorithmID) IsValid() bool {
	_, ok := algorithms[a]
	return ok
}

// Type returns the algorithm type.
func (a AlgorithmID) Type() AlgorithmType {
	if info, ok := algorithms[a]; ok {
		return info.Type
	}
	return TypeUnknown
}

// IsKEM returns true for key encapsulation mechanisms.
func (a AlgorithmID) IsKEM() bool {
	return a.Type() == TypePQCKEM
}

// IsSignature returns true for signature algorithms.
func (a AlgorithmID) IsSignature() bool {
	return a.Type() == TypePQCSignature
}

// OID returns the ASN.1 Object Identifier for this algorithm.
func (a AlgorithmID) OID() asn1.ObjectIdentifier {
	if info, ok := algorithms[a]; ok {
		return info.OID
	}
	return nil
}

// Label returns the display name, e.g. "ML-KEM-768".
func (a AlgorithmID) Label() string {
	if info, ok := algorithms[a]; ok {
		return info.Label
	}
	return "Unknown algorithm"
}

// String returns the algorithm identifier as a string.
func (a AlgorithmID) String() string {
	return string(a)
}

// ParseAlgorithm parses a string into an AlgorithmID.
// Both the identifier ("ml-kem-768") and the label ("ML-KEM-768") are accepted.
func ParseAlgorithm(s string) (AlgorithmID, error) {
	alg := AlgorithmID(s)
	if alg.IsValid() {
		return alg, nil
	}
	for id, info := range algorithms {
		if info.Label == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown algorithm: %s", s)
}

// GetAlgorithmInfo returns the descriptor for an algorithm.
func GetAlgorithmInfo(a AlgorithmID) (Info, error) {
	info, ok := algorithms[a]
	if !ok {
		return Info{}, fmt.Errorf("unknown algorithm: %s", a)
	}
	out := info.Info
	out.ID = a
	out.Type = info.Type
	out.Algorithm = info.Label
	out.OID = info.OID.String()
	return out, nil
}

// Algorithms returns all descriptors sorted by identifier.
func Algorithms() []Info {
	ids := make([]string, 0, len(algorithms))
	for id := range algorithms {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	result := make([]Info, 0, len(ids))
	for _, id := range ids {
		info, _ := GetAlgorithmInfo(AlgorithmID(id))
		result = append(result, info)
	}
	return result
}
