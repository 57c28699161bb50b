package token

import (
	"fmt"
	"io"

	gocose "github.com/veraison/go-cose"

	"github.com/remiblancher/post-quantum-kit/pkg/dsa"
)

// AlgMLDSA65 is the COSE algorithm identifier for ML-DSA-65
// (draft-ietf-cose-dilithium).
const AlgMLDSA65 gocose.Algorithm = -49

// ContentTypeCWT is the protected content type of every token.
const ContentTypeCWT = "application/cwt"

// Signer adapts a dsa.KeyPair to gocose.Signer.
type Signer struct {
	key *dsa.KeyPair
}

// NewSigner wraps key for COSE signing.
func NewSigner(key *dsa.KeyPair) *Signer {
	return &Signer{key: key}
}

// Algorithm returns AlgMLDSA65.
func (s *Signer) Algorithm() gocose.Algorithm {
	return AlgMLDSA65
}

// Sign signs the Sig_structure. ML-DSA signs it directly without pre-hashing;
// the signing randomness comes from the dsa package, so rand is ignored.
func (s *Signer) Sign(_ io.Reader, content []byte) ([]byte, error) {
	return s.key.Sign(content)
}

// Verifier adapts an ML-DSA-65 public key to gocose.Verifier.
type Verifier struct {
	publicKey []byte
}

// NewVerifier wraps an encoded ML-DSA-65 public key.
func NewVerifier(publicKey []byte) *Verifier {
	return &Verifier{publicKey: publicKey}
}

// Algorithm returns AlgMLDSA65.
func (v *Verifier) Algorithm() gocose.Algorithm {
	return AlgMLDSA65
}

// Verify returns gocose.ErrVerification for a signature that does not verify.
func (v *Verifier) Verify(content, signature []byte) error {
	ok, err := dsa.Verify(v.publicKey, content, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", gocose.ErrVerification, err)
	}
	if !ok {
		return gocose.ErrVerification
	}
	return nil
}
