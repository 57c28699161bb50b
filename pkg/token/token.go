// Package token issues and verifies post-quantum key tokens: CWTs
// (RFC 8392) in a COSE_Sign1 envelope signed with ML-DSA-65 that bind a
// subject to a post-quantum public key.
package token

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	gocose "github.com/veraison/go-cose"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
	"github.com/remiblancher/post-quantum-kit/pkg/dsa"
)

// Default lifetimes.
const (
	DefaultTTL       = 24 * time.Hour
	DefaultKeyExpiry = 24 * time.Hour
)

// Token errors.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenNotYetValid = errors.New("token not yet valid")
)

// Request describes a token to issue.
type Request struct {
	Issuer    string
	Subject   string
	PublicKey []byte
	Algorithm crypto.AlgorithmID

	// TTL defaults to DefaultTTL and KeyExpiry to IssuedAt+DefaultKeyExpiry.
	TTL       time.Duration
	KeyExpiry time.Time

	// IssuedAt defaults to the current time.
	IssuedAt time.Time
}

// Validate checks the bound key against its algorithm.
func (r *Request) Validate() error {
	if r.Subject == "" {
		return fmt.Errorf("%w: subject is required", crypto.ErrInvalidInput)
	}
	info, err := crypto.GetAlgorithmInfo(r.Algorithm)
	if err != nil {
		return fmt.Errorf("%w: %v", crypto.ErrInvalidInput, err)
	}
	if len(r.PublicKey) != info.PublicKeySize {
		return crypto.LengthError(crypto.ErrInvalidKeyLength, "bound public key", info.PublicKeySize, len(r.PublicKey))
	}
	if r.TTL < 0 {
		return fmt.Errorf("%w: negative ttl", crypto.ErrInvalidInput)
	}
	return nil
}

// Issue builds and signs a token for req with signer.
func Issue(signer *dsa.KeyPair, req Request) ([]byte, error) {
	if signer == nil {
		return nil, fmt.Errorf("%w: signer is required", crypto.ErrInvalidInput)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := req.IssuedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC().Truncate(time.Second)

	ttl := req.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	keyExpiry := req.KeyExpiry
	if keyExpiry.IsZero() {
		keyExpiry = now.Add(DefaultKeyExpiry)
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("%w: token id: %v", crypto.ErrEntropy, err)
	}

	claims := &Claims{
		Issuer:     req.Issuer,
		Subject:    req.Subject,
		IssuedAt:   now,
		NotBefore:  now,
		Expiration: now.Add(ttl),
		TokenID:    id[:],
		PublicKey:  bytes.Clone(req.PublicKey),
		Algorithm:  req.Algorithm,
		KeyExpiry:  keyExpiry.UTC(),
	}
	payload, err := claims.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal claims: %w", err)
	}

	msg := gocose.NewSign1Message()
	msg.Headers.Protected = gocose.ProtectedHeader{
		gocose.HeaderLabelAlgorithm:   AlgMLDSA65,
		gocose.HeaderLabelContentType: ContentTypeCWT,
	}
	msg.Payload = payload

	if err := msg.Sign(nil, nil, NewSigner(signer)); err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return msg.MarshalCBOR()
}

// Verify checks the token signature against issuerPublicKey and its time
// claims against now, and returns the claims.
func Verify(data, issuerPublicKey []byte, now time.Time) (*Claims, error) {
	if len(issuerPublicKey) != dsa.PublicKeySize {
		return nil, crypto.LengthError(crypto.ErrInvalidKeyLength, "issuer public key", dsa.PublicKeySize, len(issuerPublicKey))
	}

	var msg gocose.Sign1Message
	if err := msg.UnmarshalCBOR(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	alg, err := msg.Headers.Protected.Algorithm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if alg != AlgMLDSA65 {
		return nil, fmt.Errorf("%w: unexpected algorithm %d", ErrMalformedToken, alg)
	}

	if err := msg.Verify(nil, NewVerifier(issuerPublicKey)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	claims := &Claims{}
	if err := claims.UnmarshalCBOR(msg.Payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if err := claims.ValidateAt(now); err != nil {
		return nil, err
	}
	return claims, nil
}

// Inspect decodes the claims without checking the signature or times.
func Inspect(data []byte) (*Claims, error) {
	var msg gocose.Sign1Message
	if err := msg.UnmarshalCBOR(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	claims := &Claims{}
	if err := claims.UnmarshalCBOR(msg.Payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// IsToken reports whether data starts with the COSE_Sign1 tag.
func IsToken(data []byte) bool {
	var raw cbor.RawTag
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return false
	}
	return raw.Number == 18
}
