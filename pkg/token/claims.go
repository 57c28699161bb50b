package token

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// CWT claim keys (RFC 8392).
const (
	ClaimIss int64 = 1
	ClaimSub int64 = 2
	ClaimExp int64 = 4
	ClaimNbf int64 = 5
	ClaimIat int64 = 6
	ClaimCti int64 = 7
)

// Private-use claim keys carrying the bound post-quantum key.
const (
	ClaimPQPublicKey int64 = -65537
	ClaimPQAlgorithm int64 = -65538
	ClaimPQKeyExpiry int64 = -65539
)

// Claims is the payload of a key token.
type Claims struct {
	Issuer     string
	Subject    string
	IssuedAt   time.Time
	NotBefore  time.Time
	Expiration time.Time
	TokenID    []byte

	// Bound key.
	PublicKey []byte
	Algorithm crypto.AlgorithmID
	KeyExpiry time.Time
}

// wireClaims is the CBOR map layout. Times are unix seconds.
type wireClaims struct {
	Iss         string `cbor:"1,keyasint,omitempty"`
	Sub         string `cbor:"2,keyasint,omitempty"`
	Exp         int64  `cbor:"4,keyasint,omitempty"`
	Nbf         int64  `cbor:"5,keyasint,omitempty"`
	Iat         int64  `cbor:"6,keyasint,omitempty"`
	Cti         []byte `cbor:"7,keyasint,omitempty"`
	PQPublicKey []byte `cbor:"-65537,keyasint,omitempty"`
	PQAlgorithm string `cbor:"-65538,keyasint,omitempty"`
	PQKeyExpiry int64  `cbor:"-65539,keyasint,omitempty"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CanonicalEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = (cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}).DecMode(); err != nil {
		panic(err)
	}
}

// MarshalCBOR encodes the claims as a canonical CBOR map with integer keys.
func (c *Claims) MarshalCBOR() ([]byte, error) {
	w := wireClaims{
		Iss:         c.Issuer,
		Sub:         c.Subject,
		Exp:         unixOrZero(c.Expiration),
		Nbf:         unixOrZero(c.NotBefore),
		Iat:         unixOrZero(c.IssuedAt),
		Cti:         c.TokenID,
		PQPublicKey: c.PublicKey,
		PQAlgorithm: string(c.Algorithm),
		PQKeyExpiry: unixOrZero(c.KeyExpiry),
	}
	return encMode.Marshal(w)
}

// UnmarshalCBOR decodes claims written by MarshalCBOR.
func (c *Claims) UnmarshalCBOR(data []byte) error {
	var w wireClaims
	if err := decMode.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("failed to unmarshal CBOR claims: %w", err)
	}
	*c = Claims{
		Issuer:     w.Iss,
		Subject:    w.Sub,
		Expiration: timeFromUnix(w.Exp),
		NotBefore:  timeFromUnix(w.Nbf),
		IssuedAt:   timeFromUnix(w.Iat),
		TokenID:    w.Cti,
		PublicKey:  w.PQPublicKey,
		Algorithm:  crypto.AlgorithmID(w.PQAlgorithm),
		KeyExpiry:  timeFromUnix(w.PQKeyExpiry),
	}
	return nil
}

// ValidateAt checks the time claims against t.
func (c *Claims) ValidateAt(t time.Time) error {
	if !c.Expiration.IsZero() && t.After(c.Expiration) {
		return fmt.Errorf("%w: at %s", ErrTokenExpired, c.Expiration.Format(time.RFC3339))
	}
	if !c.NotBefore.IsZero() && t.Before(c.NotBefore) {
		return fmt.Errorf("%w: until %s", ErrTokenNotYetValid, c.NotBefore.Format(time.RFC3339))
	}
	return nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeFromUnix(s int64) time.Time {
	if s == 0 {
		return time.Time{}
	}
	return time.Unix(s, 0).UTC()
}
