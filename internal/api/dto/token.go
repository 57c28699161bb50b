package dto

// TokenIssueRequest binds subject to a post-quantum public key.
type TokenIssueRequest struct {
	Subject   string `json:"subject"`
	Algorithm string `json:"algorithm"`
	PublicKey []byte `json:"public_key"`

	// TTL is a Go duration string; empty means the server default.
	TTL string `json:"ttl,omitempty"`
}

// TokenIssueResponse holds the COSE_Sign1 token.
type TokenIssueResponse struct {
	Token     []byte `json:"token"`
	ExpiresAt string `json:"expires_at"` // RFC3339
}

// TokenVerifyRequest carries a token. IssuerPublicKey defaults to the
// server signing key.
type TokenVerifyRequest struct {
	Token           []byte `json:"token"`
	IssuerPublicKey []byte `json:"issuer_public_key,omitempty"`
}

// TokenClaims mirrors token.Claims with RFC3339 times.
type TokenClaims struct {
	Issuer    string `json:"issuer,omitempty"`
	Subject   string `json:"subject"`
	IssuedAt  string `json:"issued_at,omitempty"`
	NotBefore string `json:"not_before,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
	TokenID   string `json:"token_id,omitempty"`
	Algorithm string `json:"algorithm"`
	PublicKey []byte `json:"public_key"`
	KeyExpiry string `json:"key_expiry,omitempty"`
}

// TokenVerifyResponse holds the verified claims.
type TokenVerifyResponse struct {
	Valid  bool        `json:"valid"`
	Claims TokenClaims `json:"claims"`
}
