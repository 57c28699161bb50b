package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/remiblancher/post-quantum-kit/internal/api/dto"
	"github.com/remiblancher/post-quantum-kit/internal/audit"
	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
	"github.com/remiblancher/post-quantum-kit/pkg/dsa"
	"github.com/remiblancher/post-quantum-kit/pkg/token"
)

// TokenService issues and verifies key tokens with the server signing key.
type TokenService struct {
	obs    *Observer
	signer *dsa.KeyPair
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. A zero ttl means token.DefaultTTL.
func NewTokenService(obs *Observer, signer *dsa.KeyPair, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		obs:    obs,
		signer: signer,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for req.
func (s *TokenService) Issue(ctx context.Context, req *dto.TokenIssueRequest) (*dto.TokenIssueResponse, error) {
	ttl := s.ttl
	if req.TTL != "" {
		d, err := time.ParseDuration(req.TTL)
		if err != nil {
			return nil, fmt.Errorf("%w: ttl: %v", crypto.ErrInvalidInput, err)
		}
		ttl = d
	}

	now := s.now()
	start := time.Now()
	tok, err := token.Issue(s.signer, token.Request{
		Issuer:    s.issuer,
		Subject:   req.Subject,
		PublicKey: req.PublicKey,
		Algorithm: crypto.AlgorithmID(req.Algorithm),
		TTL:       ttl,
		IssuedAt:  now,
	})
	s.obs.done(ctx, dsa.Algorithm, "token_issue", start, err)

	if err := withAudit(err, audit.LogTokenIssued(audit.SourceAPI, req.Subject, fingerprint(req.PublicKey), err)); err != nil {
		return nil, err
	}

	if ttl == 0 {
		ttl = token.DefaultTTL
	}
	return &dto.TokenIssueResponse{
		Token:     tok,
		ExpiresAt: now.UTC().Truncate(time.Second).Add(ttl).Format(time.RFC3339),
	}, nil
}

// Verify checks a token against req.IssuerPublicKey, or the server key.
func (s *TokenService) Verify(ctx context.Context, req *dto.TokenVerifyRequest) (*dto.TokenVerifyResponse, error) {
	issuerKey := req.IssuerPublicKey
	if issuerKey == nil {
		issuerKey = s.signer.PublicKey()
	}

	start := time.Now()
	claims, err := token.Verify(req.Token, issuerKey, s.now())
	s.obs.done(ctx, dsa.Algorithm, "token_verify", start, err)

	subject := ""
	if claims != nil {
		subject = claims.Subject
	}
	if err := withAudit(err, audit.LogTokenVerified(audit.SourceAPI, subject, err)); err != nil {
		s.obs.log.Info("token rejected", zap.Error(err))
		return nil, err
	}

	return &dto.TokenVerifyResponse{
		Valid:  true,
		Claims: claimsDTO(claims),
	}, nil
}

func claimsDTO(c *token.Claims) dto.TokenClaims {
	return dto.TokenClaims{
		Issuer:    c.Issuer,
		Subject:   c.Subject,
		IssuedAt:  formatTime(c.IssuedAt),
		NotBefore: formatTime(c.NotBefore),
		ExpiresAt: formatTime(c.Expiration),
		TokenID:   hex.EncodeToString(c.TokenID),
		Algorithm: string(c.Algorithm),
		PublicKey: c.PublicKey,
		KeyExpiry: formatTime(c.KeyExpiry),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
