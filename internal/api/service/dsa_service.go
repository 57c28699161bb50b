package service

import (
	"context"
	"time"

	"github.com/remiblancher/post-quantum-kit/internal/api/dto"
	"github.com/remiblancher/post-quantum-kit/internal/audit"
	"github.com/remiblancher/post-quantum-kit/pkg/dsa"
)

// DSAService exposes the ML-DSA-65 module.
type DSAService struct {
	obs *Observer
}

// NewDSAService creates a new DSAService.
func NewDSAService(obs *Observer) *DSAService {
	return &DSAService{obs: obs}
}

// Generate creates a key pair, from req.Seed when present.
func (s *DSAService) Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.KeyPairResponse, error) {
	start := time.Now()
	seeded := req.Seed != nil

	var kp *dsa.KeyPair
	var err error
	if seeded {
		kp, err = dsa.FromSeed(req.Seed)
	} else {
		kp, err = dsa.Generate()
	}
	s.obs.done(ctx, dsa.Algorithm, "generate", start, err)

	var fp string
	if err == nil {
		fp = fingerprint(kp.PublicKey())
	}
	if err := withAudit(err, audit.LogDSAKeygen(audit.SourceAPI, string(dsa.Algorithm), fp, seeded, err)); err != nil {
		return nil, err
	}

	return &dto.KeyPairResponse{
		Algorithm:   string(dsa.Algorithm),
		PublicKey:   kp.PublicKey(),
		PrivateKey:  kp.PrivateKey(),
		Fingerprint: fp,
	}, nil
}

// Sign signs req.Message.
func (s *DSAService) Sign(ctx context.Context, req *dto.SignRequest) (*dto.SignResponse, error) {
	start := time.Now()
	sig, err := dsa.SignWithKey(req.PrivateKey, req.Message)
	s.obs.done(ctx, dsa.Algorithm, "sign", start, err)

	if err := withAudit(err, audit.LogDSASign(audit.SourceAPI, string(dsa.Algorithm), len(req.Message), err)); err != nil {
		return nil, err
	}
	return &dto.SignResponse{Signature: sig}, nil
}

// Verify checks req.Signature. Only malformed input is an error.
func (s *DSAService) Verify(ctx context.Context, req *dto.VerifyRequest) (*dto.VerifyResponse, error) {
	start := time.Now()
	ok, err := dsa.Verify(req.PublicKey, req.Message, req.Signature)
	s.obs.done(ctx, dsa.Algorithm, "verify", start, err)

	if err := withAudit(err, audit.LogDSAVerify(audit.SourceAPI, string(dsa.Algorithm), fingerprint(req.PublicKey), ok, err)); err != nil {
		return nil, err
	}
	return &dto.VerifyResponse{Valid: ok}, nil
}

// Sizes returns the fixed ML-DSA-65 sizes.
func (s *DSAService) Sizes() dsa.Sizes {
	return dsa.KeySizes()
}
