package service

import (
	"context"
	"time"

	"github.com/remiblancher/post-quantum-kit/internal/api/dto"
	"github.com/remiblancher/post-quantum-kit/internal/audit"
	"github.com/remiblancher/post-quantum-kit/pkg/kem"
)

// KEMService exposes the ML-KEM-768 module.
type KEMService struct {
	obs *Observer
}

// NewKEMService creates a new KEMService.
func NewKEMService(obs *Observer) *KEMService {
	return &KEMService{obs: obs}
}

// Generate creates a key pair, from req.Seed when present.
func (s *KEMService) Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.KeyPairResponse, error) {
	start := time.Now()
	seeded := req.Seed != nil

	var kp *kem.KeyPair
	var err error
	if seeded {
		kp, err = kem.FromSeed(req.Seed)
	} else {
		kp, err = kem.Generate()
	}
	s.obs.done(ctx, kem.Algorithm, "generate", start, err)

	var fp string
	if err == nil {
		fp = fingerprint(kp.PublicKey())
	}
	if err := withAudit(err, audit.LogKEMKeygen(audit.SourceAPI, string(kem.Algorithm), fp, seeded, err)); err != nil {
		return nil, err
	}

	return &dto.KeyPairResponse{
		Algorithm:   string(kem.Algorithm),
		PublicKey:   kp.PublicKey(),
		PrivateKey:  kp.PrivateKey(),
		Fingerprint: fp,
	}, nil
}

// Encapsulate creates a shared secret for the peer public key.
func (s *KEMService) Encapsulate(ctx context.Context, req *dto.EncapsulateRequest) (*dto.EncapsulateResponse, error) {
	start := time.Now()
	enc, err := kem.Encapsulate(req.PublicKey)
	s.obs.done(ctx, kem.Algorithm, "encapsulate", start, err)

	if err := withAudit(err, audit.LogKEMEncaps(audit.SourceAPI, string(kem.Algorithm), fingerprint(req.PublicKey), err)); err != nil {
		return nil, err
	}
	return &dto.EncapsulateResponse{
		Ciphertext:   enc.Ciphertext,
		SharedSecret: enc.SharedSecret,
	}, nil
}

// Decapsulate recovers the shared secret.
func (s *KEMService) Decapsulate(ctx context.Context, req *dto.DecapsulateRequest) (*dto.DecapsulateResponse, error) {
	start := time.Now()
	ss, err := kem.DecapsulateWithKey(req.PrivateKey, req.Ciphertext)
	s.obs.done(ctx, kem.Algorithm, "decapsulate", start, err)

	if err := withAudit(err, audit.LogKEMDecaps(audit.SourceAPI, string(kem.Algorithm), len(req.Ciphertext), err)); err != nil {
		return nil, err
	}
	return &dto.DecapsulateResponse{SharedSecret: ss}, nil
}

// Sizes returns the fixed ML-KEM-768 sizes.
func (s *KEMService) Sizes() kem.Sizes {
	return kem.KeySizes()
}
