package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/remiblancher/post-quantum-kit/internal/api/dto"
	"github.com/remiblancher/post-quantum-kit/internal/audit"
	"github.com/remiblancher/post-quantum-kit/internal/metrics"
	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
	"github.com/remiblancher/post-quantum-kit/pkg/dsa"
	"github.com/remiblancher/post-quantum-kit/pkg/kem"
	"github.com/remiblancher/post-quantum-kit/pkg/token"
)

// recordingWriter keeps audit events in memory.
type recordingWriter struct {
	audit.NopWriter
	events []*audit.Event
	err    error
}

func (r *recordingWriter) Write(e *audit.Event) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

func installAudit(t *testing.T, w audit.Writer) {
	t.Helper()
	if err := audit.Init(w); err != nil {
		t.Fatalf("audit.Init() error = %v", err)
	}
	t.Cleanup(func() { _ = audit.Init(nil) })
}

// =============================================================================
// Observer Tests
// =============================================================================

func TestU_Observer_Done(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := metrics.New()
	obs := NewObserver(zap.New(core), m)

	ctx := WithRequestID(context.Background(), "req-42")
	obs.done(ctx, crypto.AlgMLKEM768, "encapsulate", time.Now(), nil)
	obs.done(context.Background(), crypto.AlgMLKEM768, "encapsulate", time.Now(), crypto.ErrInvalidKeyLength)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-42" {
		t.Errorf("request_id = %v", fields["request_id"])
	}
	if _, ok := fields["took"]; !ok {
		t.Error("missing took field")
	}
	if _, ok := entries[1].ContextMap()["error"]; !ok {
		t.Error("failed operation logged without error")
	}

	if got := testutil.ToFloat64(m.CryptoOperations.WithLabelValues("ml-kem-768", "encapsulate", metrics.ResultFailure)); got != 1 {
		t.Errorf("failure counter = %v, want 1", got)
	}
}

func TestU_Observer_NilDependencies(t *testing.T) {
	obs := NewObserver(nil, nil)
	obs.done(context.Background(), crypto.AlgMLDSA65, "sign", time.Now(), nil)
}

// =============================================================================
// Audit Integration Tests
// =============================================================================

func TestU_DSAService_VerifyAuditsNegativeResult(t *testing.T) {
	rec := &recordingWriter{}
	installAudit(t, rec)
	svc := NewDSAService(NewObserver(nil, nil))

	kp, err := svc.Generate(context.Background(), &dto.GenerateRequest{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	sig, err := svc.Sign(context.Background(), &dto.SignRequest{PrivateKey: kp.PrivateKey, Message: []byte("a")})
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	resp, err := svc.Verify(context.Background(), &dto.VerifyRequest{
		PublicKey: kp.PublicKey,
		Message:   []byte("b"),
		Signature: sig.Signature,
	})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if resp.Valid {
		t.Error("Verify() = valid for a different message")
	}

	if len(rec.events) != 3 {
		t.Fatalf("got %d audit events, want 3", len(rec.events))
	}
	last := rec.events[2]
	if last.EventType != audit.EventDSAVerify || last.Result != audit.ResultSuccess {
		t.Errorf("last event = %s/%s", last.EventType, last.Result)
	}
	if last.Context.Valid || last.Context.Source != audit.SourceAPI {
		t.Errorf("last event context = %+v", last.Context)
	}
	if last.Object.Fingerprint != kp.Fingerprint {
		t.Errorf("fingerprint = %s, want %s", last.Object.Fingerprint, kp.Fingerprint)
	}
}

func TestU_KEMService_AuditFailureFailsOperation(t *testing.T) {
	auditErr := errors.New("disk full")
	installAudit(t, &recordingWriter{err: auditErr})
	svc := NewKEMService(NewObserver(nil, nil))

	_, err := svc.Generate(context.Background(), &dto.GenerateRequest{})
	if !errors.Is(err, auditErr) {
		t.Errorf("Generate() error = %v, want audit failure", err)
	}
}

func TestU_KEMService_OperationErrorWins(t *testing.T) {
	installAudit(t, &recordingWriter{err: errors.New("disk full")})
	svc := NewKEMService(NewObserver(nil, nil))

	_, err := svc.Encapsulate(context.Background(), &dto.EncapsulateRequest{PublicKey: []byte{1}})
	if !errors.Is(err, crypto.ErrInvalidKeyLength) {
		t.Errorf("Encapsulate() error = %v, want ErrInvalidKeyLength", err)
	}
}

// =============================================================================
// Token Service Tests
// =============================================================================

func newTokenService(t *testing.T, ttl time.Duration) (*TokenService, *kem.KeyPair) {
	t.Helper()
	signer, err := dsa.Generate()
	if err != nil {
		t.Fatalf("dsa.Generate() error = %v", err)
	}
	peer, err := kem.Generate()
	if err != nil {
		t.Fatalf("kem.Generate() error = %v", err)
	}
	return NewTokenService(NewObserver(nil, nil), signer, "test-issuer", ttl), peer
}

func TestU_TokenService_ExpiresWithClock(t *testing.T) {
	svc, peer := newTokenService(t, time.Hour)
	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	issued, err := svc.Issue(context.Background(), &dto.TokenIssueRequest{
		Subject:   "alice",
		Algorithm: string(crypto.AlgMLKEM768),
		PublicKey: peer.PublicKey(),
	})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if issued.ExpiresAt != "2026-01-02T04:04:05Z" {
		t.Errorf("ExpiresAt = %s", issued.ExpiresAt)
	}

	svc.now = func() time.Time { return issuedAt.Add(30 * time.Minute) }
	resp, err := svc.Verify(context.Background(), &dto.TokenVerifyRequest{Token: issued.Token})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if resp.Claims.IssuedAt != "2026-01-02T03:04:05Z" || len(resp.Claims.TokenID) != 32 {
		t.Errorf("claims = %+v", resp.Claims)
	}

	svc.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = svc.Verify(context.Background(), &dto.TokenVerifyRequest{Token: issued.Token})
	if !errors.Is(err, token.ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestU_TokenService_TTLOverride(t *testing.T) {
	svc, peer := newTokenService(t, 0)
	issuedAt := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	tests := []struct {
		name    string
		ttl     string
		want    string
		wantErr error
	}{
		{"[Unit] Issue: default ttl", "", "2026-01-03T00:00:00Z", nil},
		{"[Unit] Issue: request ttl", "90m", "2026-01-02T01:30:00Z", nil},
		{"[Unit] Issue: bad ttl", "soon", "", crypto.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Issue(context.Background(), &dto.TokenIssueRequest{
				Subject:   "bob",
				Algorithm: string(crypto.AlgMLKEM768),
				PublicKey: peer.PublicKey(),
				TTL:       tt.ttl,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Issue() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}
			if resp.ExpiresAt != tt.want {
				t.Errorf("ExpiresAt = %s, want %s", resp.ExpiresAt, tt.want)
			}
		})
	}
}
