// Package service provides business logic for the REST API.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/remiblancher/post-quantum-kit/internal/audit"
	"github.com/remiblancher/post-quantum-kit/internal/metrics"
	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// Observer records every crypto operation in the technical log and the
// metrics. A nil logger or metrics set is allowed.
type Observer struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewObserver creates an Observer.
func NewObserver(log *zap.Logger, m *metrics.Metrics) *Observer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Observer{log: log, metrics: m}
}

func (o *Observer) done(ctx context.Context, alg crypto.AlgorithmID, op string, start time.Time, err error) {
	o.metrics.ObserveOperation(string(alg), op, start, err)

	fields := []zap.Field{
		zap.String("algorithm", string(alg)),
		zap.String("operation", op),
		zap.Duration("took", time.Since(start)),
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if err != nil {
		o.log.Debug("crypto operation failed", append(fields, zap.Error(err))...)
		return
	}
	o.log.Debug("crypto operation", fields...)
}

// withAudit returns opErr, or the audit failure when the record could not
// be written.
func withAudit(opErr, auditErr error) error {
	if opErr != nil {
		return opErr
	}
	return auditErr
}

type requestIDKey struct{}

// WithRequestID returns a context carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// fingerprint is the audit identifier of a public key.
func fingerprint(pub []byte) string {
	return audit.Fingerprint(pub)
}
