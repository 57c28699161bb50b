package audit

import (
	"fmt"
	"sync"
)

// Event sources.
const (
	SourceCLI = "cli"
	SourceAPI = "api"
)

var (
	globalWriter Writer = NopWriter{}
	globalMu     sync.RWMutex
	enabled      bool
)

// Init installs w as the global writer. A nil w disables audit logging.
func Init(w Writer) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if w == nil {
		globalWriter = NopWriter{}
		enabled = false
		return nil
	}
	globalWriter = w
	enabled = true
	return nil
}

// InitFile installs a FileWriter for path. An empty path disables audit logging.
func InitFile(path string) error {
	if path == "" {
		return Init(nil)
	}
	w, err := NewFileWriter(path)
	if err != nil {
		return err
	}
	return Init(w)
}

// Close closes the global writer and disables audit logging.
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	err := globalWriter.Close()
	globalWriter = NopWriter{}
	enabled = false
	return err
}

func Enabled() bool {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return enabled
}

// Log writes event to the global writer.
func Log(event *Event) error {
	globalMu.RLock()
	w := globalWriter
	globalMu.RUnlock()

	return w.Write(event)
}

// MustLog is Log with an error suitable for failing the parent operation:
//
//	if err := audit.MustLog(event); err != nil {
//	    return nil, err
//	}
func MustLog(event *Event) error {
	if err := Log(event); err != nil {
		return fmt.Errorf("audit log failed: %w", err)
	}
	return nil
}

func logKeyEvent(t EventType, source, algorithm string, obj Object, ctx Context, opErr error) error {
	result, reason := resultOf(opErr)
	ctx.Algorithm = algorithm
	ctx.Source = source
	ctx.Reason = reason
	if obj.Type == "" {
		obj.Type = "key"
	}
	return MustLog(NewEvent(t, result).WithObject(obj).WithContext(ctx))
}

// LogKEMKeygen records a KEM key generation. fingerprint is Fingerprint of
// the new public key.
func LogKEMKeygen(source, algorithm, fingerprint string, seeded bool, opErr error) error {
	return logKeyEvent(EventKEMKeygen, source, algorithm,
		Object{Fingerprint: fingerprint}, Context{Seeded: seeded}, opErr)
}

// LogKEMEncaps records an encapsulation to the peer key with fingerprint.
func LogKEMEncaps(source, algorithm, fingerprint string, opErr error) error {
	return logKeyEvent(EventKEMEncaps, source, algorithm,
		Object{Fingerprint: fingerprint}, Context{}, opErr)
}

// LogKEMDecaps records a decapsulation. Only the ciphertext size is kept.
func LogKEMDecaps(source, algorithm string, ciphertextSize int, opErr error) error {
	return logKeyEvent(EventKEMDecaps, source, algorithm,
		Object{}, Context{Size: ciphertextSize}, opErr)
}

func LogDSAKeygen(source, algorithm, fingerprint string, seeded bool, opErr error) error {
	return logKeyEvent(EventDSAKeygen, source, algorithm,
		Object{Fingerprint: fingerprint}, Context{Seeded: seeded}, opErr)
}

// LogDSASign records a signature over a message of messageSize bytes.
func LogDSASign(source, algorithm string, messageSize int, opErr error) error {
	return logKeyEvent(EventDSASign, source, algorithm,
		Object{}, Context{Size: messageSize}, opErr)
}

func LogDSAVerify(source, algorithm, fingerprint string, valid bool, opErr error) error {
	return logKeyEvent(EventDSAVerify, source, algorithm,
		Object{Fingerprint: fingerprint}, Context{Valid: valid}, opErr)
}

// LogTokenIssued records a key token bound to subject.
func LogTokenIssued(source, subject, boundFingerprint string, opErr error) error {
	return logKeyEvent(EventTokenIssued, source, "",
		Object{Type: "token", Subject: subject, Fingerprint: boundFingerprint}, Context{}, opErr)
}

func LogTokenVerified(source, subject string, opErr error) error {
	return logKeyEvent(EventTokenVerified, source, "",
		Object{Type: "token", Subject: subject}, Context{Valid: opErr == nil}, opErr)
}

// LogServerStarted records the API server start on addr.
func LogServerStarted(addr string) error {
	event := NewEvent(EventServerStarted, ResultSuccess).
		WithActor(Actor{Type: "service", ID: "qkit"}).
		WithObject(Object{Type: "server", Path: addr}).
		WithContext(Context{Source: SourceAPI})
	return MustLog(event)
}
