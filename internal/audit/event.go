// Package audit provides the hash-chained audit log for key operations.
//
// Audit logs are separate from technical logs:
//   - Audit failure = Operation failure
//   - Never log secrets (private keys, seeds, shared secrets)
//   - All timestamps in UTC
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// EventType represents the category of audit event.
type EventType string

const (
	// KEM events
	EventKEMKeygen EventType = "KEM_KEYGEN"
	EventKEMEncaps EventType = "KEM_ENCAPS"
	EventKEMDecaps EventType = "KEM_DECAPS"

	// DSA events
	EventDSAKeygen EventType = "DSA_KEYGEN"
	EventDSASign   EventType = "DSA_SIGN"
	EventDSAVerify EventType = "DSA_VERIFY"

	// Token events
	EventTokenIssued   EventType = "TOKEN_ISSUED"
	EventTokenVerified EventType = "TOKEN_VERIFIED"

	EventServerStarted EventType = "SERVER_STARTED"
)

// Result represents the outcome of an audited operation.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// Actor represents who performed the action.
type Actor struct {
	Type string `json:"type"` // "user", "service"
	ID   string `json:"id"`
	Host string `json:"host,omitempty"`
}

// Object represents the key the operation used.
type Object struct {
	Type        string `json:"type"` // "key", "token", "server"
	Fingerprint string `json:"fingerprint,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Path        string `json:"path,omitempty"`
}

// Context provides additional details about the operation.
type Context struct {
	Algorithm string `json:"algorithm,omitempty"`
	Source    string `json:"source,omitempty"` // "cli" or "api"
	Seeded    bool   `json:"seeded,omitempty"`
	Valid     bool   `json:"valid,omitempty"`
	Size      int    `json:"size,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Event represents a single audit log entry.
type Event struct {
	EventType EventType `json:"event_type"`
	Timestamp string    `json:"timestamp"` // RFC3339 UTC
	Actor     Actor     `json:"actor"`
	Object    Object    `json:"object"`
	Context   Context   `json:"context,omitempty"`
	Result    Result    `json:"result"`
	HashPrev  string    `json:"hash_prev"`
	Hash      string    `json:"hash"`
}

// NewEvent creates an event stamped now and attributed to the local user.
func NewEvent(eventType EventType, result Result) *Event {
	hostname, _ := os.Hostname()
	username := os.Getenv("USER")
	if username == "" {
		username = "unknown"
	}

	return &Event{
		EventType: eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Actor: Actor{
			Type: "user",
			ID:   username,
			Host: hostname,
		},
		Result: result,
	}
}

func (e *Event) WithObject(obj Object) *Event {
	e.Object = obj
	return e
}

func (e *Event) WithContext(ctx Context) *Event {
	e.Context = ctx
	return e
}

func (e *Event) WithActor(actor Actor) *Event {
	e.Actor = actor
	return e
}

// Validate checks that required fields are present.
func (e *Event) Validate() error {
	switch {
	case e.EventType == "":
		return fmt.Errorf("event_type is required")
	case e.Timestamp == "":
		return fmt.Errorf("timestamp is required")
	case e.Actor.Type == "" || e.Actor.ID == "":
		return fmt.Errorf("actor type and id are required")
	case e.Result == "":
		return fmt.Errorf("result is required")
	}
	return nil
}

// CanonicalJSON returns the event without its Hash, the input of the
// chain hash.
func (e *Event) CanonicalJSON() ([]byte, error) {
	type hashed struct {
		EventType EventType `json:"event_type"`
		Timestamp string    `json:"timestamp"`
		Actor     Actor     `json:"actor"`
		Object    Object    `json:"object"`
		Context   Context   `json:"context,omitempty"`
		Result    Result    `json:"result"`
		HashPrev  string    `json:"hash_prev"`
	}
	return json.Marshal(hashed{
		EventType: e.EventType,
		Timestamp: e.Timestamp,
		Actor:     e.Actor,
		Object:    e.Object,
		Context:   e.Context,
		Result:    e.Result,
		HashPrev:  e.HashPrev,
	})
}

// Fingerprint identifies a public key in audit records without logging it:
// "sha256:" followed by the hex digest of the encoding.
func Fingerprint(publicKey []byte) string {
	sum := sha256.Sum256(publicKey)
	return HashPrefix + hex.EncodeToString(sum[:])
}

func resultOf(err error) (Result, string) {
	if err != nil {
		return ResultFailure, err.Error()
	}
	return ResultSuccess, ""
}
