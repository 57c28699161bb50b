// Package dto provides Data Transfer Objects for the REST API.
//
// Byte fields are []byte, which encoding/json carries as standard base64.
package dto

import (
	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// APIError represents a standardized error response.
type APIError struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details provides additional context about the error.
	Details map[string]string `json:"details,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Services map[string]string `json:"services,omitempty"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Ready  bool            `json:"ready"`
	Checks map[string]bool `json:"checks,omitempty"`
}

// InfoResponse lists the library version and every algorithm descriptor.
type InfoResponse struct {
	Version    string        `json:"version"`
	Algorithms []crypto.Info `json:"algorithms"`
}

// GenerateRequest is shared by the KEM and DSA generate endpoints.
// An absent seed generates from the secure random source.
type GenerateRequest struct {
	Seed []byte `json:"seed,omitempty"`
}

// KeyPairResponse holds a generated key pair.
type KeyPairResponse struct {
	Algorithm   string `json:"algorithm"`
	PublicKey   []byte `json:"public_key"`
	PrivateKey  []byte `json:"private_key"`
	Fingerprint string `json:"fingerprint"`
}
