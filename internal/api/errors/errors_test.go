package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
	"github.com/remiblancher/post-quantum-kit/pkg/token"
)

func TestU_MapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"[Unit] MapError: key length", crypto.LengthError(crypto.ErrInvalidKeyLength, "public key", 1184, 3), http.StatusBadRequest, CodeInvalidInput},
		{"[Unit] MapError: seed length", crypto.LengthError(crypto.ErrInvalidSeedLength, "seed", 32, 0), http.StatusBadRequest, CodeInvalidInput},
		{"[Unit] MapError: key encoding", fmt.Errorf("%w: bad", crypto.ErrInvalidKeyEncoding), http.StatusUnprocessableEntity, CodeInvalidEncoding},
		{"[Unit] MapError: ciphertext encoding", crypto.ErrInvalidCiphertextEncoding, http.StatusUnprocessableEntity, CodeInvalidEncoding},
		{"[Unit] MapError: entropy", fmt.Errorf("%w: EOF", crypto.ErrEntropy), http.StatusServiceUnavailable, CodeEntropyUnavailable},
		{"[Unit] MapError: decapsulation", crypto.ErrDecapsulation, http.StatusInternalServerError, CodeCryptoError},
		{"[Unit] MapError: signing", crypto.ErrSigning, http.StatusInternalServerError, CodeCryptoError},
		{"[Unit] MapError: token expired", token.ErrTokenExpired, http.StatusUnauthorized, CodeTokenExpired},
		{"[Unit] MapError: token signature", token.ErrInvalidSignature, http.StatusUnauthorized, CodeTokenInvalid},
		{"[Unit] MapError: body too large", fmt.Errorf("decode: %w", &http.MaxBytesError{Limit: 10}), http.StatusRequestEntityTooLarge, CodePayloadTooLarge},
		{"[Unit] MapError: unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, apiErr := MapError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if apiErr == nil || apiErr.Code != tt.wantCode {
				t.Errorf("code = %+v, want %s", apiErr, tt.wantCode)
			}
		})
	}
}

func TestU_MapError_Nil(t *testing.T) {
	status, apiErr := MapError(nil)
	if status != http.StatusOK || apiErr != nil {
		t.Errorf("MapError(nil) = %d, %+v", status, apiErr)
	}
}

func TestU_MapError_LengthDetails(t *testing.T) {
	_, apiErr := MapError(crypto.LengthError(crypto.ErrInvalidCiphertextLength, "ciphertext", 1088, 1))
	if apiErr.Details["field"] != "ciphertext" {
		t.Errorf("details = %v", apiErr.Details)
	}
}

func TestU_MapError_EntropyHidesCause(t *testing.T) {
	_, apiErr := MapError(fmt.Errorf("%w: /dev/urandom: permission denied", crypto.ErrEntropy))
	if apiErr.Message != "secure random source unavailable" {
		t.Errorf("message = %q", apiErr.Message)
	}
}
