// Package errors provides error handling and HTTP status code mapping.
package errors

import (
	"errors"
	"net/http"

	"github.com/remiblancher/post-quantum-kit/internal/api/dto"
	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
	"github.com/remiblancher/post-quantum-kit/pkg/token"
)

// Error codes for API responses.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidEncoding    = "INVALID_ENCODING"
	CodeEntropyUnavailable = "ENTROPY_UNAVAILABLE"
	CodeCryptoError        = "CRYPTO_ERROR"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeNotFound           = "NOT_FOUND"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeInternal           = "INTERNAL_ERROR"
)

// MapError maps an error from the crypto modules to an HTTP status code
// and APIError.
func MapError(err error) (int, *dto.APIError) {
	if err == nil {
		return http.StatusOK, nil
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, &dto.APIError{
			Code:    CodePayloadTooLarge,
			Message: err.Error(),
		}
	case errors.Is(err, token.ErrTokenExpired), errors.Is(err, token.ErrTokenNotYetValid):
		return http.StatusUnauthorized, &dto.APIError{
			Code:    CodeTokenExpired,
			Message: err.Error(),
		}
	case errors.Is(err, token.ErrMalformedToken), errors.Is(err, token.ErrInvalidSignature):
		return http.StatusUnauthorized, &dto.APIError{
			Code:    CodeTokenInvalid,
			Message: err.Error(),
		}
	case errors.Is(err, crypto.ErrInvalidInput):
		return http.StatusBadRequest, &dto.APIError{
			Code:    CodeInvalidInput,
			Message: err.Error(),
			Details: lengthDetails(err),
		}
	case errors.Is(err, crypto.ErrInvalidKeyEncoding), errors.Is(err, crypto.ErrInvalidCiphertextEncoding):
		return http.StatusUnprocessableEntity, &dto.APIError{
			Code:    CodeInvalidEncoding,
			Message: err.Error(),
		}
	case errors.Is(err, crypto.ErrEntropy):
		return http.StatusServiceUnavailable, &dto.APIError{
			Code:    CodeEntropyUnavailable,
			Message: "secure random source unavailable",
		}
	case errors.Is(err, crypto.ErrDecapsulation), errors.Is(err, crypto.ErrSigning):
		return http.StatusInternalServerError, &dto.APIError{
			Code:    CodeCryptoError,
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, &dto.APIError{
		Code:    CodeInternal,
		Message: "An internal error occurred",
	}
}

func lengthDetails(err error) map[string]string {
	for kind, name := range map[error]string{
		crypto.ErrInvalidKeyLength:        "key",
		crypto.ErrInvalidCiphertextLength: "ciphertext",
		crypto.ErrInvalidSignatureLength:  "signature",
		crypto.ErrInvalidSeedLength:       "seed",
	} {
		if errors.Is(err, kind) {
			return map[string]string{"field": name}
		}
	}
	return nil
}

// NewBadRequest creates a bad request error.
func NewBadRequest(message string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeInvalidRequest,
		Message: message,
	}
}
