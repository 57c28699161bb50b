package handler

import (
	"net/http"

	"github.com/remiblancher/post-quantum-kit/internal/api/dto"
	"github.com/remiblancher/post-quantum-kit/internal/api/service"
)

// TokenHandler handles key token requests.
type TokenHandler struct {
	service *service.TokenService
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(tokenService *service.TokenService) *TokenHandler {
	return &TokenHandler{service: tokenService}
}

// Issue handles POST /api/v1/token/issue
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenIssueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Issue(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Verify handles POST /api/v1/token/verify
func (h *TokenHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Verify(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
