package handler

import (
	"net/http"

	"github.com/remiblancher/post-quantum-kit/internal/api/dto"
	"github.com/remiblancher/post-quantum-kit/internal/api/service"
)

// KEMHandler handles ML-KEM-768 requests.
type KEMHandler struct {
	service *service.KEMService
}

// NewKEMHandler creates a new KEMHandler.
func NewKEMHandler(kemService *service.KEMService) *KEMHandler {
	return &KEMHandler{service: kemService}
}

// Generate handles POST /api/v1/kem/generate
func (h *KEMHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Generate(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Encapsulate handles POST /api/v1/kem/encapsulate
func (h *KEMHandler) Encapsulate(w http.ResponseWriter, r *http.Request) {
	var req dto.EncapsulateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Encapsulate(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Decapsulate handles POST /api/v1/kem/decapsulate
func (h *KEMHandler) Decapsulate(w http.ResponseWriter, r *http.Request) {
	var req dto.DecapsulateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Decapsulate(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Sizes handles GET /api/v1/kem/sizes
func (h *KEMHandler) Sizes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Sizes())
}
