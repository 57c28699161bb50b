package handler

import (
	"net/http"

	"github.com/remiblancher/post-quantum-kit/internal/api/dto"
	"github.com/remiblancher/post-quantum-kit/internal/api/service"
)

// DSAHandler handles ML-DSA-65 requests.
type DSAHandler struct {
	service *service.DSAService
}

// NewDSAHandler creates a new DSAHandler.
func NewDSAHandler(dsaService *service.DSAService) *DSAHandler {
	return &DSAHandler{service: dsaService}
}

// Generate handles POST /api/v1/dsa/generate
func (h *DSAHandler) Generate(w http.ResponseWriter, r *http.Request) {
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

// Sign handles POST /api/v1/dsa/sign
func (h *DSAHandler) Sign(w http.ResponseWriter, r *http.Request) {
	var req dto.SignRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Sign(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Verify handles POST /api/v1/dsa/verify. A signature that does not
// verify is a 200 with valid=false.
func (h *DSAHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyRequest
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

// Sizes handles GET /api/v1/dsa/sizes
func (h *DSAHandler) Sizes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Sizes())
}
