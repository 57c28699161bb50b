// Package handler provides HTTP handlers for the REST API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/remiblancher/post-quantum-kit/internal/api/dto"
	apierrors "github.com/remiblancher/post-quantum-kit/internal/api/errors"
	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// HealthHandler handles health, readiness and info endpoints.
type HealthHandler struct {
	version  string
	services []string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string, services []string) *HealthHandler {
	return &HealthHandler{
		version:  version,
		services: services,
	}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	serviceStatus := make(map[string]string, len(h.services))
	for _, s := range h.services {
		serviceStatus[s] = "ok"
	}

	respondJSON(w, http.StatusOK, dto.HealthResponse{
		Status:   "ok",
		Version:  h.version,
		Services: serviceStatus,
	})
}

// Ready handles GET /ready. The server is ready once the secure random
// source answers.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	var probe [1]byte
	checks := map[string]bool{
		"server":  true,
		"entropy": crypto.SecureRandom(probe[:]) == nil,
	}

	allReady := true
	for _, ready := range checks {
		allReady = allReady && ready
	}

	status := http.StatusOK
	if !allReady {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, dto.ReadyResponse{
		Ready:  allReady,
		Checks: checks,
	})
}

// Info handles GET /api/v1/info.
func (h *HealthHandler) Info(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.InfoResponse{
		Version:    crypto.Version,
		Algorithms: crypto.Algorithms(),
	})
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// respondError writes an error response.
func respondError(w http.ResponseWriter, status int, apiErr *dto.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiErr)
}

// handleServiceError maps err through apierrors.MapError.
func handleServiceError(w http.ResponseWriter, err error) {
	status, apiErr := apierrors.MapError(err)
	respondError(w, status, apiErr)
}

// decodeJSON decodes the request body into v and writes the error response
// when it cannot. An empty body decodes as the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		handleServiceError(w, err)
		return false
	}
	respondError(w, http.StatusBadRequest, apierrors.NewBadRequest("Invalid JSON request body: "+err.Error()))
	return false
}
