// Package router provides HTTP routing configuration using Chi.
package router

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apierrors "github.com/remiblancher/post-quantum-kit/internal/api/errors"
	"github.com/remiblancher/post-quantum-kit/internal/api/handler"
	"github.com/remiblancher/post-quantum-kit/internal/api/middleware"
	"github.com/remiblancher/post-quantum-kit/internal/api/service"
	"github.com/remiblancher/post-quantum-kit/internal/metrics"
	"github.com/remiblancher/post-quantum-kit/pkg/dsa"
)

//go:embed openapi.yaml
var openapiSpec []byte

// DefaultMaxBodyBytes caps request bodies when Config.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 1 << 20

// Config holds router configuration.
type Config struct {
	Version      string
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	MaxBodyBytes int64

	// Token routes are mounted only when TokenSigner is set.
	TokenSigner *dsa.KeyPair
	TokenIssuer string
	TokenTTL    time.Duration
}

// Services lists the enabled API services.
func (c *Config) Services() []string {
	services := []string{"kem", "dsa"}
	if c.TokenSigner != nil {
		services = append(services, "token")
	}
	return services
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody == 0 {
		maxBody = DefaultMaxBodyBytes
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.CORS)
	r.Use(middleware.BodyLimit(maxBody))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	healthHandler := handler.NewHealthHandler(cfg.Version, cfg.Services())
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Get("/api/openapi.yaml", serveOpenAPISpec)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	obs := service.NewObserver(log, cfg.Metrics)
	kemHandler := handler.NewKEMHandler(service.NewKEMService(obs))
	dsaHandler := handler.NewDSAHandler(service.NewDSAService(obs))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/info", healthHandler.Info)

		r.Route("/kem", func(r chi.Router) {
			r.Post("/generate", kemHandler.Generate)
			r.Post("/encapsulate", kemHandler.Encapsulate)
			r.Post("/decapsulate", kemHandler.Decapsulate)
			r.Get("/sizes", kemHandler.Sizes)
		})

		r.Route("/dsa", func(r chi.Router) {
			r.Post("/generate", dsaHandler.Generate)
			r.Post("/sign", dsaHandler.Sign)
			r.Post("/verify", dsaHandler.Verify)
			r.Get("/sizes", dsaHandler.Sizes)
		})

		if cfg.TokenSigner != nil {
			tokenHandler := handler.NewTokenHandler(
				service.NewTokenService(obs, cfg.TokenSigner, cfg.TokenIssuer, cfg.TokenTTL))
			r.Route("/token", func(r chi.Router) {
				r.Post("/issue", tokenHandler.Issue)
				r.Post("/verify", tokenHandler.Verify)
			})
		}
	})

	r.NotFound(notFound)
	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"code":"` + apierrors.CodeNotFound + `","message":"route not found"}` + "\n"))
}

// serveOpenAPISpec serves the OpenAPI specification file.
func serveOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapiSpec)
}
