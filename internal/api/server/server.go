package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"github.com/remiblancher/post-quantum-kit/internal/api/router"
	"github.com/remiblancher/post-quantum-kit/internal/audit"
	"github.com/remiblancher/post-quantum-kit/internal/metrics"
	"github.com/remiblancher/post-quantum-kit/pkg/dsa"
)

// Server represents the HTTP server.
type Server struct {
	cfg     *Config
	version string
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New creates a new Server. A nil logger discards technical logs.
func New(cfg *Config, version string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg:     cfg,
		version: version,
		log:     log,
		metrics: metrics.New(),
	}
}

// Handler builds the router, loading the token signing key when one is
// configured.
func (s *Server) Handler() (http.Handler, error) {
	routerCfg := &router.Config{
		Version:      s.version,
		Logger:       s.log,
		Metrics:      s.metrics,
		MaxBodyBytes: s.cfg.MaxBodyBytes,
		TokenIssuer:  s.cfg.Token.Issuer,
		TokenTTL:     s.cfg.Token.TTL,
	}

	if s.cfg.Token.SigningKey != "" {
		data, err := os.ReadFile(s.cfg.Token.SigningKey)
		if err != nil {
			return nil, fmt.Errorf("failed to read token signing key: %w", err)
		}
		signer, err := dsa.ParseKeyPairPEM(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse token signing key %s: %w", s.cfg.Token.SigningKey, err)
		}
		routerCfg.TokenSigner = signer
	}

	return router.New(routerCfg), nil
}

// Start listens on the configured address and blocks until SIGINT or
// SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address(), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done or the server fails.
// Cancelling ctx triggers a graceful shutdown bounded by ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	handler, err := s.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	if s.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		ErrorLog:     zap.NewStdLog(s.log.Named("http")),
	}

	addr := ln.Addr().String()
	if err := audit.LogServerStarted(addr); err != nil {
		_ = ln.Close()
		return fmt.Errorf("audit: %w", err)
	}
	s.log.Info("server started",
		zap.String("address", addr),
		zap.String("version", s.version),
		zap.Bool("tls", s.cfg.TLSEnabled()),
		zap.Int("max_connections", s.cfg.MaxConnections),
		zap.Bool("token", s.cfg.Token.SigningKey != ""),
	)

	errChan := make(chan error, 1)
	go func() {
		if s.cfg.TLSEnabled() {
			errChan <- srv.ServeTLS(ln, s.cfg.TLSCert, s.cfg.TLSKey)
		} else {
			errChan <- srv.Serve(ln)
		}
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.log.Info("shutting down", zap.Duration("timeout", s.cfg.ShutdownTimeout))
		return s.shutdown(srv)
	}
}

// shutdown gracefully stops srv.
func (s *Server) shutdown(srv *http.Server) error {
	ctx := context.Background()
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.log.Info("server stopped gracefully")
	return nil
}
