package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remiblancher/post-quantum-kit/internal/api/server"
	"github.com/remiblancher/post-quantum-kit/internal/audit"
	"github.com/remiblancher/post-quantum-kit/internal/logging"
	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// Serve command flags
var (
	serveConfig   string
	servePort     int
	serveHost     string
	serveTLSCert  string
	serveTLSKey   string
	serveMaxConns int
	serveTokenKey string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API exposing KEM, DSA and key token operations.

Settings come from the defaults, then the --config YAML file, then QKIT_*
environment variables, then command line flags.

Environment variables:
  QKIT_HOST               Address to bind to
  QKIT_PORT               Listen port
  QKIT_TLS_CERT           TLS certificate file
  QKIT_TLS_KEY            TLS private key file
  QKIT_LOG_LEVEL          Technical log level
  QKIT_LOG_FORMAT         json or console
  QKIT_AUDIT_LOG          Audit log file
  QKIT_TOKEN_SIGNING_KEY  ML-DSA-65 key pair enabling /api/v1/token
  QKIT_TOKEN_ISSUER       Issuer name written into tokens

Examples:
  qkit serve --port 8080
  qkit serve --config /etc/qkit/qkit.yaml
  qkit serve --port 8443 --tls-cert server.crt --tls-key server.key --token-key issuer.pem`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "YAML configuration file")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default: 8443)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: all interfaces)")
	serveCmd.Flags().StringVar(&serveTLSCert, "tls-cert", "", "TLS certificate file")
	serveCmd.Flags().StringVar(&serveTLSKey, "tls-key", "", "TLS private key file")
	serveCmd.Flags().IntVar(&serveMaxConns, "max-connections", 0, "Maximum concurrent connections")
	serveCmd.Flags().StringVar(&serveTokenKey, "token-key", "", "ML-DSA-65 key pair file enabling token routes")
}

// loadServeConfig builds the server configuration from its layered sources.
func loadServeConfig(cmd *cobra.Command) (*server.Config, error) {
	cfg := server.DefaultConfig()
	if serveConfig != "" {
		var err error
		if cfg, err = server.LoadConfig(serveConfig); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = servePort
	}
	if flags.Changed("host") {
		cfg.Host = serveHost
	}
	if flags.Changed("tls-cert") {
		cfg.TLSCert = serveTLSCert
	}
	if flags.Changed("tls-key") {
		cfg.TLSKey = serveTLSKey
	}
	if flags.Changed("max-connections") {
		cfg.MaxConnections = serveMaxConns
	}
	if flags.Changed("token-key") {
		cfg.Token.SigningKey = serveTokenKey
	}
	if cmd.Root().PersistentFlags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if auditLogPath != "" {
		cfg.AuditLog = auditLogPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer logging.SetGlobal(log)()
	defer func() { _ = log.Sync() }()

	// The root command already opened --audit-log / QKIT_AUDIT_LOG.
	if !audit.Enabled() && cfg.AuditLog != "" {
		if err := audit.InitFile(cfg.AuditLog); err != nil {
			return fmt.Errorf("failed to initialize audit log: %w", err)
		}
	}

	srv := server.New(cfg, crypto.Version, log)
	return srv.Start()
}
