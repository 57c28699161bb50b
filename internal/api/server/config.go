// Package server provides HTTP server configuration and lifecycle management.
package server

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/remiblancher/post-quantum-kit/internal/logging"
)

// Config holds the server configuration.
type Config struct {
	// Host is the address to bind to (default: "").
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// TLS configuration (optional). Both files must be set together.
	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`

	// MaxConnections caps concurrently accepted connections; 0 means no cap.
	MaxConnections int   `yaml:"max_connections"`
	MaxBodyBytes   int64 `yaml:"max_body_bytes"`

	// Timeouts
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// AuditLog is the hash-chained audit file; empty disables auditing.
	AuditLog string `yaml:"audit_log"`

	Token TokenConfig `yaml:"token"`
}

// TokenConfig configures the key-token endpoints.
type TokenConfig struct {
	Issuer string        `yaml:"issuer"`
	TTL    time.Duration `yaml:"ttl"`

	// SigningKey is the path of an ML-DSA-65 PEM key pair. The token
	// routes are disabled when it is empty.
	SigningKey string `yaml:"signing_key"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:            8443,
		Host:            "",
		MaxConnections:  1024,
		MaxBodyBytes:    1 << 20,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		LogFormat:       logging.FormatJSON,
		Token: TokenConfig{
			Issuer: "qkit",
			TTL:    24 * time.Hour,
		},
	}
}

// LoadConfig reads a YAML file over the defaults. Keys absent from the
// file keep their default value.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Environment variables read by ApplyEnv.
const (
	EnvHost       = "QKIT_HOST"
	EnvPort       = "QKIT_PORT"
	EnvTLSCert    = "QKIT_TLS_CERT"
	EnvTLSKey     = "QKIT_TLS_KEY"
	EnvLogLevel   = "QKIT_LOG_LEVEL"
	EnvLogFormat  = "QKIT_LOG_FORMAT"
	EnvAuditLog   = "QKIT_AUDIT_LOG"
	EnvTokenKey   = "QKIT_TOKEN_SIGNING_KEY"
	EnvTokenIssue = "QKIT_TOKEN_ISSUER"
)

// ApplyEnv overrides fields from QKIT_* environment variables. Unset or
// empty variables leave the field unchanged.
func (c *Config) ApplyEnv() error {
	strs := map[string]*string{
		EnvHost:       &c.Host,
		EnvTLSCert:    &c.TLSCert,
		EnvTLSKey:     &c.TLSKey,
		EnvLogLevel:   &c.LogLevel,
		EnvLogFormat:  &c.LogFormat,
		EnvAuditLog:   &c.AuditLog,
		EnvTokenKey:   &c.Token.SigningKey,
		EnvTokenIssue: &c.Token.Issuer,
	}
	for env, field := range strs {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}

	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Port = port
	}
	return nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return fmt.Errorf("tls_cert and tls_key must be set together")
	}
	if c.MaxConnections < 0 {
		return fmt.Errorf("max_connections must not be negative: %d", c.MaxConnections)
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must not be negative: %d", c.MaxBodyBytes)
	}

	timeouts := []struct {
		name string
		d    time.Duration
	}{
		{"read_timeout", c.ReadTimeout},
		{"write_timeout", c.WriteTimeout},
		{"idle_timeout", c.IdleTimeout},
		{"shutdown_timeout", c.ShutdownTimeout},
		{"token.ttl", c.Token.TTL},
	}
	for _, t := range timeouts {
		if t.d < 0 {
			return fmt.Errorf("%s must not be negative: %s", t.name, t.d)
		}
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}

// Address returns the full listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TLSEnabled reports whether the server serves HTTPS.
func (c *Config) TLSEnabled() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}
