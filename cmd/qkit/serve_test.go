package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// loadServeConfigWith parses args against serveCmd and loads the config.
func loadServeConfigWith(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	if err := serveCmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	_, err := loadServeConfig(serveCmd)
	return err
}

func TestU_Serve_ConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qkit.yaml")
	if err := os.WriteFile(path, []byte("port: 9000\nhost: 127.0.0.1\nread_timeout: 3s\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Run("[Unit] Serve: file then env then flag", func(t *testing.T) {
		t.Setenv("QKIT_HOST", "0.0.0.0")
		t.Setenv("QKIT_PORT", "9100")

		resetFlags(rootCmd)
		if err := serveCmd.ParseFlags([]string{"--config", path, "--port", "9200"}); err != nil {
			t.Fatal(err)
		}
		cfg, err := loadServeConfig(serveCmd)
		assertNoError(t, err)

		if cfg.Port != 9200 {
			t.Errorf("Port = %d, want flag value 9200", cfg.Port)
		}
		if cfg.Host != "0.0.0.0" {
			t.Errorf("Host = %s, want env value", cfg.Host)
		}
		if cfg.ReadTimeout != 3*time.Second {
			t.Errorf("ReadTimeout = %s, want file value", cfg.ReadTimeout)
		}
	})

	t.Run("[Unit] Serve: invalid tls pair", func(t *testing.T) {
		assertError(t, loadServeConfigWith(t, "--tls-cert", "server.crt"))
	})

	t.Run("[Unit] Serve: missing config file", func(t *testing.T) {
		assertError(t, loadServeConfigWith(t, "--config", filepath.Join(dir, "absent.yaml")))
	})
}
