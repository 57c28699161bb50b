package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
	"github.com/remiblancher/post-quantum-kit/pkg/dsa"
	"github.com/remiblancher/post-quantum-kit/pkg/kem"
)

// parseSeedHex decodes a --seed value. An empty value means no seed.
func parseSeedHex(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	seed, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: seed is not hex: %v", crypto.ErrInvalidInput, err)
	}
	return seed, nil
}

// readInput reads path, or stdin when path is "-".
func readInput(in io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(in)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func writeOutput(path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// readPublicKeyPEM loads a PEM public key of either algorithm. Key pair
// files work too since they carry the public block.
func readPublicKeyPEM(path string) ([]byte, crypto.AlgorithmID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read public key: %w", err)
	}
	if pub, err := kem.ParsePublicKeyPEM(data); err == nil {
		return pub, kem.Algorithm, nil
	}
	pub, err := dsa.ParsePublicKeyPEM(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: no %s or %s block found", path, kem.PEMTypePublicKey, dsa.PEMTypePublicKey)
	}
	return pub, dsa.Algorithm, nil
}

func loadKEMKeyPair(path string) (*kem.KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	kp, err := kem.ParseKeyPairPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return kp, nil
}

func loadDSAKeyPair(path string) (*dsa.KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	kp, err := dsa.ParseKeyPairPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return kp, nil
}
