package main

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

func TestF_Info(t *testing.T) {
	tc := newTestContext(t)

	out := tc.run("info")
	assertContains(t, out, "qkit library "+crypto.Version)
	assertContains(t, out, "ML-KEM-768 (ml-kem-768)")
	assertContains(t, out, "ML-DSA-65 (ml-dsa-65)")
	assertContains(t, out, "Signature:      3309 bytes")
}

func TestF_Info_SingleAlgorithm(t *testing.T) {
	tc := newTestContext(t)

	out := tc.run("info", "--algorithm", "ML-KEM-768", "--format", "json")
	var doc infoOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(doc.Algorithms) != 1 || doc.Algorithms[0].ID != crypto.AlgMLKEM768 {
		t.Errorf("algorithms = %+v", doc.Algorithms)
	}
	if doc.Algorithms[0].CiphertextSize != 1088 {
		t.Errorf("CiphertextSize = %d", doc.Algorithms[0].CiphertextSize)
	}
}

func TestF_Info_YAML(t *testing.T) {
	tc := newTestContext(t)

	out := tc.run("info", "--format", "yaml")
	var doc infoOutput
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out)
	}
	if doc.Version != crypto.Version || len(doc.Algorithms) != 2 {
		t.Errorf("doc = %+v", doc)
	}
	assertContains(t, out, "security_level:")
}

func TestF_Info_Errors(t *testing.T) {
	_, err := executeCommand(rootCmd, "info", "--algorithm", "ml-kem-512")
	assertError(t, err)

	_, err = executeCommand(rootCmd, "info", "--format", "xml")
	assertError(t, err)
}
