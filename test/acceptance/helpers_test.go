//go:build acceptance

// Package acceptance contains black-box CLI acceptance tests (TestA_*).
// Run with: go test -tags=acceptance ./test/acceptance/...
package acceptance

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// qkitBinary is the path to the qkit binary.
// Set via QKIT_BINARY env var or default to ./bin/qkit in the repo root.
var qkitBinary string

func init() {
	if bin := os.Getenv("QKIT_BINARY"); bin != "" {
		qkitBinary = bin
	} else {
		qkitBinary = "../../bin/qkit"
	}
}

// runQKIT executes the qkit CLI with the given arguments and returns stdout.
// Fails the test if the command returns a non-zero exit code.
func runQKIT(t *testing.T, args ...string) string {
	t.Helper()
	cmd := exec.Command(qkitBinary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("qkit %s failed: %v\nstderr: %s\nstdout: %s",
			strings.Join(args, " "), err, stderr.String(), stdout.String())
	}
	return stdout.String()
}

// runQKITExpectError executes qkit and expects it to fail.
// Returns the combined output (stdout + stderr).
func runQKITExpectError(t *testing.T, args ...string) string {
	t.Helper()
	cmd := exec.Command(qkitBinary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err == nil {
		t.Fatalf("qkit %s expected to fail but succeeded\nstdout: %s",
			strings.Join(args, " "), stdout.String())
	}
	return stdout.String() + stderr.String()
}

// assertFileExists verifies that a file exists at the given path.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("file %s does not exist", path)
	}
}

// assertOutputContains verifies that output contains want.
func assertOutputContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("expected output to contain %q, got:\n%s", want, output)
	}
}

// sharedSecret returns the value of the "Shared secret:" line.
func sharedSecret(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if v, ok := strings.CutPrefix(line, "Shared secret: "); ok {
			return strings.TrimSpace(v)
		}
	}
	t.Fatalf("no shared secret in output:\n%s", output)
	return ""
}
