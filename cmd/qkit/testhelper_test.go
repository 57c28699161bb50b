package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCommand executes a Cobra command with the given args and returns output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	return executeCommandWithInput(root, nil, args...)
}

// executeCommandWithInput is executeCommand with stdin set to in.
func executeCommandWithInput(root *cobra.Command, in io.Reader, args ...string) (output string, err error) {
	resetFlags(root)

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(in)
	root.SetArgs(args)

	err = root.Execute()
	return buf.String(), err
}

// resetFlags restores every flag of cmd and its children to its default.
// Cobra retains flag values, and their Changed state, between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// testContext holds test resources.
type testContext struct {
	t       *testing.T
	tempDir string
}

// newTestContext creates a new test context with a temp directory.
func newTestContext(t *testing.T) *testContext {
	t.Helper()
	return &testContext{t: t, tempDir: t.TempDir()}
}

// path returns a path within the temp directory.
func (tc *testContext) path(name string) string {
	return filepath.Join(tc.tempDir, name)
}

// writeFile writes content to a file in the temp directory.
func (tc *testContext) writeFile(name string, content []byte) string {
	tc.t.Helper()
	path := tc.path(name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		tc.t.Fatalf("Failed to write file %s: %v", name, err)
	}
	return path
}

// readFile returns the content of a file in the temp directory.
func (tc *testContext) readFile(name string) []byte {
	tc.t.Helper()
	data, err := os.ReadFile(tc.path(name))
	if err != nil {
		tc.t.Fatalf("Failed to read file %s: %v", name, err)
	}
	return data
}

// run executes args and fails the test on error.
func (tc *testContext) run(args ...string) string {
	tc.t.Helper()
	out, err := executeCommand(rootCmd, args...)
	if err != nil {
		tc.t.Fatalf("qkit %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// =============================================================================
// Assertion Helpers
// =============================================================================

// assertFileExists verifies that a file exists at the given path.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("file %s does not exist", path)
	}
}

// assertNoError fails the test if err is not nil.
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertError fails the test if err is nil.
func assertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// assertContains fails the test if out does not contain want.
func assertContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Errorf("output does not contain %q:\n%s", want, out)
	}
}

// sharedSecretOf extracts the hex value of a "Shared secret:" line.
func sharedSecretOf(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if v, ok := strings.CutPrefix(line, "Shared secret: "); ok {
			return strings.TrimSpace(v)
		}
	}
	t.Fatalf("no shared secret in output:\n%s", out)
	return ""
}
