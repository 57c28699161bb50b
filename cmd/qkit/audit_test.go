package main

import (
	"os"
	"strings"
	"testing"

	"github.com/remiblancher/post-quantum-kit/internal/audit"
	"github.com/remiblancher/post-quantum-kit/internal/logging"
)

// =============================================================================
// Audit Command Tests
// =============================================================================

func TestF_Audit_RecordsAndVerifies(t *testing.T) {
	tc := newTestContext(t)
	logPath := tc.path("audit.jsonl")
	msg := tc.writeFile("msg.txt", []byte("hello"))

	tc.run("--audit-log", logPath, "dsa", "gen", "--out", tc.path("signer.pem"))
	tc.run("--audit-log", logPath, "dsa", "sign", "--key", tc.path("signer.pem"), "--in", msg, "--out", tc.path("msg.sig"))
	tc.run("--audit-log", logPath, "dsa", "verify", "--pub", tc.path("signer.pem"), "--in", msg, "--sig", tc.path("msg.sig"))

	out := tc.run("audit", "verify", "--log", logPath)
	assertContains(t, out, "VERIFICATION PASSED")
	assertContains(t, out, "Total events: 3")

	data := tc.readFile("audit.jsonl")
	for _, secret := range []string{"PRIVATE KEY", "hello"} {
		if strings.Contains(string(data), secret) {
			t.Errorf("audit log contains %q", secret)
		}
	}

	out = tc.run("audit", "tail", "--log", logPath, "-n", "2")
	assertContains(t, out, "DSA_SIGN")
	assertContains(t, out, "DSA_VERIFY")
	if strings.Contains(out, "DSA_KEYGEN") {
		t.Errorf("tail -n 2 shows the first event:\n%s", out)
	}
}

func TestF_Audit_EnvVariable(t *testing.T) {
	tc := newTestContext(t)
	logPath := tc.path("env-audit.jsonl")
	t.Setenv("QKIT_AUDIT_LOG", logPath)

	tc.run("kem", "gen", "--out", tc.path("k.pem"))
	assertFileExists(t, logPath)
}

func TestF_Audit_DetectsTampering(t *testing.T) {
	tc := newTestContext(t)
	logPath := tc.path("audit.jsonl")

	tc.run("--audit-log", logPath, "kem", "gen", "--out", tc.path("a.pem"))
	tc.run("--audit-log", logPath, "kem", "gen", "--out", tc.path("b.pem"))

	data := tc.readFile("audit.jsonl")
	tampered := strings.Replace(string(data), `"result":"success"`, `"result":"failure"`, 1)
	if err := os.WriteFile(logPath, []byte(tampered), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "audit", "verify", "--log", logPath)
	assertError(t, err)
	assertContains(t, out, "VERIFICATION FAILED")
}

func TestF_Audit_ClosedAfterFailedCommand(t *testing.T) {
	tc := newTestContext(t)
	logPath := tc.path("audit.jsonl")
	before := logging.L()

	_, err := executeCommand(rootCmd, "--audit-log", logPath, "--log-level", "debug",
		"dsa", "sign", "--key", tc.path("missing.pem"), "--in", tc.path("missing.txt"), "--out", tc.path("x.sig"))
	assertError(t, err)

	if audit.Enabled() {
		t.Error("audit log still open after a failed command")
	}
	if logging.L() != before {
		t.Error("command logger not restored after a failed command")
	}
}
