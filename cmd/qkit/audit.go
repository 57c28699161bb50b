package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remiblancher/post-quantum-kit/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log management",
	Long: `Commands for managing and verifying audit logs.

The audit log provides a tamper-evident record of key operations. Each
event is chained to the previous one with a SHA-256 hash. Private keys,
seeds and shared secrets are never recorded.

Examples:
  # Verify audit log integrity
  qkit audit verify --log /var/log/qkit/audit.jsonl

  # Show last 10 events
  qkit audit tail --log /var/log/qkit/audit.jsonl -n 10`,
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify audit log integrity",
	Long: `Verify the hash chain of an audit log file.

The chain starts with hash_prev="sha256:genesis" for the first event.
A modified, deleted or inserted event breaks the chain, and the command
reports the first line that does not verify.`,
	RunE: runAuditVerify,
}

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show recent audit events",
	RunE:  runAuditTail,
}

var (
	auditLogFile  string
	auditTailNum  int
	auditShowJSON bool
)

func init() {
	auditVerifyCmd.Flags().StringVar(&auditLogFile, "log", "", "Path to audit log file (required)")
	_ = auditVerifyCmd.MarkFlagRequired("log")

	auditTailCmd.Flags().StringVar(&auditLogFile, "log", "", "Path to audit log file (required)")
	_ = auditTailCmd.MarkFlagRequired("log")
	auditTailCmd.Flags().IntVarP(&auditTailNum, "num", "n", 10, "Number of events to show")
	auditTailCmd.Flags().BoolVar(&auditShowJSON, "json", false, "Output as JSON lines")

	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Verifying audit log: %s\n\n", auditLogFile)

	count, err := audit.VerifyChain(auditLogFile)
	if err != nil {
		fmt.Fprintf(out, "VERIFICATION FAILED\n")
		fmt.Fprintf(out, "  Valid events: %d\n", count)
		fmt.Fprintf(out, "  Error: %s\n", err)
		return fmt.Errorf("audit log verification failed: %w", err)
	}

	fmt.Fprintf(out, "VERIFICATION PASSED\n")
	fmt.Fprintf(out, "  Total events: %d\n", count)
	fmt.Fprintf(out, "  Hash chain: VALID\n")
	return nil
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	f, err := os.Open(auditLogFile)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}
	defer f.Close()

	// Keep only the last N lines while streaming.
	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if auditTailNum > 0 && len(lines) > auditTailNum {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(lines) == 0 {
		fmt.Fprintln(out, "Audit log is empty")
		return nil
	}

	for _, line := range lines {
		if auditShowJSON {
			fmt.Fprintln(out, line)
			continue
		}
		var event audit.Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			fmt.Fprintf(out, "  [ERROR] %s\n", err)
			continue
		}
		printEvent(out, &event)
	}
	return nil
}

func printEvent(w io.Writer, e *audit.Event) {
	resultIcon := "✓"
	if e.Result == audit.ResultFailure {
		resultIcon = "✗"
	}

	fmt.Fprintf(w, "[%s] %s %s\n", e.Timestamp, resultIcon, e.EventType)
	fmt.Fprintf(w, "    Actor:  %s@%s\n", e.Actor.ID, e.Actor.Host)

	if e.Object.Type != "" {
		fmt.Fprintf(w, "    Object: %s", e.Object.Type)
		if e.Object.Fingerprint != "" {
			fmt.Fprintf(w, " fingerprint=%s", e.Object.Fingerprint)
		}
		if e.Object.Subject != "" {
			fmt.Fprintf(w, " subject=%s", e.Object.Subject)
		}
		if e.Object.Path != "" {
			fmt.Fprintf(w, " path=%s", e.Object.Path)
		}
		fmt.Fprintln(w)
	}

	if c := e.Context; c.Algorithm != "" || c.Source != "" || c.Reason != "" {
		fmt.Fprint(w, "    Context:")
		if c.Source != "" {
			fmt.Fprintf(w, " source=%s", c.Source)
		}
		if c.Algorithm != "" {
			fmt.Fprintf(w, " algorithm=%s", c.Algorithm)
		}
		if c.Size > 0 {
			fmt.Fprintf(w, " size=%d", c.Size)
		}
		if c.Reason != "" {
			fmt.Fprintf(w, " reason=%s", c.Reason)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
}
