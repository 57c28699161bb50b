// Command qkit is the CLI for the post-quantum KEM/DSA kit.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/remiblancher/post-quantum-kit/internal/audit"
	"github.com/remiblancher/post-quantum-kit/internal/logging"
	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

// Build-time variables (injected by GoReleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	auditLogPath string
	logLevel     string
	logFormat    string
)

// restoreLogger undoes the SetGlobal of the running command.
var restoreLogger = func() {}

func main() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "qkit",
	Short: "Post-quantum KEM and signature toolkit",
	Long: `qkit wraps ML-KEM-768 (FIPS 203) and ML-DSA-65 (FIPS 204) behind a
small command line and HTTP API.

Keys are stored as PEM files holding the raw FIPS encodings. Binary
outputs (ciphertexts, signatures, tokens) are written as raw bytes.

Examples:
  # Key establishment
  qkit kem gen --out alice.pem
  qkit kem encaps --pub alice.pem --out ct.bin
  qkit kem decaps --key alice.pem --in ct.bin

  # Signatures
  qkit dsa gen --out signer.pem
  qkit dsa sign --key signer.pem --in message.txt --out message.sig
  qkit dsa verify --pub signer.pem --in message.txt --sig message.sig

  # API server
  qkit serve --config qkit.yaml`,
	Version:       fmt.Sprintf("%s (library %s, commit: %s, built: %s)", version, crypto.Version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if auditLogPath == "" {
			auditLogPath = os.Getenv("QKIT_AUDIT_LOG")
		}
		if logLevel == "" {
			logLevel = os.Getenv("QKIT_LOG_LEVEL")
		}

		log, err := logging.New(logging.Config{Level: logLevel, Format: logFormat})
		if err != nil {
			return err
		}
		restoreLogger = logging.SetGlobal(log)

		if auditLogPath != "" {
			if err := audit.InitFile(auditLogPath); err != nil {
				return fmt.Errorf("failed to initialize audit log: %w", err)
			}
		}
		return nil
	},
}

// finalize runs after every command, including failed ones.
func finalize() {
	if err := audit.Close(); err != nil {
		logging.L().Warn("failed to close audit log", zap.Error(err))
	}
	_ = logging.L().Sync()
	restoreLogger()
	restoreLogger = func() {}
}

func init() {
	cobra.OnFinalize(finalize)

	rootCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "",
		"Path to audit log file (or set QKIT_AUDIT_LOG env var)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Technical log level: debug, info, warn, error (or set QKIT_LOG_LEVEL env var)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatConsole,
		"Technical log format: json or console")

	rootCmd.AddCommand(kemCmd)
	rootCmd.AddCommand(dsaCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(serveCmd)
}

// logTook writes the per-operation timing line at debug level.
func logTook(op string, start time.Time, fields ...zap.Field) {
	logging.L().Debug(op, append(fields, zap.Duration("took", time.Since(start)))...)
}
