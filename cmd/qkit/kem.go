package main

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/remiblancher/post-quantum-kit/internal/audit"
	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
	"github.com/remiblancher/post-quantum-kit/pkg/kem"
)

var kemCmd = &cobra.Command{
	Use:   "kem",
	Short: "ML-KEM-768 key establishment",
	Long: `Generate ML-KEM-768 key pairs, encapsulate a shared secret to a public
key and decapsulate it with the matching private key.`,
}

var kemGenCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate an ML-KEM-768 key pair",
	Long: `Generate an ML-KEM-768 key pair and write it as PEM.

With --seed the key pair is derived deterministically from a 32-byte
hex seed; the same seed always yields the same key pair.

Examples:
  qkit kem gen --out alice.pem
  qkit kem gen --out alice.pem --pub-out alice.pub
  qkit kem gen --out test.pem --seed 000102...1f`,
	RunE: runKEMGen,
}

var kemEncapsCmd = &cobra.Command{
	Use:   "encaps",
	Short: "Encapsulate a shared secret to a public key",
	Long: `Encapsulate a fresh 32-byte shared secret to an ML-KEM-768 public key.

The ciphertext is written to --out; the shared secret is printed as hex.

Examples:
  qkit kem encaps --pub alice.pub --out ct.bin`,
	RunE: runKEMEncaps,
}

var kemDecapsCmd = &cobra.Command{
	Use:   "decaps",
	Short: "Recover the shared secret from a ciphertext",
	Long: `Decapsulate a ciphertext with an ML-KEM-768 private key and print the
shared secret as hex.

A ciphertext of the right size that was not produced for this key yields
an unrelated secret, not an error.

Examples:
  qkit kem decaps --key alice.pem --in ct.bin`,
	RunE: runKEMDecaps,
}

var kemDeriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive an application key from a shared secret",
	Long: `Expand a 32-byte shared secret into an application key with HKDF-SHA256.

Examples:
  qkit kem derive --secret <hex> --info "session v1" --length 32`,
	RunE: runKEMDerive,
}

var kemSizesCmd = &cobra.Command{
	Use:   "sizes",
	Short: "Print ML-KEM-768 encoding sizes",
	RunE:  runKEMSizes,
}

var (
	kemGenOut     string
	kemGenPubOut  string
	kemGenSeed    string
	kemEncapsPub  string
	kemEncapsOut  string
	kemDecapsKey  string
	kemDecapsIn   string
	kemDeriveSS   string
	kemDeriveSalt string
	kemDeriveInfo string
	kemDeriveLen  int
)

func init() {
	kemGenCmd.Flags().StringVarP(&kemGenOut, "out", "o", "", "Output key pair file (required)")
	kemGenCmd.Flags().StringVar(&kemGenPubOut, "pub-out", "", "Also write the public key to this file")
	kemGenCmd.Flags().StringVar(&kemGenSeed, "seed", "", "32-byte hex seed for deterministic generation")
	_ = kemGenCmd.MarkFlagRequired("out")

	kemEncapsCmd.Flags().StringVar(&kemEncapsPub, "pub", "", "Recipient public key file (required)")
	kemEncapsCmd.Flags().StringVarP(&kemEncapsOut, "out", "o", "", "Output ciphertext file (required)")
	_ = kemEncapsCmd.MarkFlagRequired("pub")
	_ = kemEncapsCmd.MarkFlagRequired("out")

	kemDecapsCmd.Flags().StringVar(&kemDecapsKey, "key", "", "Key pair file (required)")
	kemDecapsCmd.Flags().StringVar(&kemDecapsIn, "in", "", "Ciphertext file, - for stdin (required)")
	_ = kemDecapsCmd.MarkFlagRequired("key")
	_ = kemDecapsCmd.MarkFlagRequired("in")

	kemDeriveCmd.Flags().StringVar(&kemDeriveSS, "secret", "", "Shared secret as hex (required)")
	kemDeriveCmd.Flags().StringVar(&kemDeriveSalt, "salt", "", "Optional salt as hex")
	kemDeriveCmd.Flags().StringVar(&kemDeriveInfo, "info", "", "Context string bound into the key")
	kemDeriveCmd.Flags().IntVar(&kemDeriveLen, "length", 32, "Output length in bytes")
	_ = kemDeriveCmd.MarkFlagRequired("secret")

	kemCmd.AddCommand(kemGenCmd)
	kemCmd.AddCommand(kemEncapsCmd)
	kemCmd.AddCommand(kemDecapsCmd)
	kemCmd.AddCommand(kemDeriveCmd)
	kemCmd.AddCommand(kemSizesCmd)
}

func runKEMGen(cmd *cobra.Command, args []string) error {
	seed, err := parseSeedHex(kemGenSeed)
	if err != nil {
		return err
	}

	start := time.Now()
	var kp *kem.KeyPair
	if seed != nil {
		kp, err = kem.FromSeed(seed)
	} else {
		kp, err = kem.Generate()
	}
	logTook("key generation", start, zap.String("algorithm", string(kem.Algorithm)))

	var fp string
	if err == nil {
		fp = audit.Fingerprint(kp.PublicKey())
	}
	if auditErr := audit.LogKEMKeygen(audit.SourceCLI, string(kem.Algorithm), fp, seed != nil, err); err == nil {
		err = auditErr
	}
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	if err := writeOutput(kemGenOut, kp.MarshalPEM(), 0600); err != nil {
		return err
	}
	if kemGenPubOut != "" {
		if err := writeOutput(kemGenPubOut, kem.MarshalPublicKeyPEM(kp.PublicKey()), 0644); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Key pair written to %s\n", kemGenOut)
	fmt.Fprintf(out, "  Algorithm:   %s\n", kem.Algorithm.Label())
	fmt.Fprintf(out, "  Fingerprint: %s\n", fp)
	return nil
}

func runKEMEncaps(cmd *cobra.Command, args []string) error {
	pub, alg, err := readPublicKeyPEM(kemEncapsPub)
	if err != nil {
		return err
	}
	if alg != kem.Algorithm {
		return fmt.Errorf("%w: %s holds a %s key, want %s", crypto.ErrInvalidInput, kemEncapsPub, alg, kem.Algorithm)
	}

	start := time.Now()
	enc, err := kem.Encapsulate(pub)
	logTook("encapsulation", start)

	if auditErr := audit.LogKEMEncaps(audit.SourceCLI, string(kem.Algorithm), audit.Fingerprint(pub), err); err == nil {
		err = auditErr
	}
	if err != nil {
		return fmt.Errorf("failed to encapsulate: %w", err)
	}

	if err := writeOutput(kemEncapsOut, enc.Ciphertext, 0644); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Ciphertext written to %s (%d bytes)\n", kemEncapsOut, len(enc.Ciphertext))
	fmt.Fprintf(out, "Shared secret: %s\n", hex.EncodeToString(enc.SharedSecret))
	return nil
}

func runKEMDecaps(cmd *cobra.Command, args []string) error {
	kp, err := loadKEMKeyPair(kemDecapsKey)
	if err != nil {
		return err
	}
	ct, err := readInput(cmd.InOrStdin(), kemDecapsIn)
	if err != nil {
		return err
	}

	start := time.Now()
	ss, err := kp.Decapsulate(ct)
	logTook("decapsulation", start)

	if auditErr := audit.LogKEMDecaps(audit.SourceCLI, string(kem.Algorithm), len(ct), err); err == nil {
		err = auditErr
	}
	if err != nil {
		return fmt.Errorf("failed to decapsulate: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Shared secret: %s\n", hex.EncodeToString(ss))
	return nil
}

func runKEMDerive(cmd *cobra.Command, args []string) error {
	ss, err := hex.DecodeString(kemDeriveSS)
	if err != nil {
		return fmt.Errorf("%w: secret is not hex: %v", crypto.ErrInvalidInput, err)
	}
	salt, err := hex.DecodeString(kemDeriveSalt)
	if err != nil {
		return fmt.Errorf("%w: salt is not hex: %v", crypto.ErrInvalidInput, err)
	}

	key, err := kem.DeriveKey(ss, salt, []byte(kemDeriveInfo), kemDeriveLen)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(key))
	return nil
}

func runKEMSizes(cmd *cobra.Command, args []string) error {
	s := kem.KeySizes()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s sizes (bytes):\n", kem.Algorithm.Label())
	fmt.Fprintf(out, "  Public key:    %d\n", s.PublicKey)
	fmt.Fprintf(out, "  Private key:   %d\n", s.SecretKey)
	fmt.Fprintf(out, "  Ciphertext:    %d\n", s.Ciphertext)
	fmt.Fprintf(out, "  Shared secret: %d\n", s.SharedSecret)
	return nil
}
