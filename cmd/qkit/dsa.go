package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/remiblancher/post-quantum-kit/internal/audit"
	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
	"github.com/remiblancher/post-quantum-kit/pkg/dsa"
)

var dsaCmd = &cobra.Command{
	Use:   "dsa",
	Short: "ML-DSA-65 signatures",
	Long: `Generate ML-DSA-65 key pairs, sign messages and verify signatures.

Signatures use the empty context string and are hedged: signing the same
message twice gives two different, equally valid signatures.`,
}

var dsaGenCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate an ML-DSA-65 key pair",
	Long: `Generate an ML-DSA-65 key pair and write it as PEM.

Examples:
  qkit dsa gen --out signer.pem --pub-out signer.pub
  qkit dsa gen --out test.pem --seed 000102...1f`,
	RunE: runDSAGen,
}

var dsaSignCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a message",
	Long: `Sign a file with an ML-DSA-65 private key. The raw 3309-byte
signature is written to --out.

Examples:
  qkit dsa sign --key signer.pem --in message.txt --out message.sig
  echo -n hello | qkit dsa sign --key signer.pem --in - --out hello.sig`,
	RunE: runDSASign,
}

var dsaVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a signature",
	Long: `Verify an ML-DSA-65 signature.

Prints VALID or INVALID. A signature that does not verify is a normal
outcome and exits 0; only malformed keys or signatures are errors.

Examples:
  qkit dsa verify --pub signer.pub --in message.txt --sig message.sig`,
	RunE: runDSAVerify,
}

var dsaSizesCmd = &cobra.Command{
	Use:   "sizes",
	Short: "Print ML-DSA-65 encoding sizes",
	RunE:  runDSASizes,
}

var (
	dsaGenOut    string
	dsaGenPubOut string
	dsaGenSeed   string
	dsaSignKey   string
	dsaSignIn    string
	dsaSignOut   string
	dsaVerifyPub string
	dsaVerifyIn  string
	dsaVerifySig string
)

func init() {
	dsaGenCmd.Flags().StringVarP(&dsaGenOut, "out", "o", "", "Output key pair file (required)")
	dsaGenCmd.Flags().StringVar(&dsaGenPubOut, "pub-out", "", "Also write the public key to this file")
	dsaGenCmd.Flags().StringVar(&dsaGenSeed, "seed", "", "32-byte hex seed for deterministic generation")
	_ = dsaGenCmd.MarkFlagRequired("out")

	dsaSignCmd.Flags().StringVar(&dsaSignKey, "key", "", "Key pair file (required)")
	dsaSignCmd.Flags().StringVar(&dsaSignIn, "in", "", "Message file, - for stdin (required)")
	dsaSignCmd.Flags().StringVarP(&dsaSignOut, "out", "o", "", "Output signature file (required)")
	_ = dsaSignCmd.MarkFlagRequired("key")
	_ = dsaSignCmd.MarkFlagRequired("in")
	_ = dsaSignCmd.MarkFlagRequired("out")

	dsaVerifyCmd.Flags().StringVar(&dsaVerifyPub, "pub", "", "Signer public key file (required)")
	dsaVerifyCmd.Flags().StringVar(&dsaVerifyIn, "in", "", "Message file, - for stdin (required)")
	dsaVerifyCmd.Flags().StringVar(&dsaVerifySig, "sig", "", "Signature file (required)")
	_ = dsaVerifyCmd.MarkFlagRequired("pub")
	_ = dsaVerifyCmd.MarkFlagRequired("in")
	_ = dsaVerifyCmd.MarkFlagRequired("sig")

	dsaCmd.AddCommand(dsaGenCmd)
	dsaCmd.AddCommand(dsaSignCmd)
	dsaCmd.AddCommand(dsaVerifyCmd)
	dsaCmd.AddCommand(dsaSizesCmd)
}

func runDSAGen(cmd *cobra.Command, args []string) error {
	seed, err := parseSeedHex(dsaGenSeed)
	if err != nil {
		return err
	}

	start := time.Now()
	var kp *dsa.KeyPair
	if seed != nil {
		kp, err = dsa.FromSeed(seed)
	} else {
		kp, err = dsa.Generate()
	}
	logTook("key generation", start, zap.String("algorithm", string(dsa.Algorithm)))

	var fp string
	if err == nil {
		fp = audit.Fingerprint(kp.PublicKey())
	}
	if auditErr := audit.LogDSAKeygen(audit.SourceCLI, string(dsa.Algorithm), fp, seed != nil, err); err == nil {
		err = auditErr
	}
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	if err := writeOutput(dsaGenOut, kp.MarshalPEM(), 0600); err != nil {
		return err
	}
	if dsaGenPubOut != "" {
		if err := writeOutput(dsaGenPubOut, dsa.MarshalPublicKeyPEM(kp.PublicKey()), 0644); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Key pair written to %s\n", dsaGenOut)
	fmt.Fprintf(out, "  Algorithm:   %s\n", dsa.Algorithm.Label())
	fmt.Fprintf(out, "  Fingerprint: %s\n", fp)
	return nil
}

func runDSASign(cmd *cobra.Command, args []string) error {
	kp, err := loadDSAKeyPair(dsaSignKey)
	if err != nil {
		return err
	}
	msg, err := readInput(cmd.InOrStdin(), dsaSignIn)
	if err != nil {
		return err
	}

	start := time.Now()
	sig, err := kp.Sign(msg)
	logTook("signing", start, zap.Int("message_size", len(msg)))

	if auditErr := audit.LogDSASign(audit.SourceCLI, string(dsa.Algorithm), len(msg), err); err == nil {
		err = auditErr
	}
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}

	if err := writeOutput(dsaSignOut, sig, 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signature written to %s (%d bytes)\n", dsaSignOut, len(sig))
	return nil
}

func runDSAVerify(cmd *cobra.Command, args []string) error {
	if dsaVerifyIn == "-" && dsaVerifySig == "-" {
		return fmt.Errorf("--in and --sig cannot both read from stdin")
	}
	pub, alg, err := readPublicKeyPEM(dsaVerifyPub)
	if err != nil {
		return err
	}
	if alg != dsa.Algorithm {
		return fmt.Errorf("%w: %s holds a %s key, want %s", crypto.ErrInvalidInput, dsaVerifyPub, alg, dsa.Algorithm)
	}
	msg, err := readInput(cmd.InOrStdin(), dsaVerifyIn)
	if err != nil {
		return err
	}
	sig, err := readInput(cmd.InOrStdin(), dsaVerifySig)
	if err != nil {
		return err
	}

	start := time.Now()
	valid, err := dsa.Verify(pub, msg, sig)
	logTook("verification", start, zap.Bool("valid", valid))

	if auditErr := audit.LogDSAVerify(audit.SourceCLI, string(dsa.Algorithm), audit.Fingerprint(pub), valid, err); err == nil {
		err = auditErr
	}
	if err != nil {
		return fmt.Errorf("failed to verify: %w", err)
	}

	if valid {
		fmt.Fprintln(cmd.OutOrStdout(), "VALID")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "INVALID")
	}
	return nil
}

func runDSASizes(cmd *cobra.Command, args []string) error {
	s := dsa.KeySizes()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s sizes (bytes):\n", dsa.Algorithm.Label())
	fmt.Fprintf(out, "  Public key:  %d\n", s.PublicKey)
	fmt.Fprintf(out, "  Private key: %d\n", s.SecretKey)
	fmt.Fprintf(out, "  Signature:   %d\n", s.Signature)
	return nil
}
