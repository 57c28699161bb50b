package main

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/remiblancher/post-quantum-kit/internal/audit"
	"github.com/remiblancher/post-quantum-kit/pkg/token"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Post-quantum key tokens (CWT in COSE_Sign1)",
	Long: `Issue and verify tokens binding a subject to a post-quantum public key.

A token is a CBOR Web Token (RFC 8392) carried in a COSE_Sign1 message
(RFC 9052) signed with ML-DSA-65. Besides the standard claims it holds the
bound public key, its algorithm and the key expiry.`,
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a key token",
	Long: `Issue a key token for a subject's ML-KEM-768 or ML-DSA-65 public key.

Examples:
  qkit token issue --signing-key issuer.pem --subject alice --pub alice.pub --out alice.cwt
  qkit token issue --signing-key issuer.pem --subject bob --pub bob.pub --ttl 1h --out bob.cwt`,
	RunE: runTokenIssue,
}

var tokenVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a key token and print its claims",
	Long: `Verify the signature and validity window of a key token.

Examples:
  qkit token verify --in alice.cwt --issuer-pub issuer.pub`,
	RunE: runTokenVerify,
}

var (
	tokenIssueKey     string
	tokenIssueSubject string
	tokenIssueIssuer  string
	tokenIssuePub     string
	tokenIssueTTL     time.Duration
	tokenIssueOut     string
	tokenVerifyIn     string
	tokenVerifyIssuer string
)

func init() {
	tokenIssueCmd.Flags().StringVar(&tokenIssueKey, "signing-key", "", "Issuer ML-DSA-65 key pair file (required)")
	tokenIssueCmd.Flags().StringVar(&tokenIssueSubject, "subject", "", "Subject the key belongs to (required)")
	tokenIssueCmd.Flags().StringVar(&tokenIssueIssuer, "issuer", "qkit", "Issuer name")
	tokenIssueCmd.Flags().StringVar(&tokenIssuePub, "pub", "", "Public key file to bind (required)")
	tokenIssueCmd.Flags().DurationVar(&tokenIssueTTL, "ttl", token.DefaultTTL, "Token lifetime")
	tokenIssueCmd.Flags().StringVarP(&tokenIssueOut, "out", "o", "", "Output token file (required)")
	_ = tokenIssueCmd.MarkFlagRequired("signing-key")
	_ = tokenIssueCmd.MarkFlagRequired("subject")
	_ = tokenIssueCmd.MarkFlagRequired("pub")
	_ = tokenIssueCmd.MarkFlagRequired("out")

	tokenVerifyCmd.Flags().StringVar(&tokenVerifyIn, "in", "", "Token file, - for stdin (required)")
	tokenVerifyCmd.Flags().StringVar(&tokenVerifyIssuer, "issuer-pub", "", "Issuer public key file (required)")
	_ = tokenVerifyCmd.MarkFlagRequired("in")
	_ = tokenVerifyCmd.MarkFlagRequired("issuer-pub")

	tokenCmd.AddCommand(tokenIssueCmd)
	tokenCmd.AddCommand(tokenVerifyCmd)
}

func runTokenIssue(cmd *cobra.Command, args []string) error {
	signer, err := loadDSAKeyPair(tokenIssueKey)
	if err != nil {
		return err
	}
	pub, alg, err := readPublicKeyPEM(tokenIssuePub)
	if err != nil {
		return err
	}

	data, err := token.Issue(signer, token.Request{
		Issuer:    tokenIssueIssuer,
		Subject:   tokenIssueSubject,
		PublicKey: pub,
		Algorithm: alg,
		TTL:       tokenIssueTTL,
	})
	if auditErr := audit.LogTokenIssued(audit.SourceCLI, tokenIssueSubject, audit.Fingerprint(pub), err); err == nil {
		err = auditErr
	}
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	if err := writeOutput(tokenIssueOut, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Token written to %s (%d bytes)\n", tokenIssueOut, len(data))
	return nil
}

func runTokenVerify(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd.InOrStdin(), tokenVerifyIn)
	if err != nil {
		return err
	}
	issuerPub, _, err := readPublicKeyPEM(tokenVerifyIssuer)
	if err != nil {
		return err
	}

	claims, err := token.Verify(data, issuerPub, time.Now())
	var subject string
	if claims != nil {
		subject = claims.Subject
	}
	if auditErr := audit.LogTokenVerified(audit.SourceCLI, subject, err); err == nil {
		err = auditErr
	}
	if err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "VALID")
	printClaims(out, claims)
	return nil
}

func printClaims(w io.Writer, c *token.Claims) {
	fmt.Fprintf(w, "  Issuer:      %s\n", c.Issuer)
	fmt.Fprintf(w, "  Subject:     %s\n", c.Subject)
	if id, err := uuid.FromBytes(c.TokenID); err == nil {
		fmt.Fprintf(w, "  Token ID:    %s\n", id)
	}
	fmt.Fprintf(w, "  Issued at:   %s\n", c.IssuedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "  Expires:     %s\n", c.Expiration.Format(time.RFC3339))
	fmt.Fprintf(w, "  Algorithm:   %s\n", c.Algorithm.Label())
	fmt.Fprintf(w, "  Key:         %s\n", audit.Fingerprint(c.PublicKey))
	fmt.Fprintf(w, "  Key expires: %s\n", c.KeyExpiry.Format(time.RFC3339))
}
