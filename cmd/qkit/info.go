package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/remiblancher/post-quantum-kit/pkg/crypto"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the library version and algorithm descriptors",
	Long: `Show the library version and the descriptor of every supported
algorithm: standard, security level, OID and encoding sizes.

Examples:
  qkit info
  qkit info --algorithm ml-dsa-65
  qkit info --format yaml`,
	RunE: runInfo,
}

var (
	infoAlgorithm string
	infoFormat    string
)

func init() {
	infoCmd.Flags().StringVar(&infoAlgorithm, "algorithm", "", "Show a single algorithm (id or label)")
	infoCmd.Flags().StringVar(&infoFormat, "format", "text", "Output format: text, json, yaml")
}

type infoOutput struct {
	Version    string        `json:"version" yaml:"version"`
	Algorithms []crypto.Info `json:"algorithms" yaml:"algorithms"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	infos := crypto.Algorithms()
	if infoAlgorithm != "" {
		id, err := crypto.ParseAlgorithm(infoAlgorithm)
		if err != nil {
			return err
		}
		info, err := crypto.GetAlgorithmInfo(id)
		if err != nil {
			return err
		}
		infos = []crypto.Info{info}
	}

	doc := infoOutput{Version: crypto.Version, Algorithms: infos}
	out := cmd.OutOrStdout()

	switch infoFormat {
	case "text":
		printInfoText(out, doc)
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", infoFormat)
	}
}

func printInfoText(w io.Writer, doc infoOutput) {
	fmt.Fprintf(w, "qkit library %s\n", doc.Version)
	for _, info := range doc.Algorithms {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s (%s)\n", info.Algorithm, info.ID)
		fmt.Fprintf(w, "  Standard:       %s\n", info.Standard)
		fmt.Fprintf(w, "  Security level: %s\n", info.SecurityLevel)
		fmt.Fprintf(w, "  OID:            %s\n", info.OID)
		fmt.Fprintf(w, "  Public key:     %d bytes\n", info.PublicKeySize)
		fmt.Fprintf(w, "  Secret key:     %d bytes\n", info.SecretKeySize)
		if info.CiphertextSize > 0 {
			fmt.Fprintf(w, "  Ciphertext:     %d bytes\n", info.CiphertextSize)
			fmt.Fprintf(w, "  Shared secret:  %d bytes\n", info.SharedSecretSize)
		}
		if info.SignatureSize > 0 {
			fmt.Fprintf(w, "  Signature:      %d bytes\n", info.SignatureSize)
		}
	}
}
