package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/remiblancher/post-quantum-kit/pkg/dsa"
	"github.com/remiblancher/post-quantum-kit/pkg/kem"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure operation timings",
	Long: `Measure the average duration of key generation, encapsulation and
signing on this machine.

Examples:
  qkit bench keygen --iterations 100
  qkit bench encaps
  qkit bench sign --iterations 50`,
}

var benchKeygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Benchmark ML-KEM-768 key generation",
	RunE: func(cmd *cobra.Command, args []string) error {
		avg, err := kem.BenchmarkKeygen(benchIterations)
		return reportBench(cmd, "ML-KEM-768 keygen", avg, err)
	},
}

var benchEncapsCmd = &cobra.Command{
	Use:   "encaps",
	Short: "Benchmark ML-KEM-768 encapsulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		kp, err := kem.Generate()
		if err != nil {
			return err
		}
		avg, err := kem.BenchmarkEncapsulate(benchIterations, kp.PublicKey())
		return reportBench(cmd, "ML-KEM-768 encaps", avg, err)
	},
}

var benchSignCmd = &cobra.Command{
	Use:   "sign",
	Short: "Benchmark ML-DSA-65 signing",
	RunE: func(cmd *cobra.Command, args []string) error {
		kp, err := dsa.Generate()
		if err != nil {
			return err
		}
		avg, err := dsa.BenchmarkSign(benchIterations, kp.PrivateKey())
		return reportBench(cmd, "ML-DSA-65 sign", avg, err)
	},
}

var benchIterations int

func init() {
	benchCmd.PersistentFlags().IntVarP(&benchIterations, "iterations", "n", 100, "Number of timed operations")

	benchCmd.AddCommand(benchKeygenCmd)
	benchCmd.AddCommand(benchEncapsCmd)
	benchCmd.AddCommand(benchSignCmd)
}

func reportBench(cmd *cobra.Command, name string, avg time.Duration, err error) error {
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%-18s %6d iterations  %10s/op  %8.1f ops/s\n",
		name, benchIterations, avg, float64(time.Second)/float64(max(avg, 1)))
	return nil
}
