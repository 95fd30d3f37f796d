package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bcsb-lending/conditions-matrix/pkg/cli"
)

const defaultConfigFile = "config.yaml"

var (
	// Global flags
	cfgFile     string
	catalogPath string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "lcm",
	Short: "Loan conditions matrix - commercial loan requirement engine",
	Long: `lcm evaluates commercial loan questionnaire answers against a rule
catalog and reports the documents and conditions a loan officer must collect,
whether the amount is within policy limits, a coarse risk level and an
estimated processing time.

The rule catalog is compiled into the binary; use --catalog or the
catalog.path setting to load a custom one.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a code derived from the
// returned error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "rule catalog file (default: embedded catalog)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
