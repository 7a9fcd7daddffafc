package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soliscan/soliscan/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "soliscan",
		Short: "soliscan - Solidity static analyzer",
		Long: `soliscan is a fast static analyzer for Solidity smart contracts.
It runs a configurable set of security and style rules over your sources,
caches results between runs and reports in text, JSON or SARIF.`,
		Version: version.Version,
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(cacheCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*AnalyzeExitError); ok {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Println(version.GetFullVersion())
			} else {
				fmt.Printf("soliscan version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
