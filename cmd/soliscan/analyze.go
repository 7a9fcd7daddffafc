package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soliscan/soliscan/app"
	"github.com/soliscan/soliscan/domain"
)

// AnalyzeExitError carries a custom process exit code out of RunE
type AnalyzeExitError struct {
	Code    int
	Message string
}

func (e *AnalyzeExitError) Error() string {
	return e.Message
}

func analyzeCmd() *cobra.Command {
	var (
		outputFormat string
		configPath   string
		concurrency  int
		timeoutSecs  int
		noCache      bool
		noProgress   bool
		disableRules []string
		failOn       string
	)

	cmd := &cobra.Command{
		Use:   "analyze [path...]",
		Short: "Analyze Solidity files",
		Long: `Analyze Solidity files with the registered rule set.

Examples:
  soliscan analyze contracts/
  soliscan analyze --format json contracts/
  soliscan analyze --format sarif --fail-on warning contracts/
  soliscan analyze --disable no-tx-origin contracts/Token.sol`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &AnalyzeExitError{Code: 2, Message: "no paths specified"}
			}

			acfg := app.DefaultAnalyzeConfig()
			acfg.Paths = args
			acfg.ConfigPath = configPath
			acfg.MaxConcurrency = concurrency
			acfg.TimeoutSeconds = timeoutSecs
			acfg.NoCache = noCache
			acfg.DisabledRules = disableRules

			// Only pass the format when the flag was set so the config
			// file value still applies.
			if cmd.Flags().Changed("format") {
				acfg.OutputFormat = domain.OutputFormat(outputFormat)
			} else {
				acfg.OutputFormat = ""
			}
			acfg.ShowProgress = !noProgress && outputFormat == "text"

			result, err := app.NewAnalyzeUseCase().Execute(cmd.Context(), acfg)
			if err != nil {
				return err
			}

			if failOn != "" {
				threshold := domain.ParseSeverity(failOn)
				if n := app.IssuesAtOrAbove(result, threshold); n > 0 {
					return &AnalyzeExitError{
						Code:    1,
						Message: fmt.Sprintf("%d issues at or above severity %s", n, threshold),
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text",
		"Output format: text, json, sarif")
	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0,
		"Max concurrent file analyses (0 = number of CPUs)")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 0,
		"Per-file timeout in seconds")
	cmd.Flags().BoolVar(&noCache, "no-cache", false,
		"Disable the result cache")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false,
		"Disable the progress bar")
	cmd.Flags().StringSliceVar(&disableRules, "disable", nil,
		"Rule ids to disable (comma-separated)")
	cmd.Flags().StringVar(&failOn, "fail-on", "",
		"Exit non-zero when issues at or above this severity exist: error, warning, info")

	return cmd
}
