package cmd

import (
	goerrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sieve-report/sieve/cmd/replay"
	"github.com/sieve-report/sieve/cmd/report"
	"github.com/sieve-report/sieve/cmd/version"
	"github.com/sieve-report/sieve/pkg/shared/config"
	"github.com/sieve-report/sieve/pkg/shared/errors"
	"github.com/sieve-report/sieve/pkg/shared/logger"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "sieve [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Sieve aggregates program-analysis findings into stable, diffable bug reports.",
		Long: `Sieve consumes per-procedure analysis results, assigns each finding a
content-based stable hash, applies the configured filtering and censorship
policy, deduplicates template-instantiation copies, and renders the result
in JSON, text, CSV, SARIF and event-log formats alongside run statistics.
`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(report.ReportCmd)
	rootCmd.AddCommand(replay.ReplayCmd)
}

// Execute runs the root command and maps command errors onto exit codes.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		var cmdErr *errors.CommandError
		if goerrors.As(err, &cmdErr) {
			return cmdErr.ExitCode
		}
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = "config.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(AppConfig, "sieve")
	report.Init(AppConfig, log)
	replay.Init(AppConfig, log)
}
