package report

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sieve-report/sieve/internal/aggregator"
	"github.com/sieve-report/sieve/internal/filter"
	"github.com/sieve-report/sieve/internal/format"
	"github.com/sieve-report/sieve/internal/lint"
	"github.com/sieve-report/sieve/internal/model"
	"github.com/sieve-report/sieve/internal/store"
	"github.com/sieve-report/sieve/pkg/shared/config"
	"github.com/sieve-report/sieve/pkg/shared/errors"
	"github.com/sieve-report/sieve/pkg/shared/files"
)

// Global variables for configuration and command arguments
var (
	AppConfig     *config.Config
	logger        hclog.Logger
	reportOptions RunOptions

	exampleReportUsage = `  # Render all accepted issues as JSON and text
  sieve report --results-dir ./analysis-out \
    --output issues:json:report.json --output issues:text:report.txt

  # Per-procedure CSV plus run statistics in CSV and event-log form
  sieve report --results-dir ./analysis-out \
    --output procs:csv:procs.csv --output stats:csv:stats.csv --output stats:logs:stats.log

  # Disable the kind/bucket policy and include library sources
  sieve report --results-dir ./analysis-out --no-filtering --debug \
    --output issues:json:report.json`
)

// RunOptions holds the report command arguments.
type RunOptions struct {
	ResultsDir  string
	SourceDir   string
	PolicyPath  string
	LintFile    string
	Outputs     []string
	NoFiltering bool
	Debug       bool
	ReportFlaky bool
}

// ReportCmd drives one full aggregation run.
var ReportCmd = &cobra.Command{
	Use:                   "report --results-dir PATH --output REPORT:FORMAT:PATH [--output ...]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleReportUsage,
	Short:                 "Aggregate analysis results into bug reports and statistics",
	RunE:                  runReportCommand,
}

// Init initializes the global configuration for the report command.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

// hasFlags reports whether any flag was set on the invocation.
func hasFlags(flags *pflag.FlagSet) bool {
	found := false
	flags.Visit(func(f *pflag.Flag) { found = true })
	return found
}

func runReportCommand(cmd *cobra.Command, args []string) error {
	// A bare invocation without a configured results directory cannot do
	// anything useful, so show the command help instead of a usage error.
	if !hasFlags(cmd.Flags()) && (AppConfig == nil || AppConfig.Results.Dir == "") {
		return cmd.Help()
	}

	applyConfigDefaults(&reportOptions, AppConfig)

	targets, err := validateReportArgs(&reportOptions)
	if err != nil {
		logger.Error("invalid report arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid report arguments: %w", err), 1)
	}

	policy, err := loadPolicy(cmd, &reportOptions)
	if err != nil {
		logger.Error("failed to load filtering policy", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to load filtering policy: %w", err), 1)
	}

	st, err := store.New(reportOptions.ResultsDir)
	if err != nil {
		logger.Error("failed to open results directory", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to open results directory: %w", err), 1)
	}

	lintResults, err := lint.Load(reportOptions.LintFile)
	if err != nil {
		logger.Error("failed to load lint results", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to load lint results: %w", err), 1)
	}

	dispatcher := format.NewDispatcher(logger)
	if err := openOutputs(dispatcher, targets); err != nil {
		return err
	}

	chain := filter.NewChain(policy, logger)
	runner := aggregator.New(st, lintResults, chain, dispatcher, reportOptions.SourceDir, logger)

	if err := runner.Run(); err != nil {
		logger.Error("report run failed", "error", err)
		return errors.NewCommandError(fmt.Errorf("report run failed: %w", err), 2)
	}

	logger.Info("report command completed successfully")
	return nil
}

// openOutputs opens every requested output stream. A failure part-way
// through finalizes the streams opened so far, so headers already written
// (a JSON array's "[") are terminated rather than left dangling on disk.
func openOutputs(dispatcher *format.Dispatcher, targets []OutputTarget) error {
	for _, t := range targets {
		if err := files.CreateFolderIfNotExists(filepath.Dir(t.Path)); err != nil {
			dispatcher.Abort(&model.RunStatistics{})
			logger.Error("failed to prepare output directory", "path", t.Path, "error", err)
			return errors.NewCommandError(err, 1)
		}
		if err := dispatcher.Open(t.Target, t.Path); err != nil {
			dispatcher.Abort(&model.RunStatistics{})
			logger.Error("failed to open output stream", "report", t.Target.Report, "format", t.Target.Format, "error", err)
			return errors.NewCommandError(err, 2)
		}
	}
	return nil
}

// applyConfigDefaults fills unset flags from the application config.
func applyConfigDefaults(opts *RunOptions, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if opts.ResultsDir == "" {
		opts.ResultsDir = cfg.Results.Dir
	}
	if opts.LintFile == "" {
		opts.LintFile = cfg.Results.LintFile
	}
	if opts.PolicyPath == "" {
		opts.PolicyPath = cfg.Policy
	}
}

// loadPolicy reads the policy file when given and applies flag overrides.
// Without a policy file the defaults apply: filtering enabled, debug off.
func loadPolicy(cmd *cobra.Command, opts *RunOptions) (*filter.Policy, error) {
	cfg := &filter.PolicyConfig{Filtering: true}
	if opts.PolicyPath != "" {
		var loaded filter.PolicyConfig
		if err := config.LoadYAML(opts.PolicyPath, &loaded); err != nil {
			return nil, err
		}
		cfg = &loaded
	}

	if opts.NoFiltering {
		cfg.Filtering = false
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = opts.Debug
	}
	if cmd.Flags().Changed("report-flaky") {
		cfg.ReportFlaky = opts.ReportFlaky
	}
	return filter.CompilePolicy(cfg)
}

func init() {
	ReportCmd.Flags().StringVarP(&reportOptions.ResultsDir, "results-dir", "r", "", "Directory holding the per-procedure analysis results.")
	ReportCmd.Flags().StringVarP(&reportOptions.SourceDir, "source-dir", "s", "", "Root of the analyzed sources, used for run metadata.")
	ReportCmd.Flags().StringVar(&reportOptions.PolicyPath, "policy", "", "Path to the filtering policy YAML file.")
	ReportCmd.Flags().StringVar(&reportOptions.LintFile, "lint-file", "", "Path to the lint side-channel results file.")
	ReportCmd.Flags().StringArrayVarP(&reportOptions.Outputs, "output", "o", nil, "Requested output as REPORT:FORMAT:PATH (repeatable).")
	ReportCmd.Flags().BoolVar(&reportOptions.NoFiltering, "no-filtering", false, "Disable the kind/bucket filtering policy.")
	ReportCmd.Flags().BoolVar(&reportOptions.Debug, "debug", false, "Report findings in library/model sources as well.")
	ReportCmd.Flags().BoolVar(&reportOptions.ReportFlaky, "report-flaky", false, "Report findings tagged as flaky.")
	ReportCmd.Flags().BoolP("help", "h", false, "Show help for the report command.")
}
