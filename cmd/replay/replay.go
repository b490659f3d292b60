package replay

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/sieve-report/sieve/internal/format"
	"github.com/sieve-report/sieve/pkg/shared/config"
	"github.com/sieve-report/sieve/pkg/shared/errors"
)

// Global variables for configuration and command arguments
var (
	AppConfig     *config.Config
	logger        hclog.Logger
	replayOptions RunOptions

	exampleReplayUsage = `  # Re-render a JSON report as a columnar tests projection
  sieve replay --input report.json --format tests \
    --fields bug_type,file,procedure,hash --output report.tests

  # Re-render a JSON report as plain text
  sieve replay --input report.json --format text --output report.txt`
)

// RunOptions holds the replay command arguments.
type RunOptions struct {
	InputPath  string
	OutputPath string
	Format     string
	Fields     string
}

// ReplayCmd re-renders a previously produced issues JSON report in the
// tests or text format. This is the only pathway that can drive the
// tests format: it consumes flattened records, not a live error log.
var ReplayCmd = &cobra.Command{
	Use:                   "replay --input PATH --format {tests|text} [--fields F1,F2,...] --output PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleReplayUsage,
	Short:                 "Re-render a previously produced issues JSON report",
	RunE:                  runReplayCommand,
}

// Init initializes the global configuration for the replay command.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runReplayCommand(cmd *cobra.Command, args []string) error {
	if err := validateReplayArgs(&replayOptions); err != nil {
		logger.Error("invalid replay arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid replay arguments: %w", err), 1)
	}

	records, err := format.ReadRecords(replayOptions.InputPath)
	if err != nil {
		logger.Error("failed to read report", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to read report: %w", err), 1)
	}

	out, err := os.Create(replayOptions.OutputPath)
	if err != nil {
		logger.Error("failed to create output", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to create output: %w", err), 2)
	}

	writer, err := newReplayWriter(out, &replayOptions)
	if err != nil {
		out.Close()
		logger.Error("failed to prepare writer", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to prepare writer: %w", err), 1)
	}

	if err := writer.WriteHeader(); err != nil {
		writer.Close()
		return errors.NewCommandError(fmt.Errorf("failed to write header: %w", err), 2)
	}
	for i := range records {
		if err := writer.WriteIssue(&records[i]); err != nil {
			writer.Close()
			return errors.NewCommandError(fmt.Errorf("failed to write record: %w", err), 2)
		}
	}
	if err := writer.Close(); err != nil {
		return errors.NewCommandError(fmt.Errorf("failed to finalize output: %w", err), 2)
	}

	logger.Info("replay command completed successfully", "records", len(records), "path", replayOptions.OutputPath)
	return nil
}

// newReplayWriter picks the writer for the requested replay format.
func newReplayWriter(out *os.File, opts *RunOptions) (format.IssueWriter, error) {
	switch format.FormatKind(opts.Format) {
	case format.FormatTests:
		return format.NewTestsWriter(out, splitFields(opts.Fields))
	case format.FormatText:
		return format.NewTextWriter(out), nil
	default:
		return nil, fmt.Errorf("replay supports the tests and text formats, got %q", opts.Format)
	}
}

func splitFields(fields string) []string {
	var out []string
	for _, f := range strings.Split(fields, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func init() {
	ReplayCmd.Flags().StringVarP(&replayOptions.InputPath, "input", "i", "", "Path to a previously produced issues JSON report.")
	ReplayCmd.Flags().StringVarP(&replayOptions.OutputPath, "output", "o", "", "Path to the re-rendered output file.")
	ReplayCmd.Flags().StringVarP(&replayOptions.Format, "format", "f", "", "Target format: tests or text.")
	ReplayCmd.Flags().StringVar(&replayOptions.Fields, "fields", "", "Comma-separated field names for the tests projection.")
	ReplayCmd.Flags().BoolP("help", "h", false, "Show help for the replay command.")
}
