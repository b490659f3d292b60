package replay

import (
	"fmt"

	"github.com/sieve-report/sieve/pkg/shared/files"
)

// validateReplayArgs checks the replay command arguments. The input must
// be an existing regular file; decoding errors surface later with a
// diagnostic naming the file.
func validateReplayArgs(opts *RunOptions) error {
	if opts.InputPath == "" {
		return fmt.Errorf("the 'input' argument is required")
	}
	if err := files.ValidatePath(opts.InputPath); err != nil {
		return fmt.Errorf("input report: %w", err)
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("the 'output' argument is required")
	}
	if opts.Format == "" {
		return fmt.Errorf("the 'format' argument is required")
	}
	return nil
}
