package report

import (
	"fmt"
	"strings"

	"github.com/sieve-report/sieve/internal/format"
)

// OutputTarget is one parsed --output request.
type OutputTarget struct {
	Target format.Target
	Path   string
}

// validateReportArgs checks the report command arguments and parses the
// requested outputs. Malformed requests are usage errors; a structurally
// valid but unimplemented report/format pairing is left for the
// dispatcher, which treats it as a fatal internal error.
func validateReportArgs(opts *RunOptions) ([]OutputTarget, error) {
	if opts.ResultsDir == "" {
		return nil, fmt.Errorf("the 'results-dir' argument is required")
	}
	if len(opts.Outputs) == 0 {
		return nil, fmt.Errorf("at least one 'output' argument is required")
	}

	targets := make([]OutputTarget, 0, len(opts.Outputs))
	seen := map[format.Target]bool{}
	for _, spec := range opts.Outputs {
		target, err := parseOutputSpec(spec)
		if err != nil {
			return nil, err
		}
		if seen[target.Target] {
			return nil, fmt.Errorf("output %q requested twice", spec)
		}
		seen[target.Target] = true
		targets = append(targets, target)
	}
	return targets, nil
}

// parseOutputSpec splits REPORT:FORMAT:PATH. The path may itself contain
// colons, so only the first two separators are significant.
func parseOutputSpec(spec string) (OutputTarget, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 {
		return OutputTarget{}, fmt.Errorf("malformed output %q (expected REPORT:FORMAT:PATH)", spec)
	}

	report, err := format.ParseReportKind(parts[0])
	if err != nil {
		return OutputTarget{}, err
	}
	formatKind, err := format.ParseFormatKind(parts[1])
	if err != nil {
		return OutputTarget{}, err
	}
	if parts[2] == "" {
		return OutputTarget{}, fmt.Errorf("output %q is missing a destination path", spec)
	}

	return OutputTarget{
		Target: format.Target{Report: report, Format: formatKind},
		Path:   parts[2],
	}, nil
}
