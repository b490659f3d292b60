// Package lint loads the lint side-channel: an independent error log per
// procedure, produced by lint checkers outside the symbolic analysis.
// Lint issues are assumed already procedure-unique and bypass global
// deduplication.
package lint

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sieve-report/sieve/internal/model"
)

// Results maps a procedure name to its lint findings.
type Results map[string][]model.Finding

// Load reads the lint results file once, before the lint-issues pass.
// An empty path yields an empty map.
func Load(path string) (Results, error) {
	if path == "" {
		return Results{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load lint results %q: %w", path, err)
	}

	var results Results
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("decode lint results %q: %w", path, err)
	}
	return results, nil
}

// Issues converts one procedure's lint findings into issues attributed to
// that procedure. Lint findings carry their own locations; the procedure
// location falls back to the first finding's location.
func (r Results) Issues(procName string) []model.Issue {
	findings := r[procName]
	issues := make([]model.Issue, 0, len(findings))
	for _, f := range findings {
		issues = append(issues, model.Issue{
			ProcName:     procName,
			ProcID:       procName,
			ProcLocation: f.Data.Location,
			Key:          f.Key,
			Data:         f.Data,
		})
	}
	return issues
}

// ProcNames returns the procedures present in the lint results, for
// deterministic iteration callers should sort the result.
func (r Results) ProcNames() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}
