package format

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sieve-report/sieve/internal/model"
)

// ReadRecords loads a previously produced issues JSON report. This is the
// entry point of the replay pathway, which re-renders flattened records
// in the tests or text formats.
func ReadRecords(path string) ([]model.BugRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %q: %w", path, err)
	}

	var records []model.BugRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("report %q is not a valid issues JSON report: %w", path, err)
	}
	return records, nil
}
