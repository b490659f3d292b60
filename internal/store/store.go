// Package store loads per-procedure analysis results from a results
// directory. Each unit is a JSON file named <unit>.json; the store only
// reads, never writes.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sieve-report/sieve/internal/model"
	"github.com/sieve-report/sieve/pkg/shared/files"
)

const unitExt = ".json"

// Store enumerates and loads analysis units from one results directory.
type Store struct {
	dir string
}

// New validates the results directory and returns a Store over it.
func New(dir string) (*Store, error) {
	expanded, err := files.ExpandPath(dir)
	if err != nil {
		return nil, fmt.Errorf("expand results dir: %w", err)
	}
	if err := files.ValidateDir(expanded); err != nil {
		return nil, fmt.Errorf("results dir: %w", err)
	}
	return &Store{dir: expanded}, nil
}

// List returns the available unit names, sorted, so repeated runs over the
// same results enumerate units in a deterministic order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read results dir %q: %w", s.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), unitExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), unitExt))
	}
	sort.Strings(names)
	return names, nil
}

// Load decodes one analysis unit by name. A missing or corrupt unit is an
// error naming the offending file; the caller aborts the run on it rather
// than under-reporting silently.
func (s *Store) Load(name string) (*model.AnalysisUnit, error) {
	path := filepath.Join(s.dir, name+unitExt)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load analysis unit %q: %w", name, err)
	}

	var unit model.AnalysisUnit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("decode analysis unit %q: %w", name, err)
	}
	return &unit, nil
}
