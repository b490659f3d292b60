// Package dedup collapses issues that differ only by their enclosing
// procedure name. Generic/template instantiations of the same code yield
// one finding per instantiation at the same source location with an
// identical description; from the reader's perspective those are one bug.
package dedup

import (
	"sort"

	"github.com/sieve-report/sieve/internal/model"
)

// compareLocations orders by file, then line, then column.
func compareLocations(a, b model.Location) int {
	if a.File != b.File {
		if a.File < b.File {
			return -1
		}
		return 1
	}
	if a.Line != b.Line {
		if a.Line < b.Line {
			return -1
		}
		return 1
	}
	if a.Column != b.Column {
		if a.Column < b.Column {
			return -1
		}
		return 1
	}
	return 0
}

func compareStrings(a, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func compareInts(a, b int) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

// Compare defines the total order over issues used for deduplication.
// Procedure name and id are deliberately excluded: they are treated as
// always-equal so instantiation copies land adjacent and compare equal.
// Location is the primary key, then finding identity, then trace shape,
// then the remaining finding metadata, with the node key as final
// tie-breaker.
func Compare(a, b *model.Issue) int {
	if c := compareLocations(a.Data.Location, b.Data.Location); c != 0 {
		return c
	}
	if c := compareStrings(a.Key.Kind, b.Key.Kind); c != 0 {
		return c
	}
	if c := compareStrings(a.Key.Type.ID, b.Key.Type.ID); c != 0 {
		return c
	}
	if c := compareStrings(a.Key.Description.Text, b.Key.Description.Text); c != 0 {
		return c
	}
	if c := compareStrings(a.Key.Severity, b.Key.Severity); c != 0 {
		return c
	}
	if c := compareStrings(a.Data.Visibility, b.Data.Visibility); c != 0 {
		return c
	}
	if c := compareInts(len(a.Data.Trace), len(b.Data.Trace)); c != 0 {
		return c
	}
	for i := range a.Data.Trace {
		sa, sb := a.Data.Trace[i], b.Data.Trace[i]
		if c := compareInts(sa.Level, sb.Level); c != 0 {
			return c
		}
		if c := compareLocations(sa.Location, sb.Location); c != 0 {
			return c
		}
		if c := compareStrings(sa.Description, sb.Description); c != 0 {
			return c
		}
	}
	if c := compareStrings(a.Data.BugClass, b.Data.BugClass); c != 0 {
		return c
	}
	if c := compareStrings(a.Data.DocURL, b.Data.DocURL); c != 0 {
		return c
	}
	if c := compareStrings(a.Data.LintersDefFile, b.Data.LintersDefFile); c != 0 {
		return c
	}
	if c := compareStrings(a.Data.Access, b.Data.Access); c != 0 {
		return c
	}
	if c := compareStrings(a.Data.Dotty, b.Data.Dotty); c != 0 {
		return c
	}
	return compareInts(a.Data.NodeKey, b.Data.NodeKey)
}

// Reduce sorts issues by Compare and collapses adjacent equal runs,
// keeping the first occurrence of each run. Returns the surviving issues
// and the number of pruned duplicates. Idempotent: reducing the output
// again prunes nothing.
func Reduce(issues []model.Issue) ([]model.Issue, int) {
	if len(issues) == 0 {
		return issues, 0
	}

	sorted := make([]model.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Compare(&sorted[i], &sorted[j]) < 0
	})

	kept := sorted[:1]
	pruned := 0
	for i := 1; i < len(sorted); i++ {
		if Compare(&sorted[i], &kept[len(kept)-1]) == 0 {
			pruned++
			continue
		}
		kept = append(kept, sorted[i])
	}
	return kept, pruned
}
