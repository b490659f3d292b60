// Package model holds the data shapes the reporting pipeline operates on:
// findings as decoded from the analysis results store, issues as the unit
// of reporting, and the run-wide statistics accumulator.
package model

// Finding kinds, ordered from most to least severe.
const (
	KindError   = "ERROR"
	KindWarning = "WARNING"
	KindInfo    = "INFO"
	KindAdvice  = "ADVICE"
	KindLike    = "LIKE"
)

// Description tag names recognized by the filtering policy. Any other tag
// is carried through untouched.
const (
	TagAlwaysReport = "always_report"
	TagBucket       = "bucket"
)

// BugClassLinters marks findings produced by lint checkers rather than the
// symbolic analysis; they bypass the kind/bucket policy.
const BugClassLinters = "LINTERS"

// Tag is a name/value pair attached to a finding description.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Description is the human-readable text of a finding plus structured tags.
// The pipeline treats it as opaque beyond tag extraction.
type Description struct {
	Text string `json:"text"`
	Tags []Tag  `json:"tags,omitempty"`
}

// TagValue returns the value of the named tag and whether it is present.
func (d Description) TagValue(name string) (string, bool) {
	for _, t := range d.Tags {
		if t.Name == name {
			return t.Value, true
		}
	}
	return "", false
}

// AlwaysReport reports whether the description carries the always_report tag.
func (d Description) AlwaysReport() bool {
	v, ok := d.TagValue(TagAlwaysReport)
	return ok && v == "true"
}

// Bucket returns the description's bucket tag value, or "" when absent.
func (d Description) Bucket() string {
	v, _ := d.TagValue(TagBucket)
	return v
}

// BugType identifies a finding type: a stable string id plus a human label.
type BugType struct {
	ID    string `json:"id"`
	Human string `json:"human"`
}

// Location is a position in a source file. Column may be 0 when unknown.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// TraceStep is one step of a bug trace: a location, a rendered description
// and a nesting level.
type TraceStep struct {
	Level       int      `json:"level"`
	Location    Location `json:"location"`
	Description string   `json:"description"`
}

// FindingKey holds the immutable identity fields of one finding.
// Findings without InFootprint are never reported.
type FindingKey struct {
	Kind        string      `json:"kind"`
	Type        BugType     `json:"type"`
	Description Description `json:"description"`
	Severity    string      `json:"severity"`
	InFootprint bool        `json:"in_footprint"`
}

// FindingData holds the contextual fields paired with a FindingKey.
type FindingData struct {
	Location       Location    `json:"location"`
	Trace          []TraceStep `json:"trace,omitempty"`
	Visibility     string      `json:"visibility"`
	BugClass       string      `json:"bug_class"`
	DocURL         string      `json:"doc_url,omitempty"`
	LintersDefFile string      `json:"linters_def_file,omitempty"`
	NodeKey        int         `json:"node_key"`
	Access         string      `json:"access,omitempty"`
	Dotty          string      `json:"dotty,omitempty"`
}

// Finding is one FindingKey/FindingData pair as stored in a unit's error log.
type Finding struct {
	Key  FindingKey  `json:"key"`
	Data FindingData `json:"data"`
}

// AnalysisUnit is one procedure's analysis result, decoded read-only from
// the results store. The pipeline never mutates it.
type AnalysisUnit struct {
	ProcName     string    `json:"proc_name"`
	ProcID       string    `json:"proc_id"`
	Signature    string    `json:"signature"`
	Location     Location  `json:"location"`
	Findings     []Finding `json:"findings"`
	SpecCount    int       `json:"spec_count"`
	SymOps       int       `json:"sym_ops"`
	Failure      string    `json:"failure,omitempty"`
	VisitedLines []int     `json:"visited_lines,omitempty"`
}

// Failure markers recorded by the analysis engine.
const (
	FailureTimeout = "timeout"
	FailureCrash   = "crash"
)

// Issue is the reporting unit: one finding attributed to its enclosing
// procedure. Never mutated after extraction.
type Issue struct {
	ProcName     string
	ProcID       string
	ProcLocation Location
	Key          FindingKey
	Data         FindingData
}

// Extract yields one Issue per finding in the unit's error log, carrying
// the unit's procedure identity and location. No ordering is imposed here.
func Extract(unit *AnalysisUnit) []Issue {
	issues := make([]Issue, 0, len(unit.Findings))
	for _, f := range unit.Findings {
		issues = append(issues, Issue{
			ProcName:     unit.ProcName,
			ProcID:       unit.ProcID,
			ProcLocation: unit.Location,
			Key:          f.Key,
			Data:         f.Data,
		})
	}
	return issues
}

// RunStatistics accumulates run-wide procedure counts. Created once per
// run, mutated while units are processed, read once to render summaries.
// Invariant: Verified+Checked == TotalProcs and Defective implies the unit
// was not counted verified; Timeouts is an independent overlay.
type RunStatistics struct {
	RunID      string `json:"run_id"`
	Commit     string `json:"commit,omitempty"`
	Branch     string `json:"branch,omitempty"`
	TotalProcs int    `json:"total_procs"`
	TotalSpecs int    `json:"total_specs"`
	Verified   int    `json:"verified"`
	Checked    int    `json:"checked"`
	Defective  int    `json:"defective"`
	Timeouts   int    `json:"timeouts"`

	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// CountFinding updates the per-kind finding counters. Only footprint
// findings are counted; filtering gates do not apply to statistics.
func (s *RunStatistics) CountFinding(key FindingKey) {
	if !key.InFootprint {
		return
	}
	switch key.Kind {
	case KindError:
		s.Errors++
	case KindWarning:
		s.Warnings++
	case KindInfo:
		s.Infos++
	}
}
