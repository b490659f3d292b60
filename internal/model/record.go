package model

// FlatTraceStep is a bug-trace step flattened for serialization.
type FlatTraceStep struct {
	Level        int    `json:"level"`
	Filename     string `json:"filename"`
	LineNumber   int    `json:"line_number"`
	ColumnNumber int    `json:"column_number"`
	Description  string `json:"description"`
}

// BugRecord is the fully-resolved, serializable output record for one
// issue. Derived purely from an Issue plus policy inputs; it has no
// lifecycle of its own.
type BugRecord struct {
	BugClass           string          `json:"bug_class"`
	Kind               string          `json:"kind"`
	BugType            string          `json:"bug_type"`
	Qualifier          string          `json:"qualifier"`
	Severity           string          `json:"severity"`
	Visibility         string          `json:"visibility"`
	Line               int             `json:"line"`
	Column             int             `json:"column"`
	Procedure          string          `json:"procedure"`
	ProcedureID        string          `json:"procedure_id"`
	ProcedureStartLine int             `json:"procedure_start_line"`
	File               string          `json:"file"`
	BugTrace           []FlatTraceStep `json:"bug_trace"`
	Key                int             `json:"key"`
	Hash               string          `json:"hash"`
	Dotty              string          `json:"dotty,omitempty"`
	BugTypeHum         string          `json:"bug_type_hum"`
	LintersDefFile     string          `json:"linters_def_file,omitempty"`
	DocURL             string          `json:"doc_url,omitempty"`
	CensoredReason     string          `json:"censored_reason"`
	Access             string          `json:"access,omitempty"`
}

// FlattenTrace converts an issue trace into flat serializable tuples.
func FlattenTrace(trace []TraceStep) []FlatTraceStep {
	flat := make([]FlatTraceStep, 0, len(trace))
	for _, step := range trace {
		flat = append(flat, FlatTraceStep{
			Level:        step.Level,
			Filename:     step.Location.File,
			LineNumber:   step.Location.Line,
			ColumnNumber: step.Location.Column,
			Description:  step.Description,
		})
	}
	return flat
}

// Qualifier resolves the output qualifier text for an issue: the finding
// description plus the synthesized bucket annotation when present.
func (i *Issue) Qualifier() string {
	if b := i.Key.Description.Bucket(); b != "" {
		return "[" + b + "] " + i.Key.Description.Text
	}
	return i.Key.Description.Text
}
