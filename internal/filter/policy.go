package filter

import "fmt"

// Bug type ids of the null-dereference class. When filtering is enabled
// these receive an additional reportable-bucket check on top of the kind
// gate.
var nullDerefTypes = map[string]bool{
	"FIELD_NOT_NULL_CHECKED":     true,
	"NULL_DEREFERENCE":           true,
	"PARAMETER_NOT_NULL_CHECKED": true,
	"PREMATURE_NIL_TERMINATION":  true,
	"EMPTY_VECTOR_ACCESS":        true,
}

// RuleConfig is one censorship rule as declared in the policy file.
type RuleConfig struct {
	TypePolarity bool   `yaml:"type_polarity"`
	TypePattern  string `yaml:"type_pattern"`
	FilePolarity bool   `yaml:"file_polarity"`
	FilePattern  string `yaml:"file_pattern"`
	Reason       string `yaml:"reason"`
}

// PolicyConfig is the YAML shape of the filtering policy.
type PolicyConfig struct {
	Filtering         bool         `yaml:"filtering"`
	Debug             bool         `yaml:"debug"`
	ReportFlaky       bool         `yaml:"report_flaky"`
	PathWhitelist     []string     `yaml:"path_whitelist"`
	PathBlacklist     []string     `yaml:"path_blacklist"`
	SuppressedTypes   []string     `yaml:"suppressed_types"`
	SuppressedProcs   []string     `yaml:"suppressed_procs"`
	LibraryPaths      []string     `yaml:"library_paths"`
	ReportableBuckets []string     `yaml:"reportable_buckets"`
	Censorship        []RuleConfig `yaml:"censorship"`
}

// Rule is a compiled censorship rule. It fires (rejects the finding with
// Reason) when the finding's type-id match against the type pattern equals
// TypePolarity and the file-path match against the file pattern equals
// FilePolarity. First firing rule wins.
type Rule struct {
	TypePolarity bool
	Type         Matcher
	FilePolarity bool
	File         Matcher
	Reason       string
}

// Policy is the compiled filtering policy consumed by the Chain.
type Policy struct {
	Filtering   bool
	Debug       bool
	ReportFlaky bool

	pathWhitelist   Matcher
	hasWhitelist    bool
	pathBlacklist   Matcher
	suppressedTypes Matcher
	suppressedProcs Matcher
	libraryPaths    Matcher

	reportableBuckets map[string]bool
	rules             []Rule
}

// CompilePolicy compiles a PolicyConfig into matcher-backed form.
func CompilePolicy(cfg *PolicyConfig) (*Policy, error) {
	p := &Policy{
		Filtering:         cfg.Filtering,
		Debug:             cfg.Debug,
		ReportFlaky:       cfg.ReportFlaky,
		hasWhitelist:      len(cfg.PathWhitelist) > 0,
		reportableBuckets: make(map[string]bool, len(cfg.ReportableBuckets)),
	}

	var err error
	if p.pathWhitelist, err = newAnyMatcher(cfg.PathWhitelist); err != nil {
		return nil, fmt.Errorf("path whitelist: %w", err)
	}
	if p.pathBlacklist, err = newAnyMatcher(cfg.PathBlacklist); err != nil {
		return nil, fmt.Errorf("path blacklist: %w", err)
	}
	if p.suppressedTypes, err = newAnyMatcher(cfg.SuppressedTypes); err != nil {
		return nil, fmt.Errorf("suppressed types: %w", err)
	}
	if p.suppressedProcs, err = newAnyMatcher(cfg.SuppressedProcs); err != nil {
		return nil, fmt.Errorf("suppressed procs: %w", err)
	}
	if p.libraryPaths, err = newAnyMatcher(cfg.LibraryPaths); err != nil {
		return nil, fmt.Errorf("library paths: %w", err)
	}

	for _, b := range cfg.ReportableBuckets {
		p.reportableBuckets[b] = true
	}

	for _, rc := range cfg.Censorship {
		typeMatcher, err := NewMatcher(rc.TypePattern)
		if err != nil {
			return nil, fmt.Errorf("censorship rule type pattern: %w", err)
		}
		fileMatcher, err := NewMatcher(rc.FilePattern)
		if err != nil {
			return nil, fmt.Errorf("censorship rule file pattern: %w", err)
		}
		p.rules = append(p.rules, Rule{
			TypePolarity: rc.TypePolarity,
			Type:         typeMatcher,
			FilePolarity: rc.FilePolarity,
			File:         fileMatcher,
			Reason:       rc.Reason,
		})
	}

	return p, nil
}

// pathAllowed applies whitelist then blacklist to a source path.
func (p *Policy) pathAllowed(path string) bool {
	if p.hasWhitelist && !p.pathWhitelist.Match(path) {
		return false
	}
	return !p.pathBlacklist.Match(path)
}

// IsLibraryPath reports whether the path belongs to library/model sources,
// which are suppressed from output unless debug mode is on.
func (p *Policy) IsLibraryPath(path string) bool {
	return p.libraryPaths.Match(path)
}

// bucketReportable classifies a description bucket tag. An absent bucket
// is not reportable.
func (p *Policy) bucketReportable(bucket string) bool {
	return bucket != "" && p.reportableBuckets[bucket]
}
