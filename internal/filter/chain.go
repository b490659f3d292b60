// Package filter implements the layered suppression policy applied to
// findings before output: external path/type/procedure predicates, the
// kind and bucket policy, and censorship rules. The gates are AND-composed
// and only ever remove findings, never add them. Statistics counting is
// unaffected by any gate.
package filter

import (
	"github.com/hashicorp/go-hclog"

	"github.com/sieve-report/sieve/internal/model"
)

// TagFlaky marks findings the analysis itself considers unstable. They are
// suppressed unless the policy enables report_flaky.
const TagFlaky = "flaky"

// Chain evaluates the filtering gates against issues. One Chain serves a
// whole run; the external predicate set is derived per procedure via
// ForProcedure because those filters are a function of the procedure name.
type Chain struct {
	policy *Policy
	logger hclog.Logger
}

// NewChain builds a Chain over a compiled policy.
func NewChain(policy *Policy, logger hclog.Logger) *Chain {
	return &Chain{policy: policy, logger: logger}
}

// Policy exposes the chain's compiled policy.
func (c *Chain) Policy() *Policy { return c.policy }

// ProcFilters is the external predicate set instantiated for one
// procedure. Must be re-derived per issue rather than cached globally.
type ProcFilters struct {
	policy      *Policy
	procAllowed bool
}

// ForProcedure derives the external filter set for the given procedure.
func (c *Chain) ForProcedure(procName string) *ProcFilters {
	return &ProcFilters{
		policy:      c.policy,
		procAllowed: !c.policy.suppressedProcs.Match(procName),
	}
}

// externalAccept is gate 1: the path, error-type and procedure predicates
// must all accept, unless the description carries the always_report tag,
// which bypasses this gate only.
func (f *ProcFilters) externalAccept(iss *model.Issue) bool {
	if iss.Key.Description.AlwaysReport() {
		return true
	}
	return f.procAllowed &&
		f.policy.pathAllowed(iss.Data.Location.File) &&
		!f.policy.suppressedTypes.Match(iss.Key.Type.ID)
}

// kindBucketAccept is gate 2, active only when filtering is enabled:
// INFO findings are suppressed, and null-dereference-class types must
// additionally carry a reportable bucket. LINTERS-class findings bypass
// the whole gate.
func (c *Chain) kindBucketAccept(iss *model.Issue) bool {
	if !c.policy.Filtering {
		return true
	}
	if iss.Data.BugClass == model.BugClassLinters {
		return true
	}
	if iss.Key.Kind == model.KindInfo {
		return false
	}
	if nullDerefTypes[iss.Key.Type.ID] {
		return c.policy.bucketReportable(iss.Key.Description.Bucket())
	}
	return true
}

// flakyAccept suppresses flaky-tagged findings unless the policy opts in.
func (c *Chain) flakyAccept(iss *model.Issue) bool {
	if c.policy.ReportFlaky {
		return true
	}
	v, ok := iss.Key.Description.TagValue(TagFlaky)
	return !ok || v != "true"
}

// Accept runs gates 1 and 2 plus the footprint requirement. This is the
// acceptance used for defective-procedure classification.
func (c *Chain) Accept(pf *ProcFilters, iss *model.Issue) bool {
	return iss.Key.InFootprint &&
		pf.externalAccept(iss) &&
		c.kindBucketAccept(iss) &&
		c.flakyAccept(iss)
}

// Eligible reports whether the issue may appear in output at all: Accept
// plus the library/model source suppression (lifted in debug mode). Text
// output applies TextEligible on top of this.
func (c *Chain) Eligible(pf *ProcFilters, iss *model.Issue) bool {
	if !c.Accept(pf, iss) {
		return false
	}
	if c.policy.IsLibraryPath(iss.Data.Location.File) && !c.policy.Debug {
		return false
	}
	return true
}

// CensorReason is gate 3: walks the ordered censorship rules and returns
// the first firing rule's reason, or "" when the finding is reportable.
// The reason is computed for every finding and attached to JSON output
// even when other gates suppress it.
func (c *Chain) CensorReason(typeID, file string) string {
	for _, r := range c.policy.rules {
		typeCond := r.Type.Match(typeID) == r.TypePolarity
		fileCond := r.File.Match(file) == r.FilePolarity
		if typeCond && fileCond {
			return r.Reason
		}
	}
	return ""
}

// TextEligible decides whether a censored finding may still appear in
// plain-text output: only when its reason is empty or global filtering is
// disabled.
func (c *Chain) TextEligible(reason string) bool {
	return reason == "" || !c.policy.Filtering
}
