package filter

import (
	"fmt"
	"regexp"
)

// Matcher decides whether a string matches a configured pattern. The
// censorship and path policies are written against this interface so the
// policy data shape stays decoupled from the regexp engine.
type Matcher interface {
	Match(s string) bool
}

type regexMatcher struct {
	re *regexp.Regexp
}

func (m regexMatcher) Match(s string) bool {
	return m.re.MatchString(s)
}

// NewMatcher compiles a single pattern into a Matcher.
func NewMatcher(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return regexMatcher{re: re}, nil
}

// anyMatcher matches when any of its members match. An empty set never
// matches.
type anyMatcher []Matcher

func (m anyMatcher) Match(s string) bool {
	for _, sub := range m {
		if sub.Match(s) {
			return true
		}
	}
	return false
}

// newAnyMatcher compiles a pattern list into a single any-of Matcher.
func newAnyMatcher(patterns []string) (Matcher, error) {
	matchers := make(anyMatcher, 0, len(patterns))
	for _, p := range patterns {
		m, err := NewMatcher(p)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}
