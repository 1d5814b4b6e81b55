// Package priority computes per-file priorities from pattern rules and
// version-history recency, and orders files for chunking.
package priority

import (
	"regexp"
	"strings"
)

// Matcher reports whether a relative path matches a rule pattern.
type Matcher interface {
	Match(path string) bool
}

// substringMatcher matches paths containing a literal pattern.
type substringMatcher struct {
	literal string
}

func (m substringMatcher) Match(path string) bool {
	return strings.Contains(path, m.literal)
}

// regexpMatcher matches paths that contain the pattern text literally or
// match it as a compiled expression.
type regexpMatcher struct {
	literal string
	re      *regexp.Regexp
}

func (m regexpMatcher) Match(path string) bool {
	return strings.Contains(path, m.literal) || m.re.MatchString(path)
}

// neverMatcher is used for patterns that look like expressions but do not compile.
type neverMatcher struct{}

func (neverMatcher) Match(string) bool { return false }

// NewMatcher selects a matcher for pattern. Every pattern matches a path
// containing it literally, so "pages/[id]" matches "pages/[id].tsx".
// Patterns with expression syntax also match as compiled expressions.
// A pattern that fails to compile never matches. The second return value is false in that
// case so callers can log it.
func NewMatcher(pattern string) (Matcher, bool) {
	if regexp.QuoteMeta(pattern) == pattern {
		return substringMatcher{literal: pattern}, true
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return neverMatcher{}, false
	}
	return regexpMatcher{literal: pattern, re: re}, true
}
