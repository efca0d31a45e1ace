package errors

import "strings"

// PatternMatcher matches error messages to categories using string patterns.
type PatternMatcher interface {
	Match(errorMsg string) ErrorCategory
}

// NewPatternMatcher creates a new PatternMatcher with predefined patterns.
// Rules are checked in order; the first category with a matching pattern wins, so
// more specific causes (a cancelled copy, a cross-device move) come before the
// generic path category that many wrapped messages also mention.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		rules: []categoryRule{
			{CategoryCancelled, []string{
				"copy cancelled",
			}},
			{CategoryPermission, []string{
				"permission denied",
				"access denied",
				"operation not permitted",
				"read-only file system",
			}},
			{CategoryDiskSpace, []string{
				"no space left on device",
				"disk full",
				"quota exceeded",
			}},
			{CategoryMove, []string{
				"cross-device link",
				"invalid cross-device",
			}},
			{CategoryDelete, []string{
				"directory not empty",
				"cannot remove",
			}},
			{CategoryCopy, []string{
				"open retries exhausted",
				"short write",
				"input/output error",
				"i/o error",
			}},
			{CategoryPath, []string{
				"no such file or directory",
				"file not found",
				"file does not exist",
				"path does not exist",
				"not a directory",
			}},
		},
	}
}

type categoryRule struct {
	category ErrorCategory
	patterns []string
}

// patternMatcher is the concrete implementation of PatternMatcher.
type patternMatcher struct {
	rules []categoryRule
}

// Match returns the error category based on pattern matching.
func (m *patternMatcher) Match(errorMsg string) ErrorCategory {
	lowerMsg := strings.ToLower(errorMsg)

	for _, rule := range m.rules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lowerMsg, pattern) {
				return rule.category
			}
		}
	}

	// No match found
	return CategoryUnknown
}
