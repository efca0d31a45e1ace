package wildcard

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter decides whether a relative path takes part in a batch operation.
type Filter interface {
	// ShouldInclude returns true if the entry at relativePath should be processed
	ShouldInclude(relativePath string) bool
}

// GlobFilter implements Filter using a glob pattern.
type GlobFilter struct {
	normalizedPattern string
	isEmpty           bool
}

// NewGlobFilter creates a new GlobFilter with the given pattern.
// Empty pattern matches all files.
func NewGlobFilter(pattern string) *GlobFilter {
	return &GlobFilter{
		normalizedPattern: strings.ToLower(pattern),
		isEmpty:           pattern == "",
	}
}

// ShouldInclude reports whether relativePath matches, ignoring case.
func (f *GlobFilter) ShouldInclude(relativePath string) bool {
	if f.isEmpty {
		return true
	}

	matched, err := doublestar.Match(f.normalizedPattern, strings.ToLower(relativePath))
	if err != nil {
		// If pattern is invalid, don't match
		return false
	}

	return matched
}
