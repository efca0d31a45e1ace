// Package wildcard expands glob patterns into concrete paths.
//
// Patterns use doublestar syntax (*, ?, [...], {a,b} and **). Directory matches
// are returned with a trailing "/" so callers can tell a directory target from a
// file target by the path string alone.
package wildcard

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/joe/pathops/pkg/filesystem"
)

const metaChars = "*?[{\\"

// HasMeta reports whether pattern contains any wildcard syntax.
func HasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, metaChars)
}

// Resolver expands wildcard patterns against a filesystem.
type Resolver struct {
	fs filesystem.FileSystem
}

// NewResolver creates a Resolver backed by fs.
func NewResolver(fs filesystem.FileSystem) *Resolver {
	return &Resolver{fs: fs}
}

// Resolve returns every path matching pattern, sorted. A pattern without
// wildcards resolves to itself when the path exists.
func (r *Resolver) Resolve(pattern string) ([]string, error) {
	pattern = strings.TrimSuffix(pattern, "/")
	if pattern == "" {
		return nil, nil
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid wildcard pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	var (
		matches []string
		err     error
	)

	if globber, ok := r.fs.(filesystem.Globber); ok {
		matches, err = globber.Glob(pattern)
	} else {
		matches, err = r.scanMatches(pattern)
	}

	if err != nil {
		return nil, err
	}

	resolved := make([]string, 0, len(matches))

	for _, match := range matches {
		// a symlinked directory resolves as a plain entry
		info, err := r.fs.Lstat(strings.TrimSuffix(match, "/"))
		if err != nil {
			continue
		}

		if info.IsDir() {
			match = strings.TrimSuffix(match, "/") + "/"
		}

		resolved = append(resolved, match)
	}

	sort.Strings(resolved)

	return resolved, nil
}

// scanMatches walks the static prefix of pattern and matches every entry below it.
func (r *Resolver) scanMatches(pattern string) ([]string, error) {
	if !HasMeta(pattern) {
		if _, err := r.fs.Stat(pattern); err != nil {
			return nil, nil
		}

		return []string{pattern}, nil
	}

	base, _ := doublestar.SplitPattern(pattern)

	scanner := r.fs.Scan(base)

	var matches []string

	for info, ok := scanner.Next(); ok; info, ok = scanner.Next() {
		candidate := path.Join(base, info.RelativePath)

		matched, err := doublestar.Match(pattern, candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to match %s against %q: %w", candidate, pattern, err)
		}

		if matched {
			matches = append(matches, candidate)
		}
	}

	// A missing base directory simply has no matches
	_ = scanner.Err()

	return matches, nil
}
