package filesystem

import (
	"fmt"
	"path/filepath"

	"github.com/kr/fs"
)

// realFileScanner implements FileScanner using the kr/fs walker.
// Entries are visited in lexical order and symlinks are not followed.
type realFileScanner struct {
	root    string
	files   []FileInfo
	index   int
	err     error
	scanned bool
}

// newRealFileScanner creates a new scanner for the given directory.
func newRealFileScanner(root string) *realFileScanner {
	return &realFileScanner{
		root:  root,
		files: make([]FileInfo, 0),
		index: -1,
	}
}

// Next advances to the next file and returns its info.
func (s *realFileScanner) Next() (FileInfo, bool) {
	// Scan on first call
	if !s.scanned {
		s.scan()
		s.scanned = true
	}

	if s.err != nil {
		return FileInfo{}, false
	}

	s.index++
	if s.index >= len(s.files) {
		return FileInfo{}, false
	}

	return s.files[s.index], true
}

// Err returns any error that occurred during scanning.
func (s *realFileScanner) Err() error {
	return s.err
}

// scan walks the directory tree and collects all entries.
func (s *realFileScanner) scan() {
	walker := fs.Walk(s.root)

	for walker.Step() {
		if err := walker.Err(); err != nil {
			// The root itself is unreadable: nothing to list
			if walker.Path() == s.root {
				s.err = fmt.Errorf("failed to scan %s: %w", s.root, err)
				return
			}

			// Unreadable subtrees are skipped, not fatal
			continue
		}

		relPath, err := filepath.Rel(s.root, walker.Path())
		if err != nil {
			s.err = fmt.Errorf("failed to get relative path for %s: %w", walker.Path(), err)
			return
		}

		// Skip the root directory itself
		if relPath == "." {
			continue
		}

		stat := walker.Stat()
		s.files = append(s.files, FileInfo{
			RelativePath: filepath.ToSlash(relPath),
			Size:         stat.Size(),
			ModTime:      stat.ModTime(),
			IsDir:        stat.IsDir(),
		})
	}
}
