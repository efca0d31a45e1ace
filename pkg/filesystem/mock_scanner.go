package filesystem

import (
	"sort"
	"strings"
)

// mockFileScanner implements FileScanner for MockFileSystem.
type mockFileScanner struct {
	fs      *MockFileSystem
	root    string
	files   []FileInfo
	index   int
	scanned bool
}

// newMockFileScanner creates a new scanner for the given directory.
func newMockFileScanner(fs *MockFileSystem, root string) *mockFileScanner {
	return &mockFileScanner{
		fs:    fs,
		root:  root,
		files: make([]FileInfo, 0),
		index: -1,
	}
}

// Next advances to the next file and returns its info.
func (s *mockFileScanner) Next() (FileInfo, bool) {
	// Scan on first call
	if !s.scanned {
		s.scan()
		s.scanned = true
	}

	s.index++
	if s.index >= len(s.files) {
		return FileInfo{}, false
	}

	return s.files[s.index], true
}

// Err returns any error that occurred during scanning.
func (s *mockFileScanner) Err() error {
	return nil // MockFileSystem doesn't produce errors during scanning
}

// scan collects all entries under the root directory.
func (s *mockFileScanner) scan() {
	s.fs.mu.RLock()
	defer s.fs.mu.RUnlock()

	prefix := s.root + "/"
	if isRootPath(s.root) {
		prefix = ""
		if s.root == "/" {
			prefix = "/"
		}
	}

	for p, file := range s.fs.files {
		if p == s.root || !strings.HasPrefix(p, prefix) {
			continue
		}

		s.files = append(s.files, FileInfo{
			RelativePath: strings.TrimPrefix(p, prefix),
			Size:         int64(len(file.data)),
			ModTime:      file.modTime,
			IsDir:        file.isDir,
		})
	}

	// Sort files by path for consistent ordering
	sort.Slice(s.files, func(i, j int) bool {
		return s.files[i].RelativePath < s.files[j].RelativePath
	})
}
