package filesystem

import (
	"time"
)

// FileScanner is an iterator over files in a directory tree.
// It provides a simple Next pattern for traversing directory contents.
type FileScanner interface {
	// Next advances to the next entry and returns its info.
	// Returns (FileInfo{}, false) when done or on error.
	// Check Err() after Next() returns false to distinguish between end-of-scan and error.
	Next() (FileInfo, bool)

	// Err returns any error that occurred during scanning.
	Err() error
}

// FileInfo contains metadata about a scanned entry.
type FileInfo struct {
	// RelativePath is the slash-separated path relative to the scan root
	RelativePath string

	// Size is the file size in bytes
	Size int64

	// ModTime is the modification time
	ModTime time.Time

	// IsDir indicates if this is a directory
	IsDir bool
}

// Collect drains a scanner into a slice.
func Collect(scanner FileScanner) ([]FileInfo, error) {
	var infos []FileInfo

	for info, ok := scanner.Next(); ok; info, ok = scanner.Next() {
		infos = append(infos, info)
	}

	return infos, scanner.Err()
}
