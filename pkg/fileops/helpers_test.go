package fileops_test

import (
	"bytes"
	"os"
	"time"

	"github.com/joe/pathops/pkg/fileops"
	"github.com/joe/pathops/pkg/filesystem"
)

// newTestOps returns an engine over a fresh mock filesystem with retries that do not sleep.
func newTestOps() (*fileops.FileOps, *filesystem.MockFileSystem) {
	mockFS := filesystem.NewMockFileSystem()
	ops := fileops.NewFileOps(mockFS)
	ops.RetryDelay = 0

	return ops, mockFS
}

func payload(size int) []byte {
	return bytes.Repeat([]byte{'x'}, size)
}

//nolint:gochecknoglobals // fixed modtime for deterministic fixtures
var fixtureTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// abortingFS aborts the session after the first chunk written through Create.
type abortingFS struct {
	*filesystem.MockFileSystem

	progress *fileops.Progress
}

func (a *abortingFS) Create(name string) (filesystem.File, error) {
	file, err := a.MockFileSystem.Create(name)
	if err != nil {
		return nil, err
	}

	return &abortingFile{File: file, progress: a.progress}, nil
}

type abortingFile struct {
	filesystem.File

	progress *fileops.Progress
}

func (f *abortingFile) Write(p []byte) (int, error) {
	n, err := f.File.Write(p)
	f.progress.Abort()

	return n, err
}

// measuringFS records the published percentage every time an entry is looked up.
type measuringFS struct {
	*filesystem.MockFileSystem

	progress *fileops.Progress
	seen     []int
}

func (m *measuringFS) Lstat(name string) (os.FileInfo, error) {
	m.seen = append(m.seen, m.progress.Percent())

	return m.MockFileSystem.Lstat(name)
}
