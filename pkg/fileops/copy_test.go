//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package fileops_test

import (
	"errors"
	"io/fs"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	apperrors "github.com/joe/pathops/pkg/errors"
	"github.com/joe/pathops/pkg/fileops"
	"github.com/joe/pathops/pkg/filesystem"
)

func TestCopySingleFile_CopiesAndCountsBytes(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ops, mockFS := newTestOps()
	data := payload(fileops.BufferSize*2 + 100)
	mockFS.AddFile("/src/big.bin", data, fixtureTime)

	var copied int64

	err := ops.CopySingleFile("/src/big.bin", "/dst/nested/big.bin", &copied, int64(len(data))*2, "", "")

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(copied).Should(Equal(int64(len(data))))
	g.Expect(ops.Progress.Percent()).Should(Equal(50))

	content, _, err := mockFS.GetFile("/dst/nested/big.bin")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(content).Should(Equal(data))
}

func TestCopySingleFile_RetriesOpenThenGivesUp(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ops, mockFS := newTestOps()

	err := ops.CopySingleFile("/src/missing.bin", "/dst/missing.bin", nil, 0, "", "")

	g.Expect(errors.Is(err, fileops.ErrOpenRetriesExhausted)).Should(BeTrue())
	g.Expect(errors.Is(err, fs.ErrNotExist)).Should(BeTrue())
	g.Expect(mockFS.Calls("open", "/src/missing.bin")).Should(Equal(fileops.DefaultOpenRetries + 1))
	g.Expect(mockFS.Exists("/dst/missing.bin")).Should(BeFalse())
}

func TestCopySingleFile_RecoversWhenARetrySucceeds(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ops, mockFS := newTestOps()
	ops.OpenRetries = 2
	mockFS.AddFile("/src/a.bin", []byte("abc"), fixtureTime)

	flaky := &flakyOpenFS{MockFileSystem: mockFS, failuresLeft: 1}
	ops.FS = flaky

	err := ops.CopySingleFile("/src/a.bin", "/dst/a.bin", nil, 0, "", "")

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(flaky.attempts).Should(Equal(2))
	g.Expect(mockFS.Exists("/dst/a.bin")).Should(BeTrue())
}

func TestCopySingleFile_WriteFailureRemovesDestination(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ops, mockFS := newTestOps()
	mockFS.AddFile("/src/a.bin", payload(300), fixtureTime)
	mockFS.FailOn("write", "/dst/a.bin", errors.New("input/output error"))
	ops.Progress.Set(30)

	err := ops.CopySingleFile("/src/a.bin", "/dst/a.bin", nil, 300, "", "/logs/dst.log")

	g.Expect(err).Should(MatchError(ContainSubstring("input/output error")))
	g.Expect(mockFS.Exists("/dst/a.bin")).Should(BeFalse())
	g.Expect(mockFS.Exists("/logs/dst.log")).Should(BeFalse())
	g.Expect(ops.Progress.Percent()).Should(Equal(fileops.IdlePercent))
}

func TestCopySingleFile_AbortRemovesPartialFile(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mockFS := filesystem.NewMockFileSystem()
	ops := fileops.NewFileOps(mockFS)
	ops.FS = &abortingFS{MockFileSystem: mockFS, progress: ops.Progress}

	mockFS.AddFile("/src/big.bin", payload(fileops.BufferSize*3), fixtureTime)

	err := ops.CopySingleFile("/src/big.bin", "/dst/big.bin", nil, fileops.BufferSize*3, "", "")

	g.Expect(errors.Is(err, fileops.ErrCopyCancelled)).Should(BeTrue())
	g.Expect(mockFS.Exists("/dst/big.bin")).Should(BeFalse())
	g.Expect(ops.Progress.Percent()).Should(Equal(fileops.IdlePercent))
}

func TestCopySingleFile_UsesConfiguredBufferSize(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mockFS := filesystem.NewMockFileSystem()
	ops := fileops.NewFileOps(mockFS)
	ops.BufferSize = 1024
	ops.FS = &abortingFS{MockFileSystem: mockFS, progress: ops.Progress}

	mockFS.AddFile("/src/a.bin", payload(4096), fixtureTime)

	var copied int64

	err := ops.CopySingleFile("/src/a.bin", "/dst/a.bin", &copied, 4096, "", "")

	// Exactly one chunk goes through before the abort is noticed.
	g.Expect(errors.Is(err, fileops.ErrCopyCancelled)).Should(BeTrue())
	g.Expect(copied).Should(Equal(int64(1024)))
}

func TestCopyFileOrDirectory_FileToFile(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ops, mockFS := newTestOps()
	mockFS.AddFile("/src/a.txt", []byte("hello"), fixtureTime)

	report := ops.CopyFileOrDirectory("/src/a.txt", "/dst/renamed.txt", nil, 0, "", "")

	g.Expect(report.OK()).Should(BeTrue())
	g.Expect(ops.Progress.Percent()).Should(Equal(100))

	content, _, err := mockFS.GetFile("/dst/renamed.txt")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(string(content)).Should(Equal("hello"))
}

func TestCopyFileOrDirectory_FileIntoDirectory(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ops, mockFS := newTestOps()
	mockFS.AddFile("/src/a.txt", []byte("hello"), fixtureTime)

	report := ops.CopyFileOrDirectory("/src/a.txt", "/dst/", nil, 0, "", "")

	g.Expect(report.OK()).Should(BeTrue())
	g.Expect(mockFS.Exists("/dst/a.txt")).Should(BeTrue())
}

func TestCopyFileOrDirectory_CopiesContentsIntoTarget(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ops, mockFS := newTestOps()
	mockFS.AddFile("/src/theme/a.ini", []byte("a"), fixtureTime)
	mockFS.AddFile("/src/theme/icons/b.png", []byte("bb"), fixtureTime)

	report := ops.CopyFileOrDirectory("/src/theme/", "/dst/", nil, 0, "/logs/src.log", "/logs/dst.log")

	g.Expect(report.OK()).Should(BeTrue())
	g.Expect(mockFS.Exists("/dst/a.ini")).Should(BeTrue())
	g.Expect(mockFS.Exists("/dst/icons/b.png")).Should(BeTrue())
	g.Expect(mockFS.Exists("/src/theme/icons/b.png")).Should(BeTrue())

	srcLog, _, _ := mockFS.GetFile("/logs/src.log")
	dstLog, _, _ := mockFS.GetFile("/logs/dst.log")
	g.Expect(string(srcLog)).Should(ContainSubstring("/src/theme/icons/b.png\n"))
	g.Expect(string(dstLog)).Should(ContainSubstring("/dst/icons/b.png\n"))
}

func TestCopyFileOrDirectory_FailureEndsIdleAndIsReported(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ops, mockFS := newTestOps()
	ops.OpenRetries = 0
	mockFS.AddFile("/src/ok.txt", []byte("ok"), fixtureTime)
	mockFS.AddFile("/src/bad.txt", []byte("bad"), fixtureTime)
	mockFS.FailOn("open", "/src/bad.txt", errors.New("permission denied"))

	report := ops.CopyFileOrDirectory("/src/", "/dst/", nil, 0, "", "")

	g.Expect(report.OK()).Should(BeFalse())
	g.Expect(mockFS.Exists("/dst/ok.txt")).Should(BeTrue())
	g.Expect(ops.Progress.Percent()).Should(Equal(fileops.IdlePercent))
	g.Expect(report.Failures).Should(HaveLen(1))

	var actionable apperrors.ActionableError
	g.Expect(errors.As(report.Failures[0].Err, &actionable)).Should(BeTrue())
	g.Expect(actionable.Category()).Should(Equal(apperrors.CategoryPermission))
	g.Expect(report.Err()).Should(HaveOccurred())
}

func TestCopyFileOrDirectory_ProgressIsIdleWhileMeasuring(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ops, mockFS := newTestOps()
	mockFS.AddFile("/src/a.bin", payload(10), fixtureTime)
	mockFS.AddFile("/src/sub/b.bin", payload(20), fixtureTime)

	measuring := &measuringFS{MockFileSystem: mockFS, progress: ops.Progress}
	ops.FS = measuring
	ops.Progress.Set(100)

	report := ops.CopyFileOrDirectory("/src/", "/dst/", nil, 0, "", "")

	g.Expect(report.OK()).Should(BeTrue())
	g.Expect(measuring.seen).ShouldNot(BeEmpty())
	g.Expect(measuring.seen[0]).Should(Equal(fileops.IdlePercent))
	g.Expect(measuring.seen).ShouldNot(ContainElement(100))
	g.Expect(ops.Progress.Percent()).Should(Equal(100))
}

func TestGetTotalSize(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ops, mockFS := newTestOps()
	mockFS.AddFile("/src/a.bin", payload(10), fixtureTime)
	mockFS.AddFile("/src/d1/b.bin", payload(20), fixtureTime)
	mockFS.AddFile("/src/d1/d2/c.bin", payload(30), fixtureTime)
	mockFS.AddDir("/src/empty", fixtureTime)
	mockFS.FailOn("readdir", "/src/d1/d2", errors.New("permission denied"))

	g.Expect(ops.GetTotalSize("/src/a.bin")).Should(Equal(int64(10)))
	g.Expect(ops.GetTotalSize("/src/")).Should(Equal(int64(30)))
	g.Expect(ops.GetTotalSize("/missing")).Should(Equal(int64(0)))
}

// flakyOpenFS fails the first failuresLeft opens.
type flakyOpenFS struct {
	*filesystem.MockFileSystem

	failuresLeft int
	attempts     int
}

func (f *flakyOpenFS) Open(name string) (filesystem.File, error) {
	f.attempts++
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return nil, errors.New("resource busy")
	}

	return f.MockFileSystem.Open(name)
}
