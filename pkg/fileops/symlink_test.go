//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package fileops_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/pathops/pkg/fileops"
	"github.com/joe/pathops/pkg/filesystem"
)

// newDiskOps returns an engine over the local disk with retries that do not sleep.
func newDiskOps() *fileops.FileOps {
	ops := fileops.NewFileOps(filesystem.NewRealFileSystem())
	ops.RetryDelay = 0

	return ops
}

// linkedTree lays out keep/precious.txt and mods/link -> keep under a fresh
// temp dir and returns the slash-separated root.
func linkedTree(t *testing.T, g *WithT) string {
	t.Helper()

	root := t.TempDir()
	g.Expect(os.MkdirAll(filepath.Join(root, "keep"), 0o750)).Should(Succeed())
	g.Expect(os.WriteFile(filepath.Join(root, "keep", "precious.txt"), []byte("precious"), 0o600)).Should(Succeed())
	g.Expect(os.MkdirAll(filepath.Join(root, "mods"), 0o750)).Should(Succeed())
	g.Expect(os.Symlink(filepath.Join(root, "keep"), filepath.Join(root, "mods", "link"))).Should(Succeed())

	return filepath.ToSlash(root)
}

func isSymlink(path string) bool {
	info, err := os.Lstat(path)

	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func TestDeleteByPattern_UnlinksSymlinkedDirectory(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := linkedTree(t, g)

	report := newDiskOps().DeleteFileOrDirectoryByPattern(root+"/mods/*", "")

	g.Expect(report.OK()).Should(BeTrue())
	g.Expect(report.Processed).Should(Equal([]string{root + "/mods/link"}))
	g.Expect(isSymlink(root + "/mods/link")).Should(BeFalse())
	g.Expect(root + "/keep/precious.txt").Should(BeAnExistingFile())
}

func TestDelete_SymlinkRootWithTrailingSlashIsUnlinked(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := linkedTree(t, g)

	report := newDiskOps().DeleteFileOrDirectory(root+"/mods/link/", "")

	g.Expect(report.OK()).Should(BeTrue())
	g.Expect(isSymlink(root + "/mods/link")).Should(BeFalse())
	g.Expect(root + "/keep/precious.txt").Should(BeAnExistingFile())
	g.Expect(root + "/mods").Should(BeADirectory())
}

func TestDelete_TreeRemovesFileSymlinksNotTargets(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := linkedTree(t, g)
	g.Expect(os.Symlink(root+"/keep/precious.txt", root+"/mods/precious.lnk")).Should(Succeed())

	report := newDiskOps().DeleteFileOrDirectory(root+"/mods/", "")

	g.Expect(report.OK()).Should(BeTrue())
	g.Expect(root + "/mods").ShouldNot(BeAnExistingFile())
	g.Expect(root + "/keep/precious.txt").Should(BeAnExistingFile())
}

func TestMoveByPattern_MovesSymlinkItself(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := linkedTree(t, g)

	report := newDiskOps().MoveFilesOrDirectoriesByPattern(root+"/mods/*", root+"/out/", "", "")

	g.Expect(report.OK()).Should(BeTrue())
	g.Expect(isSymlink(root + "/out/link")).Should(BeTrue())
	g.Expect(isSymlink(root + "/mods/link")).Should(BeFalse())
	g.Expect(root + "/keep/precious.txt").Should(BeAnExistingFile())
	g.Expect(root + "/out/precious.txt").ShouldNot(BeAnExistingFile())
}

func TestMove_SymlinkRootWithTrailingSlashIsRenamed(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := linkedTree(t, g)

	report := newDiskOps().MoveFileOrDirectory(root+"/mods/link/", root+"/out/link/", "", "")

	g.Expect(report.OK()).Should(BeTrue())
	g.Expect(isSymlink(root + "/out/link")).Should(BeTrue())
	g.Expect(root + "/keep/precious.txt").Should(BeAnExistingFile())
}

func TestMove_TreeCarriesSymlinksAsLinks(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := linkedTree(t, g)
	g.Expect(os.WriteFile(root+"/mods/a.txt", []byte("a"), 0o600)).Should(Succeed())

	report := newDiskOps().MoveFileOrDirectory(root+"/mods/", root+"/moved/", "", "")

	g.Expect(report.OK()).Should(BeTrue())
	g.Expect(root + "/moved/a.txt").Should(BeAnExistingFile())
	g.Expect(isSymlink(root + "/moved/link")).Should(BeTrue())
	g.Expect(root + "/mods").ShouldNot(BeAnExistingFile())
	g.Expect(root + "/keep/precious.txt").Should(BeAnExistingFile())
}

func TestCopy_SkipsSymlinksInsideTree(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := filepath.ToSlash(t.TempDir())
	g.Expect(os.MkdirAll(root+"/src", 0o750)).Should(Succeed())
	g.Expect(os.WriteFile(root+"/src/a.txt", payload(100), 0o600)).Should(Succeed())
	g.Expect(os.Symlink(root+"/src", root+"/src/loop")).Should(Succeed())
	g.Expect(os.Symlink(root+"/src/a.txt", root+"/src/a.lnk")).Should(Succeed())

	ops := newDiskOps()

	report := ops.CopyFileOrDirectory(root+"/src/", root+"/dst/", nil, 0, "", "")

	g.Expect(report.OK()).Should(BeTrue())
	g.Expect(report.Processed).Should(Equal([]string{root + "/src/a.txt"}))
	g.Expect(ops.GetTotalSize(root + "/dst/")).Should(Equal(ops.GetTotalSize(root + "/src/")))
	g.Expect(ops.GetTotalSize(root + "/dst/")).Should(Equal(int64(100)))
	g.Expect(root + "/dst/loop").ShouldNot(BeAnExistingFile())
	g.Expect(root + "/dst/a.lnk").ShouldNot(BeAnExistingFile())
	g.Expect(ops.Progress.Percent()).Should(Equal(100))
}
