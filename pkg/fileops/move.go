package fileops

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// frame is one pending (source, destination) pair of an iterative tree walk.
type frame struct {
	src string
	dst string
}

// MoveFileOrDirectory moves src to dst. When both end in "/" the source tree is
// moved entry by entry into dst and the emptied source directories are removed.
// Otherwise src is renamed; a dst ending in "/" names the directory to move into.
// Source and destination paths of moved files go to the logSource and logDest journals.
func (fo *FileOps) MoveFileOrDirectory(src, dst, logSource, logDest string) *Report {
	report := &Report{}

	srcJournal := fo.openJournal(logSource)
	defer srcJournal.Close()

	dstJournal := fo.openJournal(logDest)
	defer dstJournal.Close()

	fo.movePath(src, dst, srcJournal, dstJournal, report)

	return report
}

// MoveFilesOrDirectoriesByPattern moves every match of pattern into dst.
// Directory matches keep their own name below dst.
func (fo *FileOps) MoveFilesOrDirectoriesByPattern(pattern, dst, logSource, logDest string) *Report {
	report := &Report{}

	matches, err := fo.resolver.Resolve(pattern)
	if err != nil {
		fo.fail(report, OpResolve, pattern, err)
		return report
	}

	srcJournal := fo.openJournal(logSource)
	defer srcJournal.Close()

	dstJournal := fo.openJournal(logDest)
	defer dstJournal.Close()

	for _, match := range matches {
		target := dst
		if isDirPath(match) {
			target = asDirPath(dst) + nameFromPath(match) + "/"
		}

		fo.movePath(match, target, srcJournal, dstJournal, report)
	}

	return report
}

func (fo *FileOps) movePath(src, dst string, srcJournal, dstJournal *journal, report *Report) {
	if isDirPath(src) && isDirPath(dst) {
		fo.moveDirectory(src, dst, srcJournal, dstJournal, report)
		return
	}

	fo.moveFile(src, dst, srcJournal, dstJournal, report)
}

func (fo *FileOps) moveDirectory(src, dst string, srcJournal, dstJournal *journal, report *Report) {
	info, err := fo.FS.Lstat(entryPath(src))
	if err != nil {
		fo.fail(report, OpStat, src, err)
		return
	}

	// a symlink to a directory is renamed onto dst as the link itself
	if !info.IsDir() {
		fo.moveFile(entryPath(src), entryPath(dst), srcJournal, dstJournal, report)
		return
	}

	if strings.HasPrefix(asDirPath(dst), asDirPath(src)) {
		fo.fail(report, OpRename, src, fmt.Errorf("failed to move %s into %s: %w", src, dst, ErrMoveIntoSelf))
		return
	}

	_ = fo.CreateDirectory(dst)

	stack := []frame{{src: src, dst: dst}}

	var emptied []string

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := fo.FS.ReadDir(current.src)
		if err != nil {
			fo.fail(report, OpReadDir, current.src, err)
			continue
		}

		for _, child := range children {
			childSrc := joinPath(current.src, child.Name())
			childDst := joinPath(current.dst, child.Name())

			if child.IsDir() {
				if err := fo.CreateSingleDirectory(childDst); err != nil {
					fo.fail(report, OpMkdir, childDst, err)
					continue
				}

				stack = append(stack, frame{src: childSrc + "/", dst: childDst + "/"})
				emptied = append(emptied, childSrc)

				continue
			}

			fo.renameEntry(childSrc, childDst, srcJournal, dstJournal, report)
		}
	}

	for i := len(emptied) - 1; i >= 0; i-- {
		if err := fo.FS.Remove(emptied[i]); err != nil {
			fo.fail(report, OpRemove, emptied[i], err)
		}
	}

	if err := fo.FS.Remove(src); err != nil {
		fo.fail(report, OpRemove, src, err)
	}
}

func (fo *FileOps) moveFile(src, dst string, srcJournal, dstJournal *journal, report *Report) {
	if _, err := fo.FS.Lstat(src); err != nil {
		fo.fail(report, OpStat, src, err)
		return
	}

	if isDirPath(dst) {
		if !fo.IsDirectory(dst) {
			_ = fo.CreateDirectory(dst)
		}

		dst += nameFromPath(src)
	} else if parent := parentDir(dst); parent != "" {
		_ = fo.CreateDirectory(parent)
	}

	fo.renameEntry(src, dst, srcJournal, dstJournal, report)
}

// renameEntry replaces whatever is at dst with src.
func (fo *FileOps) renameEntry(src, dst string, srcJournal, dstJournal *journal, report *Report) {
	if _, err := fo.FS.Lstat(dst); err == nil {
		if err := fo.FS.Remove(dst); err != nil {
			fo.Log.Debug("failed to remove existing destination", zap.String("path", dst), zap.Error(err))
		}
	}

	if err := fo.FS.Rename(src, dst); err != nil {
		fo.fail(report, OpRename, src, err)
		return
	}

	fo.Log.Debug("moved", zap.String("from", src), zap.String("to", dst))
	report.processed(src)
	srcJournal.write(src)
	dstJournal.write(dst)
}
