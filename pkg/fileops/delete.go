package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// DeleteFileOrDirectory removes target. A target without a trailing "/" is a
// single file and a missing file is a no-op. A target ending in "/" is deleted
// with its whole tree, deepest entries first. Removed paths are appended to the
// journal at logSource when it is non-empty.
func (fo *FileOps) DeleteFileOrDirectory(target, logSource string) *Report {
	report := &Report{}

	journal := fo.openJournal(logSource)
	defer journal.Close()

	fo.deletePath(target, journal, report)

	return report
}

// DeleteFileOrDirectoryByPattern deletes every match of pattern independently.
func (fo *FileOps) DeleteFileOrDirectoryByPattern(pattern, logSource string) *Report {
	report := &Report{}

	matches, err := fo.resolver.Resolve(pattern)
	if err != nil {
		fo.fail(report, OpResolve, pattern, err)
		return report
	}

	journal := fo.openJournal(logSource)
	defer journal.Close()

	for _, match := range matches {
		fo.deletePath(match, journal, report)
	}

	return report
}

func (fo *FileOps) deletePath(target string, journal *journal, report *Report) {
	if !isDirPath(target) {
		if _, err := fo.FS.Lstat(target); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				fo.fail(report, OpStat, target, err)
			}

			return
		}

		fo.removeEntry(target, journal, report)

		return
	}

	fo.deleteTree(target, journal, report)
}

// deleteTree is a post-order walk over an explicit stack. A directory stays on the
// stack until a listing finds it empty; if its second listing still shows
// children, one of them could not be removed and the directory is given up.
// Symlinks, the root included, are removed as entries and never walked.
func (fo *FileOps) deleteTree(root string, journal *journal, report *Report) {
	stack := []string{root}
	listed := make(map[string]bool)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		entry := entryPath(top)

		info, err := fo.FS.Lstat(entry)
		if err != nil {
			stack = stack[:len(stack)-1]

			if !errors.Is(err, fs.ErrNotExist) {
				fo.fail(report, OpStat, top, err)
			}

			continue
		}

		mode := info.Mode()

		switch {
		case mode.IsRegular() || mode&os.ModeSymlink != 0:
			stack = stack[:len(stack)-1]
			fo.removeEntry(entry, journal, report)

		case mode.IsDir():
			children, err := fo.FS.ReadDir(top)
			if err != nil {
				stack = stack[:len(stack)-1]
				fo.fail(report, OpReadDir, top, err)

				continue
			}

			if len(children) == 0 {
				stack = stack[:len(stack)-1]
				fo.removeEntry(top, journal, report)

				continue
			}

			if listed[top] {
				stack = stack[:len(stack)-1]
				fo.fail(report, OpRemove, top, fmt.Errorf("failed to remove %s: %w", top, ErrDirectoryNotEmpty))

				continue
			}

			listed[top] = true

			for _, child := range children {
				childPath := joinPath(top, child.Name())
				if child.IsDir() {
					childPath += "/"
				}

				stack = append(stack, childPath)
			}

		default:
			stack = stack[:len(stack)-1]
			fo.Log.Info("skipping unsupported entry", zap.String("path", top), zap.Stringer("mode", mode))
		}
	}
}

func (fo *FileOps) removeEntry(path string, journal *journal, report *Report) {
	if err := fo.FS.Remove(path); err != nil {
		fo.fail(report, OpRemove, path, err)
		return
	}

	fo.Log.Debug("removed", zap.String("path", path))
	report.processed(path)
	journal.write(path)
}
