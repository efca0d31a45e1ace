package fileops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/joe/pathops/pkg/filesystem"
)

// copyRun is the state shared by every file of one top-level copy: the running
// byte count, the total it is measured against, the journals and the report.
type copyRun struct {
	copied     *int64
	total      int64
	srcJournal *journal
	dstJournal *journal
	report     *Report
}

// CopySingleFile copies one file from -> to, creating the destination's parent
// directories. copied accumulates bytes across calls so a caller copying many files
// can report progress against one total; nil starts a fresh count.
//
// The abort flag is checked before every chunk. On abort or write failure the
// partial destination is removed, progress is set to IdlePercent and the error is
// returned (ErrCopyCancelled on abort). Opens are retried OpenRetries times.
//
//nolint:lll // mirrors the engine's other copy entry points
func (fo *FileOps) CopySingleFile(from, to string, copied *int64, total int64, logSource, logDest string) error {
	if copied == nil {
		copied = new(int64)
	}

	run := &copyRun{
		copied:     copied,
		total:      total,
		srcJournal: fo.openJournal(logSource),
		dstJournal: fo.openJournal(logDest),
		report:     &Report{},
	}

	defer run.srcJournal.Close()
	defer run.dstJournal.Close()

	return fo.copyFile(from, to, run)
}

// CopyFileOrDirectory copies from -> to. A to without a trailing "/" is a file
// target. Otherwise to is a directory: a source file lands inside it and a source
// directory has its contents copied into it, subdirectories included. Symlinks
// inside a copied tree are skipped.
//
// A nil copied marks the top-level call: progress reads IdlePercent while the
// total is measured with GetTotalSize, then starts at 0 and ends at 100 when every entry was copied (IdlePercent
// when any failed or the copy was aborted). Nested callers pass their own running
// count and total and own the final percentage.
//
//nolint:lll // mirrors the engine's other copy entry points
func (fo *FileOps) CopyFileOrDirectory(from, to string, copied *int64, total int64, logSource, logDest string) *Report {
	report := &Report{}

	topLevel := copied == nil
	if topLevel {
		copied = new(int64)
		fo.Progress.Set(IdlePercent)
		total = fo.GetTotalSize(from)
		fo.Progress.Set(0)
	}

	run := &copyRun{
		copied:     copied,
		total:      total,
		srcJournal: fo.openJournal(logSource),
		dstJournal: fo.openJournal(logDest),
		report:     report,
	}

	defer run.srcJournal.Close()
	defer run.dstJournal.Close()

	fo.copyPath(from, to, run)

	if topLevel {
		fo.finishProgress(report)
	}

	return report
}

// finishProgress publishes the final percentage of a top-level operation.
func (fo *FileOps) finishProgress(report *Report) {
	if report.OK() {
		fo.Progress.Set(100) //nolint:mnd // complete
		return
	}

	fo.Progress.Set(IdlePercent)
}

func (fo *FileOps) copyPath(from, to string, run *copyRun) {
	if !isDirPath(to) {
		_ = fo.copyFile(from, to, run)
		return
	}

	_ = fo.CreateDirectory(to)

	stack := []frame{{src: from, dst: to}}

	for len(stack) > 0 {
		if fo.Progress.Aborted() {
			fo.cancel(run.report, to)
			return
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, err := fo.FS.Lstat(entryPath(current.src))
		if err != nil {
			fo.fail(run.report, OpStat, current.src, err)
			continue
		}

		// symlinks are not followed, matching GetTotalSize
		if info.Mode()&os.ModeSymlink != 0 {
			fo.Log.Info("skipping symlink", zap.String("path", current.src))
			continue
		}

		if info.Mode().IsRegular() {
			target := current.dst
			if isDirPath(target) {
				target = joinPath(target, nameFromPath(current.src))
			}

			if err := fo.copyFile(current.src, target, run); errors.Is(err, ErrCopyCancelled) {
				return
			}

			fo.Progress.setFraction(*run.copied, run.total)

			continue
		}

		if !info.IsDir() {
			fo.Log.Info("skipping unsupported entry", zap.String("path", current.src))
			continue
		}

		children, err := fo.FS.ReadDir(current.src)
		if err != nil {
			fo.fail(run.report, OpReadDir, current.src, err)
			continue
		}

		for _, child := range children {
			childSrc := joinPath(current.src, child.Name())
			childDst := joinPath(current.dst, child.Name())

			if child.IsDir() {
				childDst += "/"
			}

			stack = append(stack, frame{src: childSrc, dst: childDst})
		}
	}
}

// cancel records an abort noticed between entries.
func (fo *FileOps) cancel(report *Report, path string) {
	fo.Progress.Set(IdlePercent)

	if report.Cancelled {
		return
	}

	report.Cancelled = true
	fo.fail(report, OpCopy, path, fmt.Errorf("failed to copy %s: %w", path, ErrCopyCancelled))
}

func (fo *FileOps) copyFile(from, to string, run *copyRun) error {
	if parent := parentDir(to); parent != "" {
		_ = fo.CreateDirectory(parent)
	}

	source, err := fo.openWithRetry(func() (filesystem.File, error) { return fo.FS.Open(from) })
	if err != nil {
		err = fmt.Errorf("failed to open source file %s: %w", from, err)
		fo.fail(run.report, OpOpen, from, err)

		return err
	}

	defer func() {
		_ = source.Close()
	}()

	dest, err := fo.openWithRetry(func() (filesystem.File, error) { return fo.FS.Create(to) })
	if err != nil {
		err = fmt.Errorf("failed to create destination file %s: %w", to, err)
		fo.fail(run.report, OpCreate, to, err)

		return err
	}

	_, err = fo.copyLoop(source, dest, run)

	closeErr := dest.Close()
	if err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close %s: %w", to, closeErr)
	}

	if err != nil {
		if removeErr := fo.FS.Remove(to); removeErr != nil {
			fo.Log.Debug("failed to remove partial file", zap.String("path", to), zap.Error(removeErr))
		}

		fo.Progress.Set(IdlePercent)

		err = fmt.Errorf("failed to copy %s to %s: %w", from, to, err)

		if errors.Is(err, ErrCopyCancelled) {
			run.report.Cancelled = true
			fo.fail(run.report, OpCopy, to, err)
		} else {
			fo.fail(run.report, OpWrite, to, err)
		}

		return err
	}

	fo.Log.Debug("copied", zap.String("from", from), zap.String("to", to))
	run.report.processed(from)
	run.srcJournal.write(from)
	run.dstJournal.write(to)

	return nil
}

// copyLoop moves data chunk by chunk, checking the abort flag before each chunk
// and publishing the percentage after each one.
func (fo *FileOps) copyLoop(src io.Reader, dst io.Writer, run *copyRun) (int64, error) {
	buf := fo.buffers.get(fo.bufferSize())
	defer fo.buffers.put(buf)

	var written int64

	for {
		if fo.Progress.Aborted() {
			return written, ErrCopyCancelled
		}

		n, readErr := src.Read(*buf)
		if n > 0 {
			if err := writeFull(dst, (*buf)[:n]); err != nil {
				return written, err
			}

			written += int64(n)
			*run.copied += int64(n)
			fo.Progress.setFraction(*run.copied, run.total)
		}

		if errors.Is(readErr, io.EOF) {
			return written, nil
		}

		if readErr != nil {
			return written, fmt.Errorf("failed to read: %w", readErr)
		}
	}
}

// writeFull writes all of chunk, looping on short writes.
func writeFull(dst io.Writer, chunk []byte) error {
	for len(chunk) > 0 {
		n, err := dst.Write(chunk)
		if err != nil {
			return fmt.Errorf("failed to write: %w", err)
		}

		if n == 0 {
			return io.ErrShortWrite
		}

		chunk = chunk[n:]
	}

	return nil
}

// openWithRetry calls open until it succeeds or OpenRetries extra attempts fail.
func (fo *FileOps) openWithRetry(open func() (filesystem.File, error)) (filesystem.File, error) {
	var lastErr error

	for attempt := 0; attempt <= fo.OpenRetries; attempt++ {
		if attempt > 0 && fo.RetryDelay > 0 {
			time.Sleep(fo.RetryDelay)
		}

		file, err := open()
		if err == nil {
			return file, nil
		}

		lastErr = err
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrOpenRetriesExhausted, fo.OpenRetries+1, lastErr)
}
