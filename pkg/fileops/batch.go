package fileops

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/joe/pathops/pkg/filesystem"
	"github.com/joe/pathops/pkg/wildcard"
)

// MirrorMode selects what MirrorFiles replays onto the target tree.
type MirrorMode int

// MirrorMode values.
const (
	MirrorDelete MirrorMode = iota
	MirrorCopy
)

// ErrUnknownMirrorMode is returned when a mirror mode name is not recognised.
var ErrUnknownMirrorMode = errors.New("unknown mirror mode")

// ParseMirrorMode parses "delete" or "copy".
func ParseMirrorMode(text string) (MirrorMode, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "delete":
		return MirrorDelete, nil
	case "copy":
		return MirrorCopy, nil
	default:
		return MirrorDelete, fmt.Errorf("%w: %q", ErrUnknownMirrorMode, text)
	}
}

// String returns the mode name.
func (m MirrorMode) String() string {
	switch m {
	case MirrorDelete:
		return "delete"
	case MirrorCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so the mode can be parsed from flags.
func (m *MirrorMode) UnmarshalText(text []byte) error {
	mode, err := ParseMirrorMode(string(text))
	if err != nil {
		return err
	}

	*m = mode

	return nil
}

// CopyFileOrDirectoryByPattern copies every match of pattern to toDir. The batch
// is one top-level copy: the total covers all matches and progress runs from 0 to
// 100 across the whole batch.
//
//nolint:lll // mirrors the engine's other copy entry points
func (fo *FileOps) CopyFileOrDirectoryByPattern(pattern, toDir, logSource, logDest string) *Report {
	report := &Report{}

	fo.Progress.Set(IdlePercent)

	matches, err := fo.resolver.Resolve(pattern)
	if err != nil {
		fo.fail(report, OpResolve, pattern, err)
		return report
	}

	var total int64
	for _, match := range matches {
		total += fo.GetTotalSize(match)
	}

	run := &copyRun{
		copied:     new(int64),
		total:      total,
		srcJournal: fo.openJournal(logSource),
		dstJournal: fo.openJournal(logDest),
		report:     report,
	}

	defer run.srcJournal.Close()
	defer run.dstJournal.Close()

	fo.Progress.Set(0)

	for _, match := range matches {
		if report.Cancelled {
			break
		}

		fo.copyPath(match, toDir, run)
	}

	fo.finishProgress(report)

	return report
}

// MirrorFiles replays the files found under source onto target: each file's path
// relative to source is looked up under target. MirrorDelete deletes those target
// paths and never touches source. MirrorCopy copies each source file to its target
// path, skipping files whose target path is the file itself. An optional filter
// limits which relative paths take part.
func (fo *FileOps) MirrorFiles(source, target string, mode MirrorMode, filter wildcard.Filter) *Report {
	report := &Report{}

	entries, err := filesystem.Collect(fo.FS.Scan(source))
	if err != nil {
		fo.fail(report, OpReadDir, source, err)
		return report
	}

	type pair struct {
		src string
		dst string
	}

	var pairs []pair

	for _, entry := range entries {
		if entry.IsDir {
			continue
		}

		if filter != nil && !filter.ShouldInclude(entry.RelativePath) {
			continue
		}

		pairs = append(pairs, pair{
			src: joinPath(source, entry.RelativePath),
			dst: joinPath(target, entry.RelativePath),
		})
	}

	if mode == MirrorDelete {
		for _, p := range pairs {
			fo.deletePath(p.dst, nil, report)
		}

		return report
	}

	fo.Progress.Set(IdlePercent)

	var total int64

	for _, p := range pairs {
		if p.src != p.dst {
			total += fo.GetTotalSize(p.src)
		}
	}

	run := &copyRun{copied: new(int64), total: total, report: report}

	fo.Progress.Set(0)

	for _, p := range pairs {
		if p.src == p.dst {
			continue
		}

		if fo.Progress.Aborted() {
			fo.cancel(report, p.dst)
			break
		}

		if err := fo.copyFile(p.src, p.dst, run); errors.Is(err, ErrCopyCancelled) {
			break
		}
	}

	fo.finishProgress(report)

	return report
}

// CreateFlagFiles writes an empty file into outputDir for every match of pattern,
// named after the match's base name. Nothing is created when nothing matches.
func (fo *FileOps) CreateFlagFiles(pattern, outputDir string) *Report {
	report := &Report{}

	matches, err := fo.resolver.Resolve(pattern)
	if err != nil {
		fo.fail(report, OpResolve, pattern, err)
		return report
	}

	if len(matches) == 0 {
		return report
	}

	_ = fo.CreateDirectory(outputDir)

	prefix := outputDir
	if prefix != "" {
		prefix = asDirPath(prefix)
	}

	for _, match := range matches {
		name := nameFromPath(match)
		if name == "" {
			continue
		}

		flag := prefix + name

		file, err := fo.FS.Create(flag)
		if err != nil {
			fo.fail(report, OpCreate, flag, err)
			continue
		}

		if err := file.Close(); err != nil {
			fo.fail(report, OpCreate, flag, err)
			continue
		}

		fo.Log.Debug("created flag file", zap.String("path", flag))
		report.processed(flag)
	}

	return report
}
