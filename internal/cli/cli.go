// Package cli dispatches a parsed command line to the path engine.
package cli

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/joe/pathops/internal/config"
	apperrors "github.com/joe/pathops/pkg/errors"
	"github.com/joe/pathops/pkg/fileops"
	"github.com/joe/pathops/pkg/wildcard"
)

// Runner executes one subcommand against a FileOps.
type Runner struct {
	cfg      *config.Config
	ops      *fileops.FileOps
	base     string
	out      io.Writer
	enricher apperrors.Enricher
}

// NewRunner creates a Runner. Relative paths are resolved against base, the
// path part of a --remote URL; an empty base leaves them unchanged. Plain
// output such as size totals is written to out.
func NewRunner(cfg *config.Config, ops *fileops.FileOps, base string, out io.Writer) *Runner {
	return &Runner{cfg: cfg, ops: ops, base: base, out: out, enricher: apperrors.NewEnricher()}
}

// Title describes the running command for the progress UI.
func (r *Runner) Title() string {
	cfg := r.cfg

	switch cfg.Command() {
	case config.CommandCopy:
		return fmt.Sprintf("Copying %s to %s", cfg.Copy.Source, cfg.Copy.Dest)
	case config.CommandMove:
		return fmt.Sprintf("Moving %s to %s", cfg.Move.Source, cfg.Move.Dest)
	case config.CommandDelete:
		return "Deleting " + strings.Join(cfg.Delete.Targets, ", ")
	case config.CommandMirror:
		return fmt.Sprintf("Mirroring %s of %s onto %s", cfg.Mirror.Mode, cfg.Mirror.Source, cfg.Mirror.Target)
	case config.CommandFlags:
		return fmt.Sprintf("Writing flags for %s into %s", cfg.Flags.Pattern, cfg.Flags.OutputDir)
	case config.CommandSize:
		return "Measuring " + strings.Join(cfg.Size.Paths, ", ")
	case config.CommandMkdir:
		return "Creating " + strings.Join(cfg.Mkdir.Paths, ", ")
	default:
		return "pathops"
	}
}

// ShowsProgress reports whether the command publishes a copy percentage worth
// showing in the progress UI.
func (r *Runner) ShowsProgress() bool {
	switch r.cfg.Command() {
	case config.CommandCopy:
		return true
	case config.CommandMirror:
		return r.cfg.Mirror.Mode == fileops.MirrorCopy
	default:
		return false
	}
}

// Run executes the configured command and returns its report.
func (r *Runner) Run() *fileops.Report {
	cfg := r.cfg
	logSource, logDest := r.resolve(cfg.LogSource), r.resolve(cfg.LogDest)

	switch cfg.Command() {
	case config.CommandCopy:
		src, dst := r.resolve(cfg.Copy.Source), r.resolve(cfg.Copy.Dest)
		if wildcard.HasMeta(src) {
			return r.ops.CopyFileOrDirectoryByPattern(src, dst, logSource, logDest)
		}

		return r.ops.CopyFileOrDirectory(src, dst, nil, 0, logSource, logDest)

	case config.CommandMove:
		src, dst := r.resolve(cfg.Move.Source), r.resolve(cfg.Move.Dest)
		if wildcard.HasMeta(src) {
			return r.ops.MoveFilesOrDirectoriesByPattern(src, dst, logSource, logDest)
		}

		return r.ops.MoveFileOrDirectory(src, dst, logSource, logDest)

	case config.CommandDelete:
		return r.deleteAll(cfg.Delete.Targets, logSource)

	case config.CommandMirror:
		var filter wildcard.Filter
		if cfg.Mirror.Include != "" {
			filter = wildcard.NewGlobFilter(cfg.Mirror.Include)
		}

		return r.ops.MirrorFiles(r.resolve(cfg.Mirror.Source), r.resolve(cfg.Mirror.Target), cfg.Mirror.Mode, filter)

	case config.CommandFlags:
		return r.ops.CreateFlagFiles(r.resolve(cfg.Flags.Pattern), r.resolve(cfg.Flags.OutputDir))

	case config.CommandSize:
		return r.sizes(cfg.Size.Paths)

	case config.CommandMkdir:
		return r.mkdirs(cfg.Mkdir.Paths)
	}

	return &fileops.Report{}
}

func (r *Runner) deleteAll(targets []string, logSource string) *fileops.Report {
	report := &fileops.Report{}

	for _, target := range targets {
		target = r.resolve(target)

		var one *fileops.Report
		if wildcard.HasMeta(target) {
			one = r.ops.DeleteFileOrDirectoryByPattern(target, logSource)
		} else {
			one = r.ops.DeleteFileOrDirectory(target, logSource)
		}

		merge(report, one)
	}

	return report
}

func (r *Runner) sizes(paths []string) *fileops.Report {
	report := &fileops.Report{}

	var total int64

	for _, p := range paths {
		p = r.resolve(p)

		if !r.ops.IsFileOrDirectory(p) {
			r.fail(report, fileops.OpStat, p, fmt.Errorf("%s: %w", p, fs.ErrNotExist))

			continue
		}

		size := r.ops.GetTotalSize(p)
		total += size

		_, _ = fmt.Fprintf(r.out, "%d\t%s\n", size, p)

		report.Processed = append(report.Processed, p)
	}

	if len(paths) > 1 {
		_, _ = fmt.Fprintf(r.out, "%d\ttotal\n", total)
	}

	return report
}

func (r *Runner) mkdirs(paths []string) *fileops.Report {
	report := &fileops.Report{}

	for _, p := range paths {
		p = r.resolve(p)

		if err := r.ops.CreateDirectory(p); err != nil {
			r.fail(report, fileops.OpMkdir, p, err)
			continue
		}

		report.Processed = append(report.Processed, p)
	}

	return report
}

// resolve joins a relative p onto the remote base path, keeping a trailing "/".
func (r *Runner) resolve(p string) string {
	if p == "" || r.base == "" || strings.HasPrefix(p, "/") {
		return p
	}

	joined := path.Join(r.base, p)
	if strings.HasSuffix(p, "/") {
		joined += "/"
	}

	return joined
}

func (r *Runner) fail(report *fileops.Report, op, p string, err error) {
	report.Failures = append(report.Failures, fileops.Failure{Op: op, Path: p, Err: r.enricher.Enrich(err, p)})
}

func merge(into, from *fileops.Report) {
	into.Processed = append(into.Processed, from.Processed...)
	into.Failures = append(into.Failures, from.Failures...)
	into.Cancelled = into.Cancelled || from.Cancelled
}
