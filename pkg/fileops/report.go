package fileops

import (
	"errors"

	"go.uber.org/zap"
)

// Operation names recorded in a Failure.
const (
	OpCopy    = "copy"
	OpCreate  = "create"
	OpMkdir   = "mkdir"
	OpOpen    = "open"
	OpReadDir = "readdir"
	OpRemove  = "remove"
	OpRename  = "rename"
	OpResolve = "resolve"
	OpStat    = "stat"
	OpWrite   = "write"
)

// Failure is one entry an operation could not process.
type Failure struct {
	Op   string
	Path string
	// Err is enriched with a category and suggestions (see pkg/errors).
	Err error
}

// Report is the result of one engine operation. Walks continue past failed
// entries, so a Report can hold both processed paths and failures.
type Report struct {
	Processed []string
	Failures  []Failure
	Cancelled bool
}

// Err joins every failure into one error, or returns nil when there were none.
func (r *Report) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}

	errs := make([]error, 0, len(r.Failures))
	for _, failure := range r.Failures {
		errs = append(errs, failure.Err)
	}

	return errors.Join(errs...)
}

// OK reports whether the operation finished without failures or cancellation.
func (r *Report) OK() bool {
	return r != nil && len(r.Failures) == 0 && !r.Cancelled
}

func (r *Report) processed(path string) {
	r.Processed = append(r.Processed, path)
}

// fail records a failure on report after enriching and logging it.
func (fo *FileOps) fail(report *Report, op, path string, err error) {
	enriched := fo.enricher.Enrich(err, path)

	fo.Log.Warn("path operation failed",
		zap.String("op", op),
		zap.String("path", path),
		zap.Error(err),
	)

	report.Failures = append(report.Failures, Failure{Op: op, Path: path, Err: enriched})
}
