package fileops

import "sync/atomic"

// IdlePercent is the percentage reported when no copy is running or the last one
// was aborted or failed.
const IdlePercent = -1

// Progress is the state shared between the engine and whoever watches it: an abort
// flag set by the watcher and a percentage written by the engine. Both are atomics
// so a UI can poll at a high rate without blocking the copy.
type Progress struct {
	aborted atomic.Bool
	percent atomic.Int32
}

// NewProgress returns an idle Progress.
func NewProgress() *Progress {
	p := &Progress{}
	p.percent.Store(IdlePercent)

	return p
}

// Abort asks the running operation to stop at the next chunk or directory boundary.
func (p *Progress) Abort() {
	p.aborted.Store(true)
}

// Aborted reports whether Abort has been called since the last Reset.
func (p *Progress) Aborted() bool {
	return p.aborted.Load()
}

// Percent returns the current percentage, or IdlePercent.
func (p *Progress) Percent() int {
	return int(p.percent.Load())
}

// Reset clears the abort flag and returns the percentage to IdlePercent.
func (p *Progress) Reset() {
	p.aborted.Store(false)
	p.percent.Store(IdlePercent)
}

// Set stores a percentage, clamped to 0..100. Negative values mean idle.
func (p *Progress) Set(percent int) {
	switch {
	case percent < 0:
		percent = IdlePercent
	case percent > 100: //nolint:mnd // percentage ceiling
		percent = 100
	}

	p.percent.Store(int32(percent)) //nolint:gosec // clamped above
}

// setFraction publishes 100*done/total when total is known.
func (p *Progress) setFraction(done, total int64) {
	if total <= 0 {
		return
	}

	p.Set(int(done * 100 / total)) //nolint:mnd // percentage
}
