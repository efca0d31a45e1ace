package fileops

import (
	"sync"

	"go.uber.org/zap"

	"github.com/joe/pathops/pkg/filesystem"
)

// journalMu serialises line writes across every journal in the process.
//
//nolint:gochecknoglobals // one lock shared by all FileOps instances
var journalMu sync.Mutex

// journal is an append-only record of the paths an operation processed, one per
// line. It opens its file on the first line so operations that touch nothing
// leave no file behind. A nil journal or an empty path discards lines.
type journal struct {
	fo     *FileOps
	path   string
	file   filesystem.File
	broken bool
}

func (fo *FileOps) openJournal(path string) *journal {
	if path == "" {
		return nil
	}

	return &journal{fo: fo, path: path}
}

func (j *journal) write(line string) {
	if j == nil || j.broken {
		return
	}

	journalMu.Lock()
	defer journalMu.Unlock()

	if j.file == nil {
		if parent := parentDir(j.path); parent != "" {
			_ = j.fo.CreateDirectory(parent)
		}

		file, err := j.fo.FS.Append(j.path)
		if err != nil {
			j.broken = true
			j.fo.Log.Warn("failed to open journal", zap.String("journal", j.path), zap.Error(err))

			return
		}

		j.file = file
	}

	if _, err := j.file.Write([]byte(line + "\n")); err != nil {
		j.fo.Log.Warn("failed to write journal line", zap.String("journal", j.path), zap.Error(err))
	}
}

func (j *journal) Close() {
	if j == nil || j.file == nil {
		return
	}

	journalMu.Lock()
	defer journalMu.Unlock()

	if err := j.file.Close(); err != nil {
		j.fo.Log.Warn("failed to close journal", zap.String("journal", j.path), zap.Error(err))
	}

	j.file = nil
}
