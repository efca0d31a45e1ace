package fileops

import (
	"go.uber.org/zap"
)

// GetTotalSize returns the size of a regular file, or the summed size of every
// regular file below a directory. Symlinks are not followed and unreadable
// directories count as empty. The walk is breadth first over an explicit queue.
func (fo *FileOps) GetTotalSize(path string) int64 {
	info, err := fo.FS.Lstat(entryPath(path))
	if err != nil {
		return 0
	}

	if !info.IsDir() {
		if info.Mode().IsRegular() {
			return info.Size()
		}

		return 0
	}

	var total int64

	queue := []string{path}

	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		children, err := fo.FS.ReadDir(dir)
		if err != nil {
			fo.Log.Debug("skipping unreadable directory", zap.String("path", dir), zap.Error(err))
			continue
		}

		for _, child := range children {
			switch {
			case child.IsDir():
				queue = append(queue, joinPath(dir, child.Name()))
			case child.Mode().IsRegular():
				total += child.Size()
			}
		}
	}

	return total
}
