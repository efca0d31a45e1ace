package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"
)

// IsDirectory reports whether path exists and is a directory.
func (fo *FileOps) IsDirectory(path string) bool {
	info, err := fo.FS.Stat(path)

	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is a regular file.
func (fo *FileOps) IsFile(path string) bool {
	info, err := fo.FS.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// IsFileOrDirectory reports whether anything exists at path.
func (fo *FileOps) IsFileOrDirectory(path string) bool {
	_, err := fo.FS.Stat(path)

	return err == nil
}

// CreateDirectory creates path and any missing parents (mkdir -p). The configured
// root volume is stripped first and each successively longer prefix is created on
// top of it. Creation carries on past a failed level; the first failure is
// returned for callers that care, but none of the engine's walks stop on it.
func (fo *FileOps) CreateDirectory(path string) error {
	root := fo.rootVolume()

	current := ""
	rest := path

	switch {
	case strings.HasPrefix(path, root):
		current = root
		rest = path[len(root):]
	case strings.HasPrefix(path, "/"):
		current = "/"
	}

	var firstErr error

	for _, component := range strings.Split(rest, "/") {
		if component == "" {
			continue
		}

		current = joinPath(current, component)

		if err := fo.CreateSingleDirectory(current); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// CreateSingleDirectory creates one directory level. An existing entry counts as
// success; any other failure is logged and returned.
func (fo *FileOps) CreateSingleDirectory(path string) error {
	err := fo.FS.Mkdir(path, DefaultDirPermissions)
	if err == nil || errors.Is(err, fs.ErrExist) {
		return nil
	}

	fo.Log.Debug("failed to create directory", zap.String("path", path), zap.Error(err))

	return fmt.Errorf("failed to create directory %s: %w", path, err)
}

// CreateTextFile writes content to path, creating its parent directories first.
// An existing file is truncated.
func (fo *FileOps) CreateTextFile(path, content string) error {
	if parent := parentDir(path); parent != "" {
		_ = fo.CreateDirectory(parent)
	}

	file, err := fo.FS.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}

	_, writeErr := file.Write([]byte(content))
	closeErr := file.Close()

	if writeErr != nil {
		return fmt.Errorf("failed to write file %s: %w", path, writeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("failed to close file %s: %w", path, closeErr)
	}

	return nil
}
