// Package fileops is the path engine: directory creation, recursive copy, move and
// delete, wildcard batches, tree mirroring and flag files.
//
// Every tree walk is iterative (an explicit stack or queue of frames) so deep trees
// never grow the goroutine stack. Per-entry failures never stop a walk; they are
// collected in the Report each operation returns. Long copies publish a percentage
// and honour an abort flag through the injected Progress.
package fileops

import (
	"errors"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/joe/pathops/pkg/errors"
	"github.com/joe/pathops/pkg/filesystem"
	"github.com/joe/pathops/pkg/wildcard"
)

// Exported constants.
const (
	// BufferSize is the default chunk size used for file copy operations (16KB)
	BufferSize = 16 * 1024
	// DefaultDirPermissions is the default permission mode for created directories
	DefaultDirPermissions = 0o750
	// DefaultOpenRetries is how many times a failed open is retried before the file is abandoned
	DefaultOpenRetries = 10
	// DefaultRetryDelay is the pause between open attempts
	DefaultRetryDelay = 10 * time.Millisecond
	// DefaultRootVolume is the root-volume prefix stripped before recursive directory creation
	DefaultRootVolume = "/"
)

// Exported variables.
var (
	ErrCopyCancelled        = errors.New("copy cancelled")
	ErrDirectoryNotEmpty    = errors.New("directory not empty")
	ErrMoveIntoSelf         = errors.New("cannot move a directory into itself")
	ErrOpenRetriesExhausted = errors.New("open retries exhausted")
)

// FileOps runs path operations against a filesystem.
// The zero value is not usable; construct it with NewFileOps.
type FileOps struct {
	FS       filesystem.FileSystem
	Progress *Progress
	Log      *zap.Logger

	// BufferSize is the copy chunk size in bytes.
	BufferSize int
	// OpenRetries is the number of extra open attempts after the first one fails.
	OpenRetries int
	RetryDelay  time.Duration
	// RootVolume is stripped from absolute paths before CreateDirectory walks them.
	RootVolume string

	resolver *wildcard.Resolver
	enricher apperrors.Enricher
	buffers  *bufferPool
}

// NewFileOps creates a new FileOps instance with the given filesystem and defaults
// for everything else. Fields may be adjusted before the first operation.
func NewFileOps(fs filesystem.FileSystem) *FileOps {
	return &FileOps{
		FS:          fs,
		Progress:    NewProgress(),
		Log:         zap.NewNop(),
		BufferSize:  BufferSize,
		OpenRetries: DefaultOpenRetries,
		RetryDelay:  DefaultRetryDelay,
		RootVolume:  DefaultRootVolume,
		resolver:    wildcard.NewResolver(fs),
		enricher:    apperrors.NewEnricher(),
		buffers:     newBufferPool(),
	}
}

// NewRealFileOps creates a new FileOps instance using the real filesystem.
func NewRealFileOps() *FileOps {
	return NewFileOps(filesystem.NewRealFileSystem())
}

func (fo *FileOps) bufferSize() int {
	if fo.BufferSize <= 0 {
		return BufferSize
	}

	return fo.BufferSize
}

func (fo *FileOps) rootVolume() string {
	if fo.RootVolume == "" {
		return DefaultRootVolume
	}

	return fo.RootVolume
}
