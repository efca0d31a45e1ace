package filesystem

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path"

	"github.com/pkg/sftp"
)

// SFTPFileSystem implements FileSystem over a single SFTP session.
// The path engine is single-threaded, so one client is enough.
type SFTPFileSystem struct {
	client *sftp.Client
}

// NewSFTPFileSystem creates a new SFTP filesystem using an established connection.
func NewSFTPFileSystem(conn *SFTPConnection) *SFTPFileSystem {
	return NewSFTPFileSystemFromClient(conn.Client())
}

// NewSFTPFileSystemFromClient wraps an existing SFTP client.
func NewSFTPFileSystemFromClient(client *sftp.Client) *SFTPFileSystem {
	return &SFTPFileSystem{client: client}
}

// Append opens a remote file for appending, creating it if necessary.
func (fs *SFTPFileSystem) Append(name string) (File, error) {
	file, err := fs.client.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file %s for append: %w", name, err)
	}

	return file, nil
}

// Create creates a remote file for writing.
func (fs *SFTPFileSystem) Create(name string) (File, error) {
	file, err := fs.client.Create(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote file %s: %w", name, err)
	}

	return file, nil
}

// Lstat returns file information for a remote entry without following symlinks.
func (fs *SFTPFileSystem) Lstat(name string) (os.FileInfo, error) {
	info, err := fs.client.Lstat(name)
	if err != nil {
		return nil, fmt.Errorf("failed to lstat remote file %s: %w", name, err)
	}

	return info, nil
}

// Mkdir creates a single remote directory.
// SFTP servers report an existing directory as a generic failure, so that case
// is translated to fs.ErrExist.
func (fs *SFTPFileSystem) Mkdir(name string, perm os.FileMode) error { //nolint:revive // perm unused - SFTP uses server defaults
	err := fs.client.Mkdir(name)
	if err == nil {
		return nil
	}

	if info, statErr := fs.client.Stat(name); statErr == nil && info.IsDir() {
		return fmt.Errorf("failed to create remote directory %s: %w", name, iofs.ErrExist)
	}

	return fmt.Errorf("failed to create remote directory %s: %w", name, err)
}

// Open opens a remote file for reading.
func (fs *SFTPFileSystem) Open(name string) (File, error) {
	file, err := fs.client.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file %s: %w", name, err)
	}

	return file, nil
}

// ReadDir lists a remote directory.
func (fs *SFTPFileSystem) ReadDir(name string) ([]os.FileInfo, error) {
	infos, err := fs.client.ReadDir(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote directory %s: %w", name, err)
	}

	return infos, nil
}

// Remove removes a remote file or empty directory.
func (fs *SFTPFileSystem) Remove(name string) error {
	err := fs.client.Remove(path.Clean(name))
	if err != nil {
		return fmt.Errorf("failed to remove remote file %s: %w", name, err)
	}

	return nil
}

// Rename moves a remote entry, replacing newPath when the server supports
// the posix-rename extension.
func (fs *SFTPFileSystem) Rename(oldPath, newPath string) error {
	err := fs.client.PosixRename(oldPath, newPath)
	if err == nil {
		return nil
	}

	err = fs.client.Rename(oldPath, newPath)
	if err != nil {
		return fmt.Errorf("failed to rename remote file %s to %s: %w", oldPath, newPath, err)
	}

	return nil
}

// Scan returns an iterator over all entries in a remote directory tree.
func (fs *SFTPFileSystem) Scan(name string) FileScanner {
	return newSFTPScanner(fs.client, name)
}

// Stat returns file information for a remote file.
func (fs *SFTPFileSystem) Stat(name string) (os.FileInfo, error) {
	info, err := fs.client.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("failed to stat remote file %s: %w", name, err)
	}

	return info, nil
}
