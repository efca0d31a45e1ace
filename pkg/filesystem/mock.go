package filesystem

import (
	"bytes"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockFileSystem is an in-memory filesystem implementation for testing.
// Paths are slash-separated and normalised with path.Clean, so "dir/" and "dir"
// name the same entry.
type MockFileSystem struct {
	mu       sync.RWMutex
	files    map[string]*mockFile
	failures map[string]error
	calls    map[string]int
}

// mockFile represents a file in the mock filesystem.
type mockFile struct {
	path    string
	data    []byte
	modTime time.Time
	isDir   bool
	perm    os.FileMode
}

// mockFileInfo implements os.FileInfo for mock files.
type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
	perm    os.FileMode
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() interface{}   { return nil }

func (fi *mockFileInfo) Mode() os.FileMode {
	if fi.isDir {
		return fi.perm | os.ModeDir
	}

	return fi.perm
}

// mockFileHandle implements the File interface for reading/writing.
type mockFileHandle struct {
	fs     *MockFileSystem
	path   string
	reader *bytes.Reader
	writer *bytes.Buffer
	closed bool
}

func (f *mockFileHandle) Read(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	if f.reader == nil {
		return 0, io.EOF
	}
	return f.reader.Read(p)
}

func (f *mockFileHandle) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	if err := f.fs.injected("write", f.path); err != nil {
		return 0, err
	}
	if f.writer == nil {
		f.writer = &bytes.Buffer{}
	}
	return f.writer.Write(p)
}

func (f *mockFileHandle) Close() error {
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true

	// If we were writing, save the data
	if f.writer != nil {
		f.fs.mu.Lock()
		defer f.fs.mu.Unlock()

		if file, exists := f.fs.files[f.path]; exists {
			file.data = append([]byte(nil), f.writer.Bytes()...)
		}
	}

	return nil
}

func (f *mockFileHandle) Stat() (os.FileInfo, error) {
	if f.closed {
		return nil, os.ErrClosed
	}

	return f.fs.Stat(f.path)
}

// NewMockFileSystem creates a new in-memory filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:    make(map[string]*mockFile),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// Append opens a file for appending, creating it if necessary.
func (fs *MockFileSystem) Append(name string) (File, error) {
	name = cleanPath(name)
	if err := fs.record("append", name); err != nil {
		return nil, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	file, exists := fs.files[name]
	if exists && file.isDir {
		return nil, &os.PathError{Op: "open", Path: name, Err: fmt.Errorf("is a directory")}
	}

	if !exists {
		fs.ensureParentLocked(name)
		file = &mockFile{path: name, modTime: time.Now(), perm: 0o644}
		fs.files[name] = file
	}

	return &mockFileHandle{
		fs:     fs,
		path:   name,
		writer: bytes.NewBuffer(append([]byte(nil), file.data...)),
	}, nil
}

// Create creates a file for writing, truncating any existing content.
func (fs *MockFileSystem) Create(name string) (File, error) {
	name = cleanPath(name)
	if err := fs.record("create", name); err != nil {
		return nil, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if file, exists := fs.files[name]; exists && file.isDir {
		return nil, &os.PathError{Op: "open", Path: name, Err: fmt.Errorf("is a directory")}
	}

	fs.ensureParentLocked(name)

	fs.files[name] = &mockFile{
		path:    name,
		data:    []byte{},
		modTime: time.Now(),
		perm:    0o644,
	}

	return &mockFileHandle{
		fs:     fs,
		path:   name,
		writer: &bytes.Buffer{},
	}, nil
}

// Lstat returns file information. The mock has no symlinks, so it matches Stat.
func (fs *MockFileSystem) Lstat(name string) (os.FileInfo, error) {
	return fs.Stat(name)
}

// Mkdir creates a single directory. The parent must already exist.
func (fs *MockFileSystem) Mkdir(name string, perm os.FileMode) error {
	name = cleanPath(name)
	if err := fs.record("mkdir", name); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, exists := fs.files[name]; exists || isRootPath(name) {
		return &os.PathError{Op: "mkdir", Path: name, Err: iofs.ErrExist}
	}

	parent := path.Dir(name)
	if !isRootPath(parent) {
		if dir, exists := fs.files[parent]; !exists || !dir.isDir {
			return &os.PathError{Op: "mkdir", Path: name, Err: iofs.ErrNotExist}
		}
	}

	fs.files[name] = &mockFile{
		path:    name,
		modTime: time.Now(),
		isDir:   true,
		perm:    perm,
	}

	return nil
}

// Open opens a file for reading.
func (fs *MockFileSystem) Open(name string) (File, error) {
	name = cleanPath(name)
	if err := fs.record("open", name); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, exists := fs.files[name]
	if !exists {
		return nil, &os.PathError{Op: "open", Path: name, Err: iofs.ErrNotExist}
	}

	if file.isDir {
		return nil, &os.PathError{Op: "open", Path: name, Err: fmt.Errorf("is a directory")}
	}

	return &mockFileHandle{
		fs:     fs,
		path:   name,
		reader: bytes.NewReader(file.data),
	}, nil
}

// ReadDir lists the direct children of a directory sorted by name.
func (fs *MockFileSystem) ReadDir(name string) ([]os.FileInfo, error) {
	name = cleanPath(name)
	if err := fs.record("readdir", name); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if !isRootPath(name) {
		dir, exists := fs.files[name]
		if !exists {
			return nil, &os.PathError{Op: "readdir", Path: name, Err: iofs.ErrNotExist}
		}
		if !dir.isDir {
			return nil, &os.PathError{Op: "readdir", Path: name, Err: fmt.Errorf("not a directory")}
		}
	}

	var infos []os.FileInfo

	for p, file := range fs.files {
		if p == name || path.Dir(p) != name {
			continue
		}

		infos = append(infos, file.info())
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})

	return infos, nil
}

// Remove removes a file or empty directory.
func (fs *MockFileSystem) Remove(name string) error {
	name = cleanPath(name)
	if err := fs.record("remove", name); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	file, exists := fs.files[name]
	if !exists {
		return &os.PathError{Op: "remove", Path: name, Err: iofs.ErrNotExist}
	}

	// If it's a directory, check if it's empty
	if file.isDir {
		for p := range fs.files {
			if strings.HasPrefix(p, name+"/") {
				return &os.PathError{Op: "remove", Path: name, Err: fmt.Errorf("directory not empty")}
			}
		}
	}

	delete(fs.files, name)
	return nil
}

// Rename moves a file or a whole directory subtree.
func (fs *MockFileSystem) Rename(oldName, newName string) error {
	oldName = cleanPath(oldName)
	newName = cleanPath(newName)
	if err := fs.record("rename", oldName); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	file, exists := fs.files[oldName]
	if !exists {
		return &os.LinkError{Op: "rename", Old: oldName, New: newName, Err: iofs.ErrNotExist}
	}

	parent := path.Dir(newName)
	if !isRootPath(parent) {
		if dir, ok := fs.files[parent]; !ok || !dir.isDir {
			return &os.LinkError{Op: "rename", Old: oldName, New: newName, Err: iofs.ErrNotExist}
		}
	}

	delete(fs.files, oldName)
	file.path = newName
	fs.files[newName] = file

	if file.isDir {
		for p, child := range fs.files {
			if strings.HasPrefix(p, oldName+"/") {
				moved := newName + strings.TrimPrefix(p, oldName)
				delete(fs.files, p)
				child.path = moved
				fs.files[moved] = child
			}
		}
	}

	return nil
}

// Scan returns an iterator over all files in a directory tree.
func (fs *MockFileSystem) Scan(name string) FileScanner {
	return newMockFileScanner(fs, cleanPath(name))
}

// Stat returns file information.
func (fs *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	name = cleanPath(name)
	if err := fs.record("stat", name); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if isRootPath(name) {
		return &mockFileInfo{name: name, isDir: true, perm: 0o755}, nil
	}

	file, exists := fs.files[name]
	if !exists {
		return nil, &os.PathError{Op: "stat", Path: name, Err: iofs.ErrNotExist}
	}

	return file.info(), nil
}

// Helper methods for testing

// AddFile adds a file to the mock filesystem with the given content and modtime.
func (fs *MockFileSystem) AddFile(name string, content []byte, modTime time.Time) {
	name = cleanPath(name)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.ensureParentLocked(name)

	fs.files[name] = &mockFile{
		path:    name,
		data:    append([]byte(nil), content...),
		modTime: modTime,
		perm:    0o644,
	}
}

// AddDir adds a directory (and any missing parents) to the mock filesystem.
func (fs *MockFileSystem) AddDir(name string, modTime time.Time) {
	name = cleanPath(name)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.ensureParentLocked(name)

	fs.files[name] = &mockFile{
		path:    name,
		modTime: modTime,
		isDir:   true,
		perm:    0o755,
	}
}

// Calls returns how many times op ("open", "create", "remove", ...) was invoked on name.
func (fs *MockFileSystem) Calls(op, name string) int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.calls[op+"\x00"+cleanPath(name)]
}

// Exists checks if a path exists in the mock filesystem.
func (fs *MockFileSystem) Exists(name string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, exists := fs.files[cleanPath(name)]
	return exists
}

// FailOn makes every subsequent op on name return err. A nil err clears the failure.
// The "write" op fails writes through handles opened on name.
func (fs *MockFileSystem) FailOn(op, name string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	key := op + "\x00" + cleanPath(name)
	if err == nil {
		delete(fs.failures, key)
		return
	}

	fs.failures[key] = err
}

// GetFile retrieves a file's content from the mock filesystem.
func (fs *MockFileSystem) GetFile(name string) ([]byte, time.Time, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, exists := fs.files[cleanPath(name)]
	if !exists {
		return nil, time.Time{}, os.ErrNotExist
	}

	if file.isDir {
		return nil, time.Time{}, fmt.Errorf("is a directory")
	}

	return append([]byte(nil), file.data...), file.modTime, nil
}

// ListFiles returns all paths in the mock filesystem.
func (fs *MockFileSystem) ListFiles() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	paths := make([]string, 0, len(fs.files))
	for p := range fs.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ensureParentLocked creates every missing ancestor of name. Caller holds the lock.
func (fs *MockFileSystem) ensureParentLocked(name string) {
	var missing []string

	for dir := path.Dir(name); !isRootPath(dir); dir = path.Dir(dir) {
		if _, exists := fs.files[dir]; exists {
			break
		}
		missing = append(missing, dir)
	}

	for _, dir := range missing {
		fs.files[dir] = &mockFile{
			path:    dir,
			modTime: time.Now(),
			isDir:   true,
			perm:    0o755,
		}
	}
}

// injected returns the failure registered for op on name, if any.
func (fs *MockFileSystem) injected(op, name string) error {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.failures[op+"\x00"+name]
}

// record counts a call and returns any injected failure for it.
func (fs *MockFileSystem) record(op, name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	key := op + "\x00" + name
	fs.calls[key]++

	return fs.failures[key]
}

func (f *mockFile) info() *mockFileInfo {
	return &mockFileInfo{
		name:    path.Base(f.path),
		size:    int64(len(f.data)),
		modTime: f.modTime,
		isDir:   f.isDir,
		perm:    f.perm,
	}
}

func cleanPath(name string) string {
	return path.Clean(name)
}

func isRootPath(name string) bool {
	return name == "." || name == "/"
}
