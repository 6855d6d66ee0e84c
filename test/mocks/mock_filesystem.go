package mocks

import (
	"TreeSnap/interfaces"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockFile implements the interfaces.File interface for testing
type MockFile struct {
	name     string
	content  *bytes.Buffer
	readOnly bool
	closed   bool
	onClose  func([]byte)
}

func (f *MockFile) Read(p []byte) (n int, err error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	return f.content.Read(p)
}

func (f *MockFile) Write(p []byte) (n int, err error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	if f.readOnly {
		return 0, os.ErrPermission
	}
	return f.content.Write(p)
}

func (f *MockFile) Close() error {
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true
	if f.onClose != nil {
		f.onClose(f.content.Bytes())
	}
	return nil
}

// MockFileInfo implements os.FileInfo for testing
type MockFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
	isDir   bool
}

func (fi *MockFileInfo) Name() string {
	return fi.name
}

func (fi *MockFileInfo) Size() int64 {
	return fi.size
}

func (fi *MockFileInfo) Mode() os.FileMode {
	return fi.mode
}

func (fi *MockFileInfo) ModTime() time.Time {
	return fi.modTime
}

func (fi *MockFileInfo) IsDir() bool {
	return fi.isDir
}

func (fi *MockFileInfo) Sys() interface{} {
	return nil
}

// MockDirEntry implements os.DirEntry for testing
type MockDirEntry struct {
	name  string
	isDir bool
}

func (e *MockDirEntry) Name() string {
	return e.name
}

func (e *MockDirEntry) IsDir() bool {
	return e.isDir
}

func (e *MockDirEntry) Type() os.FileMode {
	if e.isDir {
		return os.ModeDir
	}
	return 0
}

func (e *MockDirEntry) Info() (os.FileInfo, error) {
	return &MockFileInfo{
		name:    e.name,
		isDir:   e.isDir,
		mode:    e.Type(),
		modTime: time.Now(),
	}, nil
}

// MockFileSystem implements interfaces.FileSystem for testing
type MockFileSystem struct {
	files     map[string][]byte
	dirs      map[string]bool
	fileInfos map[string]*MockFileInfo
	errors    map[string]error
	mu        sync.RWMutex
}

// NewMockFileSystem creates a new MockFileSystem
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:     make(map[string][]byte),
		dirs:      make(map[string]bool),
		fileInfos: make(map[string]*MockFileInfo),
		errors:    make(map[string]error),
	}
}

// SetError makes the named operation ("Remove", "WriteFile", ...) fail for path
func (fs *MockFileSystem) SetError(op, path string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.errors[op+":"+filepath.Clean(path)] = err
}

func (fs *MockFileSystem) injected(op, path string) error {
	return fs.errors[op+":"+path]
}

// AddFile adds a file to the mock file system
func (fs *MockFileSystem) AddFile(path string, content []byte, mode os.FileMode) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.putFile(filepath.Clean(path), content, mode)
	fs.addParents(filepath.Clean(path))
}

// AddDir adds a directory to the mock file system
func (fs *MockFileSystem) AddDir(path string, mode os.FileMode) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.putDir(filepath.Clean(path), mode)
	fs.addParents(filepath.Clean(path))
}

// Exists reports whether path is a known file or directory
func (fs *MockFileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, exists := fs.fileInfos[filepath.Clean(path)]
	return exists
}

// ReadFile returns the content of a file added or written to the mock
func (fs *MockFileSystem) ReadFile(filename string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	content, exists := fs.files[filepath.Clean(filename)]
	if !exists {
		return nil, os.ErrNotExist
	}
	return content, nil
}

func (fs *MockFileSystem) putFile(path string, content []byte, mode os.FileMode) {
	fs.files[path] = content
	fs.fileInfos[path] = &MockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(content)),
		mode:    mode,
		modTime: time.Now(),
		isDir:   false,
	}
}

func (fs *MockFileSystem) putDir(path string, mode os.FileMode) {
	fs.dirs[path] = true
	fs.fileInfos[path] = &MockFileInfo{
		name:    filepath.Base(path),
		mode:    os.ModeDir | mode,
		modTime: time.Now(),
		isDir:   true,
	}
}

func (fs *MockFileSystem) addParents(path string) {
	dir := filepath.Dir(path)
	for dir != "." && dir != string(filepath.Separator) {
		fs.putDir(dir, 0755)
		dir = filepath.Dir(dir)
	}
}

// Open opens a file for reading
func (fs *MockFileSystem) Open(name string) (interfaces.File, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	name = filepath.Clean(name)
	if err := fs.injected("Open", name); err != nil {
		return nil, err
	}

	content, exists := fs.files[name]
	if !exists {
		return nil, os.ErrNotExist
	}

	return &MockFile{
		name:     name,
		content:  bytes.NewBuffer(append([]byte{}, content...)),
		readOnly: true,
	}, nil
}

// Create creates a new file for writing; its content is stored on Close
func (fs *MockFileSystem) Create(name string) (interfaces.File, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	name = filepath.Clean(name)
	if err := fs.injected("Create", name); err != nil {
		return nil, err
	}

	dir := filepath.Dir(name)
	if dir != "." && dir != string(filepath.Separator) && !fs.dirs[dir] {
		return nil, os.ErrNotExist
	}

	fs.putFile(name, []byte{}, 0644)

	return &MockFile{
		name:    name,
		content: bytes.NewBuffer([]byte{}),
		onClose: func(data []byte) {
			fs.mu.Lock()
			defer fs.mu.Unlock()
			fs.putFile(name, append([]byte{}, data...), 0644)
		},
	}, nil
}

// ReadDir reads a directory, sorted by name
func (fs *MockFileSystem) ReadDir(dirname string) ([]os.DirEntry, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	dirname = filepath.Clean(dirname)
	if !fs.dirs[dirname] && dirname != "." {
		return nil, os.ErrNotExist
	}

	entries := []os.DirEntry{}
	for path := range fs.files {
		if filepath.Dir(path) == dirname {
			entries = append(entries, &MockDirEntry{name: filepath.Base(path)})
		}
	}
	for dir := range fs.dirs {
		if dir != dirname && filepath.Dir(dir) == dirname {
			entries = append(entries, &MockDirEntry{name: filepath.Base(dir), isDir: true})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// MkdirAll creates a directory and all parent directories
func (fs *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path = filepath.Clean(path)
	if err := fs.injected("MkdirAll", path); err != nil {
		return err
	}
	if _, isFile := fs.files[path]; isFile {
		return &os.PathError{Op: "mkdir", Path: path, Err: os.ErrExist}
	}

	fs.putDir(path, perm)
	fs.addParents(path)
	return nil
}

// RemoveAll removes a file or directory and all its contents
func (fs *MockFileSystem) RemoveAll(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path = filepath.Clean(path)
	if err := fs.injected("RemoveAll", path); err != nil {
		return err
	}

	delete(fs.files, path)
	delete(fs.dirs, path)
	delete(fs.fileInfos, path)

	prefix := path + string(filepath.Separator)
	for filePath := range fs.files {
		if strings.HasPrefix(filePath, prefix) {
			delete(fs.files, filePath)
			delete(fs.fileInfos, filePath)
		}
	}
	for dirPath := range fs.dirs {
		if strings.HasPrefix(dirPath, prefix) {
			delete(fs.dirs, dirPath)
			delete(fs.fileInfos, dirPath)
		}
	}

	return nil
}

// Remove removes a file or an empty directory
func (fs *MockFileSystem) Remove(name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	name = filepath.Clean(name)
	if err := fs.injected("Remove", name); err != nil {
		return err
	}

	if _, exists := fs.files[name]; exists {
		delete(fs.files, name)
		delete(fs.fileInfos, name)
		return nil
	}
	if fs.dirs[name] {
		prefix := name + string(filepath.Separator)
		for path := range fs.fileInfos {
			if strings.HasPrefix(path, prefix) {
				return &os.PathError{Op: "remove", Path: name, Err: os.ErrInvalid}
			}
		}
		delete(fs.dirs, name)
		delete(fs.fileInfos, name)
		return nil
	}
	return &os.PathError{Op: "remove", Path: name, Err: os.ErrNotExist}
}

// Stat returns file info
func (fs *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	name = filepath.Clean(name)
	if err := fs.injected("Stat", name); err != nil {
		return nil, err
	}

	info, exists := fs.fileInfos[name]
	if !exists {
		return nil, os.ErrNotExist
	}
	return info, nil
}

// Lstat behaves like Stat; the mock has no symlinks
func (fs *MockFileSystem) Lstat(name string) (os.FileInfo, error) {
	return fs.Stat(name)
}

// WriteFile writes a file
func (fs *MockFileSystem) WriteFile(filename string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	filename = filepath.Clean(filename)
	if err := fs.injected("WriteFile", filename); err != nil {
		return err
	}

	dir := filepath.Dir(filename)
	if dir != "." && dir != string(filepath.Separator) && !fs.dirs[dir] {
		return os.ErrNotExist
	}

	fs.putFile(filename, data, perm)
	return nil
}

// Join joins path elements
func (fs *MockFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Dir returns the directory portion of a path
func (fs *MockFileSystem) Dir(path string) string {
	return filepath.Dir(path)
}

// Base returns the base portion of a path
func (fs *MockFileSystem) Base(path string) string {
	return filepath.Base(path)
}

// Abs returns the absolute path
func (fs *MockFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// EvalSymlinks returns the cleaned path if it exists
func (fs *MockFileSystem) EvalSymlinks(path string) (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	path = filepath.Clean(path)
	if _, exists := fs.fileInfos[path]; !exists {
		return "", os.ErrNotExist
	}
	return path, nil
}
