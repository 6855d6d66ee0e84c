package interfaces

import (
	"io"
	"os"
	"path/filepath"
)

// FileSystem is everything the archive engine and the post actions need from
// the disk. Tests swap in test/mocks.MockFileSystem.
type FileSystem interface {
	// Reading archives and source trees.
	Open(name string) (File, error)
	ReadDir(dirname string) ([]os.DirEntry, error)
	Stat(name string) (os.FileInfo, error)
	// Lstat does not follow a final symlink, so deletes and the destination
	// reset remove a link rather than its target.
	Lstat(name string) (os.FileInfo, error)

	// Writing archives, restored trees and marker files.
	Create(name string) (File, error)
	WriteFile(filename string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Remove(name string) error
	RemoveAll(path string) error

	// Path resolution for root names and containment checks.
	Join(elem ...string) string
	Dir(path string) string
	Base(path string) string
	Abs(path string) (string, error)
	EvalSymlinks(path string) (string, error)
}

// File is an open archive, source file or restored file.
type File interface {
	io.Reader
	io.Writer
	io.Closer
}

// OsFileSystem implements FileSystem on the real disk.
type OsFileSystem struct{}

// OsFile wraps *os.File as a File.
type OsFile struct {
	*os.File
}

func NewOsFileSystem() *OsFileSystem {
	return &OsFileSystem{}
}

func (fs *OsFileSystem) Open(name string) (File, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return &OsFile{File: file}, nil
}

// Create truncates an existing file.
func (fs *OsFileSystem) Create(name string) (File, error) {
	file, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	return &OsFile{File: file}, nil
}

// ReadDir lists entries sorted by name, which fixes the archive entry order.
func (fs *OsFileSystem) ReadDir(dirname string) ([]os.DirEntry, error) {
	return os.ReadDir(dirname)
}

func (fs *OsFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *OsFileSystem) Lstat(name string) (os.FileInfo, error) {
	return os.Lstat(name)
}

func (fs *OsFileSystem) WriteFile(filename string, data []byte, perm os.FileMode) error {
	return os.WriteFile(filename, data, perm)
}

func (fs *OsFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove deletes a file, a symlink or an empty directory.
func (fs *OsFileSystem) Remove(name string) error {
	return os.Remove(name)
}

func (fs *OsFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (fs *OsFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}

func (fs *OsFileSystem) Dir(path string) string {
	return filepath.Dir(path)
}

func (fs *OsFileSystem) Base(path string) string {
	return filepath.Base(path)
}

func (fs *OsFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

func (fs *OsFileSystem) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}
