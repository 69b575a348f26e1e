// Package fileio is the thin filesystem layer under document load and save.
//
// The FS interface lets the task units run against the operating system
// or, in tests, against an in-memory file system with injected failures.
// Errors are returned as the underlying *fs.PathError values; callers map
// them with coreerr.FromIO.
package fileio

import (
	"io"
	"io/fs"
	"time"
)

// DefaultPerm is the mode given to files created by a save.
const DefaultPerm fs.FileMode = 0o644

// FS is the file system used to load and save documents.
type FS interface {
	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// Stat returns file information.
	Stat(path string) (FileInfo, error)

	// WriteFile replaces the content of path with data, creating it if
	// necessary. An existing file keeps its mode; perm applies to new
	// files. Readers never observe a partially written file.
	WriteFile(path string, data []byte, perm fs.FileMode) error
}

// FileInfo describes a file or directory.
type FileInfo struct {
	path    string
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

// NewFileInfo creates a FileInfo from the given parameters.
func NewFileInfo(path, name string, size int64, mode fs.FileMode, modTime time.Time, isDir bool) FileInfo {
	return FileInfo{
		path:    path,
		name:    name,
		size:    size,
		mode:    mode,
		modTime: modTime,
		isDir:   isDir,
	}
}

// Path returns the full path.
func (fi FileInfo) Path() string { return fi.path }

// Name returns the base name.
func (fi FileInfo) Name() string { return fi.name }

// Size returns the file size in bytes.
func (fi FileInfo) Size() int64 { return fi.size }

// Mode returns the file mode.
func (fi FileInfo) Mode() fs.FileMode { return fi.mode }

// ModTime returns the modification time.
func (fi FileInfo) ModTime() time.Time { return fi.modTime }

// IsDir returns true if this is a directory.
func (fi FileInfo) IsDir() bool { return fi.isDir }

// IsRegular returns true if this is a regular file.
func (fi FileInfo) IsRegular() bool { return fi.mode.IsRegular() }

// ReadAll reads path through fsys in window-sized reads, calling poll
// before each read. A poll error stops the read and is returned as is.
func ReadAll(fsys FS, path string, window int, poll func() error) ([]byte, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: path, Err: errIsDir}
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if window <= 0 {
		window = 64 << 10
	}
	data := make([]byte, 0, info.Size()+1)
	for {
		if poll != nil {
			if err := poll(); err != nil {
				return nil, err
			}
		}
		if len(data) == cap(data) {
			data = append(data, 0)[:len(data)]
		}
		end := min(cap(data), len(data)+window)
		n, err := f.Read(data[len(data):end])
		data = data[:len(data)+n]
		if err == io.EOF {
			return data, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
