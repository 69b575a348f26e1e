package fileio

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"
)

// Op selects the operations a denial applies to.
type Op uint8

const (
	OpRead Op = 1 << iota
	OpWrite
)

// MemFS implements FS in memory. Paths are slash-separated and rooted at
// "/". Deny and FailWrite inject failures for tests.
//
// MemFS is safe for concurrent use.
type MemFS struct {
	mu     sync.RWMutex
	files  map[string]*memFile
	dirs   map[string]bool
	denied map[string]Op
	fail   map[string]error
	writes int
}

type memFile struct {
	content []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewMemFS creates a new in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{
		files:  make(map[string]*memFile),
		dirs:   map[string]bool{"/": true},
		denied: make(map[string]Op),
		fail:   make(map[string]error),
	}
}

// Ensure MemFS implements FS.
var _ FS = (*MemFS)(nil)

// AddFile creates a file and any missing parent directories.
func (m *MemFS) AddFile(filePath string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = cleanPath(filePath)
	m.mkdirAllLocked(path.Dir(filePath))
	m.files[filePath] = &memFile{
		content: bytes.Clone(content),
		mode:    DefaultPerm,
		modTime: time.Now(),
	}
}

// Mkdir creates a directory and any missing parents.
func (m *MemFS) Mkdir(dirPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirAllLocked(cleanPath(dirPath))
}

// Deny makes ops on filePath fail with fs.ErrPermission.
func (m *MemFS) Deny(filePath string, ops Op) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denied[cleanPath(filePath)] |= ops
}

// FailWrite makes writes to filePath fail with err.
func (m *MemFS) FailWrite(filePath string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[cleanPath(filePath)] = err
}

// Content returns a copy of a file's content.
func (m *MemFS) Content(filePath string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[cleanPath(filePath)]
	if !ok {
		return nil, false
	}
	return bytes.Clone(f.content), true
}

// Writes returns the number of successful WriteFile calls.
func (m *MemFS) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Open opens a file for reading.
func (m *MemFS) Open(filePath string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = cleanPath(filePath)
	if m.denied[filePath]&OpRead != 0 {
		return nil, &fs.PathError{Op: "open", Path: filePath, Err: fs.ErrPermission}
	}
	f, ok := m.files[filePath]
	if !ok {
		if m.dirs[filePath] {
			return nil, &fs.PathError{Op: "open", Path: filePath, Err: errIsDir}
		}
		return nil, &fs.PathError{Op: "open", Path: filePath, Err: fs.ErrNotExist}
	}

	// The reader sees the content as of Open; a later write swaps the slice.
	return io.NopCloser(bytes.NewReader(f.content)), nil
}

// Stat returns file information.
func (m *MemFS) Stat(filePath string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = cleanPath(filePath)
	if f, ok := m.files[filePath]; ok {
		return NewFileInfo(filePath, path.Base(filePath), int64(len(f.content)), f.mode, f.modTime, false), nil
	}
	if m.dirs[filePath] {
		return NewFileInfo(filePath, path.Base(filePath), 0, fs.ModeDir|0o755, time.Time{}, true), nil
	}
	return FileInfo{}, &fs.PathError{Op: "stat", Path: filePath, Err: fs.ErrNotExist}
}

// WriteFile replaces the file content in one step.
func (m *MemFS) WriteFile(filePath string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = cleanPath(filePath)
	if m.denied[filePath]&OpWrite != 0 {
		return &fs.PathError{Op: "write", Path: filePath, Err: fs.ErrPermission}
	}
	if err := m.fail[filePath]; err != nil {
		return &fs.PathError{Op: "write", Path: filePath, Err: err}
	}
	if m.dirs[filePath] {
		return &fs.PathError{Op: "write", Path: filePath, Err: errIsDir}
	}
	if dir := path.Dir(filePath); !m.dirs[dir] {
		return &fs.PathError{Op: "write", Path: filePath, Err: fs.ErrNotExist}
	}

	if old, ok := m.files[filePath]; ok {
		perm = old.mode
	}
	m.files[filePath] = &memFile{
		content: bytes.Clone(data),
		mode:    perm,
		modTime: time.Now(),
	}
	m.writes++
	return nil
}

func (m *MemFS) mkdirAllLocked(dirPath string) {
	current := ""
	for _, part := range strings.Split(strings.Trim(dirPath, "/"), "/") {
		if part == "" {
			continue
		}
		current += "/" + part
		m.dirs[current] = true
	}
}

// cleanPath normalizes a path to an absolute slash path.
func cleanPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
