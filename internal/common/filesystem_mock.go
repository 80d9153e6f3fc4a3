package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MockFileSystem implements FileSystem for testing
type MockFileSystem struct {
	files map[string][]byte
	dirs  map[string]bool
	cwd   string
	// Counter for creating unique temp directories
	tempDirCounter int
}

// NewMockFileSystem creates a new MockFileSystem
func NewMockFileSystem() *MockFileSystem {
	fs := &MockFileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
		cwd:   "/",
	}
	fs.dirs["/"] = true
	return fs
}

// SetCwd sets the directory returned by Getwd
func (m *MockFileSystem) SetCwd(dir string) {
	m.cwd = dir
	m.dirs[dir] = true
}

// AddDir registers a directory in the mock filesystem
func (m *MockFileSystem) AddDir(path string) {
	m.dirs[filepath.Clean(path)] = true
}

// CreateTempDir creates a unique directory under dir with the given prefix
func (m *MockFileSystem) CreateTempDir(dir string, prefix string) (string, error) {
	if dir == "" {
		dir = "/tmp"
	}
	m.tempDirCounter++
	path := filepath.Join(dir, fmt.Sprintf("%s%06d", prefix, m.tempDirCounter))
	m.dirs[path] = true
	return path, nil
}

// RemoveAll removes the path and everything under it
func (m *MockFileSystem) RemoveAll(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	clean := filepath.Clean(path)
	delete(m.dirs, clean)
	for p := range m.files {
		if p == clean || strings.HasPrefix(p, clean+string(filepath.Separator)) {
			delete(m.files, p)
		}
	}
	for p := range m.dirs {
		if strings.HasPrefix(p, clean+string(filepath.Separator)) {
			delete(m.dirs, p)
		}
	}
	return nil
}

// FileExists checks if a file or directory exists in the mock filesystem
func (m *MockFileSystem) FileExists(path string) (bool, error) {
	if path == "" {
		return false, ErrEmptyPath
	}
	clean := filepath.Clean(path)
	if m.dirs[clean] {
		return true, nil
	}
	_, ok := m.files[clean]
	return ok, nil
}

// WriteFile stores data under path
func (m *MockFileSystem) WriteFile(path string, data []byte, _ os.FileMode) error {
	if path == "" {
		return ErrEmptyPath
	}
	m.files[filepath.Clean(path)] = append([]byte(nil), data...)
	return nil
}

// ReadFile returns the data stored under path
func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

// Getwd returns the configured working directory
func (m *MockFileSystem) Getwd() (string, error) {
	return m.cwd, nil
}
