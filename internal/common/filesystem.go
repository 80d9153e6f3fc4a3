// Package common provides shared interfaces and utilities used across the executor packages.
//
//nolint:revive // var-naming: package name "common" is intentional for shared internal utilities
package common

import (
	"errors"
	"os"
)

// Error definitions for static error handling
var (
	ErrEmptyPath = errors.New("path cannot be empty")
)

// FileSystem defines the interface for file system operations.
// This interface allows for easy mocking in tests and provides a consistent API
// for file operations across all packages.
type FileSystem interface {
	// CreateTempDir creates a temporary directory with the given prefix
	CreateTempDir(dir string, prefix string) (string, error)

	// RemoveAll removes a directory and all its contents
	RemoveAll(path string) error

	// FileExists checks if a file or directory exists
	FileExists(path string) (bool, error)

	// WriteFile writes data to a file, creating it with the given permissions
	WriteFile(path string, data []byte, perm os.FileMode) error

	// ReadFile reads the contents of a file
	ReadFile(path string) ([]byte, error)

	// Getwd returns the current working directory
	Getwd() (string, error)
}

// DefaultFileSystem implements FileSystem using standard os package functions
type DefaultFileSystem struct{}

// NewDefaultFileSystem creates a new DefaultFileSystem
func NewDefaultFileSystem() *DefaultFileSystem {
	return &DefaultFileSystem{}
}

// CreateTempDir creates a temporary directory with the given prefix
func (fs *DefaultFileSystem) CreateTempDir(dir string, prefix string) (string, error) {
	return os.MkdirTemp(dir, prefix)
}

// RemoveAll removes a directory and all its contents
func (fs *DefaultFileSystem) RemoveAll(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	return os.RemoveAll(path)
}

// FileExists checks if a file or directory exists
func (fs *DefaultFileSystem) FileExists(path string) (bool, error) {
	if path == "" {
		return false, ErrEmptyPath
	}
	_, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

// WriteFile writes data to a file, creating it with the given permissions
func (fs *DefaultFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	if path == "" {
		return ErrEmptyPath
	}
	return os.WriteFile(path, data, perm)
}

// ReadFile reads the contents of a file
func (fs *DefaultFileSystem) ReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	return os.ReadFile(path)
}

// Getwd returns the current working directory
func (fs *DefaultFileSystem) Getwd() (string, error) {
	return os.Getwd()
}
