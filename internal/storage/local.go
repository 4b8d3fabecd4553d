package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStorageClient stores artifacts under a directory of the local file system
type LocalStorageClient struct {
	baseDir string
}

// NewLocalStorageClient creates a new local storage client
func NewLocalStorageClient(baseDir string) (*LocalStorageClient, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}
	return &LocalStorageClient{baseDir: baseDir}, nil
}

// Close is a no-op for local storage
func (l *LocalStorageClient) Close() error {
	return nil
}

// BaseDir returns the root directory of the client
func (l *LocalStorageClient) BaseDir() string {
	return l.baseDir
}

// StoreFile writes data below the base directory, creating parent directories
func (l *LocalStorageClient) StoreFile(ctx context.Context, objectPath string, data []byte) error {
	full, err := l.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", objectPath, err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", objectPath, err)
	}
	return nil
}

// GetFile reads a stored artifact
func (l *LocalStorageClient) GetFile(ctx context.Context, objectPath string) ([]byte, error) {
	full, err := l.resolve(objectPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read file %s: %w", objectPath, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", objectPath, err)
	}
	return data, nil
}

// ListDir lists files under prefix, sorted
func (l *LocalStorageClient) ListDir(ctx context.Context, prefix string, recursive bool) ([]string, error) {
	root, err := l.resolve(prefix)
	if err != nil {
		return nil, err
	}

	var out []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if p == root {
			return nil
		}
		rel, relErr := filepath.Rel(l.baseDir, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if !recursive {
				out = append(out, rel+"/")
				return fs.SkipDir
			}
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}
	sort.Strings(out)
	return out, nil
}

// FileExists reports whether a regular file exists at objectPath
func (l *LocalStorageClient) FileExists(ctx context.Context, objectPath string) (bool, error) {
	full, err := l.resolve(objectPath)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", objectPath, err)
	}
	return !info.IsDir(), nil
}

// resolve maps an object path to a file path, refusing paths that leave the base directory
func (l *LocalStorageClient) resolve(objectPath string) (string, error) {
	for _, seg := range strings.Split(filepath.ToSlash(objectPath), "/") {
		if seg == ".." {
			return "", fmt.Errorf("invalid path %q", objectPath)
		}
	}
	clean := strings.TrimPrefix(path.Clean("/"+objectPath), "/")
	return filepath.Join(l.baseDir, filepath.FromSlash(clean)), nil
}
