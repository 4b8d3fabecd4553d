package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested object does not exist
var ErrNotFound = errors.New("object not found")

// StorageClient defines the basic artifact storage operations.
// Paths are slash separated and relative to the client's root.
type StorageClient interface {
	// Close releases the client
	Close() error

	// StoreFile writes data at path, replacing any previous content
	StoreFile(ctx context.Context, path string, data []byte) error

	// GetFile reads the object at path
	GetFile(ctx context.Context, path string) ([]byte, error)

	// ListDir lists object paths under prefix; non-recursive listing stops at the first level
	ListDir(ctx context.Context, prefix string, recursive bool) ([]string, error)

	// FileExists reports whether an object exists at path
	FileExists(ctx context.Context, path string) (bool, error)
}
