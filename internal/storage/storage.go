// Package storage holds the output area where generated letters are written.
// Every key is owned by a single request; backends never share state across keys.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"letterapi/internal/config"
)

// ErrNotFound is returned by Get and Delete for a missing key.
var ErrNotFound = errors.New("storage: object not found")

// PutObjectOptions define optional parameters for writing objects.
// Size should be the exact number of bytes if known, or -1.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the output area for generated artifacts.
type Storage interface {
	// Put writes an object under the given key, replacing any previous content.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by cfg.Output.Backend.
func New(cfg *config.AppConfig) (Storage, error) {
	switch cfg.Output.Backend {
	case "local":
		return NewLocal(cfg.Output.Dir)
	case "minio":
		return NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unsupported output backend %q", cfg.Output.Backend)
	}
}

// ReadAll fetches the whole object under key.
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, error) {
	rc, _, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
