// Package blob stores document files behind a small capability interface so
// the rest of the system never touches the filesystem or S3 directly.
package blob

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"propbill.app/server/core/config"
)

// ErrNotFound is returned when the requested key does not exist.
var ErrNotFound = errors.New("blob not found")

// ErrPresignUnsupported is returned by backends that cannot mint signed URLs.
// Callers fall back to streaming the bytes through the API.
var ErrPresignUnsupported = errors.New("presigned URLs not supported")

// Store is the blob capability handed to services.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

// NewKey builds a collision-free storage key for a workspace document.
// The original filename is kept as a suffix so downloads keep their name.
func NewKey(workspaceID int64, filename string) string {
	return fmt.Sprintf("documents/%d/%s_%s", workspaceID, uuid.New(), path.Base(filename))
}

// New selects a backend from configuration.
func New(ctx context.Context, cfg config.BlobConfig) (Store, error) {
	switch cfg.Backend {
	case "local", "":
		return NewLocal(cfg.Dir)
	case "s3":
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown blob backend: %s", cfg.Backend)
	}
}
