package storage

import (
	"context"
	"io"
)

// ObjectStore is the durable storage collaborator holding uploaded file
// content. Keys are opaque strings, unique across all files; uniqueness is
// enforced by the metadata store's constraint on the storage key column.
type ObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
