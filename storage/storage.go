package storage

import (
	"context"
	"io"
)

// BlobStore writes and removes binary blobs by key. Put returns the stored
// reference, which is also the argument Delete expects. Implementations are
// not transactional with the database: callers own any compensation.
type BlobStore interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}
