package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	ContentType string
	Size        int64
}

// Store is a key-addressable binary object store.
type Store interface {
	// Put writes data under key with the given content type and
	// identifying metadata, overwriting any previous object.
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error

	// Get returns a reader over the object's bytes. The caller closes
	// the reader. Returns ErrNotFound if no object exists under key.
	Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)

	// Delete removes the object under key. Deleting an absent object
	// is a success, not an error.
	Delete(ctx context.Context, key string) error
}
