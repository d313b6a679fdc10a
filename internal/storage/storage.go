package storage

import (
	"context"
	"io"
)

// BlobStore persists uploaded image binaries and hands back opaque
// storage keys.  Keys are embedded in public URLs served by the photo
// retrieval endpoint, which is how the AI service later fetches scan
// images.
type BlobStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
