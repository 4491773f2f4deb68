// Package storage provides the blob store used for wishlist item images.
package storage

import "context"

// BlobStore is opaque binary object storage keyed by reference.
type BlobStore interface {
	// Store writes data under key and returns the reference to it.
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Delete removes the blob behind ref, reporting whether it was deleted.
	Delete(ctx context.Context, ref string) (bool, error)
}
