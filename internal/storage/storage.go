package storage

import (
	"context"
	"errors"
)

var ErrBlobNotFound = errors.New("blob not found")

// Storage is durable blob storage for avatars. Save commits the bytes under
// the given key and returns the key actually stored; Delete removes a prior
// blob and reports ErrBlobNotFound when there is nothing under the key.
type Storage interface {
	Save(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}
