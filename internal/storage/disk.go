package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verygoodisland/backend/internal/common/logger"
)

// DiskStorage writes blobs as plain files under a single directory. Keys are
// flat names produced by NewObjectKey; anything containing a path separator
// is rejected to keep writes inside the directory.
type DiskStorage struct {
	dir string
	log *logger.Logger
}

func NewDiskStorage(dir string, log *logger.Logger) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStorage{dir: dir, log: log}, nil
}

func (s *DiskStorage) Save(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateKey(key); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob %s: %w", key, err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"key":    key,
		"bytes":  len(data),
		"action": "blob_saved",
	}).Debug("blob saved")

	return key, nil
}

func (s *DiskStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.dir, key))
	if os.IsNotExist(err) {
		return ErrBlobNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid blob key %q", key)
	}
	return nil
}
