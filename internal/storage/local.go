// Package storage persists raw document bytes. The pipeline treats "store
// bytes at a path" as a black box; LocalStore is the filesystem-backed
// implementation.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jonesrussell/document-manager/internal/logger"
)

const storeFileMode = 0o600

// LocalStore writes document files under a base directory. Stored names are
// prefixed with a UUID so repeated uploads of the same filename never
// collide.
type LocalStore struct {
	baseDir string
	logger  logger.Logger
}

func NewLocalStore(baseDir string, log logger.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{
		baseDir: baseDir,
		logger:  log,
	}, nil
}

// StoreFile persists content and returns the addressable storage path.
func (s *LocalStore) StoreFile(content []byte, suggestedName string) (string, error) {
	name := fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(suggestedName))
	path := filepath.Join(s.baseDir, name)

	if err := os.WriteFile(path, content, storeFileMode); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	s.logger.Debug("Stored document file",
		logger.String("path", path),
		logger.Int("size_bytes", len(content)),
	)

	return path, nil
}
