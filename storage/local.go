package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore keeps documents on the local filesystem under a base directory.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates a local store rooted at baseDir
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Save writes a document under the base directory
func (s *LocalStore) Save(ctx context.Context, docID uuid.UUID, filename string, data io.Reader) (string, error) {
	key := documentKey(docID, filename)
	fullPath := filepath.Join(s.baseDir, key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create document directory: %w", err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create document file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, data); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	return key, nil
}

// Open streams a stored document
func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.baseDir, key)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document not found: %s", key)
		}
		return nil, fmt.Errorf("failed to open document: %w", err)
	}

	return file, nil
}

// Remove deletes a stored document. Removing a missing key is not an error.
func (s *LocalStore) Remove(ctx context.Context, key string) error {
	fullPath := filepath.Join(s.baseDir, key)

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
