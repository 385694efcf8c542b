package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded documents. Keys are opaque to callers; the store
// decides the layout and hands back the key to record on the document row.
type Store interface {
	// Save writes a document's content and returns its storage key
	Save(ctx context.Context, docID uuid.UUID, filename string, data io.Reader) (string, error)

	// Open streams a stored document back
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes a stored document
	Remove(ctx context.Context, key string) error
}

// BackendType selects the storage backend
type BackendType string

const (
	BackendLocal BackendType = "local"
	BackendS3    BackendType = "s3"
)

// Config holds storage backend configuration
type Config struct {
	Backend      BackendType
	LocalDir     string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewStore creates a store for the configured backend
func NewStore(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendLocal:
		return NewLocalStore(cfg.LocalDir)
	case BackendS3:
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

// NewStoreFromEnv builds a store from environment variables. Local storage
// is the default so development needs no configuration at all.
func NewStoreFromEnv() (Store, error) {
	backend := os.Getenv("STORAGE_BACKEND")
	if backend == "" {
		backend = string(BackendLocal)
	}

	cfg := Config{Backend: BackendType(backend)}

	switch cfg.Backend {
	case BackendLocal:
		cfg.LocalDir = os.Getenv("STORAGE_LOCAL_DIR")
		if cfg.LocalDir == "" {
			cfg.LocalDir = "./data/documents"
		}
		return NewLocalStore(cfg.LocalDir)

	case BackendS3:
		cfg.S3Bucket = os.Getenv("AWS_S3_BUCKET")
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
		cfg.S3Region = os.Getenv("AWS_REGION")
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1"
		}
		cfg.AWSAccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		cfg.AWSSecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
		return NewS3Store(cfg)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// documentKey builds the storage key for a document. The document ID keeps
// keys unique even when two uploads share a filename.
func documentKey(docID uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", docID.String(), sanitizeFilename(filename))
}

func sanitizeFilename(filename string) string {
	name := filepath.Base(filename)
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_")
	return replacer.Replace(name)
}

// ContentTypeFor maps a filename to the MIME type recorded with the upload.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	case ".html", ".htm":
		return "text/html"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
