package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNotFound is returned when the requested object does not exist
var ErrNotFound = errors.New("storage: object not found")

// Object is an opened stored file
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Storage defines the interface for file storage operations.
// Keys are flat file names such as "image-1712345678901-123456789.jpg".
type Storage interface {
	// Save stores a file under the given key
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Open retrieves a file; returns ErrNotFound when it does not exist
	Open(ctx context.Context, key string) (*Object, error)

	// Delete removes a file; deleting a missing file is not an error
	Delete(ctx context.Context, key string) error

	// Exists checks if a file exists
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL the API exposes for the file
	URL(key string) string
}

// Config holds storage configuration
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	UseSSL     bool   // For S3/R2
	PublicRead bool   // Make files public by default
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// CleanKey rejects keys that try to escape the storage root
func CleanKey(key string) (string, error) {
	cleaned := path.Base(path.Clean("/" + key))
	if cleaned == "/" || cleaned == "." || cleaned == ".." || cleaned != key || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	if base == "" {
		base = "/uploads"
	}
	return strings.TrimRight(base, "/") + "/" + key
}
