package storage

import (
	"context"
	"io"
)

// Config holds settings for an S3-compatible backend.
type Config struct {
	S3Endpoint  string // custom endpoint for MinIO / R2, empty for AWS
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	PublicURL   string // base URL files are served from, overrides the default
}

// Storage is the blob-store collaborator: store bytes under a key, get them
// back, and resolve the public URL for a key.
type Storage interface {
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	GetURL(key string) string
}
