package storage

import (
	"context"
	"io"
	"time"
)

type BlobStore interface {
	Upload(ctx context.Context, container, key, contentType string, data io.Reader) error
	Download(ctx context.Context, container, key string) (io.ReadCloser, error)
	PresignUpload(container, key, contentType string, lifetime time.Duration) (string, error)
	PresignRead(container, key string, lifetime time.Duration) (string, error)
}
