// Package storage uploads finished clips to an S3-compatible object
// store and hands back public URLs.
package storage

import (
	"context"
	"io"

	"github.com/cliphunter/cliphunter/errors"
)

// ObjectStore uploads an object and returns its public URL. Single
// attempt; callers do not retry.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Null is the store used when object storage was never configured.
// Every call fails with a 503 so handlers surface the degraded mode.
type Null struct{}

func (Null) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	const op = "storage.Null.Upload"
	return "", errors.Unavailable(op, nil, "Object storage is not configured")
}
