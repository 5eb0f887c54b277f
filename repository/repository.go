package repository

import (
	"context"

	"github.com/cliphunter/cliphunter/errors"
	"github.com/cliphunter/cliphunter/models"
)

// ClipRepository persists short-code clip records.
type ClipRepository interface {
	// Save upserts a record keyed by short code.
	Save(ctx context.Context, clip *models.ClipRecord) error
	// Find returns the record for a short code, without touching views.
	Find(ctx context.Context, shortCode string) (*models.ClipRecord, error)
	// IncrementViews bumps the view counter by one and returns the
	// updated record.
	IncrementViews(ctx context.Context, shortCode string) (*models.ClipRecord, error)
}

// Null is the repository used when no database is configured. Clip
// creation still succeeds (Save reports unavailable, which callers
// swallow); lookups surface the degraded mode as 503.
type Null struct{}

func (Null) Save(ctx context.Context, clip *models.ClipRecord) error {
	const op = "repository.Null.Save"
	return errors.Unavailable(op, nil, "Record store is not configured")
}

func (Null) Find(ctx context.Context, shortCode string) (*models.ClipRecord, error) {
	const op = "repository.Null.Find"
	return nil, errors.Unavailable(op, nil, "Record store is not configured")
}

func (Null) IncrementViews(ctx context.Context, shortCode string) (*models.ClipRecord, error) {
	const op = "repository.Null.IncrementViews"
	return nil, errors.Unavailable(op, nil, "Record store is not configured")
}
