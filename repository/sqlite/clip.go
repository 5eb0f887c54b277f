package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cliphunter/cliphunter/errors"
	"github.com/cliphunter/cliphunter/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

func (r *Repository) Save(ctx context.Context, clip *models.ClipRecord) error {
	const op = "SQLiteRepository.Save"

	for i := 0; i < 3; i++ { // Simple retry for sqlite busy errors
		err := r.save(ctx, clip)
		if err == nil {
			return nil
		}
		if !isLockError(err) {
			return errors.Internal(op, err, "Failed to save clip")
		}
		time.Sleep(time.Second * time.Duration(i+1))
	}
	return errors.Internal(op, nil, "Failed after retries")
}

func (r *Repository) save(ctx context.Context, clip *models.ClipRecord) error {
	_, err := r.db.ExecContext(ctx, upsertQuery,
		clip.ShortCode,
		clip.VideoID,
		clip.Title,
		clip.ThumbnailURL,
		clip.EmbedURL,
		clip.StartTime,
		clip.EndTime,
		clip.Views,
		clip.CreatedAt,
	)
	return err
}

func (r *Repository) Find(ctx context.Context, shortCode string) (*models.ClipRecord, error) {
	const op = "SQLiteRepository.Find"
	return scanClip(op, r.db.QueryRowContext(ctx, getQuery, shortCode))
}

// IncrementViews bumps the counter and re-reads the row inside one
// transaction so concurrent lookups each observe a distinct count.
func (r *Repository) IncrementViews(ctx context.Context, shortCode string) (*models.ClipRecord, error) {
	const op = "SQLiteRepository.IncrementViews"

	var clip *models.ClipRecord
	err := WithTransaction(ctx, r.db, func(tx Executor) error {
		res, err := tx.ExecContext(ctx, incrementViewsQuery, shortCode)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return errors.NotFound(op, nil, "Clip not found")
		}

		clip, err = scanClip(op, tx.QueryRowContext(ctx, getQuery, shortCode))
		return err
	})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		return nil, errors.Internal(op, err, "Failed to update views")
	}

	return clip, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClip(op string, row rowScanner) (*models.ClipRecord, error) {
	clip := &models.ClipRecord{}
	var endTime sql.NullInt64

	err := row.Scan(
		&clip.ShortCode,
		&clip.VideoID,
		&clip.Title,
		&clip.ThumbnailURL,
		&clip.EmbedURL,
		&clip.StartTime,
		&endTime,
		&clip.Views,
		&clip.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Clip not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query clip")
	}

	if endTime.Valid {
		end := int(endTime.Int64)
		clip.EndTime = &end
	}
	return clip, nil
}

func isLockError(err error) bool {
	return strings.Contains(err.Error(), "database is locked") ||
		strings.Contains(err.Error(), "busy")
}
