package clip

import (
	"context"

	"github.com/cliphunter/cliphunter/models"
)

// Service implements the three request-scoped workflows: metadata
// lookup, metadata-only clip creation, and cut-and-store.
type Service interface {
	// Info resolves title/thumbnail/duration/views for a video URL.
	Info(ctx context.Context, url string) (*models.InfoResponse, error)

	// CreateClip builds an embed URL for a time range and best-effort
	// persists a short-code record for it. No media is transcoded.
	CreateClip(ctx context.Context, req *models.ClipRequest) (*models.ClipResponse, error)

	// GetClip returns the persisted record for a short code with its
	// view counter incremented by one.
	GetClip(ctx context.Context, shortCode string) (*models.ClipRecord, error)

	// Cut downloads the source, trims the requested range, uploads the
	// result, and returns the object's public URL. Transient files are
	// removed on every exit path.
	Cut(ctx context.Context, req *models.CutRequest) (*models.CutResponse, error)
}

// Resolver is the metadata/download surface of the external extractor.
type Resolver interface {
	FetchInfo(ctx context.Context, url string) (models.VideoInfo, error)
	Download(ctx context.Context, url, destPath string) error
}

type Config struct {
	// TempDir holds per-request transient files.
	TempDir string
	// PublicBaseURL is the prefix for short links.
	PublicBaseURL string
	// StrictResolve surfaces resolver failures during clip creation
	// instead of falling back to placeholder metadata.
	StrictResolve bool
}
