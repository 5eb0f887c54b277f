package clip

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cliphunter/cliphunter/errors"
	"github.com/cliphunter/cliphunter/ffmpeg"
	"github.com/cliphunter/cliphunter/models"
	"github.com/cliphunter/cliphunter/repository"
	"github.com/cliphunter/cliphunter/shortcode"
	"github.com/cliphunter/cliphunter/storage"
	"github.com/cliphunter/cliphunter/validation"
	"github.com/cliphunter/cliphunter/youtube"
)

const (
	placeholderTitle = "Untitled clip"
	maxTitleLen      = 100
)

type service struct {
	repo      repository.ClipRepository
	resolver  Resolver
	trimmer   ffmpeg.Trimmer
	store     storage.ObjectStore
	codes     *shortcode.Generator
	validator *validation.Validator
	config    Config
	logger    *logrus.Logger
}

func NewService(
	repo repository.ClipRepository,
	resolver Resolver,
	trimmer ffmpeg.Trimmer,
	store storage.ObjectStore,
	codes *shortcode.Generator,
	validator *validation.Validator,
	config Config,
	log *logrus.Logger,
) Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &service{
		repo:      repo,
		resolver:  resolver,
		trimmer:   trimmer,
		store:     store,
		codes:     codes,
		validator: validator,
		config:    config,
		logger:    log,
	}
}

func (s *service) Info(ctx context.Context, url string) (*models.InfoResponse, error) {
	if err := s.validator.ValidateURL(url); err != nil {
		return nil, err
	}

	videoID, err := youtube.ExtractVideoID(url)
	if err != nil {
		return nil, err
	}

	info, err := s.resolver.FetchInfo(ctx, youtube.WatchURL(videoID))
	if err != nil {
		return nil, err
	}

	if info.Thumbnail == "" {
		info.Thumbnail = youtube.ThumbnailURL(videoID)
	}

	return &models.InfoResponse{
		Title:       info.Title,
		Thumbnail:   info.Thumbnail,
		Duration:    info.Duration,
		Views:       info.ViewCount,
		OriginalURL: url,
	}, nil
}

func (s *service) CreateClip(ctx context.Context, req *models.ClipRequest) (*models.ClipResponse, error) {
	const op = "ClipService.CreateClip"

	if err := s.validator.ValidateClipRequest(req); err != nil {
		return nil, err
	}

	videoID, err := youtube.ExtractVideoID(req.URL)
	if err != nil {
		return nil, err
	}

	logger := s.logger.WithFields(logrus.Fields{
		"video_id": videoID,
		"start":    req.Start,
	})

	title := req.Title
	thumbnail := ""
	info, err := s.resolver.FetchInfo(ctx, youtube.WatchURL(videoID))
	if err != nil {
		if s.config.StrictResolve {
			return nil, err
		}
		logger.WithError(err).Warn("Metadata resolve failed, using placeholders")
	} else {
		if title == "" {
			title = info.Title
		}
		thumbnail = info.Thumbnail
	}
	if title == "" {
		title = placeholderTitle
	}
	title = truncateTitle(title)
	if thumbnail == "" {
		thumbnail = youtube.ThumbnailURL(videoID)
	}

	embedURL := youtube.EmbedURL(videoID, req.Start, req.End)
	code := s.codes.Generate(videoID, req.Start)

	record := &models.ClipRecord{
		ShortCode:    code,
		VideoID:      videoID,
		Title:        title,
		ThumbnailURL: thumbnail,
		EmbedURL:     embedURL,
		StartTime:    req.Start,
		EndTime:      req.End,
		Views:        0,
		CreatedAt:    time.Now().UTC(),
	}

	// Persistence is best-effort: the embed URL is the product, a
	// missing or failing record store must not fail the request.
	if err := s.repo.Save(ctx, record); err != nil {
		logger.WithError(err).WithField("op", op).Warn("Failed to persist clip record")
	}

	return &models.ClipResponse{
		ShortCode: code,
		ShortURL:  fmt.Sprintf("%s/%s", strings.TrimRight(s.config.PublicBaseURL, "/"), code),
		EmbedURL:  embedURL,
		Title:     title,
		Thumbnail: thumbnail,
		Views:     0,
	}, nil
}

func (s *service) GetClip(ctx context.Context, shortCode string) (*models.ClipRecord, error) {
	const op = "ClipService.GetClip"

	if shortCode == "" {
		return nil, errors.InvalidInput(op, nil, "short code is required")
	}
	return s.repo.IncrementViews(ctx, shortCode)
}

func (s *service) Cut(ctx context.Context, req *models.CutRequest) (*models.CutResponse, error) {
	const op = "ClipService.Cut"

	// Reject bad ranges before any download happens.
	if err := s.validator.ValidateCutRequest(req); err != nil {
		return nil, err
	}

	reqID := uuid.New().String()
	srcPath := filepath.Join(s.config.TempDir, reqID+"-src.mp4")
	outPath := filepath.Join(s.config.TempDir, reqID+"-clip.mp4")

	// Both transient files go away on every exit path. Removal
	// failures are logged, never surfaced.
	defer s.cleanup(srcPath, outPath)

	logger := s.logger.WithFields(logrus.Fields{
		"url":   req.VideoURL,
		"start": req.StartTime,
		"end":   req.EndTime,
	})
	logger.Info("Starting cut")

	if err := s.resolver.Download(ctx, req.VideoURL, srcPath); err != nil {
		return nil, err
	}

	if err := s.trimmer.Trim(ctx, srcPath, outPath, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	out, err := os.Open(outPath)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to open trimmed clip")
	}
	defer out.Close()

	key := objectKey(req.FileNamePrefix, reqID)
	publicURL, err := s.store.Upload(ctx, key, "video/mp4", out)
	if err != nil {
		return nil, err
	}

	logger.WithField("public_url", publicURL).Info("Cut completed")

	return &models.CutResponse{
		Status:    "success",
		PublicURL: publicURL,
	}, nil
}

func (s *service) cleanup(paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.WithError(err).WithField("path", path).Warn("Failed to remove transient file")
		}
	}
}

func objectKey(prefix, reqID string) string {
	if prefix == "" {
		prefix = "clip"
	}
	return fmt.Sprintf("clips/%s-%s.mp4", prefix, reqID)
}

func truncateTitle(title string) string {
	if len(title) <= maxTitleLen {
		return title
	}
	return title[:maxTitleLen]
}
