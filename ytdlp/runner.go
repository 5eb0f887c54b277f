// Package ytdlp wraps the yt-dlp binary for metadata lookups and
// source downloads.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	apperrors "github.com/cliphunter/cliphunter/errors"
	"github.com/cliphunter/cliphunter/models"
)

type Config struct {
	// BinPath is the yt-dlp executable.
	BinPath string
	// DownloadTimeout bounds a single download invocation.
	DownloadTimeout time.Duration
	// InfoTimeout bounds a single metadata invocation.
	InfoTimeout time.Duration
}

type Runner struct {
	config Config
	logger *logrus.Logger
}

func NewRunner(cfg Config, log *logrus.Logger) *Runner {
	if cfg.BinPath == "" {
		cfg.BinPath = "yt-dlp"
	}
	if cfg.InfoTimeout <= 0 {
		cfg.InfoTimeout = time.Minute
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 5 * time.Minute
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{config: cfg, logger: log}
}

// rawInfo is the subset of yt-dlp's -J output we consume.
type rawInfo struct {
	Title     string  `json:"title"`
	Thumbnail string  `json:"thumbnail"`
	Duration  float64 `json:"duration"`
	ViewCount int64   `json:"view_count"`
}

// FetchInfo resolves metadata for url without downloading media.
func (r *Runner) FetchInfo(ctx context.Context, url string) (models.VideoInfo, error) {
	const op = "ytdlp.FetchInfo"
	var info models.VideoInfo

	ctx, cancel := context.WithTimeout(ctx, r.config.InfoTimeout)
	defer cancel()

	output, err := r.run(ctx, "--dump-single-json", "--no-download", "--no-warnings", url)
	if err != nil {
		return info, classify(op, err)
	}

	var raw rawInfo
	if err := json.Unmarshal(output, &raw); err != nil {
		return info, apperrors.Internal(op, errors.Wrap(err, "parse yt-dlp output"), "Failed to fetch video info")
	}

	if raw.Title == "" {
		return info, apperrors.NotFound(op, nil, "Video unavailable")
	}

	info = models.VideoInfo{
		Title:     raw.Title,
		Thumbnail: raw.Thumbnail,
		Duration:  raw.Duration,
		ViewCount: raw.ViewCount,
	}
	return info, nil
}

// Download fetches the source media for url to destPath, preferring an
// mp4 container so the trim step has a predictable input.
func (r *Runner) Download(ctx context.Context, url, destPath string) error {
	const op = "ytdlp.Download"

	ctx, cancel := context.WithTimeout(ctx, r.config.DownloadTimeout)
	defer cancel()

	_, err := r.run(ctx,
		"-f", "best[ext=mp4]/best",
		"--no-warnings",
		"-o", destPath,
		url,
	)
	if err != nil {
		return classify(op, err)
	}
	return nil
}

func (r *Runner) run(ctx context.Context, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, r.config.BinPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.WithField("args", args).Debug("Running yt-dlp")

	if err := cmd.Run(); err != nil {
		stderrOutput := stderr.String()
		r.logger.WithError(err).WithField("stderr", stderrOutput).Error("yt-dlp failed")
		return nil, errors.Wrapf(err, "yt-dlp: %s", stderrOutput)
	}

	return stdout.Bytes(), nil
}

// classify maps an extraction failure to the error taxonomy: known
// "gone" markers become 404, everything else is an upstream failure.
func classify(op string, err error) error {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"video unavailable",
		"private video",
		"this video is not available",
		"account associated with this video has been terminated",
	} {
		if strings.Contains(msg, marker) {
			return apperrors.NotFound(op, err, "Video unavailable")
		}
	}
	return apperrors.Internal(op, err, "Failed to fetch video info")
}
