// Package ffmpeg invokes the external transcoder to cut a time range
// out of a local media file.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/cliphunter/cliphunter/errors"
)

// Mode selects the trim policy.
type Mode string

const (
	// ModeCopy cuts without re-encoding. Fast, but boundaries land on
	// the nearest keyframe and some containers come out broken.
	ModeCopy Mode = "copy"
	// ModeReencode forces h264/aac with a relocated moov atom so the
	// output plays in browsers. Slower.
	ModeReencode Mode = "reencode"
)

// stderr attached to a TranscodeError is capped at this many bytes.
const maxDiagnosticLen = 500

// Trimmer cuts a [start, end) range from a local file. Implementations
// write the output file and leave the input in place.
type Trimmer interface {
	Trim(ctx context.Context, inputPath, outputPath string, start, end float64) error
}

type Config struct {
	BinPath string
	Mode    Mode
	Timeout time.Duration
}

type trimmer struct {
	config Config
	logger *logrus.Logger
}

func NewTrimmer(cfg Config, log *logrus.Logger) Trimmer {
	if cfg.BinPath == "" {
		cfg.BinPath = "ffmpeg"
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeReencode
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &trimmer{config: cfg, logger: log}
}

func (t *trimmer) Trim(ctx context.Context, inputPath, outputPath string, start, end float64) error {
	const op = "ffmpeg.Trim"

	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	args := buildArgs(t.config.Mode, inputPath, outputPath, start, end)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.config.BinPath, args...)
	cmd.Stderr = &stderr

	t.logger.WithFields(logrus.Fields{
		"input":  inputPath,
		"output": outputPath,
		"start":  start,
		"end":    end,
		"mode":   string(t.config.Mode),
	}).Info("Trimming clip")

	if err := cmd.Run(); err != nil {
		diag := truncate(stderr.String(), maxDiagnosticLen)
		t.logger.WithError(err).WithField("stderr", diag).Error("ffmpeg failed")
		return apperrors.Internal(op, err, fmt.Sprintf("Transcode failed: %s", diag))
	}

	return nil
}

func buildArgs(mode Mode, inputPath, outputPath string, start, end float64) []string {
	if mode == ModeCopy {
		// Fast input seek; imprecise boundaries are the accepted
		// trade-off for stream copy.
		return []string{
			"-y",
			"-ss", formatSeconds(start),
			"-i", inputPath,
			"-t", formatSeconds(end - start),
			"-c", "copy",
			outputPath,
		}
	}
	return []string{
		"-y",
		"-i", inputPath,
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-movflags", "+faststart",
		outputPath,
	}
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.3f", s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
