// Package youtube parses video-sharing URLs into canonical identifiers
// and builds embed/thumbnail URLs from them.
package youtube

import (
	"fmt"
	"regexp"

	"github.com/cliphunter/cliphunter/errors"
)

// Ordered matchers: full URL with v= parameter, embed-path form,
// short-domain form. The first 11-character identifier wins.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})(?:[?&/]|$)`),
	regexp.MustCompile(`embed/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
}

// ExtractVideoID returns the canonical 11-character identifier embedded
// in url. Failing to match any pattern is a client error.
func ExtractVideoID(url string) (string, error) {
	const op = "youtube.ExtractVideoID"

	for _, p := range idPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", errors.InvalidInput(op, nil, "Invalid YouTube URL")
}

// WatchURL builds the canonical short-form URL for an identifier.
func WatchURL(videoID string) string {
	return fmt.Sprintf("https://youtu.be/%s", videoID)
}

// EmbedURL builds a playback URL parameterized with start/end offsets
// in seconds. end is omitted when nil.
func EmbedURL(videoID string, start int, end *int) string {
	url := fmt.Sprintf(
		"https://www.youtube-nocookie.com/embed/%s?rel=0&modestbranding=1&autoplay=1&start=%d",
		videoID, start,
	)
	if end != nil {
		url += fmt.Sprintf("&end=%d", *end)
	}
	return url
}

// ThumbnailURL is the predictable CDN fallback used when the resolver
// returns no thumbnail.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoID)
}
