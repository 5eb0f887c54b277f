package youtube

import (
	"strings"
	"testing"

	"github.com/cliphunter/cliphunter/errors"
)

func TestExtractVideoID(t *testing.T) {
	const wantID = "dQw4w9WgXcQ"

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name: "watch URL",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name: "watch URL with extra parameters",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10s",
		},
		{
			name: "embed URL",
			url:  "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name: "short URL",
			url:  "https://youtu.be/dQw4w9WgXcQ",
		},
		{
			name: "short URL with query",
			url:  "https://youtu.be/dQw4w9WgXcQ?si=abc",
		},
		{
			name:    "empty string",
			url:     "",
			wantErr: true,
		},
		{
			name:    "not a URL",
			url:     "not-a-url",
			wantErr: true,
		},
		{
			name:    "watch URL without video ID",
			url:     "https://www.youtube.com/watch",
			wantErr: true,
		},
		{
			name:    "identifier too short",
			url:     "https://www.youtube.com/watch?v=short",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ExtractVideoID(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractVideoID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.IsInvalidInput(err) {
					t.Errorf("expected invalid input error, got %v", err)
				}
				return
			}
			if id != wantID {
				t.Errorf("ExtractVideoID() = %q, want %q", id, wantID)
			}
		})
	}
}

func TestEmbedURL(t *testing.T) {
	end := 90
	url := EmbedURL("dQw4w9WgXcQ", 30, &end)

	if strings.Count(url, "start=30") != 1 {
		t.Errorf("expected start=30 exactly once in %q", url)
	}
	if strings.Count(url, "end=90") != 1 {
		t.Errorf("expected end=90 exactly once in %q", url)
	}
	if !strings.Contains(url, "youtube-nocookie.com/embed/dQw4w9WgXcQ") {
		t.Errorf("unexpected embed host in %q", url)
	}
}

func TestEmbedURLWithoutEnd(t *testing.T) {
	url := EmbedURL("dQw4w9WgXcQ", 30, nil)

	if strings.Contains(url, "end=") {
		t.Errorf("expected no end parameter in %q", url)
	}
	if !strings.Contains(url, "start=30") {
		t.Errorf("expected start=30 in %q", url)
	}
}

func TestThumbnailURL(t *testing.T) {
	got := ThumbnailURL("dQw4w9WgXcQ")
	want := "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"
	if got != want {
		t.Errorf("ThumbnailURL() = %q, want %q", got, want)
	}
}
