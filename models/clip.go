package models

import (
	"time"
)

// ClipRecord is the persisted mapping from a short code to an embed
// URL. The record store is the sole durable owner; nothing is cached
// in memory across requests.
type ClipRecord struct {
	ShortCode    string    `json:"short_code"`
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail"`
	EmbedURL     string    `json:"embed_url"`
	StartTime    int       `json:"start_time"`
	EndTime      *int      `json:"end_time"`
	Views        int       `json:"views"`
	CreatedAt    time.Time `json:"created_at"`
}

// VideoInfo is the normalized result of a metadata lookup.
type VideoInfo struct {
	Title     string  `json:"title"`
	Thumbnail string  `json:"thumbnail"`
	Duration  float64 `json:"duration"`
	ViewCount int64   `json:"view_count"`
}

// InfoRequest is the body of POST /api/info.
type InfoRequest struct {
	URL string `json:"url"`
}

// InfoResponse is the reply to POST /api/info.
type InfoResponse struct {
	Title       string  `json:"title"`
	Thumbnail   string  `json:"thumbnail"`
	Duration    float64 `json:"duration"`
	Views       int64   `json:"views,omitempty"`
	OriginalURL string  `json:"original_url"`
}

// ClipRequest is the body of POST /api/clip. Start and End are absolute
// offsets in seconds; End may be omitted.
type ClipRequest struct {
	URL   string `json:"url"`
	Start int    `json:"start"`
	End   *int   `json:"end"`
	Title string `json:"title,omitempty"`
}

// ClipResponse is the reply to POST /api/clip.
type ClipResponse struct {
	ShortCode string `json:"short_code"`
	ShortURL  string `json:"short_url"`
	EmbedURL  string `json:"embed_url"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Views     int    `json:"views"`
}

// CutRequest is the body of POST /api/cut. StartTime and EndTime are
// absolute offsets in seconds; EndTime is exclusive at the boundary.
type CutRequest struct {
	VideoURL       string  `json:"video_url"`
	StartTime      float64 `json:"start_time"`
	EndTime        float64 `json:"end_time"`
	Title          string  `json:"title,omitempty"`
	FileNamePrefix string  `json:"file_name_prefix,omitempty"`
}

// CutResponse is the reply to POST /api/cut.
type CutResponse struct {
	Status    string `json:"status"`
	PublicURL string `json:"public_url"`
}
