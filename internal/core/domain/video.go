package domain

import (
	"strings"
	"time"
)

// Source is the platform a video record was taken from.
type Source string

const (
	SourceYouTube  Source = "youtube"
	SourceVimeo    Source = "vimeo"
	SourceInternal Source = "internal"
)

// Sources lists every supported platform.
var Sources = []Source{SourceYouTube, SourceVimeo, SourceInternal}

// ParseSource normalises s and reports whether it is a supported platform.
func ParseSource(s string) (Source, bool) {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Sources {
		if src == known {
			return src, true
		}
	}
	return "", false
}

// Video is the catalog record for a single video.
type Video struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	ExternalID      string     `json:"external_id"`
	Source          Source     `json:"source"`
	ThumbnailURL    string     `json:"thumbnail_url,omitempty"`
	VideoURL        string     `json:"video_url,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	UploadDate      *time.Time `json:"upload_date,omitempty"`
	ViewCount       int64      `json:"view_count"`
	LikeCount       int64      `json:"like_count"`
	ChannelName     string     `json:"channel_name,omitempty"`
	ChannelID       string     `json:"channel_id,omitempty"`
	Tags            string     `json:"tags,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// VideoStats aggregates the catalog for one source.
type VideoStats struct {
	Source          Source  `json:"source" bson:"_id"`
	TotalVideos     int64   `json:"total_videos" bson:"total_videos"`
	AverageDuration float64 `json:"average_duration" bson:"average_duration"`
}
