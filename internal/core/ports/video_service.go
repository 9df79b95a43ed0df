package ports

import (
	"context"
	"time"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
)

// VideoInput carries the writable fields of a video.
type VideoInput struct {
	Title           string
	Description     string
	ExternalID      string
	Source          string
	ThumbnailURL    string
	VideoURL        string
	DurationSeconds *int
	UploadDate      *time.Time
	ViewCount       int64
	LikeCount       int64
	ChannelName     string
	ChannelID       string
	Tags            string
}

// ListVideosInput carries all parameters for the list and search endpoints.
type ListVideosInput struct {
	Source      string
	MinDuration *int
	MaxDuration *int
	UploadedAt  time.Time
	Search      string
	Page        int
	Limit       int
}

// ListVideosResult is one page of videos.
type ListVideosResult struct {
	Items      []*domain.Video
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ImportResult reports the records an import actually created.
type ImportResult struct {
	Source   domain.Source
	Imported []*domain.Video
}

// VideoService defines the catalog use cases.
type VideoService interface {
	CreateVideo(ctx context.Context, in VideoInput) (*domain.Video, error)
	UpdateVideo(ctx context.Context, id string, in VideoInput) (*domain.Video, error)
	DeleteVideo(ctx context.Context, id string) error
	GetVideo(ctx context.Context, id string) (*domain.Video, error)
	ListVideos(ctx context.Context, in ListVideosInput) (*ListVideosResult, error)
	Stats(ctx context.Context) ([]domain.VideoStats, error)
	Import(ctx context.Context, source string) (*ImportResult, error)
}
