package ports

import (
	"context"
	"time"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
)

// VideoFilter carries the optional filters for listing videos. Zero values
// mean "no filter".
type VideoFilter struct {
	Source      domain.Source
	MinDuration *int
	MaxDuration *int
	UploadedAt  time.Time // upload_date >= UploadedAt
	TitleSearch string    // case-insensitive substring match on title
	Page        int       // 1-based
	Limit       int
}

// VideoRepository defines persistence operations for video records.
type VideoRepository interface {
	Create(ctx context.Context, v *domain.Video) (*domain.Video, error)
	Update(ctx context.Context, v *domain.Video) (*domain.Video, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Video, error)
	// FindByExternalID returns domain.ErrVideoNotFound when no record matches.
	FindByExternalID(ctx context.Context, externalID string, source domain.Source) (*domain.Video, error)
	// List returns a page of videos matching filter and the total count.
	List(ctx context.Context, filter VideoFilter) ([]*domain.Video, int64, error)
	StatsBySource(ctx context.Context) ([]domain.VideoStats, error)
}

// StatsCache caches the per-source statistics between writes.
type StatsCache interface {
	// Get reports a cache miss as (nil, false, nil).
	Get(ctx context.Context) ([]domain.VideoStats, bool, error)
	Set(ctx context.Context, stats []domain.VideoStats) error
	Invalidate(ctx context.Context) error
}

// VideoFeed returns the catalog an external platform currently publishes.
type VideoFeed interface {
	Fetch(ctx context.Context, source domain.Source) ([]domain.Video, error)
}
