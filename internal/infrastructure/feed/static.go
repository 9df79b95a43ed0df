// Package feed provides the platform catalogs consumed by the import
// endpoint. The StaticFeed serves a fixed catalog per source with stable
// external IDs, so importing the same source twice adds nothing.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
	"github.com/videocatalog/video-metadata-service/internal/core/ports"
)

var _ ports.VideoFeed = (*StaticFeed)(nil)

type StaticFeed struct {
	catalog map[domain.Source][]domain.Video
}

func NewStaticFeed() *StaticFeed {
	return &StaticFeed{catalog: defaultCatalog()}
}

// Fetch returns a copy of the catalog for source.
func (f *StaticFeed) Fetch(ctx context.Context, source domain.Source) ([]domain.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, ok := f.catalog[source]
	if !ok {
		return nil, fmt.Errorf("feed %q: %w", source, domain.ErrInvalidSource)
	}
	out := make([]domain.Video, len(items))
	copy(out, items)
	return out, nil
}

func seconds(n int) *int { return &n }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func defaultCatalog() map[domain.Source][]domain.Video {
	return map[domain.Source][]domain.Video{
		domain.SourceYouTube: {
			{
				Title:           "Advanced Go Concurrency Patterns",
				Description:     "Pipelines, fan-out and cancellation with context",
				ExternalID:      "yt_go_concurrency_01",
				Source:          domain.SourceYouTube,
				ThumbnailURL:    "https://img.youtube.com/vi/yt_go_concurrency_01/maxresdefault.jpg",
				VideoURL:        "https://www.youtube.com/watch?v=yt_go_concurrency_01",
				DurationSeconds: seconds(3600),
				UploadDate:      day(2025, time.March, 14),
				ViewCount:       125000,
				LikeCount:       8500,
				ChannelName:     "Tech Education Channel",
				ChannelID:       "UC_tech_education",
				Tags:            "go,concurrency,tutorial,advanced",
			},
			{
				Title:           "Building Microservices with Echo and MongoDB",
				Description:     "From router to repository in a production layout",
				ExternalID:      "yt_echo_mongo_02",
				Source:          domain.SourceYouTube,
				ThumbnailURL:    "https://img.youtube.com/vi/yt_echo_mongo_02/maxresdefault.jpg",
				VideoURL:        "https://www.youtube.com/watch?v=yt_echo_mongo_02",
				DurationSeconds: seconds(4200),
				UploadDate:      day(2025, time.June, 2),
				ViewCount:       89000,
				LikeCount:       6200,
				ChannelName:     "Backend Weekly",
				ChannelID:       "UC_backend_weekly",
				Tags:            "microservices,echo,mongodb,architecture",
			},
		},
		domain.SourceVimeo: {
			{
				Title:           "Creative Coding with Processing",
				Description:     "Artistic programming for generative visuals",
				ExternalID:      "vimeo_creative_coding_01",
				Source:          domain.SourceVimeo,
				ThumbnailURL:    "https://vimeo.com/vimeo_creative_coding_01/thumbnail",
				VideoURL:        "https://vimeo.com/vimeo_creative_coding_01",
				DurationSeconds: seconds(2700),
				UploadDate:      day(2024, time.November, 20),
				ViewCount:       45000,
				LikeCount:       3200,
				ChannelName:     "Creative Coders",
				Tags:            "processing,creative,coding,art",
			},
		},
		domain.SourceInternal: {
			{
				Title:           "Company Training: API Security Best Practices",
				Description:     "Token handling, password storage and access control",
				ExternalID:      "internal_api_security_01",
				Source:          domain.SourceInternal,
				ThumbnailURL:    "/internal/thumbnails/security-training.jpg",
				VideoURL:        "/internal/videos/security-training.mp4",
				DurationSeconds: seconds(1800),
				UploadDate:      day(2025, time.January, 8),
				ViewCount:       150,
				LikeCount:       25,
				ChannelName:     "Company Training Department",
				Tags:            "security,api,training,internal",
			},
		},
	}
}
