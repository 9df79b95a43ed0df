package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
	"github.com/videocatalog/video-metadata-service/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxTitleLength   = 255
	maxTagsLength    = 1000
)

var _ ports.VideoService = (*VideoService)(nil)

type VideoService struct {
	repo  ports.VideoRepository
	cache ports.StatsCache
	feed  ports.VideoFeed
	log   zerolog.Logger
	now   func() time.Time

	// writes counts catalog mutations so Stats can tell whether its result
	// went stale before it reached the cache.
	writes atomic.Uint64
}

// NewVideoService wires the catalog use cases. cache may be nil, in which
// case statistics are computed on every call.
func NewVideoService(repo ports.VideoRepository, cache ports.StatsCache, feed ports.VideoFeed, log zerolog.Logger) *VideoService {
	return &VideoService{repo: repo, cache: cache, feed: feed, log: log, now: time.Now}
}

func (s *VideoService) CreateVideo(ctx context.Context, in ports.VideoInput) (*domain.Video, error) {
	source, err := validateVideoInput(in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	v := &domain.Video{CreatedAt: now}
	applyVideoInput(v, in, source, now)

	created, err := s.repo.Create(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}

	s.invalidateStats(ctx)
	s.log.Info().Str("id", created.ID).Str("source", string(source)).Str("external_id", created.ExternalID).Msg("video created")
	return created, nil
}

func (s *VideoService) UpdateVideo(ctx context.Context, id string, in ports.VideoInput) (*domain.Video, error) {
	source, err := validateVideoInput(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update video: %w", err)
	}
	applyVideoInput(existing, in, source, s.now().UTC())

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("update video: %w", err)
	}

	s.invalidateStats(ctx)
	s.log.Info().Str("id", id).Msg("video updated")
	return updated, nil
}

func (s *VideoService) DeleteVideo(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	s.invalidateStats(ctx)
	s.log.Info().Str("id", id).Msg("video deleted")
	return nil
}

func (s *VideoService) GetVideo(ctx context.Context, id string) (*domain.Video, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return v, nil
}

// ListVideos returns one page of videos. The limit defaults to 20 and is
// capped at 100; page numbers start at 1.
func (s *VideoService) ListVideos(ctx context.Context, in ports.ListVideosInput) (*ports.ListVideosResult, error) {
	filter := ports.VideoFilter{
		MinDuration: in.MinDuration,
		MaxDuration: in.MaxDuration,
		UploadedAt:  in.UploadedAt,
		TitleSearch: strings.TrimSpace(in.Search),
		Page:        in.Page,
		Limit:       in.Limit,
	}
	if in.Source != "" {
		source, ok := domain.ParseSource(in.Source)
		if !ok {
			return nil, domain.ErrInvalidSource
		}
		filter.Source = source
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	if items == nil {
		items = []*domain.Video{}
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}

	return &ports.ListVideosResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Stats returns per-source counts and average durations, served from the
// cache when possible. Cache failures fall back to the repository.
func (s *VideoService) Stats(ctx context.Context) ([]domain.VideoStats, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("stats cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	gen := s.writes.Load()
	stats, err := s.repo.StatsBySource(ctx)
	if err != nil {
		return nil, fmt.Errorf("video stats: %w", err)
	}
	if stats == nil {
		stats = []domain.VideoStats{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			s.log.Warn().Err(err).Msg("stats cache write failed")
		} else if s.writes.Load() != gen {
			// A write landed while stats were computed; drop what was just cached.
			s.invalidateStats(ctx)
		}
	}
	return stats, nil
}

// Import pulls the feed for source and stores every record not already in
// the catalog. Records are matched on (external_id, source), so repeating an
// import creates nothing.
func (s *VideoService) Import(ctx context.Context, rawSource string) (*ports.ImportResult, error) {
	source, ok := domain.ParseSource(rawSource)
	if !ok {
		return nil, domain.ErrInvalidSource
	}

	feed, err := s.feed.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("import %s: fetch: %w", source, err)
	}

	result := &ports.ImportResult{Source: source, Imported: []*domain.Video{}}
	for i := range feed {
		item := feed[i]
		item.Source = source

		_, err := s.repo.FindByExternalID(ctx, item.ExternalID, source)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrVideoNotFound) {
			return nil, fmt.Errorf("import %s: lookup %s: %w", source, item.ExternalID, err)
		}

		now := s.now().UTC()
		item.ID = ""
		item.CreatedAt = now
		item.UpdatedAt = now

		created, err := s.repo.Create(ctx, &item)
		if errors.Is(err, domain.ErrDuplicateVideo) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("import %s: create %s: %w", source, item.ExternalID, err)
		}
		result.Imported = append(result.Imported, created)
	}

	if len(result.Imported) > 0 {
		s.invalidateStats(ctx)
	}
	s.log.Info().Str("source", string(source)).Int("fetched", len(feed)).Int("imported", len(result.Imported)).Msg("import finished")
	return result, nil
}

func (s *VideoService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.writes.Add(1)
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("stats cache invalidation failed")
	}
}

func validateVideoInput(in ports.VideoInput) (domain.Source, error) {
	source, ok := domain.ParseSource(in.Source)
	if !ok {
		return "", domain.ErrInvalidSource
	}

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return "", fmt.Errorf("%w: title is required", domain.ErrValidation)
	case utf8.RuneCountInString(title) > maxTitleLength:
		return "", fmt.Errorf("%w: title exceeds %d characters", domain.ErrValidation, maxTitleLength)
	case strings.TrimSpace(in.ExternalID) == "":
		return "", fmt.Errorf("%w: external_id is required", domain.ErrValidation)
	case in.DurationSeconds != nil && *in.DurationSeconds <= 0:
		return "", fmt.Errorf("%w: duration_seconds must be positive", domain.ErrValidation)
	case utf8.RuneCountInString(in.Tags) > maxTagsLength:
		return "", fmt.Errorf("%w: tags exceed %d characters", domain.ErrValidation, maxTagsLength)
	}
	return source, nil
}

func applyVideoInput(v *domain.Video, in ports.VideoInput, source domain.Source, now time.Time) {
	v.Title = strings.TrimSpace(in.Title)
	v.Description = in.Description
	v.ExternalID = strings.TrimSpace(in.ExternalID)
	v.Source = source
	v.ThumbnailURL = in.ThumbnailURL
	v.VideoURL = in.VideoURL
	v.DurationSeconds = in.DurationSeconds
	v.UploadDate = in.UploadDate
	v.ViewCount = in.ViewCount
	v.LikeCount = in.LikeCount
	v.ChannelName = in.ChannelName
	v.ChannelID = in.ChannelID
	v.Tags = in.Tags
	v.UpdatedAt = now
}
