package handler

import (
	"github.com/videocatalog/video-metadata-service/internal/core/domain"
	"github.com/videocatalog/video-metadata-service/internal/core/ports"
)

// --- Request → Service input ---

func toVideoInput(req videoRequest) ports.VideoInput {
	return ports.VideoInput{
		Title:           req.Title,
		Description:     req.Description,
		ExternalID:      req.ExternalID,
		Source:          req.Source,
		ThumbnailURL:    req.ThumbnailURL,
		VideoURL:        req.VideoURL,
		DurationSeconds: req.DurationSeconds,
		UploadDate:      req.UploadDate,
		ViewCount:       req.ViewCount,
		LikeCount:       req.LikeCount,
		ChannelName:     req.ChannelName,
		ChannelID:       req.ChannelID,
		Tags:            req.Tags,
	}
}

// --- Domain → Response ---

func toVideoResponse(v *domain.Video) videoResponse {
	return videoResponse{
		ID:              v.ID,
		Title:           v.Title,
		Description:     v.Description,
		ExternalID:      v.ExternalID,
		Source:          string(v.Source),
		ThumbnailURL:    v.ThumbnailURL,
		VideoURL:        v.VideoURL,
		DurationSeconds: v.DurationSeconds,
		UploadDate:      v.UploadDate,
		ViewCount:       v.ViewCount,
		LikeCount:       v.LikeCount,
		ChannelName:     v.ChannelName,
		ChannelID:       v.ChannelID,
		Tags:            v.Tags,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
		Links:           videoLinks{Self: "/videos/" + v.ID},
	}
}

func toVideoResponses(videos []*domain.Video) []videoResponse {
	out := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, toVideoResponse(v))
	}
	return out
}

func toPageResponse(res *ports.ListVideosResult) videoPageResponse {
	return videoPageResponse{
		Items:      toVideoResponses(res.Items),
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	}
}

func toStatsResponse(stats []domain.VideoStats) []videoStatsResponse {
	out := make([]videoStatsResponse, 0, len(stats))
	for _, st := range stats {
		out = append(out, videoStatsResponse{
			Source:          string(st.Source),
			TotalVideos:     st.TotalVideos,
			AverageDuration: st.AverageDuration,
		})
	}
	return out
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toLoginResponse(res *ports.LoginResult) loginResponse {
	return loginResponse{
		Token:            res.Token,
		Type:             res.TokenType,
		Username:         res.Username,
		Role:             res.Role,
		ExpiresInSeconds: int64(res.ExpiresIn.Seconds()),
		ExpiresAt:        res.ExpiresAt.UTC(),
	}
}
