package handler

import (
	"time"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token            string      `json:"token"`
	Type             string      `json:"type"`
	Username         string      `json:"username"`
	Role             domain.Role `json:"role"`
	ExpiresInSeconds int64       `json:"expires_in_seconds"`
	ExpiresAt        time.Time   `json:"expires_at"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type userResponse struct {
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type meResponse struct {
	Username    string      `json:"username"`
	Role        domain.Role `json:"role"`
	Authorities []string    `json:"authorities"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// --- Videos ---

type videoRequest struct {
	Title           string     `json:"title"            validate:"required,max=255"`
	Description     string     `json:"description"`
	ExternalID      string     `json:"external_id"      validate:"required"`
	Source          string     `json:"source"           validate:"required,oneof=youtube vimeo internal"`
	ThumbnailURL    string     `json:"thumbnail_url"    validate:"omitempty,url"`
	VideoURL        string     `json:"video_url"        validate:"omitempty,url"`
	DurationSeconds *int       `json:"duration_seconds" validate:"omitempty,gt=0"`
	UploadDate      *time.Time `json:"upload_date"`
	ViewCount       int64      `json:"view_count"       validate:"gte=0"`
	LikeCount       int64      `json:"like_count"       validate:"gte=0"`
	ChannelName     string     `json:"channel_name"`
	ChannelID       string     `json:"channel_id"`
	Tags            string     `json:"tags"             validate:"max=1000"`
}

type videoResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	ExternalID      string     `json:"external_id"`
	Source          string     `json:"source"`
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
	Links           videoLinks `json:"_links"`
}

type videoLinks struct {
	Self string `json:"self"`
}

type videoPageResponse struct {
	Items      []videoResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

type videoStatsResponse struct {
	Source          string  `json:"source"`
	TotalVideos     int64   `json:"total_videos"`
	AverageDuration float64 `json:"average_duration"`
}

type importResponse struct {
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Source  string          `json:"source"`
	Videos  []videoResponse `json:"videos"`
}
