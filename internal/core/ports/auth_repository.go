package ports

import (
	"context"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
)

// UserRepository is the identity store. FindByUsername returns
// domain.ErrUserNotFound when no user matches; implementations must be safe
// for concurrent reads.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateRole(ctx context.Context, username string, role domain.Role) (*domain.User, error)
}

// AuthEventRepository persists the authentication audit trail.
type AuthEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}
