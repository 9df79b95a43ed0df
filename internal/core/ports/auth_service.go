package ports

import (
	"context"
	"time"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
)

// LoginInput carries a login attempt. RemoteAddr is only used for auditing.
type LoginInput struct {
	Username   string
	Password   string
	RemoteAddr string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	TokenType string
	Username  string
	Role      domain.Role
	ExpiresIn time.Duration
	ExpiresAt time.Time
}

// AuthService covers credential verification, token issuance and per-request
// identity resolution.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	// Resolve validates a raw bearer token and loads the identity it names.
	Resolve(ctx context.Context, rawToken string) (*domain.Identity, error)
	ChangeRole(ctx context.Context, actor *domain.Identity, username string, role domain.Role) (*domain.User, error)
}

// AuthAuditor receives authentication events. Record must not block.
type AuthAuditor interface {
	Record(event domain.AuthEvent)
}
