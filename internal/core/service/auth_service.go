package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
	"github.com/videocatalog/video-metadata-service/internal/core/ports"
	"github.com/videocatalog/video-metadata-service/internal/core/token"
)

const tracerName = "github.com/videocatalog/video-metadata-service/internal/core/service"

// dummyPassword is hashed once at construction so that logins for unknown
// usernames still pay for a full bcrypt comparison.
const dummyPassword = "video-catalog-dummy-password"

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// AuthOptions tunes the authentication service.
type AuthOptions struct {
	TokenTTL   time.Duration
	BcryptCost int
}

// SeedUser is an account created at startup when it does not exist yet.
type SeedUser struct {
	Username string
	Password string
	Role     domain.Role
}

// DefaultSeedUsers are the development accounts.
var DefaultSeedUsers = []SeedUser{
	{Username: "admin", Password: "admin123", Role: domain.RoleAdmin},
	{Username: "user", Password: "user123", Role: domain.RoleUser},
}

var _ ports.AuthService = (*AuthService)(nil)

// AuthService verifies credentials, issues tokens and resolves the identity
// behind a presented token. It holds no per-user state.
type AuthService struct {
	users     ports.UserRepository
	codec     *token.Codec
	auditor   ports.AuthAuditor
	log       zerolog.Logger
	tokenTTL  time.Duration
	cost      int
	dummyHash []byte
	now       func() time.Time
}

func NewAuthService(users ports.UserRepository, codec *token.Codec, auditor ports.AuthAuditor, log zerolog.Logger, opts AuthOptions) (*AuthService, error) {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = 12
	}
	if opts.BcryptCost < bcrypt.MinCost || opts.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("auth service: bcrypt cost %d out of range", opts.BcryptCost)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: dummy hash: %w", err)
	}

	return &AuthService{
		users:     users,
		codec:     codec,
		auditor:   auditor,
		log:       log,
		tokenTTL:  opts.TokenTTL,
		cost:      opts.BcryptCost,
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

// Verify checks a username/password pair against the stored hash. Unknown
// users and wrong passwords both yield domain.ErrAuthenticationFailed.
func (s *AuthService) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrAuthenticationFailed
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, domain.ErrAuthenticationFailed
	}
	if err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrAuthenticationFailed
	}
	return user, nil
}

// Login verifies the credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "auth.Login")
	defer span.End()

	user, err := s.Verify(ctx, in.Username, in.Password)
	if err != nil {
		span.SetStatus(codes.Error, "authentication failed")
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			s.record(domain.AuthEventLoginFailed, in.Username, in.RemoteAddr, "bad credentials")
			s.log.Info().Str("username", in.Username).Str("remote_addr", in.RemoteAddr).Msg("login rejected")
		} else {
			span.RecordError(err)
			s.log.Error().Err(err).Str("username", in.Username).Msg("login failed")
		}
		return nil, err
	}

	raw, claims, err := s.codec.Issue(user.Username, user.Role, s.tokenTTL)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("login: %w", err)
	}
	span.SetAttributes(attribute.String("auth.role", string(user.Role)))

	s.record(domain.AuthEventLoginSucceeded, user.Username, in.RemoteAddr, "")
	s.log.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("login succeeded")

	return &ports.LoginResult{
		Token:     raw,
		TokenType: "Bearer",
		Username:  user.Username,
		Role:      user.Role,
		ExpiresIn: s.tokenTTL,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Resolve parses rawToken and loads the user it names. The identity's role
// is taken from the store, not from the token.
func (s *AuthService) Resolve(ctx context.Context, rawToken string) (*domain.Identity, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "auth.Resolve")
	defer span.End()

	claims, err := s.codec.Parse(rawToken)
	if err != nil {
		span.SetStatus(codes.Error, "token rejected")
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		span.SetStatus(codes.Error, "subject lookup failed")
		return nil, fmt.Errorf("resolve subject %q: %w", claims.Subject, err)
	}
	span.SetAttributes(attribute.String("auth.role", string(user.Role)))
	return domain.NewIdentity(user), nil
}

// Register creates a USER account. Self-registration never grants ADMIN.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("register: %w: username and password are required", domain.ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("register: %w: password exceeds %d bytes", domain.ErrValidation, maxPasswordBytes)
	}
	return s.create(ctx, username, password, domain.RoleUser)
}

// ChangeRole rotates the role of username. Only admins may call it; the new
// role applies from the user's next request.
func (s *AuthService) ChangeRole(ctx context.Context, actor *domain.Identity, username string, role domain.Role) (*domain.User, error) {
	if !actor.HasRole(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if _, ok := domain.ParseRole(string(role)); !ok {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.users.UpdateRole(ctx, username, role)
	if err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}

	s.record(domain.AuthEventRoleChanged, username, "", fmt.Sprintf("%s by %s", role, actor.Username))
	s.log.Info().Str("username", username).Str("role", string(role)).Str("actor", actor.Username).Msg("role changed")
	return user, nil
}

// SeedUsers creates each account that does not exist yet.
func (s *AuthService) SeedUsers(ctx context.Context, seeds []SeedUser) error {
	for _, seed := range seeds {
		_, err := s.users.FindByUsername(ctx, seed.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("seed %q: %w", seed.Username, err)
		}
		if _, err := s.create(ctx, seed.Username, seed.Password, seed.Role); err != nil && !errors.Is(err, domain.ErrUserExists) {
			return fmt.Errorf("seed %q: %w", seed.Username, err)
		}
		s.log.Info().Str("username", seed.Username).Str("role", string(seed.Role)).Msg("seeded user")
	}
	return nil
}

func (s *AuthService) create(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password exceeds %d bytes", domain.ErrValidation, maxPasswordBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AuthService) record(typ domain.AuthEventType, username, remoteAddr, detail string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(domain.AuthEvent{
		Type:       typ,
		Username:   username,
		RemoteAddr: remoteAddr,
		Detail:     detail,
		At:         s.now().UTC(),
	})
}
