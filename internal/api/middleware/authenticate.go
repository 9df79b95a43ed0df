package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/videocatalog/video-metadata-service/internal/api/metrics"
	"github.com/videocatalog/video-metadata-service/internal/core/domain"
	"github.com/videocatalog/video-metadata-service/internal/infrastructure/telemetry"
)

// TokenResolver turns a raw bearer token into the identity it names.
type TokenResolver interface {
	Resolve(ctx context.Context, rawToken string) (*domain.Identity, error)
}

// AuthenticateConfig configures Authenticate.
type AuthenticateConfig struct {
	Resolver TokenResolver
	// Skipper marks requests that bypass authentication entirely.
	Skipper func(echo.Context) bool
	Logger  zerolog.Logger
}

// Authenticate installs the caller's identity on the request context when a
// valid bearer token is presented. It never rejects a request: a missing,
// invalid or expired token, a vanished user or a panic in the resolver all
// leave the request anonymous for Authorize to judge.
func Authenticate(cfg AuthenticateConfig) echo.MiddlewareFunc {
	skip := cfg.Skipper
	if skip == nil {
		skip = func(echo.Context) bool { return false }
	}
	a := &authenticator{resolver: cfg.Resolver, log: cfg.Logger}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip(c) {
				return next(c)
			}

			req := c.Request()
			if _, ok := domain.IdentityFromContext(req.Context()); ok {
				return next(c)
			}

			raw, ok := BearerToken(req.Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.TokenAuthTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}

			if id := a.resolve(c, raw); id != nil {
				c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), id)))
			}
			return next(c)
		}
	}
}

type authenticator struct {
	resolver TokenResolver
	log      zerolog.Logger
}

func (a *authenticator) resolve(c echo.Context, raw string) (id *domain.Identity) {
	req := c.Request()
	ctx, span := telemetry.StartAuthenticateSpan(req.Context(), req.Method, req.URL.Path)
	result := "authenticated"

	defer func() {
		if r := recover(); r != nil {
			id = nil
			result = "panic"
			a.log.Error().Interface("panic", r).Str("path", req.URL.Path).Msg("token resolution panicked, continuing unauthenticated")
		}
		username := ""
		if id != nil {
			username = id.Username
		}
		metrics.TokenAuthTotal.WithLabelValues(result).Inc()
		telemetry.EndAuthenticateSpan(span, result, username)
	}()

	id, err := a.resolver.Resolve(ctx, raw)
	if err == nil && id == nil {
		err = errors.New("resolver returned no identity")
	}
	if err == nil {
		return id
	}

	evt := a.log.Warn()
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		result = "expired"
		evt = a.log.Debug()
	case errors.Is(err, domain.ErrInvalidToken):
		result = "invalid"
	case errors.Is(err, domain.ErrUserNotFound):
		result = "unknown_subject"
	default:
		result = "error"
		evt = a.log.Error()
	}
	evt.Err(err).Str("path", req.URL.Path).Str("remote_ip", c.RealIP()).Msg("bearer token rejected, continuing unauthenticated")
	return nil
}

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
