package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/videocatalog/video-metadata-service/internal/core/domain"
)

// ctxIdentity returns the identity installed by the authentication
// middleware. Routes reaching a handler without one were misconfigured as
// public, so the request is rejected rather than served anonymously.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id, ok := domain.IdentityFromContext(c.Request().Context())
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return id, nil
}
