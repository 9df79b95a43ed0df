package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/videocatalog/video-metadata-service/internal/api/metrics"
	"github.com/videocatalog/video-metadata-service/internal/core/ports"
	"github.com/videocatalog/video-metadata-service/internal/infrastructure/telemetry"
)

// uploadDateLayouts are accepted for the upload_date filter, most specific first.
var uploadDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// VideoHandler handles HTTP requests for the video catalog.
type VideoHandler struct {
	service ports.VideoService
}

func NewVideoHandler(service ports.VideoService) *VideoHandler {
	return &VideoHandler{service: service}
}

// List handles GET /videos.
//
// @Summary      List videos
// @Description  Paginated list with optional filters. Page numbers start at 1.
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        source        query     string  false  "youtube, vimeo or internal"
// @Param        min_duration  query     int     false  "Minimum duration in seconds"
// @Param        max_duration  query     int     false  "Maximum duration in seconds"
// @Param        upload_date   query     string  false  "Uploaded at or after (RFC3339 or yyyy-mm-dd)"
// @Param        page          query     int     false  "Page number"
// @Param        limit         query     int     false  "Page size (max 100)"
// @Success      200           {object}  videoPageResponse
// @Failure      400           {object}  errorResponse
// @Failure      401           {object}  errorResponse
// @Router       /videos [get]
func (h *VideoHandler) List(c echo.Context) error {
	in, err := listInputFromQuery(c)
	if err != nil {
		return err
	}
	in.Source = c.QueryParam("source")

	minDuration, err := optionalIntParam(c, "min_duration")
	if err != nil {
		return err
	}
	maxDuration, err := optionalIntParam(c, "max_duration")
	if err != nil {
		return err
	}
	in.MinDuration, in.MaxDuration = minDuration, maxDuration

	if raw := c.QueryParam("upload_date"); raw != "" {
		uploadedAt, err := parseUploadDate(raw)
		if err != nil {
			return err
		}
		in.UploadedAt = uploadedAt
	}

	res, err := h.service.ListVideos(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(res))
}

// Search handles GET /videos/search.
//
// @Summary      Search videos by title
// @Description  Case-insensitive substring match on the title. An empty query lists every video.
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        q      query     string  false  "Title fragment"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {object}  videoPageResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /videos/search [get]
func (h *VideoHandler) Search(c echo.Context) error {
	in, err := listInputFromQuery(c)
	if err != nil {
		return err
	}
	in.Search = strings.TrimSpace(c.QueryParam("q"))

	res, err := h.service.ListVideos(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(res))
}

// Stats handles GET /videos/stats.
//
// @Summary      Catalog statistics
// @Description  Video count and average duration per source.
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   videoStatsResponse
// @Failure      401  {object}  errorResponse
// @Router       /videos/stats [get]
func (h *VideoHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatsResponse(stats))
}

// Get handles GET /videos/:id.
//
// @Summary      Get a video
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Video ID"
// @Success      200  {object}  videoResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /videos/{id} [get]
func (h *VideoHandler) Get(c echo.Context) error {
	v, err := h.service.GetVideo(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVideoResponse(v))
}

// Create handles POST /videos.
//
// @Summary      Create a video
// @Tags         videos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      videoRequest  true  "Video metadata"
// @Success      201   {object}  videoResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /videos [post]
func (h *VideoHandler) Create(c echo.Context) error {
	var req videoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	v, err := h.service.CreateVideo(c.Request().Context(), toVideoInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toVideoResponse(v))
}

// Update handles PUT /videos/:id.
//
// @Summary      Replace a video's metadata
// @Tags         videos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Video ID"
// @Param        body  body      videoRequest  true  "Video metadata"
// @Success      200   {object}  videoResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /videos/{id} [put]
func (h *VideoHandler) Update(c echo.Context) error {
	var req videoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	v, err := h.service.UpdateVideo(c.Request().Context(), c.Param("id"), toVideoInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVideoResponse(v))
}

// Delete handles DELETE /videos/:id.
//
// @Summary      Delete a video
// @Tags         videos
// @Security     BearerAuth
// @Param        id  path  string  true  "Video ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /videos/{id} [delete]
func (h *VideoHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteVideo(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Import handles GET and POST /videos/import.
//
// @Summary      Import videos from an external platform
// @Description  Records already in the catalog are skipped, so repeating an import reports 0.
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        source  query     string  true  "youtube, vimeo or internal"
// @Success      200     {object}  importResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /videos/import [post]
func (h *VideoHandler) Import(c echo.Context) error {
	source := c.QueryParam("source")
	ctx, span := telemetry.StartImportSpan(c.Request().Context(), source)

	res, err := h.service.Import(ctx, source)
	if err != nil {
		telemetry.EndImportSpan(span, 0, err)
		return err
	}
	telemetry.EndImportSpan(span, len(res.Imported), nil)

	metrics.VideosImportedTotal.WithLabelValues(string(res.Source)).Add(float64(len(res.Imported)))
	return c.JSON(http.StatusOK, importResponse{
		Message: fmt.Sprintf("Successfully imported %d videos from %s", len(res.Imported), res.Source),
		Count:   len(res.Imported),
		Source:  string(res.Source),
		Videos:  toVideoResponses(res.Imported),
	})
}

// listInputFromQuery reads the paging parameters shared by List and Search.
func listInputFromQuery(c echo.Context) (ports.ListVideosInput, error) {
	var in ports.ListVideosInput
	page, err := optionalIntParam(c, "page")
	if err != nil {
		return in, err
	}
	limit, err := optionalIntParam(c, "limit")
	if err != nil {
		return in, err
	}
	if page != nil {
		in.Page = *page
	}
	if limit != nil {
		in.Limit = *limit
	}
	return in, nil
}

func optionalIntParam(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return &n, nil
}

func parseUploadDate(raw string) (time.Time, error) {
	for _, layout := range uploadDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "upload_date must be RFC3339 or yyyy-mm-dd")
}
