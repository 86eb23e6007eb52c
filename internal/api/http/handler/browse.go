package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/clusterdash-server/internal/logger"
	"github.com/dtroode/clusterdash-server/internal/model"
)

const maxBrowseLimit = 1000

// Browse serves bucket and object listings through the S3 API.
type Browse struct {
	store  model.ObjectBrowser
	logger *logger.Logger
}

// NewBrowse creates a new Browse handler.
func NewBrowse(store model.ObjectBrowser, logger *logger.Logger) *Browse {
	return &Browse{store: store, logger: logger}
}

type bucketDTO struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type objectDTO struct {
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	ETag         string `json:"etag"`
	ContentType  string `json:"content_type,omitempty"`
	LastModified string `json:"last_modified"`
}

// ListBuckets handles GET /browse.
func (h *Browse) ListBuckets(c echo.Context) error {
	buckets, err := h.store.ListBuckets(c.Request().Context())
	if err != nil {
		h.logger.Error("browse handler: failed to list buckets", "error", err.Error())
		return handleError(c, err)
	}

	dtos := make([]bucketDTO, 0, len(buckets))
	for _, b := range buckets {
		dtos = append(dtos, bucketDTO{
			Name:      b.Name,
			CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return ok(c, "buckets", dtos)
}

// ListObjects handles GET /browse/:bucket with optional prefix and limit
// query parameters.
func (h *Browse) ListObjects(c echo.Context) error {
	bucket := c.Param("bucket")
	if bucket == "" {
		return fail(c, http.StatusBadRequest, "bucket is required")
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxBrowseLimit {
			return fail(c, http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	objects, err := h.store.ListObjects(c.Request().Context(), bucket, c.QueryParam("prefix"), limit)
	if err != nil {
		return handleError(c, err)
	}

	dtos := make([]objectDTO, 0, len(objects))
	for _, o := range objects {
		dtos = append(dtos, objectDTO{
			Key:          o.Key,
			Size:         o.Size,
			ETag:         o.ETag,
			ContentType:  o.ContentType,
			LastModified: o.LastModified.UTC().Format(time.RFC3339),
		})
	}
	return ok(c, "objects", dtos)
}
