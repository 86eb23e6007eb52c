package handler

import (
	"context"
	"encoding/json"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/clusterdash-server/internal/logger"
)

// AdminAPI defines the upstream cluster admin operations the handler
// passes through.
type AdminAPI interface {
	Status(ctx context.Context) (json.RawMessage, error)
	Layout(ctx context.Context) (json.RawMessage, error)
	Buckets(ctx context.Context) (json.RawMessage, error)
	Keys(ctx context.Context) (json.RawMessage, error)
	Workers(ctx context.Context) (json.RawMessage, error)
}

// Cluster exposes read-only cluster state to authenticated sessions.
type Cluster struct {
	admin  AdminAPI
	logger *logger.Logger
}

// NewCluster creates a new Cluster handler.
func NewCluster(admin AdminAPI, logger *logger.Logger) *Cluster {
	return &Cluster{admin: admin, logger: logger}
}

// Status handles GET /cluster/status.
func (h *Cluster) Status(c echo.Context) error {
	return h.proxy(c, "cluster status", h.admin.Status)
}

// Layout handles GET /cluster/layout.
func (h *Cluster) Layout(c echo.Context) error {
	return h.proxy(c, "cluster layout", h.admin.Layout)
}

// Buckets handles GET /cluster/buckets.
func (h *Cluster) Buckets(c echo.Context) error {
	return h.proxy(c, "buckets", h.admin.Buckets)
}

// Keys handles GET /cluster/keys.
func (h *Cluster) Keys(c echo.Context) error {
	return h.proxy(c, "access keys", h.admin.Keys)
}

// Workers handles GET /cluster/workers.
func (h *Cluster) Workers(c echo.Context) error {
	return h.proxy(c, "workers", h.admin.Workers)
}

func (h *Cluster) proxy(c echo.Context, message string, fetch func(context.Context) (json.RawMessage, error)) error {
	data, err := fetch(c.Request().Context())
	if err != nil {
		h.logger.Error("cluster handler: admin API request failed",
			"path", c.Path(),
			"error", err.Error())
		return handleError(c, err)
	}
	return ok(c, message, data)
}
