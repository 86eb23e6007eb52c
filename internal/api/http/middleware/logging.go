package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/clusterdash-server/internal/logger"
)

// Logging logs HTTP requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Middleware logs method, path, status and duration for each request.
func (l *Logging) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			duration := time.Since(start)
			status := c.Response().Status

			if err != nil || status >= 500 {
				l.logger.Error("HTTP request completed with error",
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"status", status,
					"duration_ms", duration.Milliseconds())
				return nil
			}

			l.logger.Info("HTTP request completed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"duration_ms", duration.Milliseconds())

			return nil
		}
	}
}
