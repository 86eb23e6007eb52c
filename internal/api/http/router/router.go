package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dtroode/clusterdash-server/internal/api/http/handler"
	"github.com/dtroode/clusterdash-server/internal/api/http/middleware"
	"github.com/dtroode/clusterdash-server/internal/logger"
)

// Router wires handlers and middleware into an echo instance.
type Router struct {
	auth         *handler.Auth
	account      *handler.Account
	cluster      *handler.Cluster
	browse       *handler.Browse
	authenticate *middleware.Authenticate
	logger       *logger.Logger
}

// New creates a new Router instance.
func New(
	auth *handler.Auth,
	account *handler.Account,
	cluster *handler.Cluster,
	browse *handler.Browse,
	authenticate *middleware.Authenticate,
	logger *logger.Logger,
) *Router {
	return &Router{
		auth:         auth,
		account:      account,
		cluster:      cluster,
		browse:       browse,
		authenticate: authenticate,
		logger:       logger,
	}
}

// Register registers all routes and middleware and returns the echo
// instance ready to serve.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logging := middleware.NewLogging(r.logger)
	e.Use(echomw.Recover())
	e.Use(logging.Middleware())

	api := e.Group("/api")

	// Endpoints reachable without an access token. Refresh authenticates
	// with the refresh token itself, not the guard.
	api.POST("/auth/login", r.auth.Login)
	api.POST("/auth/refresh", r.auth.Refresh)
	api.GET("/auth/validate-token", r.auth.ValidateToken)
	api.POST("/auth/password-reset", r.account.RequestPasswordReset)
	api.POST("/auth/password-reset/confirm", r.account.ConfirmPasswordReset)
	api.POST("/auth/email-change/confirm", r.account.ConfirmEmailChange)

	guarded := api.Group("", r.authenticate.Middleware())
	guarded.POST("/auth/logout", r.auth.Logout)
	guarded.GET("/auth/sessions", r.auth.ListSessions)
	guarded.DELETE("/auth/sessions", r.auth.RevokeSession)
	guarded.DELETE("/auth/sessions/all", r.auth.RevokeAllSessions)
	guarded.DELETE("/auth/sessions/others", r.auth.RevokeOtherSessions)
	guarded.POST("/auth/email-change", r.account.RequestEmailChange)

	guarded.GET("/cluster/status", r.cluster.Status)
	guarded.GET("/cluster/layout", r.cluster.Layout)
	guarded.GET("/cluster/buckets", r.cluster.Buckets)
	guarded.GET("/cluster/keys", r.cluster.Keys)
	guarded.GET("/cluster/workers", r.cluster.Workers)

	guarded.GET("/browse", r.browse.ListBuckets)
	guarded.GET("/browse/:bucket", r.browse.ListObjects)

	return e
}
