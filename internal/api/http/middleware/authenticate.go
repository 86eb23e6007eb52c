package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/clusterdash-server/internal/api/http/authctx"
	"github.com/dtroode/clusterdash-server/internal/logger"
	"github.com/dtroode/clusterdash-server/internal/model"
)

// AccessTokenCookie is the cookie carrier for the access token; the
// Authorization header takes precedence when both are present.
const AccessTokenCookie = "atoken"

// AccessVerifier verifies access tokens. Pure verification, no store hit:
// this is the stateless fast path.
type AccessVerifier interface {
	ParseAccessToken(token string) (model.TokenClaims, error)
}

// SessionToucher records request activity on a session.
type SessionToucher interface {
	TouchSession(ctx context.Context, sessionID uuid.UUID) error
}

// Authenticate is the auth guard: it extracts and verifies the access
// token before any handler runs and attaches the identity to the request
// context. It deliberately does not consult the session store, trading a
// short post-logout validity window for a store-free hot path.
type Authenticate struct {
	verifier AccessVerifier
	manager  *authctx.Manager
	toucher  SessionToucher
	logger   *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(verifier AccessVerifier, manager *authctx.Manager, toucher SessionToucher, logger *logger.Logger) *Authenticate {
	return &Authenticate{verifier: verifier, manager: manager, toucher: toucher, logger: logger}
}

type errorResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    *string `json:"data"`
}

// Middleware returns the echo middleware function gating protected routes.
func (m *Authenticate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := extractToken(c)
			if tokenString == "" {
				return c.JSON(http.StatusUnauthorized, errorResponse{Message: "missing authorization token"})
			}

			claims, err := m.verifier.ParseAccessToken(tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorResponse{Message: "invalid authorization token"})
			}

			identity := authctx.Identity{UserID: claims.UserID, SessionID: claims.SessionID}
			ctx := m.manager.SetIdentityToContext(c.Request().Context(), identity)
			c.SetRequest(c.Request().WithContext(ctx))

			if m.toucher != nil {
				// Observability only: a failed touch never fails the request.
				if err := m.toucher.TouchSession(ctx, claims.SessionID); err != nil {
					m.logger.Debug("authenticate: failed to touch session",
						"session_id", claims.SessionID,
						"error", err.Error())
				}
			}

			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	authz := c.Request().Header.Get("Authorization")
	if authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	cookie, err := c.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
