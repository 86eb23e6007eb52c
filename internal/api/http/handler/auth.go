package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/clusterdash-server/internal/api/http/authctx"
	"github.com/dtroode/clusterdash-server/internal/logger"
	"github.com/dtroode/clusterdash-server/internal/model"
	"github.com/dtroode/clusterdash-server/internal/service"
)

// SessionService defines the session lifecycle operations the handler
// depends on.
type SessionService interface {
	Login(ctx context.Context, userID uuid.UUID, meta model.DeviceMetadata) (model.Session, service.TokenPair, error)
	Refresh(ctx context.Context, rawRefresh string) (model.Session, service.TokenPair, error)
	Logout(ctx context.Context, sessionID uuid.UUID) (int64, error)
	DeactivateAllSessions(ctx context.Context, userID uuid.UUID) (int64, error)
	DeactivateOtherSessions(ctx context.Context, userID, exceptSessionID uuid.UUID) (int64, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (model.Session, error)
	ListSessions(ctx context.Context, userID uuid.UUID) ([]model.Session, error)
}

// CredentialService defines password and reset-token operations the
// handler depends on.
type CredentialService interface {
	VerifyPassword(ctx context.Context, email, password string) (model.User, error)
	ValidateResetToken(ctx context.Context, raw string) error
}

// Auth handles the authentication and session-management endpoints.
type Auth struct {
	sessions    SessionService
	credentials CredentialService
	cookies     cookieWriter
	logger      *logger.Logger
	ctxManager  *authctx.Manager
}

// NewAuth creates a new Auth handler.
func NewAuth(sessions SessionService, credentials CredentialService, ctxManager *authctx.Manager, secureCookies bool, logger *logger.Logger) *Auth {
	return &Auth{
		sessions:    sessions,
		credentials: credentials,
		cookies:     cookieWriter{secure: secureCookies},
		logger:      logger,
		ctxManager:  ctxManager,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type revokeSessionRequest struct {
	SessionID string `json:"session_id"`
}

type sessionDTO struct {
	ID             string `json:"id"`
	IPAddress      string `json:"ip_address"`
	UserAgent      string `json:"user_agent"`
	DeviceInfo     string `json:"device_info"`
	IsActive       bool   `json:"is_active"`
	IsCurrent      bool   `json:"is_current"`
	LastActivityAt string `json:"last_activity_at"`
	ExpiresAt      string `json:"expires_at"`
	CreatedAt      string `json:"created_at"`
}

type loginResponse struct {
	SessionID       string `json:"session_id"`
	AccessToken     string `json:"access_token"`
	AccessExpiresAt string `json:"access_expires_at"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

// Login handles POST /auth/login.
func (h *Auth) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email and password are required")
	}

	ctx := c.Request().Context()

	user, err := h.credentials.VerifyPassword(ctx, req.Email, req.Password)
	if err != nil {
		return handleError(c, err)
	}

	meta := model.DeviceMetadata{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}

	session, pair, err := h.sessions.Login(ctx, user.ID, meta)
	if err != nil {
		return handleError(c, err)
	}

	h.setAuthCookies(c, session, pair)

	return ok(c, "logged in", loginResponse{
		SessionID:       session.ID.String(),
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Refresh handles POST /auth/refresh. The refresh token arrives in its
// cookie carrier, never in the body.
func (h *Auth) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return fail(c, http.StatusBadRequest, "missing refresh token")
	}

	session, pair, err := h.sessions.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		h.cookies.clearAll(c)
		return handleError(c, err)
	}

	h.setAuthCookies(c, session, pair)

	return ok(c, "token refreshed", loginResponse{
		SessionID:       session.ID.String(),
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout handles POST /auth/logout for the current session.
func (h *Auth) Logout(c echo.Context) error {
	identity, found := h.identity(c)
	if !found {
		return fail(c, http.StatusUnauthorized, "missing authorization token")
	}

	count, err := h.sessions.Logout(c.Request().Context(), identity.SessionID)
	if err != nil {
		return handleError(c, err)
	}

	h.cookies.clearAll(c)

	return ok(c, "logged out", countResponse{Count: count})
}

// RevokeSession handles DELETE /auth/sessions for a single session id.
// Sessions of other users are reported as not found rather than forbidden.
func (h *Auth) RevokeSession(c echo.Context) error {
	identity, found := h.identity(c)
	if !found {
		return fail(c, http.StatusUnauthorized, "missing authorization token")
	}

	var req revokeSessionRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid session id")
	}

	ctx := c.Request().Context()

	session, err := h.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return handleError(c, err)
	}
	if session.UserID != identity.UserID {
		return fail(c, http.StatusNotFound, "not found")
	}

	count, err := h.sessions.Logout(ctx, sessionID)
	if err != nil {
		return handleError(c, err)
	}

	if sessionID == identity.SessionID {
		h.cookies.clearAll(c)
	}

	return ok(c, "session revoked", countResponse{Count: count})
}

// RevokeAllSessions handles DELETE /auth/sessions/all.
func (h *Auth) RevokeAllSessions(c echo.Context) error {
	identity, found := h.identity(c)
	if !found {
		return fail(c, http.StatusUnauthorized, "missing authorization token")
	}

	count, err := h.sessions.DeactivateAllSessions(c.Request().Context(), identity.UserID)
	if err != nil {
		return handleError(c, err)
	}

	// The current session is gone too.
	h.cookies.clearAll(c)

	return ok(c, "all sessions revoked", countResponse{Count: count})
}

// RevokeOtherSessions handles DELETE /auth/sessions/others.
func (h *Auth) RevokeOtherSessions(c echo.Context) error {
	identity, found := h.identity(c)
	if !found {
		return fail(c, http.StatusUnauthorized, "missing authorization token")
	}

	count, err := h.sessions.DeactivateOtherSessions(c.Request().Context(), identity.UserID, identity.SessionID)
	if err != nil {
		return handleError(c, err)
	}

	return ok(c, "other sessions revoked", countResponse{Count: count})
}

// ListSessions handles GET /auth/sessions.
func (h *Auth) ListSessions(c echo.Context) error {
	identity, found := h.identity(c)
	if !found {
		return fail(c, http.StatusUnauthorized, "missing authorization token")
	}

	sessions, err := h.sessions.ListSessions(c.Request().Context(), identity.UserID)
	if err != nil {
		return handleError(c, err)
	}

	dtos := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, sessionDTO{
			ID:             s.ID.String(),
			IPAddress:      s.IPAddress,
			UserAgent:      s.UserAgent,
			DeviceInfo:     s.DeviceInfo,
			IsActive:       s.IsActive,
			IsCurrent:      s.ID == identity.SessionID,
			LastActivityAt: s.LastActivityAt.UTC().Format(time.RFC3339),
			ExpiresAt:      s.ExpiresAt.UTC().Format(time.RFC3339),
			CreatedAt:      s.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return ok(c, "sessions", dtos)
}

// ValidateToken handles GET /auth/validate-token?token= for password-reset
// tokens.
func (h *Auth) ValidateToken(c echo.Context) error {
	raw := c.QueryParam("token")
	if raw == "" {
		return fail(c, http.StatusBadRequest, "token is required")
	}

	if err := h.credentials.ValidateResetToken(c.Request().Context(), raw); err != nil {
		return handleError(c, err)
	}

	return ok(c, "token is valid", nil)
}

func (h *Auth) setAuthCookies(c echo.Context, session model.Session, pair service.TokenPair) {
	h.cookies.set(c, accessTokenCookie, pair.AccessToken, false, pair.AccessExpiresAt)
	h.cookies.set(c, refreshTokenCookie, pair.RefreshToken, true, pair.RefreshExpiresAt)
	h.cookies.set(c, sessionIDCookie, session.ID.String(), false, session.ExpiresAt)
}

func (h *Auth) identity(c echo.Context) (authctx.Identity, bool) {
	return h.ctxManager.GetIdentityFromContext(c.Request().Context())
}
