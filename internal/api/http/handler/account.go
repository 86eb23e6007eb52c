package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/clusterdash-server/internal/api/http/authctx"
	"github.com/dtroode/clusterdash-server/internal/model"
)

// AccountService defines the credential maintenance operations the
// handler depends on.
type AccountService interface {
	RequestPasswordReset(ctx context.Context, email string) (model.PasswordResetToken, error)
	ResetPassword(ctx context.Context, raw, newPassword string) error
	CreateEmailChangeToken(ctx context.Context, userID uuid.UUID, newEmail string) (model.EmailChangeToken, error)
	ConfirmEmailChange(ctx context.Context, raw string) error
}

// Account handles password-reset and email-change endpoints.
type Account struct {
	credentials AccountService
	ctxManager  *authctx.Manager
}

// NewAccount creates a new Account handler.
func NewAccount(credentials AccountService, ctxManager *authctx.Manager) *Account {
	return &Account{credentials: credentials, ctxManager: ctxManager}
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

type passwordResetResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type passwordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type emailChangeRequest struct {
	NewEmail string `json:"new_email"`
}

type emailChangeConfirmRequest struct {
	Token string `json:"token"`
}

// RequestPasswordReset handles POST /auth/password-reset. The response
// does not reveal whether the email belongs to an account.
func (h *Account) RequestPasswordReset(c echo.Context) error {
	var req passwordResetRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return fail(c, http.StatusBadRequest, "email is required")
	}

	token, err := h.credentials.RequestPasswordReset(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ok(c, "reset token issued", nil)
		}
		return handleError(c, err)
	}

	return ok(c, "reset token issued", passwordResetResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// ConfirmPasswordReset handles POST /auth/password-reset/confirm.
func (h *Account) ConfirmPasswordReset(c echo.Context) error {
	var req passwordResetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Token == "" || req.NewPassword == "" {
		return fail(c, http.StatusBadRequest, "token and new password are required")
	}

	if err := h.credentials.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return handleError(c, err)
	}

	return ok(c, "password updated", nil)
}

// RequestEmailChange handles POST /auth/email-change for the current user.
func (h *Account) RequestEmailChange(c echo.Context) error {
	identity, found := h.ctxManager.GetIdentityFromContext(c.Request().Context())
	if !found {
		return fail(c, http.StatusUnauthorized, "missing authorization token")
	}

	var req emailChangeRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.NewEmail == "" {
		return fail(c, http.StatusBadRequest, "new email is required")
	}

	token, err := h.credentials.CreateEmailChangeToken(c.Request().Context(), identity.UserID, req.NewEmail)
	if err != nil {
		return handleError(c, err)
	}

	return ok(c, "email change token issued", passwordResetResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// ConfirmEmailChange handles POST /auth/email-change/confirm.
func (h *Account) ConfirmEmailChange(c echo.Context) error {
	var req emailChangeConfirmRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Token == "" {
		return fail(c, http.StatusBadRequest, "token is required")
	}

	if err := h.credentials.ConfirmEmailChange(c.Request().Context(), req.Token); err != nil {
		return handleError(c, err)
	}

	return ok(c, "email updated", nil)
}
