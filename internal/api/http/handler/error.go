package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/clusterdash-server/internal/model"
)

// handleError maps domain errors onto the uniform envelope. Store and
// signing failures fall through to a generic 500 so internals never leak.
func handleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		return fail(c, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, model.ErrTokenInvalid):
		return fail(c, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, model.ErrTokenExpired):
		return fail(c, http.StatusUnauthorized, "token expired")
	case errors.Is(err, model.ErrTokenRevoked):
		return fail(c, http.StatusUnauthorized, "token revoked")
	case errors.Is(err, model.ErrTokenUsed):
		return fail(c, http.StatusUnauthorized, "token already used")
	case errors.Is(err, model.ErrSessionInactive):
		return fail(c, http.StatusUnauthorized, "session is no longer active")
	case errors.Is(err, model.ErrSessionExpired):
		return fail(c, http.StatusUnauthorized, "session expired")
	case errors.Is(err, model.ErrNotFound):
		return fail(c, http.StatusNotFound, "not found")
	default:
		return fail(c, http.StatusInternalServerError, "internal server error")
	}
}
