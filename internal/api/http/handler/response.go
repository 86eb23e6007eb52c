package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Cookie carriers for the token pair and the session reference. The
// refresh token is HttpOnly; the session id cookie exists only for quick
// client-side reference.
const (
	accessTokenCookie  = "atoken"
	refreshTokenCookie = "rtoken"
	sessionIDCookie    = "sessid"
)

// response is the uniform envelope every endpoint answers with.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func ok(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, response{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, response{Success: false, Message: message, Data: nil})
}

type cookieWriter struct {
	secure bool
}

func (w cookieWriter) set(c echo.Context, name, value string, httpOnly bool, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: httpOnly,
		Secure:   w.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

func (w cookieWriter) clear(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (w cookieWriter) clearAll(c echo.Context) {
	w.clear(c, accessTokenCookie)
	w.clear(c, refreshTokenCookie)
	w.clear(c, sessionIDCookie)
}
