package model

import "errors"

// ErrNotFound is returned by stores when a lookup matches no row.
var ErrNotFound = errors.New("not found")

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrTokenUsed    = errors.New("token already used")

	ErrSessionInactive = errors.New("session inactive")
	ErrSessionExpired  = errors.New("session expired")

	ErrInvalidCredentials = errors.New("invalid credentials")
)
