package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager issues and verifies access and refresh tokens. Access
// tokens are stateless; refresh tokens additionally return the hash that
// the store persists in place of the raw value.
type TokenManager interface {
	IssueAccessToken(userID, sessionID uuid.UUID) (token string, expiresAt time.Time, err error)
	IssueRefreshToken(userID, sessionID uuid.UUID) (raw string, hash []byte, expiresAt time.Time, err error)
	ParseAccessToken(token string) (TokenClaims, error)
	ParseRefreshToken(token string) (TokenClaims, error)
	HashRefreshToken(raw string) []byte
}

// TokenClaims is the fixed payload carried by both token kinds. Any token
// missing a required field fails verification as invalid rather than being
// coerced.
type TokenClaims struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}
