package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore persists hashed refresh tokens. Revoke is conditional:
// it flips is_revoked only when the token is not already revoked and
// returns ErrTokenRevoked otherwise, which is what makes concurrent
// rotation on the same token single-winner.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	GetByHash(ctx context.Context, tokenHash []byte) (RefreshToken, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	RevokeOthersByUser(ctx context.Context, userID, exceptSessionID uuid.UUID) (int64, error)
}

// RefreshToken is one link in a session's rotation chain. The raw token is
// never persisted, only its hash. Rows are kept after revocation for reuse
// detection and audit.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	SessionID uuid.UUID
	TokenHash []byte
	ExpiresAt time.Time
	IsRevoked bool
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at the given
// instant. The boundary counts as expired.
func (t RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
