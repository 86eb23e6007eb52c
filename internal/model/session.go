package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists authenticated device/browser sessions.
// Deactivate variants report the number of rows they flipped so callers
// can stay idempotent.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Session, error)
	Deactivate(ctx context.Context, id uuid.UUID) (int64, error)
	DeactivateAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeactivateOthersByUser(ctx context.Context, userID, exceptID uuid.UUID) (int64, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Session represents one authenticated device/browser context.
// Deactivation is terminal; ExpiresAt is fixed at creation and is never
// extended by activity.
type Session struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	IPAddress      string
	UserAgent      string
	DeviceInfo     string
	IsActive       bool
	LastActivityAt time.Time
	ExpiresAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Expired reports whether the session is past its expiry at the given
// instant. The boundary counts as expired.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// DeviceMetadata carries the request attributes recorded on the session at
// login time.
type DeviceMetadata struct {
	IPAddress  string
	UserAgent  string
	DeviceInfo string
}
