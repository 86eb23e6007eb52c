package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CredentialTokenStore persists single-use password-reset and email-change
// tokens. Consume variants are conditional on the used flag and return
// ErrTokenUsed when the token was already consumed.
type CredentialTokenStore interface {
	CreatePasswordReset(ctx context.Context, token PasswordResetToken) error
	GetPasswordReset(ctx context.Context, raw string) (PasswordResetToken, error)
	ConsumePasswordReset(ctx context.Context, id uuid.UUID) error
	CreateEmailChange(ctx context.Context, token EmailChangeToken) error
	GetEmailChange(ctx context.Context, raw string) (EmailChangeToken, error)
	ConsumeEmailChange(ctx context.Context, id uuid.UUID) error
}

// PasswordResetToken is a single-use, time-boxed credential for resetting
// a user's password. Looked up by equality on the token value.
type PasswordResetToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at the given
// instant. The boundary counts as expired.
func (t PasswordResetToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// EmailChangeToken is a single-use, time-boxed credential confirming an
// email change. It records both addresses so the change applies atomically
// on consumption.
type EmailChangeToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	OldEmail  string
	NewEmail  string
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at the given
// instant.
func (t EmailChangeToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
