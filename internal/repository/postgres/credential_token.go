package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/clusterdash-server/internal/model"
)

var _ model.CredentialTokenStore = (*CredentialTokenRepository)(nil)

// CredentialTokenRepository persists password-reset and email-change
// tokens. Both kinds share the single-use, time-boxed shape.
type CredentialTokenRepository struct {
	db *Connection
}

func NewCredentialTokenRepository(db *Connection) *CredentialTokenRepository {
	return &CredentialTokenRepository{db: db}
}

func (r *CredentialTokenRepository) CreatePasswordReset(ctx context.Context, token model.PasswordResetToken) error {
	const query = `
        INSERT INTO password_reset_tokens (id, user_id, token, expires_at, used, created_at)
        VALUES ($1,$2,$3,$4,$5,NOW())
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query, token.ID, token.UserID, token.Token, token.ExpiresAt, token.Used)
	if err != nil {
		return fmt.Errorf("failed to create password reset token: %w", err)
	}
	return nil
}

func (r *CredentialTokenRepository) GetPasswordReset(ctx context.Context, raw string) (model.PasswordResetToken, error) {
	const query = `
        SELECT id, user_id, token, expires_at, used, created_at
        FROM password_reset_tokens WHERE token = $1
    `
	var t model.PasswordResetToken
	err := r.db.QueryRow(ctx, query, raw).Scan(
		&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Used, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PasswordResetToken{}, model.ErrNotFound
		}
		return model.PasswordResetToken{}, fmt.Errorf("failed to get password reset token: %w", err)
	}
	return t, nil
}

// ConsumePasswordReset marks the token used, conditional on it being
// unused so a token can be consumed at most once.
func (r *CredentialTokenRepository) ConsumePasswordReset(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE password_reset_tokens SET used = TRUE
        WHERE id = $1 AND used = FALSE
    `
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to consume password reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTokenUsed
	}
	return nil
}

func (r *CredentialTokenRepository) CreateEmailChange(ctx context.Context, token model.EmailChangeToken) error {
	const query = `
        INSERT INTO email_change_tokens (id, user_id, old_email, new_email, token, expires_at, used, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		token.ID, token.UserID, token.OldEmail, token.NewEmail,
		token.Token, token.ExpiresAt, token.Used,
	)
	if err != nil {
		return fmt.Errorf("failed to create email change token: %w", err)
	}
	return nil
}

func (r *CredentialTokenRepository) GetEmailChange(ctx context.Context, raw string) (model.EmailChangeToken, error) {
	const query = `
        SELECT id, user_id, old_email, new_email, token, expires_at, used, created_at
        FROM email_change_tokens WHERE token = $1
    `
	var t model.EmailChangeToken
	err := r.db.QueryRow(ctx, query, raw).Scan(
		&t.ID, &t.UserID, &t.OldEmail, &t.NewEmail, &t.Token, &t.ExpiresAt, &t.Used, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.EmailChangeToken{}, model.ErrNotFound
		}
		return model.EmailChangeToken{}, fmt.Errorf("failed to get email change token: %w", err)
	}
	return t, nil
}

func (r *CredentialTokenRepository) ConsumeEmailChange(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE email_change_tokens SET used = TRUE
        WHERE id = $1 AND used = FALSE
    `
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to consume email change token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTokenUsed
	}
	return nil
}
