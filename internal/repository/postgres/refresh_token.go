package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/clusterdash-server/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

type RefreshTokenRepository struct {
	db *Connection
}

func NewRefreshTokenRepository(db *Connection) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token model.RefreshToken) error {
	const query = `
        INSERT INTO refresh_tokens (
            id, user_id, session_id, token_hash, expires_at, is_revoked, revoked_at, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		token.ID, token.UserID, token.SessionID, token.TokenHash,
		token.ExpiresAt, token.IsRevoked, token.RevokedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByHash(ctx context.Context, tokenHash []byte) (model.RefreshToken, error) {
	const query = `
        SELECT id, user_id, session_id, token_hash, expires_at, is_revoked, revoked_at, created_at
        FROM refresh_tokens WHERE token_hash = $1
    `
	var rt model.RefreshToken
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&rt.ID, &rt.UserID, &rt.SessionID, &rt.TokenHash,
		&rt.ExpiresAt, &rt.IsRevoked, &rt.RevokedAt, &rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RefreshToken{}, model.ErrNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token by hash: %w", err)
	}
	return rt, nil
}

// Revoke is the compare-and-set at the heart of rotation: the row updates
// only while is_revoked is still false. Zero rows affected means another
// caller already consumed the token, reported as ErrTokenRevoked so the
// loser of a concurrent rotation fails closed.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE refresh_tokens SET is_revoked = TRUE, revoked_at = NOW()
        WHERE id = $1 AND is_revoked = FALSE
    `
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTokenRevoked
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAllBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	const query = `
        UPDATE refresh_tokens SET is_revoked = TRUE, revoked_at = NOW()
        WHERE session_id = $1 AND is_revoked = FALSE
    `
	tag, err := r.db.Exec(ctx, query, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens by session: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *RefreshTokenRepository) RevokeAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const query = `
        UPDATE refresh_tokens SET is_revoked = TRUE, revoked_at = NOW()
        WHERE user_id = $1 AND is_revoked = FALSE
    `
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens by user: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *RefreshTokenRepository) RevokeOthersByUser(ctx context.Context, userID, exceptSessionID uuid.UUID) (int64, error) {
	const query = `
        UPDATE refresh_tokens SET is_revoked = TRUE, revoked_at = NOW()
        WHERE user_id = $1 AND session_id <> $2 AND is_revoked = FALSE
    `
	tag, err := r.db.Exec(ctx, query, userID, exceptSessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke other refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
