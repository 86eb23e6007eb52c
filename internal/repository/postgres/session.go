package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/clusterdash-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session model.Session) error {
	const query = `
        INSERT INTO sessions (
            id, user_id, ip_address, user_agent, device_info, is_active,
            last_activity_at, expires_at, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
    `

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		session.ID, session.UserID, session.IPAddress, session.UserAgent,
		session.DeviceInfo, session.IsActive, session.LastActivityAt, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	const query = `
        SELECT id, user_id, ip_address, user_agent, device_info, is_active,
               last_activity_at, expires_at, created_at, updated_at
        FROM sessions WHERE id = $1
    `
	var s model.Session
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.IPAddress, &s.UserAgent, &s.DeviceInfo, &s.IsActive,
		&s.LastActivityAt, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session by id: %w", err)
	}
	return s, nil
}

// ListByUser returns every session row for the user, most recent activity
// first. Inactive and expired rows are included; the caller distinguishes
// them from the flags and timestamps.
func (r *SessionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Session, error) {
	const query = `
        SELECT id, user_id, ip_address, user_agent, device_info, is_active,
               last_activity_at, expires_at, created_at, updated_at
        FROM sessions WHERE user_id = $1
        ORDER BY last_activity_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions by user: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.IPAddress, &s.UserAgent, &s.DeviceInfo, &s.IsActive,
			&s.LastActivityAt, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	return sessions, nil
}

// Deactivate flips is_active only when the session is currently active, so
// repeated logouts report zero rows instead of failing.
func (r *SessionRepository) Deactivate(ctx context.Context, id uuid.UUID) (int64, error) {
	const query = `
        UPDATE sessions SET is_active = FALSE, updated_at = NOW()
        WHERE id = $1 AND is_active = TRUE
    `
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate session: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SessionRepository) DeactivateAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const query = `
        UPDATE sessions SET is_active = FALSE, updated_at = NOW()
        WHERE user_id = $1 AND is_active = TRUE
    `
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate sessions by user: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SessionRepository) DeactivateOthersByUser(ctx context.Context, userID, exceptID uuid.UUID) (int64, error) {
	const query = `
        UPDATE sessions SET is_active = FALSE, updated_at = NOW()
        WHERE user_id = $1 AND id <> $2 AND is_active = TRUE
    `
	tag, err := r.db.Exec(ctx, query, userID, exceptID)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate other sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Touch records activity for observability. It never extends expires_at.
func (r *SessionRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `
        UPDATE sessions SET last_activity_at = $2, updated_at = NOW() WHERE id = $1
    `
	if _, err := r.db.Exec(ctx, query, id, at); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}
