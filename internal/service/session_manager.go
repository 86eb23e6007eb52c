package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/clusterdash-server/internal/logger"
	"github.com/dtroode/clusterdash-server/internal/model"
)

// storeTimeout bounds every store call so a slow store cannot wedge
// request handling.
const storeTimeout = 5 * time.Second

// TokenPair is what a successful login or refresh hands back to the
// transport layer: a short-lived access token and the raw refresh token
// for the cookie carrier.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// SessionManager orchestrates the session and refresh-token lifecycle:
// login, rotation, logout and bulk revocation. It owns the invariants;
// the stores only persist.
type SessionManager struct {
	sessions   model.SessionStore
	tokens     model.RefreshTokenStore
	manager    model.TokenManager
	logger     *logger.Logger
	sessionTTL time.Duration
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(
	sessions model.SessionStore,
	tokens model.RefreshTokenStore,
	manager model.TokenManager,
	sessionTTL time.Duration,
	logger *logger.Logger,
) *SessionManager {
	return &SessionManager{
		sessions:   sessions,
		tokens:     tokens,
		manager:    manager,
		logger:     logger,
		sessionTTL: sessionTTL,
	}
}

// Login creates an active session for the user and issues the initial
// token pair. The refresh token row is the first link of the session's
// rotation chain.
func (s *SessionManager) Login(ctx context.Context, userID uuid.UUID, meta model.DeviceMetadata) (model.Session, TokenPair, error) {
	s.logger.Debug("session manager: logging in", "user_id", userID)

	now := time.Now()
	session := model.Session{
		ID:             uuid.New(),
		UserID:         userID,
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
		DeviceInfo:     meta.DeviceInfo,
		IsActive:       true,
		LastActivityAt: now,
		ExpiresAt:      now.Add(s.sessionTTL),
	}

	if err := s.createSession(ctx, session); err != nil {
		s.logger.Error("session manager: failed to create session",
			"user_id", userID,
			"error", err.Error())
		return model.Session{}, TokenPair{}, fmt.Errorf("failed to create session: %w", err)
	}

	pair, err := s.issuePair(ctx, userID, session.ID)
	if err != nil {
		s.logger.Error("session manager: failed to issue tokens",
			"user_id", userID,
			"session_id", session.ID,
			"error", err.Error())
		return model.Session{}, TokenPair{}, err
	}

	s.logger.Info("session manager: login completed",
		"user_id", userID,
		"session_id", session.ID)

	return session, pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a
// child token is created in its place, together with a fresh access token.
// A revoked token presented again is treated as reuse and revokes the
// whole session chain.
func (s *SessionManager) Refresh(ctx context.Context, rawRefresh string) (model.Session, TokenPair, error) {
	claims, err := s.manager.ParseRefreshToken(rawRefresh)
	if err != nil {
		return model.Session{}, TokenPair{}, err
	}

	rt, err := s.getTokenByHash(ctx, s.manager.HashRefreshToken(rawRefresh))
	if err != nil {
		return model.Session{}, TokenPair{}, err
	}

	now := time.Now()

	if rt.IsRevoked {
		// Reuse of an already-consumed token signals likely theft of the
		// chain. Revoke everything bound to the session and fail closed.
		s.logger.Info("session manager: revoked refresh token presented again, revoking session",
			"user_id", rt.UserID,
			"session_id", rt.SessionID)
		s.revokeSessionChain(ctx, rt.SessionID)
		return model.Session{}, TokenPair{}, model.ErrTokenRevoked
	}
	if rt.Expired(now) {
		return model.Session{}, TokenPair{}, model.ErrTokenExpired
	}

	session, err := s.getSession(ctx, rt.SessionID)
	if err != nil {
		return model.Session{}, TokenPair{}, err
	}
	if !session.IsActive {
		return model.Session{}, TokenPair{}, model.ErrSessionInactive
	}
	if session.Expired(now) {
		return model.Session{}, TokenPair{}, model.ErrSessionExpired
	}

	// The conditional revoke is the rotation step. When two refreshes race
	// on the same token only one update lands; the loser observes
	// ErrTokenRevoked here and must not mint a child token.
	if err := s.revokeToken(ctx, rt.ID); err != nil {
		return model.Session{}, TokenPair{}, err
	}

	pair, err := s.issuePair(ctx, claims.UserID, rt.SessionID)
	if err != nil {
		s.logger.Error("session manager: failed to rotate tokens",
			"user_id", claims.UserID,
			"session_id", rt.SessionID,
			"error", err.Error())
		return model.Session{}, TokenPair{}, err
	}

	if err := s.touch(ctx, rt.SessionID, now); err != nil {
		s.logger.Debug("session manager: failed to touch session",
			"session_id", rt.SessionID,
			"error", err.Error())
	}

	return session, pair, nil
}

// Logout deactivates the session and revokes every live refresh token
// bound to it. Idempotent: an already-inactive session deactivates zero
// rows and still succeeds.
func (s *SessionManager) Logout(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	s.logger.Debug("session manager: logging out", "session_id", sessionID)

	count, err := s.deactivateSession(ctx, sessionID)
	if err != nil {
		s.logger.Error("session manager: failed to deactivate session",
			"session_id", sessionID,
			"error", err.Error())
		return 0, fmt.Errorf("failed to deactivate session: %w", err)
	}

	if _, err := s.revokeBySession(ctx, sessionID); err != nil {
		s.logger.Error("session manager: failed to revoke session tokens",
			"session_id", sessionID,
			"error", err.Error())
		return 0, fmt.Errorf("failed to revoke session tokens: %w", err)
	}

	s.logger.Info("session manager: logout completed",
		"session_id", sessionID,
		"deactivated", count)

	return count, nil
}

// DeactivateAllSessions deactivates every active session of the user and
// revokes all live refresh tokens. Each row update is atomic; a crash
// mid-way leaves a strictly more restrictive state that heals on retry.
func (s *SessionManager) DeactivateAllSessions(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.deactivateAll(ctx, userID)
	if err != nil {
		s.logger.Error("session manager: failed to deactivate all sessions",
			"user_id", userID,
			"error", err.Error())
		return 0, fmt.Errorf("failed to deactivate sessions: %w", err)
	}

	if _, err := s.revokeByUser(ctx, userID); err != nil {
		s.logger.Error("session manager: failed to revoke user tokens",
			"user_id", userID,
			"error", err.Error())
		return 0, fmt.Errorf("failed to revoke user tokens: %w", err)
	}

	s.logger.Info("session manager: deactivated all sessions",
		"user_id", userID,
		"count", count)

	return count, nil
}

// DeactivateOtherSessions deactivates every active session of the user
// except the given one, keeping that session's token chain valid.
func (s *SessionManager) DeactivateOtherSessions(ctx context.Context, userID, exceptSessionID uuid.UUID) (int64, error) {
	count, err := s.deactivateOthers(ctx, userID, exceptSessionID)
	if err != nil {
		s.logger.Error("session manager: failed to deactivate other sessions",
			"user_id", userID,
			"error", err.Error())
		return 0, fmt.Errorf("failed to deactivate other sessions: %w", err)
	}

	if _, err := s.revokeOthers(ctx, userID, exceptSessionID); err != nil {
		s.logger.Error("session manager: failed to revoke other session tokens",
			"user_id", userID,
			"error", err.Error())
		return 0, fmt.Errorf("failed to revoke other session tokens: %w", err)
	}

	s.logger.Info("session manager: deactivated other sessions",
		"user_id", userID,
		"except_session_id", exceptSessionID,
		"count", count)

	return count, nil
}

// GetSession returns a single session row by id.
func (s *SessionManager) GetSession(ctx context.Context, sessionID uuid.UUID) (model.Session, error) {
	return s.getSession(ctx, sessionID)
}

// ListSessions returns all session rows for the user regardless of state,
// most recent first.
func (s *SessionManager) ListSessions(ctx context.Context, userID uuid.UUID) ([]model.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// TouchSession records request activity on the session. Best-effort
// observability, never gates a request.
func (s *SessionManager) TouchSession(ctx context.Context, sessionID uuid.UUID) error {
	return s.touch(ctx, sessionID, time.Now())
}

// revokeSessionChain is the reuse-detection cascade. Errors are logged and
// swallowed: the caller already fails closed and a partial revocation is
// safe (strictly more restrictive).
func (s *SessionManager) revokeSessionChain(ctx context.Context, sessionID uuid.UUID) {
	if _, err := s.revokeBySession(ctx, sessionID); err != nil {
		s.logger.Error("session manager: reuse cascade failed to revoke tokens",
			"session_id", sessionID,
			"error", err.Error())
	}
	if _, err := s.deactivateSession(ctx, sessionID); err != nil {
		s.logger.Error("session manager: reuse cascade failed to deactivate session",
			"session_id", sessionID,
			"error", err.Error())
	}
}

func (s *SessionManager) issuePair(ctx context.Context, userID, sessionID uuid.UUID) (TokenPair, error) {
	access, accessExp, err := s.manager.IssueAccessToken(userID, sessionID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, hash, refreshExp, err := s.manager.IssueRefreshToken(userID, sessionID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	rt := model.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		SessionID: sessionID,
		TokenHash: hash,
		ExpiresAt: refreshExp,
	}

	tctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := s.tokens.Create(tctx, rt); err != nil {
		return TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *SessionManager) createSession(ctx context.Context, session model.Session) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.sessions.Create(ctx, session)
}

func (s *SessionManager) getSession(ctx context.Context, id uuid.UUID) (model.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.sessions.GetByID(ctx, id)
}

func (s *SessionManager) deactivateSession(ctx context.Context, id uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.sessions.Deactivate(ctx, id)
}

func (s *SessionManager) deactivateAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.sessions.DeactivateAllByUser(ctx, userID)
}

func (s *SessionManager) deactivateOthers(ctx context.Context, userID, exceptID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.sessions.DeactivateOthersByUser(ctx, userID, exceptID)
}

func (s *SessionManager) touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.sessions.Touch(ctx, id, at)
}

func (s *SessionManager) getTokenByHash(ctx context.Context, hash []byte) (model.RefreshToken, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	rt, err := s.tokens.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// A signed token we never stored is indistinguishable from a
			// forged one for the caller.
			return model.RefreshToken{}, model.ErrTokenInvalid
		}
		return model.RefreshToken{}, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	return rt, nil
}

func (s *SessionManager) revokeToken(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.tokens.Revoke(ctx, id)
}

func (s *SessionManager) revokeBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.tokens.RevokeAllBySession(ctx, sessionID)
}

func (s *SessionManager) revokeByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.tokens.RevokeAllByUser(ctx, userID)
}

func (s *SessionManager) revokeOthers(ctx context.Context, userID, exceptSessionID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.tokens.RevokeOthersByUser(ctx, userID, exceptSessionID)
}
