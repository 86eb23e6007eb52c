package authctx

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// identityKey is the context key under which the authenticated identity is
// stored for downstream handlers.
const identityKey contextKey = "identity"

// Identity is the authenticated principal attached to a request: the user
// and the session the access token was bound to.
type Identity struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

// Manager stores and retrieves the authenticated identity on a request
// context. Handlers depend on it explicitly instead of reaching for an
// ambient global.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentityToContext returns a new context carrying the identity.
func (m *Manager) SetIdentityToContext(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentityFromContext retrieves the identity set by the auth guard.
// The boolean reports whether an identity was present and well-formed.
func (m *Manager) GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	if !ok {
		return Identity{}, false
	}
	if identity.UserID == uuid.Nil || identity.SessionID == uuid.Nil {
		return Identity{}, false
	}
	return identity, true
}
