//go:build integration

package postgres_test

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/clusterdash-server/internal/model"
	repo "github.com/dtroode/clusterdash-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "clusterdash_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/clusterdash_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func createUser(t *testing.T, ctx context.Context, ur *repo.UserRepository, email string) model.User {
	t.Helper()
	u, err := ur.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$2a$10$hashhashhashhashhashha",
	})
	require.NoError(t, err)
	return u
}

func createSession(t *testing.T, ctx context.Context, sr *repo.SessionRepository, userID uuid.UUID) model.Session {
	t.Helper()
	s := model.Session{
		ID:             uuid.New(),
		UserID:         userID,
		IPAddress:      "10.0.0.1",
		UserAgent:      "integration",
		IsActive:       true,
		LastActivityAt: time.Now(),
		ExpiresAt:      time.Now().Add(time.Hour),
	}
	require.NoError(t, sr.Create(ctx, s))
	return s
}

func hashOf(raw string) []byte {
	h := sha256.Sum256([]byte(raw))
	return h[:]
}

func TestRepositories_AuthLifecycle(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ur := repo.NewUserRepository(conn)
	sr := repo.NewSessionRepository(conn)
	tr := repo.NewRefreshTokenRepository(conn)
	cr := repo.NewCredentialTokenRepository(conn)

	t.Run("user_repository", func(t *testing.T) {
		u := createUser(t, ctx, ur, "user@example.com")

		byEmail, err := ur.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)

		byID, err := ur.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, byID.Email)

		require.NoError(t, ur.UpdatePassword(ctx, u.ID, "$2a$10$otherhashotherhashother"))
		require.NoError(t, ur.UpdateEmail(ctx, u.ID, "renamed@example.com"))

		renamed, err := ur.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "renamed@example.com", renamed.Email)

		_, err = ur.GetByEmail(ctx, "missing@example.com")
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("session_repository", func(t *testing.T) {
		u := createUser(t, ctx, ur, "sessions@example.com")
		first := createSession(t, ctx, sr, u.ID)
		second := createSession(t, ctx, sr, u.ID)
		third := createSession(t, ctx, sr, u.ID)

		got, err := sr.GetByID(ctx, first.ID)
		require.NoError(t, err)
		require.True(t, got.IsActive)

		list, err := sr.ListByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, list, 3)

		require.NoError(t, sr.Touch(ctx, first.ID, time.Now().Add(time.Minute)))

		// Deactivation only counts rows it actually flips.
		count, err := sr.Deactivate(ctx, first.ID)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)

		count, err = sr.Deactivate(ctx, first.ID)
		require.NoError(t, err)
		require.Equal(t, int64(0), count)

		count, err = sr.DeactivateOthersByUser(ctx, u.ID, second.ID)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)

		kept, err := sr.GetByID(ctx, second.ID)
		require.NoError(t, err)
		require.True(t, kept.IsActive)

		gone, err := sr.GetByID(ctx, third.ID)
		require.NoError(t, err)
		require.False(t, gone.IsActive)

		count, err = sr.DeactivateAllByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)
	})

	t.Run("refresh_token_repository", func(t *testing.T) {
		u := createUser(t, ctx, ur, "tokens@example.com")
		s := createSession(t, ctx, sr, u.ID)

		rt := model.RefreshToken{
			ID:        uuid.New(),
			UserID:    u.ID,
			SessionID: s.ID,
			TokenHash: hashOf("raw-token"),
			ExpiresAt: time.Now().Add(time.Hour),
		}
		require.NoError(t, tr.Create(ctx, rt))

		got, err := tr.GetByHash(ctx, hashOf("raw-token"))
		require.NoError(t, err)
		require.Equal(t, rt.ID, got.ID)
		require.False(t, got.IsRevoked)

		_, err = tr.GetByHash(ctx, hashOf("never-issued"))
		require.ErrorIs(t, err, model.ErrNotFound)

		// First revoke wins, second sees the conditional update miss.
		require.NoError(t, tr.Revoke(ctx, rt.ID))
		require.ErrorIs(t, tr.Revoke(ctx, rt.ID), model.ErrTokenRevoked)

		revoked, err := tr.GetByHash(ctx, hashOf("raw-token"))
		require.NoError(t, err)
		require.True(t, revoked.IsRevoked)
		require.NotNil(t, revoked.RevokedAt)

		chain := model.RefreshToken{
			ID:        uuid.New(),
			UserID:    u.ID,
			SessionID: s.ID,
			TokenHash: hashOf("child-token"),
			ExpiresAt: time.Now().Add(time.Hour),
		}
		require.NoError(t, tr.Create(ctx, chain))

		count, err := tr.RevokeAllBySession(ctx, s.ID)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)

		count, err = tr.RevokeAllByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, int64(0), count)
	})

	t.Run("refresh_token_revoke_others", func(t *testing.T) {
		u := createUser(t, ctx, ur, "others@example.com")
		keep := createSession(t, ctx, sr, u.ID)
		drop := createSession(t, ctx, sr, u.ID)

		for i, sid := range []uuid.UUID{keep.ID, drop.ID} {
			require.NoError(t, tr.Create(ctx, model.RefreshToken{
				ID:        uuid.New(),
				UserID:    u.ID,
				SessionID: sid,
				TokenHash: hashOf(fmt.Sprintf("others-%d", i)),
				ExpiresAt: time.Now().Add(time.Hour),
			}))
		}

		count, err := tr.RevokeOthersByUser(ctx, u.ID, keep.ID)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)

		kept, err := tr.GetByHash(ctx, hashOf("others-0"))
		require.NoError(t, err)
		require.False(t, kept.IsRevoked)
	})

	t.Run("credential_token_repository", func(t *testing.T) {
		u := createUser(t, ctx, ur, "resets@example.com")

		reset := model.PasswordResetToken{
			ID:        uuid.New(),
			UserID:    u.ID,
			Token:     "reset-raw",
			ExpiresAt: time.Now().Add(time.Hour),
		}
		require.NoError(t, cr.CreatePasswordReset(ctx, reset))

		got, err := cr.GetPasswordReset(ctx, "reset-raw")
		require.NoError(t, err)
		require.Equal(t, reset.ID, got.ID)
		require.False(t, got.Used)

		// Single use: the second consume misses the conditional update.
		require.NoError(t, cr.ConsumePasswordReset(ctx, reset.ID))
		require.ErrorIs(t, cr.ConsumePasswordReset(ctx, reset.ID), model.ErrTokenUsed)

		change := model.EmailChangeToken{
			ID:        uuid.New(),
			UserID:    u.ID,
			OldEmail:  "resets@example.com",
			NewEmail:  "new@example.com",
			Token:     "change-raw",
			ExpiresAt: time.Now().Add(time.Hour),
		}
		require.NoError(t, cr.CreateEmailChange(ctx, change))

		gotChange, err := cr.GetEmailChange(ctx, "change-raw")
		require.NoError(t, err)
		require.Equal(t, change.NewEmail, gotChange.NewEmail)

		require.NoError(t, cr.ConsumeEmailChange(ctx, change.ID))
		require.ErrorIs(t, cr.ConsumeEmailChange(ctx, change.ID), model.ErrTokenUsed)
	})
}
