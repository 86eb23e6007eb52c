package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/clusterdash-server/internal/api/http/authctx"
	servermocks "github.com/dtroode/clusterdash-server/internal/mocks"
	"github.com/dtroode/clusterdash-server/internal/model"
	"github.com/dtroode/clusterdash-server/internal/testutil"
)

func runGuard(t *testing.T, m *Authenticate, build func(*http.Request)) (*httptest.ResponseRecorder, authctx.Identity, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if build != nil {
		build(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got authctx.Identity
	var found bool
	handler := m.Middleware()(func(c echo.Context) error {
		got, found = authctx.NewManager().GetIdentityFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	return rec, got, found
}

func TestAuthenticate_BearerHeader(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()

	verifier := &servermocks.TokenManager{}
	verifier.On("ParseAccessToken", "header-token").
		Return(model.TokenClaims{UserID: userID, SessionID: sessionID}, nil).Once()

	m := NewAuthenticate(verifier, authctx.NewManager(), nil, testutil.MakeNoopLogger())

	rec, identity, found := runGuard(t, m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer header-token")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, found)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, sessionID, identity.SessionID)
}

func TestAuthenticate_CookieFallback(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()

	verifier := &servermocks.TokenManager{}
	verifier.On("ParseAccessToken", "cookie-token").
		Return(model.TokenClaims{UserID: userID, SessionID: sessionID}, nil).Once()

	m := NewAuthenticate(verifier, authctx.NewManager(), nil, testutil.MakeNoopLogger())

	rec, identity, found := runGuard(t, m, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "cookie-token"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, found)
	assert.Equal(t, userID, identity.UserID)
}

func TestAuthenticate_HeaderTakesPrecedence(t *testing.T) {
	verifier := &servermocks.TokenManager{}
	verifier.On("ParseAccessToken", "header-token").
		Return(model.TokenClaims{UserID: uuid.New(), SessionID: uuid.New()}, nil).Once()

	m := NewAuthenticate(verifier, authctx.NewManager(), nil, testutil.MakeNoopLogger())

	rec, _, _ := runGuard(t, m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer header-token")
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "cookie-token"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	verifier.AssertNotCalled(t, "ParseAccessToken", "cookie-token")
}

func TestAuthenticate_MissingToken(t *testing.T) {
	verifier := &servermocks.TokenManager{}

	m := NewAuthenticate(verifier, authctx.NewManager(), nil, testutil.MakeNoopLogger())

	rec, _, found := runGuard(t, m, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, found)
	assert.Contains(t, rec.Body.String(), "missing authorization token")
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	verifier := &servermocks.TokenManager{}

	m := NewAuthenticate(verifier, authctx.NewManager(), nil, testutil.MakeNoopLogger())

	rec, _, found := runGuard(t, m, func(req *http.Request) {
		req.Header.Set("Authorization", "Basic abc123")
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, found)
	verifier.AssertNotCalled(t, "ParseAccessToken", "abc123")
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	verifier := &servermocks.TokenManager{}
	verifier.On("ParseAccessToken", "bad").
		Return(model.TokenClaims{}, model.ErrTokenExpired).Once()

	m := NewAuthenticate(verifier, authctx.NewManager(), nil, testutil.MakeNoopLogger())

	rec, _, found := runGuard(t, m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer bad")
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, found)
	assert.Contains(t, rec.Body.String(), "invalid authorization token")
}

type recordingToucher struct {
	sessionID uuid.UUID
	calls     int
	err       error
}

func (r *recordingToucher) TouchSession(_ context.Context, sessionID uuid.UUID) error {
	r.sessionID = sessionID
	r.calls++
	return r.err
}

func TestAuthenticate_TouchesSession(t *testing.T) {
	sessionID := uuid.New()

	verifier := &servermocks.TokenManager{}
	verifier.On("ParseAccessToken", "tok").
		Return(model.TokenClaims{UserID: uuid.New(), SessionID: sessionID}, nil).Once()

	toucher := &recordingToucher{}
	m := NewAuthenticate(verifier, authctx.NewManager(), toucher, testutil.MakeNoopLogger())

	rec, _, _ := runGuard(t, m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer tok")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, toucher.calls)
	assert.Equal(t, sessionID, toucher.sessionID)
}

func TestAuthenticate_TouchFailureDoesNotFailRequest(t *testing.T) {
	verifier := &servermocks.TokenManager{}
	verifier.On("ParseAccessToken", "tok").
		Return(model.TokenClaims{UserID: uuid.New(), SessionID: uuid.New()}, nil).Once()

	toucher := &recordingToucher{err: assert.AnError}
	m := NewAuthenticate(verifier, authctx.NewManager(), toucher, testutil.MakeNoopLogger())

	rec, _, found := runGuard(t, m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer tok")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, found)
	assert.Equal(t, 1, toucher.calls)
}
