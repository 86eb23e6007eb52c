package token

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/clusterdash-server/internal/model"
)

// Claims represents JWT claims with token type and the session binding.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	SessionID uuid.UUID `json:"session_id"`
	TokenType string    `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC. Access tokens are
// short-lived and verified by signature alone; refresh tokens are longer
// lived and carry a JTI, with their sha256 hash persisted by the caller.
type JWT struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWT creates a new JWT token manager with the provided secret key and
// token lifetimes.
func NewJWT(secretKey string, accessTTL, refreshTTL time.Duration) model.TokenManager {
	return &JWT{secretKey: secretKey, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// IssueAccessToken creates a short-lived access token bound to a session.
func (j *JWT) IssueAccessToken(userID, sessionID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.accessTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    userID,
		SessionID: sessionID,
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// IssueRefreshToken creates a long-lived refresh token and returns both
// the raw value for the client and the hash for the store. The raw value
// is never persisted.
func (j *JWT) IssueRefreshToken(userID, sessionID uuid.UUID) (string, []byte, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.refreshTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    userID,
		SessionID: sessionID,
		TokenType: typeRefresh,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", nil, time.Time{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, j.HashRefreshToken(tokenString), expiresAt, nil
}

// ParseAccessToken validates an access token and extracts its claims.
func (j *JWT) ParseAccessToken(tokenString string) (model.TokenClaims, error) {
	return j.parse(tokenString, typeAccess)
}

// ParseRefreshToken validates the format of a refresh token before any
// store lookup. State checks (revocation, single use) stay with the store.
func (j *JWT) ParseRefreshToken(tokenString string) (model.TokenClaims, error) {
	return j.parse(tokenString, typeRefresh)
}

// HashRefreshToken returns the one-way hash under which a refresh token is
// persisted and looked up.
func (j *JWT) HashRefreshToken(raw string) []byte {
	h := sha256.Sum256([]byte(raw))
	return h[:]
}

func (j *JWT) parse(tokenString, wantType string) (model.TokenClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.TokenClaims{}, model.ErrTokenExpired
		}
		return model.TokenClaims{}, model.ErrTokenInvalid
	}
	if !token.Valid {
		return model.TokenClaims{}, model.ErrTokenInvalid
	}
	if claims.TokenType != wantType {
		return model.TokenClaims{}, model.ErrTokenInvalid
	}
	// Required fields are not coerced: a payload without them is invalid.
	if claims.UserID == uuid.Nil || claims.SessionID == uuid.Nil {
		return model.TokenClaims{}, model.ErrTokenInvalid
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return model.TokenClaims{}, model.ErrTokenInvalid
	}

	return model.TokenClaims{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
