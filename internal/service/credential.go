package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/clusterdash-server/internal/logger"
	"github.com/dtroode/clusterdash-server/internal/model"
)

// Credential verifies passwords and manages single-use password-reset and
// email-change tokens.
type Credential struct {
	users    model.UserStore
	tokens   model.CredentialTokenStore
	logger   *logger.Logger
	resetTTL time.Duration
}

// NewCredential creates a new Credential service.
func NewCredential(users model.UserStore, tokens model.CredentialTokenStore, resetTTL time.Duration, logger *logger.Logger) *Credential {
	return &Credential{
		users:    users,
		tokens:   tokens,
		logger:   logger,
		resetTTL: resetTTL,
	}
}

// VerifyPassword resolves the user by email and compares the password.
// Unknown email and wrong password fail the same way so the response does
// not reveal which part was wrong.
func (c *Credential) VerifyPassword(ctx context.Context, email, password string) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := c.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, model.ErrInvalidCredentials
	}

	return user, nil
}

// CreatePasswordResetToken issues a time-boxed single-use reset token for
// the user and returns it with the raw value set.
func (c *Credential) CreatePasswordResetToken(ctx context.Context, userID uuid.UUID) (model.PasswordResetToken, error) {
	raw, err := randomToken(32)
	if err != nil {
		return model.PasswordResetToken{}, fmt.Errorf("failed to generate reset token: %w", err)
	}

	token := model.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     raw,
		ExpiresAt: time.Now().Add(c.resetTTL),
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := c.tokens.CreatePasswordReset(ctx, token); err != nil {
		c.logger.Error("credential service: failed to create reset token",
			"user_id", userID,
			"error", err.Error())
		return model.PasswordResetToken{}, fmt.Errorf("failed to create reset token: %w", err)
	}

	return token, nil
}

// RequestPasswordReset resolves the user by email and issues a reset
// token. An unknown email returns model.ErrNotFound so the transport
// layer can decide how much to reveal.
func (c *Credential) RequestPasswordReset(ctx context.Context, email string) (model.PasswordResetToken, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := c.users.GetByEmail(lookupCtx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.PasswordResetToken{}, model.ErrNotFound
		}
		return model.PasswordResetToken{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return c.CreatePasswordResetToken(ctx, user.ID)
}

// ValidateResetToken checks a password-reset token without consuming it.
// Unknown, used and expired tokens are all rejected.
func (c *Credential) ValidateResetToken(ctx context.Context, raw string) error {
	_, err := c.lookupReset(ctx, raw)
	return err
}

// ResetPassword consumes the reset token and replaces the user's password
// hash. The consume is conditional on the used flag, so a token works at
// most once even under concurrent submissions.
func (c *Credential) ResetPassword(ctx context.Context, raw, newPassword string) error {
	token, err := c.lookupReset(ctx, raw)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := c.tokens.ConsumePasswordReset(ctx, token.ID); err != nil {
		return err
	}

	if err := c.users.UpdatePassword(ctx, token.UserID, string(hash)); err != nil {
		c.logger.Error("credential service: failed to update password",
			"user_id", token.UserID,
			"error", err.Error())
		return fmt.Errorf("failed to update password: %w", err)
	}

	c.logger.Info("credential service: password reset completed",
		"user_id", token.UserID)

	return nil
}

// CreateEmailChangeToken issues a confirmation token for changing the
// user's email address.
func (c *Credential) CreateEmailChangeToken(ctx context.Context, userID uuid.UUID, newEmail string) (model.EmailChangeToken, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return model.EmailChangeToken{}, fmt.Errorf("failed to get user: %w", err)
	}

	raw, err := randomToken(32)
	if err != nil {
		return model.EmailChangeToken{}, fmt.Errorf("failed to generate email change token: %w", err)
	}

	token := model.EmailChangeToken{
		ID:        uuid.New(),
		UserID:    userID,
		OldEmail:  user.Email,
		NewEmail:  newEmail,
		Token:     raw,
		ExpiresAt: time.Now().Add(c.resetTTL),
	}

	if err := c.tokens.CreateEmailChange(ctx, token); err != nil {
		return model.EmailChangeToken{}, fmt.Errorf("failed to create email change token: %w", err)
	}

	return token, nil
}

// ConfirmEmailChange consumes an email-change token and applies the new
// address to the user row.
func (c *Credential) ConfirmEmailChange(ctx context.Context, raw string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	token, err := c.tokens.GetEmailChange(ctx, raw)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrTokenInvalid
		}
		return fmt.Errorf("failed to get email change token: %w", err)
	}
	if token.Used {
		return model.ErrTokenUsed
	}
	if token.Expired(time.Now()) {
		return model.ErrTokenExpired
	}

	if err := c.tokens.ConsumeEmailChange(ctx, token.ID); err != nil {
		return err
	}

	if err := c.users.UpdateEmail(ctx, token.UserID, token.NewEmail); err != nil {
		c.logger.Error("credential service: failed to update email",
			"user_id", token.UserID,
			"error", err.Error())
		return fmt.Errorf("failed to update email: %w", err)
	}

	c.logger.Info("credential service: email change completed",
		"user_id", token.UserID)

	return nil
}

func (c *Credential) lookupReset(ctx context.Context, raw string) (model.PasswordResetToken, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	token, err := c.tokens.GetPasswordReset(ctx, raw)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.PasswordResetToken{}, model.ErrTokenInvalid
		}
		return model.PasswordResetToken{}, fmt.Errorf("failed to get reset token: %w", err)
	}
	if token.Used {
		return model.PasswordResetToken{}, model.ErrTokenUsed
	}
	if token.Expired(time.Now()) {
		return model.PasswordResetToken{}, model.ErrTokenExpired
	}
	return token, nil
}

func randomToken(bytesLen int) (string, error) {
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
