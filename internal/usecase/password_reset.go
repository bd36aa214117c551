package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vasapolrittideah/auth-flow-api/internal/config"
	"github.com/vasapolrittideah/auth-flow-api/internal/repository"
	"github.com/vasapolrittideah/auth-flow-api/internal/security"
)

var ErrInvalidOrExpiredToken = errors.New("invalid or expired password reset token")

// PasswordResetUsecase defines the business logic for the password reset flow.
type PasswordResetUsecase interface {
	// RequestPasswordReset generates a reset token for the account with the
	// given email, stores it and mails the reset link.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes an unexpired reset token and replaces the
	// account's password. Tokens are single use.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type passwordResetUsecase struct {
	userRepo    repository.UserRepository
	notifier    Notifier
	tokenSource security.TokenSource
	clientURL   string
	tokenCfg    *config.TokenConfig
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	notifier Notifier,
	tokenSource security.TokenSource,
	clientURL string,
	tokenCfg *config.TokenConfig,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo:    userRepo,
		notifier:    notifier,
		tokenSource: tokenSource,
		clientURL:   clientURL,
		tokenCfg:    tokenCfg,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := u.tokenSource.ResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(u.tokenCfg.PasswordResetTokenExpiresIn)
	if _, err := u.userRepo.SetResetToken(ctx, user.ID.Hex(), token, expiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", u.clientURL, token)
	if err := u.notifier.SendResetLink(user.Email, resetURL, u.tokenCfg.PasswordResetTokenExpiresIn); err != nil {
		return fmt.Errorf("%w: %w", ErrNotification, err)
	}

	return nil
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return ErrMissingFields
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user, err := u.userRepo.ConsumeResetToken(ctx, token, passwordHash)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	if err := u.notifier.SendResetConfirmation(user.Email); err != nil {
		return fmt.Errorf("%w: %w", ErrNotification, err)
	}

	return nil
}
