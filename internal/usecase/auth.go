package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vasapolrittideah/auth-flow-api/internal/auth"
	"github.com/vasapolrittideah/auth-flow-api/internal/config"
	"github.com/vasapolrittideah/auth-flow-api/internal/model"
	"github.com/vasapolrittideah/auth-flow-api/internal/repository"
	"github.com/vasapolrittideah/auth-flow-api/internal/security"
)

var (
	ErrMissingFields        = errors.New("missing required fields")
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired verification code")
	ErrUserNotFound         = errors.New("user not found")

	// ErrNotification wraps email delivery failures. The state mutation that
	// preceded the send is never rolled back.
	ErrNotification = errors.New("failed to send notification email")
)

// Notifier sends the transactional emails triggered by the authentication
// flow. Failures propagate as errors but do not undo prior state changes.
type Notifier interface {
	SendVerification(email, code string, expiresIn time.Duration) error
	SendWelcome(email, name string) error
	SendResetLink(email, resetURL string, expiresIn time.Duration) error
	SendResetConfirmation(email string) error
}

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	// Register creates an unverified user, issues a session token and sends
	// the verification code by email.
	Register(ctx context.Context, params RegisterParams) (*model.User, string, error)

	// VerifyEmail consumes an unexpired verification code. Codes are single
	// use: a second call with the same code fails.
	VerifyEmail(ctx context.Context, code string) (*model.User, error)

	// Login checks the credentials, records the login time and issues a new
	// session token. Verification is not required to log in; gating
	// unverified accounts is left to the consuming application.
	Login(ctx context.Context, params LoginParams) (*model.User, string, error)

	// CheckAuth resolves a session token to its user.
	CheckAuth(ctx context.Context, sessionToken string) (*model.User, error)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Email    string
	Password string
	Name     string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

type authUsecase struct {
	userRepo    repository.UserRepository
	notifier    Notifier
	tokenSource security.TokenSource
	jwtAuth     auth.JWTAuthenticator
	tokenCfg    *config.TokenConfig
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	notifier Notifier,
	tokenSource security.TokenSource,
	jwtAuth auth.JWTAuthenticator,
	tokenCfg *config.TokenConfig,
) AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		notifier:    notifier,
		tokenSource: tokenSource,
		jwtAuth:     jwtAuth,
		tokenCfg:    tokenCfg,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*model.User, string, error) {
	if params.Email == "" || params.Password == "" || params.Name == "" {
		return nil, "", ErrMissingFields
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, "", err
	}

	code, err := u.tokenSource.VerificationCode()
	if err != nil {
		return nil, "", err
	}

	expiresAt := time.Now().Add(u.tokenCfg.VerificationCodeExpiresIn)
	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Email:                     params.Email,
		Name:                      params.Name,
		PasswordHash:              passwordHash,
		Verified:                  false,
		VerificationCode:          code,
		VerificationCodeExpiresAt: &expiresAt,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailAlreadyExists
		}
		return nil, "", err
	}

	sessionToken, err := u.jwtAuth.IssueSession(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}

	if err := u.notifier.SendVerification(user.Email, code, u.tokenCfg.VerificationCodeExpiresIn); err != nil {
		return user, sessionToken, fmt.Errorf("%w: %w", ErrNotification, err)
	}

	return user, sessionToken, nil
}

func (u *authUsecase) VerifyEmail(ctx context.Context, code string) (*model.User, error) {
	if code == "" {
		return nil, ErrInvalidOrExpiredCode
	}

	user, err := u.userRepo.ConsumeVerificationCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			// Wrong and expired codes are indistinguishable to the caller.
			return nil, ErrInvalidOrExpiredCode
		}
		return nil, err
	}

	if err := u.notifier.SendWelcome(user.Email, user.Name); err != nil {
		return user, fmt.Errorf("%w: %w", ErrNotification, err)
	}

	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*model.User, string, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, "", err
	} else if !ok {
		return nil, "", ErrInvalidCredentials
	}

	sessionToken, err := u.jwtAuth.IssueSession(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}

	user, err = u.userRepo.RecordLogin(ctx, user.ID.Hex(), time.Now())
	if err != nil {
		return nil, "", err
	}

	return user, sessionToken, nil
}

func (u *authUsecase) CheckAuth(ctx context.Context, sessionToken string) (*model.User, error) {
	userID, err := u.jwtAuth.ResolveSession(sessionToken)
	if err != nil {
		return nil, auth.ErrInvalidSession
	}

	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}
