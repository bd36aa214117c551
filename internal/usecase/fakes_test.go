package usecase

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/auth-flow-api/internal/model"
	"github.com/vasapolrittideah/auth-flow-api/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository. All operations take the lock
// for their full duration, mirroring the single-document atomicity of the
// Mongo implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}

	user.ID = bson.NewObjectID()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID.Hex()] = &stored

	return copyUser(&stored), nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return copyUser(user), nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) ConsumeVerificationCode(_ context.Context, code string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.VerificationCode == code &&
			user.VerificationCodeExpiresAt != nil &&
			user.VerificationCodeExpiresAt.After(time.Now()) {
			user.Verified = true
			user.VerificationCode = ""
			user.VerificationCodeExpiresAt = nil
			user.UpdatedAt = time.Now()
			return copyUser(user), nil
		}
	}

	return nil, repository.ErrCodeNotFound
}

func (r *fakeUserRepo) SetResetToken(
	_ context.Context,
	id, token string,
	expiresAt time.Time,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	user.ResetPasswordToken = token
	user.ResetPasswordExpiresAt = &expiresAt
	user.UpdatedAt = time.Now()

	return copyUser(user), nil
}

func (r *fakeUserRepo) ConsumeResetToken(_ context.Context, token, passwordHash string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.ResetPasswordToken == token &&
			user.ResetPasswordExpiresAt != nil &&
			user.ResetPasswordExpiresAt.After(time.Now()) {
			user.PasswordHash = passwordHash
			user.ResetPasswordToken = ""
			user.ResetPasswordExpiresAt = nil
			user.UpdatedAt = time.Now()
			return copyUser(user), nil
		}
	}

	return nil, repository.ErrTokenNotFound
}

func (r *fakeUserRepo) RecordLogin(_ context.Context, id string, at time.Time) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	user.LastLoginAt = &at
	user.UpdatedAt = time.Now()

	return copyUser(user), nil
}

// expireVerificationCode backdates the stored code expiry, keeping the
// paired-fields invariant intact.
func (r *fakeUserRepo) expireVerificationCode(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok && user.VerificationCodeExpiresAt != nil {
		past := time.Now().Add(-time.Minute)
		user.VerificationCodeExpiresAt = &past
	}
}

func (r *fakeUserRepo) expireResetToken(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok && user.ResetPasswordExpiresAt != nil {
		past := time.Now().Add(-time.Minute)
		user.ResetPasswordExpiresAt = &past
	}
}

func (r *fakeUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

func copyUser(user *model.User) *model.User {
	c := *user
	return &c
}

// fakeNotifier records every send and can be told to fail.
type fakeNotifier struct {
	mu sync.Mutex

	verificationSent int
	welcomeSent      int
	resetLinksSent   int
	confirmationSent int

	lastCode     string
	lastResetURL string

	failAll bool
	err     error
}

func (n *fakeNotifier) SendVerification(_, code string, _ time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failAll {
		return n.err
	}
	n.verificationSent++
	n.lastCode = code
	return nil
}

func (n *fakeNotifier) SendWelcome(_, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failAll {
		return n.err
	}
	n.welcomeSent++
	return nil
}

func (n *fakeNotifier) SendResetLink(_, resetURL string, _ time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failAll {
		return n.err
	}
	n.resetLinksSent++
	n.lastResetURL = resetURL
	return nil
}

func (n *fakeNotifier) SendResetConfirmation(_ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failAll {
		return n.err
	}
	n.confirmationSent++
	return nil
}

func (n *fakeNotifier) welcomeCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.welcomeSent
}

// fakeTokenSource returns fixed values so flows are deterministic.
type fakeTokenSource struct {
	code  string
	token string
}

func (s *fakeTokenSource) VerificationCode() (string, error) { return s.code, nil }
func (s *fakeTokenSource) ResetToken() (string, error)       { return s.token, nil }
