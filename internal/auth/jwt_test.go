package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndResolveSession(t *testing.T) {
	a := NewJWTAuthenticator("secret", "auth-flow-api", time.Hour)

	token, err := a.IssueSession("507f1f77bcf86cd799439011")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := a.ResolveSession(token)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", userID)
}

func TestResolveSessionRejectsGarbage(t *testing.T) {
	a := NewJWTAuthenticator("secret", "auth-flow-api", time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := a.ResolveSession(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	}
}

func TestResolveSessionRejectsExpiredToken(t *testing.T) {
	a := NewJWTAuthenticator("secret", "auth-flow-api", -time.Minute)

	token, err := a.IssueSession("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	_, err = a.ResolveSession(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestResolveSessionRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTAuthenticator("secret-a", "auth-flow-api", time.Hour)
	resolver := NewJWTAuthenticator("secret-b", "auth-flow-api", time.Hour)

	token, err := issuer.IssueSession("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	_, err = resolver.ResolveSession(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestResolveSessionRejectsWrongIssuer(t *testing.T) {
	issuer := NewJWTAuthenticator("secret", "other-service", time.Hour)
	resolver := NewJWTAuthenticator("secret", "auth-flow-api", time.Hour)

	token, err := issuer.IssueSession("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	_, err = resolver.ResolveSession(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
