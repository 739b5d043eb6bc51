package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogserver/internal/domain"
	"blogserver/internal/repository/memory"
)

func newAuthFixtures(t *testing.T, ttl time.Duration) (AuthService, UserService) {
	t.Helper()
	store := memory.NewStore(filepath.Join(t.TempDir(), "blog.json"))
	users := memory.NewUserRepository(store)
	return NewAuthService(users, "test-secret", ttl), NewUserService(users)
}

func TestAuthenticate(t *testing.T) {
	auth, users := newAuthFixtures(t, time.Hour)
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice@x.com", "alice", "secret123")
	require.NoError(t, err)

	byLogin, err := auth.Authenticate(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byLogin.ID)
	assert.Empty(t, byLogin.PasswordHash)

	byEmail, err := auth.Authenticate(ctx, "alice@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	// Unknown identifier and wrong password are indistinguishable.
	_, err = auth.Authenticate(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = auth.Authenticate(ctx, "alice", "wrongpass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = auth.Authenticate(ctx, "alice", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	auth, users := newAuthFixtures(t, time.Hour)
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice@x.com", "alice", "secret123")
	require.NoError(t, err)

	token, err := auth.IssueToken(alice.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := auth.ResolveToken(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, alice.ID, resolved.ID)
	assert.Empty(t, resolved.PasswordHash)

	// The cookie carries the token with a scheme prefix.
	resolved, err = auth.ResolveToken(ctx, "Bearer "+token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, alice.ID, resolved.ID)
}

func TestResolveTokenFailuresAreAnonymous(t *testing.T) {
	auth, users := newAuthFixtures(t, time.Hour)
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice@x.com", "alice", "secret123")
	require.NoError(t, err)
	token, err := auth.IssueToken(alice.ID)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"empty":    "",
		"garbage":  "not-a-token",
		"tampered": token + "x",
	} {
		t.Run(name, func(t *testing.T) {
			resolved, err := auth.ResolveToken(ctx, raw)
			require.NoError(t, err)
			assert.Nil(t, resolved)
		})
	}

	// A token signed with another secret does not resolve.
	otherStore := memory.NewStore(filepath.Join(t.TempDir(), "other.json"))
	other := NewAuthService(memory.NewUserRepository(otherStore), "other-secret", time.Hour)
	foreign, err := other.IssueToken(alice.ID)
	require.NoError(t, err)
	resolved, err := auth.ResolveToken(ctx, foreign)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestResolveExpiredToken(t *testing.T) {
	auth, users := newAuthFixtures(t, -time.Minute)
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice@x.com", "alice", "secret123")
	require.NoError(t, err)

	token, err := auth.IssueToken(alice.ID)
	require.NoError(t, err)

	resolved, err := auth.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestResolveTokenDeletedUser(t *testing.T) {
	auth, users := newAuthFixtures(t, time.Hour)
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice@x.com", "alice", "secret123")
	require.NoError(t, err)
	token, err := auth.IssueToken(alice.ID)
	require.NoError(t, err)

	_, err = users.Delete(ctx, alice.ID)
	require.NoError(t, err)

	resolved, err := auth.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}
