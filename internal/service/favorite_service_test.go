package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogserver/internal/domain"
	"blogserver/internal/repository/memory"
)

func newFavoriteFixtures(t *testing.T) (FavoriteService, PostService, UserService) {
	t.Helper()
	store := memory.NewStore(filepath.Join(t.TempDir(), "blog.json"))
	users := memory.NewUserRepository(store)
	posts := memory.NewPostRepository(store)
	favorites := memory.NewFavoriteRepository(store)
	return NewFavoriteService(favorites), NewPostService(posts, users), NewUserService(users)
}

func TestFavoriteLifecycle(t *testing.T) {
	favorites, posts, users := newFavoriteFixtures(t)
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice@x.com", "alice", "secret123")
	require.NoError(t, err)
	post, err := posts.Create(ctx, alice.ID, "Hello", "World")
	require.NoError(t, err)

	favorited, err := favorites.IsFavorited(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, favorited)

	require.NoError(t, favorites.Add(ctx, alice.ID, post.ID))
	require.NoError(t, favorites.Add(ctx, alice.ID, post.ID), "second add is a no-op")

	favorited, err = favorites.IsFavorited(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	listed, err := favorites.ListPosts(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, post.ID, listed[0].ID)

	require.NoError(t, favorites.Remove(ctx, alice.ID, post.ID))
	require.NoError(t, favorites.Remove(ctx, alice.ID, post.ID), "second remove is a no-op")

	favorited, err = favorites.IsFavorited(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, favorited)
}

func TestFavoriteMissingPost(t *testing.T) {
	favorites, _, users := newFavoriteFixtures(t)
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice@x.com", "alice", "secret123")
	require.NoError(t, err)

	assert.ErrorIs(t, favorites.Add(ctx, alice.ID, 42), domain.ErrPostNotFound)
	assert.NoError(t, favorites.Remove(ctx, alice.ID, 42), "removing an absent pair succeeds")
}
