package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogserver/internal/domain"
	"blogserver/internal/repository"
	"blogserver/internal/repository/memory"
)

func newPostFixtures(t *testing.T) (PostService, UserService) {
	t.Helper()
	store := memory.NewStore(filepath.Join(t.TempDir(), "blog.json"))
	users := memory.NewUserRepository(store)
	posts := memory.NewPostRepository(store)
	return NewPostService(posts, users), NewUserService(users)
}

func TestCreatePostUnknownAuthor(t *testing.T) {
	posts, _ := newPostFixtures(t)
	ctx := context.Background()

	_, err := posts.Create(ctx, 42, "Hello", "World")
	assert.ErrorIs(t, err, domain.ErrAuthorNotFound)

	// Nothing may have been persisted.
	listed, err := posts.List(ctx, repository.PostFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCreatePostValidation(t *testing.T) {
	posts, users := newPostFixtures(t)
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice@x.com", "alice", "secret123")
	require.NoError(t, err)

	_, err = posts.Create(ctx, alice.ID, "", "content")
	assert.ErrorIs(t, err, domain.ErrInvalid)

	longTitle := make([]byte, 201)
	for i := range longTitle {
		longTitle[i] = 'a'
	}
	_, err = posts.Create(ctx, alice.ID, string(longTitle), "content")
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = posts.Create(ctx, alice.ID, "title", "")
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestUpdatePostOwnership(t *testing.T) {
	posts, users := newPostFixtures(t)
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice@x.com", "alice", "secret123")
	require.NoError(t, err)
	bob, err := users.Register(ctx, "bob@x.com", "bob", "secret123")
	require.NoError(t, err)

	post, err := posts.Create(ctx, alice.ID, "Hello", "World")
	require.NoError(t, err)

	_, err = posts.Update(ctx, post.ID, bob.ID, PostUpdate{Title: strPtr("Hijacked")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// The post is unmodified after the forbidden attempt.
	got, err := posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, post.UpdatedAt, got.UpdatedAt)

	updated, err := posts.Update(ctx, post.ID, alice.ID, PostUpdate{Title: strPtr("Hello again")})
	require.NoError(t, err)
	assert.Equal(t, "Hello again", updated.Title)
	assert.Equal(t, "World", updated.Content)
}

func TestUpdateMissingPost(t *testing.T) {
	posts, _ := newPostFixtures(t)

	_, err := posts.Update(context.Background(), 42, 1, PostUpdate{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestDeletePost(t *testing.T) {
	posts, users := newPostFixtures(t)
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice@x.com", "alice", "secret123")
	require.NoError(t, err)
	post, err := posts.Create(ctx, alice.ID, "Hello", "World")
	require.NoError(t, err)

	found, err := posts.Delete(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = posts.Delete(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestListPostsSearch(t *testing.T) {
	posts, users := newPostFixtures(t)
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice@x.com", "alice", "secret123")
	require.NoError(t, err)

	_, err = posts.Create(ctx, alice.ID, "Python is great", "...")
	require.NoError(t, err)
	_, err = posts.Create(ctx, alice.ID, "Java is okay", "...")
	require.NoError(t, err)

	matched, err := posts.List(ctx, repository.PostFilter{SearchQuery: "Python"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Python is great", matched[0].Title)
}
