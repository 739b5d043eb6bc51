package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogserver/internal/repository/memory"
	"blogserver/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore(filepath.Join(t.TempDir(), "blog.json"))
	userRepo := memory.NewUserRepository(store)
	postRepo := memory.NewPostRepository(store)
	favoriteRepo := memory.NewFavoriteRepository(store)

	users := service.NewUserService(userRepo)
	posts := service.NewPostService(postRepo, userRepo)
	favorites := service.NewFavoriteService(favoriteRepo)
	auth := service.NewAuthService(userRepo, "test-secret", 30*time.Minute)

	router := gin.New()
	NewHandler(users, posts, favorites, auth).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, target string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func registerAndLogin(t *testing.T, router *gin.Engine, email, login, password string) (UserResponse, []*http.Cookie) {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/register", gin.H{
		"email": email, "login": login, "password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decodeJSON[UserResponse](t, rec)

	rec = doJSON(t, router, http.MethodPost, "/api/login", gin.H{
		"login": login, "password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return user, cookies
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostLifecycleWithFavorites(t *testing.T) {
	router := newTestRouter(t)

	alice, cookies := registerAndLogin(t, router, "alice@example.com", "alice", "secret123")

	rec := doJSON(t, router, http.MethodPost, "/api/posts", gin.H{
		"title": "Hello", "content": "World",
	}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decodeJSON[PostResponse](t, rec)
	assert.Equal(t, alice.ID, post.AuthorID)
	assert.Equal(t, "Hello", post.Title)

	rec = doJSON(t, router, http.MethodGet, "/api/posts", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decodeJSON[[]PostResponse](t, rec)
	require.Len(t, listed, 1)
	assert.Equal(t, post.ID, listed[0].ID)

	// Anonymous reads carry no favorite marker.
	rec = doJSON(t, router, http.MethodGet, "/api/posts/1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	anon := decodeJSON[PostResponse](t, rec)
	assert.Nil(t, anon.IsFavorited)

	rec = doJSON(t, router, http.MethodGet, "/api/posts/1", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeJSON[PostResponse](t, rec)
	require.NotNil(t, got.IsFavorited)
	assert.False(t, *got.IsFavorited)

	rec = doJSON(t, router, http.MethodPost, "/api/posts/1/favorite", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	// Favoriting twice is a no-op.
	rec = doJSON(t, router, http.MethodPost, "/api/posts/1/favorite", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/posts/1", nil, cookies)
	got = decodeJSON[PostResponse](t, rec)
	require.NotNil(t, got.IsFavorited)
	assert.True(t, *got.IsFavorited)

	rec = doJSON(t, router, http.MethodGet, "/api/favorites", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	favs := decodeJSON[[]PostResponse](t, rec)
	require.Len(t, favs, 1)
	assert.Equal(t, post.ID, favs[0].ID)

	rec = doJSON(t, router, http.MethodDelete, "/api/posts/1/favorite", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/posts/1", nil, cookies)
	got = decodeJSON[PostResponse](t, rec)
	require.NotNil(t, got.IsFavorited)
	assert.False(t, *got.IsFavorited)
}

func TestSearchPosts(t *testing.T) {
	router := newTestRouter(t)

	_, cookies := registerAndLogin(t, router, "alice@example.com", "alice", "secret123")

	for _, p := range []gin.H{
		{"title": "Python is great", "content": "..."},
		{"title": "Java is okay", "content": "..."},
	} {
		rec := doJSON(t, router, http.MethodPost, "/api/posts", p, cookies)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/posts?q=Python", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	matched := decodeJSON[[]PostResponse](t, rec)
	require.Len(t, matched, 1)
	assert.Equal(t, "Python is great", matched[0].Title)

	rec = doJSON(t, router, http.MethodGet, "/api/posts?q=nothing-matches", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeJSON[[]PostResponse](t, rec))
}

func TestFilterPostsByAuthor(t *testing.T) {
	router := newTestRouter(t)

	alice, aliceCookies := registerAndLogin(t, router, "alice@example.com", "alice", "secret123")
	_, bobCookies := registerAndLogin(t, router, "bob@example.com", "bob", "secret123")

	rec := doJSON(t, router, http.MethodPost, "/api/posts", gin.H{"title": "A", "content": "a"}, aliceCookies)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/posts", gin.H{"title": "B", "content": "b"}, bobCookies)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/posts?author_id=1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	byAuthor := decodeJSON[[]PostResponse](t, rec)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, alice.ID, byAuthor[0].AuthorID)

	rec = doJSON(t, router, http.MethodGet, "/api/posts?author_id=zero", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/posts", gin.H{"title": "x", "content": "y"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A garbage cookie degrades to anonymous, not to an error.
	bad := []*http.Cookie{{Name: AccessTokenCookie, Value: "Bearer%20not-a-token"}}
	rec = doJSON(t, router, http.MethodGet, "/api/favorites", nil, bad)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForeignPostUpdateForbidden(t *testing.T) {
	router := newTestRouter(t)

	_, aliceCookies := registerAndLogin(t, router, "alice@example.com", "alice", "secret123")
	_, bobCookies := registerAndLogin(t, router, "bob@example.com", "bob", "secret123")

	rec := doJSON(t, router, http.MethodPost, "/api/posts", gin.H{"title": "Mine", "content": "c"}, aliceCookies)
	require.Equal(t, http.StatusCreated, rec.Code)
	post := decodeJSON[PostResponse](t, rec)

	rec = doJSON(t, router, http.MethodPut, "/api/posts/1", gin.H{"title": "Stolen"}, bobCookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/posts/1", nil, nil)
	unchanged := decodeJSON[PostResponse](t, rec)
	assert.Equal(t, post.Title, unchanged.Title)
}

func TestUserUpdateSelfOnly(t *testing.T) {
	router := newTestRouter(t)

	alice, aliceCookies := registerAndLogin(t, router, "alice@example.com", "alice", "secret123")
	bob, bobCookies := registerAndLogin(t, router, "bob@example.com", "bob", "secret123")

	rec := doJSON(t, router, http.MethodPut, "/api/users/1", gin.H{"login": "hijack"}, bobCookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/users/1", gin.H{"login": "alice2"}, aliceCookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeJSON[UserResponse](t, rec)
	assert.Equal(t, "alice2", updated.Login)
	assert.Equal(t, alice.Email, updated.Email)

	// Taking bob's email is rejected.
	rec = doJSON(t, router, http.MethodPut, "/api/users/1", gin.H{"email": bob.Email}, aliceCookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterValidationAndDuplicates(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/register", gin.H{
		"email": "alice@example.com", "login": "alice", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/register", gin.H{
		"email": "alice@example.com", "login": "other", "password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/register", gin.H{
		"email": "x@example.com", "login": "newbie", "password": "123",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/register", gin.H{
		"email": "x@example.com", "login": "newbie",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "binding rejects a missing field")
}

func TestLoginFailures(t *testing.T) {
	router := newTestRouter(t)

	registerAndLogin(t, router, "alice@example.com", "alice", "secret123")

	rec := doJSON(t, router, http.MethodPost, "/api/login", gin.H{
		"login": "alice", "password": "wrongpass",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/login", gin.H{
		"login": "nobody", "password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfile(t *testing.T) {
	router := newTestRouter(t)

	alice, cookies := registerAndLogin(t, router, "alice@example.com", "alice", "secret123")

	rec := doJSON(t, router, http.MethodPost, "/api/posts", gin.H{"title": "Mine", "content": "c"}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/posts/1/favorite", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/profile", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	type profileResponse struct {
		User      UserResponse   `json:"user"`
		Posts     []PostResponse `json:"posts"`
		Favorites []PostResponse `json:"favorites"`
	}
	profile := decodeJSON[profileResponse](t, rec)
	assert.Equal(t, alice.ID, profile.User.ID)
	require.Len(t, profile.Posts, 1)
	require.Len(t, profile.Favorites, 1)
}

func TestMissingResources(t *testing.T) {
	router := newTestRouter(t)

	_, cookies := registerAndLogin(t, router, "alice@example.com", "alice", "secret123")

	rec := doJSON(t, router, http.MethodGet, "/api/posts/42", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/users/42", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/posts/42", nil, cookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/posts/42/favorite", nil, cookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/posts/zero", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	router := newTestRouter(t)

	_, cookies := registerAndLogin(t, router, "alice@example.com", "alice", "secret123")

	rec := doJSON(t, router, http.MethodPost, "/api/logout", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == AccessTokenCookie {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}
