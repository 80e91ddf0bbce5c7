package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	authMiddleware "github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/auth/middleware"
	authService "github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/auth/service"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/cache"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/handlers"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/models"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/repositories"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/services"
)

// setupRouter wires the full API surface against a temp-file document
// store and an in-memory cache, the same way cmd/main.go does
func setupRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := zap.NewNop()

	store, err := repositories.NewDocumentStore(filepath.Join(t.TempDir(), "db.json"), logger)
	require.NoError(t, err)

	responseCache := cache.NewMemoryCache(time.Minute)
	tokenGenerator := authService.NewTokenGenerator("integration-secret", time.Hour)

	authSvc := services.NewAuthService(store, tokenGenerator, logger)
	newsSvc := services.NewNewsService(store, responseCache, logger)

	authHandler := handlers.NewAuthHandler(authSvc, logger)
	newsHandler := handlers.NewNewsHandler(newsSvc, logger)
	requireAuth := authMiddleware.AuthMiddleware(tokenGenerator)

	r := chi.NewRouter()
	authHandler.RegisterRoutes(r, requireAuth)
	newsHandler.RegisterRoutes(r, requireAuth)
	return r
}

// doRequest performs a JSON request against the router
func doRequest(t *testing.T, router chi.Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// registerAndLogin creates an account and returns the token and public user
func registerAndLogin(t *testing.T, router chi.Router, username, password, role string) (string, models.PublicUser) {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/auth/register", "", models.RegisterRequest{
		Username: username,
		Password: password,
		Role:     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodPost, "/auth/login", "", models.LoginRequest{
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	login := decodeBody[models.LoginResponse](t, rec)
	require.NotEmpty(t, login.Token)
	return login.Token, login.User
}

func TestAuthFlow(t *testing.T) {
	router := setupRouter(t)

	t.Run("register and login", func(t *testing.T) {
		token, user := registerAndLogin(t, router, "alice", "Password123!", "")
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.NotZero(t, user.ID)

		// Profile echoes the claims embedded in the token
		rec := doRequest(t, router, http.MethodGet, "/auth/profile", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		identity := decodeBody[models.Identity](t, rec)
		assert.Equal(t, user.ID, identity.ID)
		assert.Equal(t, user.Username, identity.Username)
		assert.Equal(t, user.Role, identity.Role)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/auth/register", "", models.RegisterRequest{
			Username: "alice",
			Password: "another",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody[map[string]string](t, rec)
		assert.Equal(t, "User already exists", body["message"])
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		recWrong := doRequest(t, router, http.MethodPost, "/auth/login", "", models.LoginRequest{
			Username: "alice", Password: "wrong",
		})
		recUnknown := doRequest(t, router, http.MethodPost, "/auth/login", "", models.LoginRequest{
			Username: "ghost", Password: "wrong",
		})

		assert.Equal(t, http.StatusBadRequest, recWrong.Code)
		assert.Equal(t, http.StatusBadRequest, recUnknown.Code)
		assert.Equal(t, recWrong.Body.String(), recUnknown.Body.String())
	})

	t.Run("missing and invalid tokens", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/auth/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = doRequest(t, router, http.MethodGet, "/auth/profile", "garbage-token", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestNewsCRUDAndAuthorization(t *testing.T) {
	router := setupRouter(t)
	authorToken, _ := registerAndLogin(t, router, "author", "Password123!", "")
	otherToken, _ := registerAndLogin(t, router, "other", "Password123!", "")
	adminToken, _ := registerAndLogin(t, router, "admin", "Password123!", models.RoleAdmin)

	rec := doRequest(t, router, http.MethodPost, "/news", authorToken, models.CreateNewsRequest{
		Title: "Breaking", Body: "Something happened",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[models.NewsItem](t, rec)
	assert.Equal(t, "author", created.AuthorName)
	newsPath := fmt.Sprintf("/news/%d", created.ID)

	t.Run("create requires a token", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/news", "", models.CreateNewsRequest{Title: "x", Body: "y"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("read is public", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, newsPath, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		item := decodeBody[models.NewsItem](t, rec)
		assert.Equal(t, "Breaking", item.Title)

		rec = doRequest(t, router, http.MethodGet, "/news/999999", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-author cannot update or delete", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPatch, newsPath, otherToken, models.UpdateNewsRequest{Title: "hijacked"})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = doRequest(t, router, http.MethodDelete, newsPath, otherToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("author partial update keeps omitted fields", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPatch, newsPath, authorToken, models.UpdateNewsRequest{Title: "Updated"})
		require.Equal(t, http.StatusOK, rec.Code)
		item := decodeBody[models.NewsItem](t, rec)
		assert.Equal(t, "Updated", item.Title)
		assert.Equal(t, "Something happened", item.Body)
	})

	t.Run("any authenticated user may comment", func(t *testing.T) {
		start := time.Now().UTC().Truncate(time.Second)
		rec := doRequest(t, router, http.MethodPost, newsPath+"/comments", otherToken, models.CommentRequest{Text: "hot take"})
		require.Equal(t, http.StatusCreated, rec.Code)
		comment := decodeBody[models.Comment](t, rec)
		assert.Equal(t, "other", comment.Username)

		ts, err := time.Parse(time.RFC3339, comment.Timestamp)
		require.NoError(t, err)
		assert.False(t, ts.Before(start))

		// The comment shows up last on the item
		rec = doRequest(t, router, http.MethodGet, newsPath, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		item := decodeBody[models.NewsItem](t, rec)
		require.NotEmpty(t, item.Comments)
		assert.Equal(t, comment.ID, item.Comments[len(item.Comments)-1].ID)
	})

	t.Run("admin may update and delete", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPatch, newsPath, adminToken, models.UpdateNewsRequest{Body: "moderated"})
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodDelete, newsPath, adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodGet, newsPath, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNewsListSearchPaginationAndCache(t *testing.T) {
	router := setupRouter(t)
	token, _ := registerAndLogin(t, router, "writer", "Password123!", "")

	for i := 1; i <= 12; i++ {
		rec := doRequest(t, router, http.MethodPost, "/news", token, models.CreateNewsRequest{
			Title: fmt.Sprintf("Story %d", i), Body: "text",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		// IDs derive from creation time at millisecond resolution
		time.Sleep(2 * time.Millisecond)
	}

	t.Run("pagination math", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/news?page=1&limit=5", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		page := decodeBody[models.NewsPage](t, rec)
		assert.Len(t, page.Data, 5)
		assert.Equal(t, 12, page.Total)
		assert.Equal(t, 3, page.TotalPages)
		// Newest first
		assert.Equal(t, "Story 12", page.Data[0].Title)

		rec = doRequest(t, router, http.MethodGet, "/news?page=3&limit=5", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		page = decodeBody[models.NewsPage](t, rec)
		assert.Len(t, page.Data, 2)

		rec = doRequest(t, router, http.MethodGet, "/news?page=4&limit=5", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		page = decodeBody[models.NewsPage](t, rec)
		assert.Empty(t, page.Data)
	})

	t.Run("case-insensitive title search", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/news?search=story+1", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		page := decodeBody[models.NewsPage](t, rec)
		// Matches "Story 1", "Story 10", "Story 11", "Story 12"
		assert.Equal(t, 4, page.Total)
	})

	t.Run("cache hit is byte-identical, mutation invalidates", func(t *testing.T) {
		first := doRequest(t, router, http.MethodGet, "/news?page=1&limit=5", "", nil)
		second := doRequest(t, router, http.MethodGet, "/news?page=1&limit=5", "", nil)
		assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())

		rec := doRequest(t, router, http.MethodPost, "/news", token, models.CreateNewsRequest{
			Title: "Cache buster", Body: "text",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		third := doRequest(t, router, http.MethodGet, "/news?page=1&limit=5", "", nil)
		page := decodeBody[models.NewsPage](t, third)
		assert.Equal(t, "Cache buster", page.Data[0].Title)
		assert.Equal(t, 13, page.Total)
	})
}
