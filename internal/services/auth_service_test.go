package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/auth/service"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestNewAuthService(t *testing.T) {
	store := newMockStore()
	tokens := service.NewTokenGenerator("secret", time.Hour)
	logger := zap.NewNop()

	svc := NewAuthService(store, tokens, logger)

	assert.NotNil(t, svc)
	assert.Equal(t, store, svc.store)
	assert.Equal(t, tokens, svc.tokens)
	assert.Equal(t, logger, svc.logger)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success with default role", func(t *testing.T) {
		store := newMockStore()
		svc := NewAuthService(store, service.NewTokenGenerator("secret", time.Hour), zap.NewNop())

		err := svc.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "pass123"})
		require.NoError(t, err)

		require.Len(t, store.db.Users, 1)
		user := store.db.Users[0]
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.NotZero(t, user.ID)

		// Password is stored hashed, never in the clear
		assert.NotEqual(t, "pass123", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")))
	})

	t.Run("explicit admin role", func(t *testing.T) {
		store := newMockStore()
		svc := NewAuthService(store, service.NewTokenGenerator("secret", time.Hour), zap.NewNop())

		err := svc.Register(ctx, &models.RegisterRequest{Username: "root", Password: "pass123", Role: models.RoleAdmin})
		require.NoError(t, err)

		require.Len(t, store.db.Users, 1)
		assert.Equal(t, models.RoleAdmin, store.db.Users[0].Role)
	})

	t.Run("duplicate username", func(t *testing.T) {
		store := newMockStore()
		svc := NewAuthService(store, service.NewTokenGenerator("secret", time.Hour), zap.NewNop())

		require.NoError(t, svc.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "first"}))
		err := svc.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "second"})

		assert.ErrorIs(t, err, models.ErrDuplicateUser)
		assert.Len(t, store.db.Users, 1)
	})

	t.Run("usernames are case-sensitive", func(t *testing.T) {
		store := newMockStore()
		svc := NewAuthService(store, service.NewTokenGenerator("secret", time.Hour), zap.NewNop())

		require.NoError(t, svc.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "pass"}))
		assert.NoError(t, svc.Register(ctx, &models.RegisterRequest{Username: "Alice", Password: "pass"}))
	})

	t.Run("store load error propagates", func(t *testing.T) {
		store := newMockStore()
		store.loadErr = errors.New("disk gone")
		svc := NewAuthService(store, service.NewTokenGenerator("secret", time.Hour), zap.NewNop())

		err := svc.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "pass"})
		assert.Error(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	tokens := service.NewTokenGenerator("test-secret", time.Hour)

	setup := func(t *testing.T) (*mockStore, *authService) {
		t.Helper()
		store := newMockStore()
		svc := NewAuthService(store, tokens, zap.NewNop())
		require.NoError(t, svc.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "correct-horse"}))
		return store, svc
	}

	t.Run("success returns token with matching claims", func(t *testing.T) {
		store, svc := setup(t)

		token, user, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "correct-horse"})
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, store.db.Users[0].ID, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, models.RoleUser, user.Role)

		identity, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, identity.ID)
		assert.Equal(t, user.Username, identity.Username)
		assert.Equal(t, user.Role, identity.Role)
	})

	t.Run("wrong password and unknown user yield the identical error", func(t *testing.T) {
		_, svc := setup(t)

		_, _, errWrongPassword := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "nope"})
		_, _, errUnknownUser := svc.Login(ctx, &models.LoginRequest{Username: "nobody", Password: "nope"})

		assert.ErrorIs(t, errWrongPassword, models.ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknownUser, models.ErrInvalidCredentials)
		assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
	})
}
