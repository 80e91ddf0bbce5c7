package services

import (
	"context"
	"fmt"

	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/auth/service"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DocumentStore is the interface that wraps methods for persisted document access
type DocumentStore interface {
	// Method Load reads and decodes the whole persisted document.
	//
	// If some error occurs during read or decode, the error will be returned together with "nil" value.
	Load(ctx context.Context) (*models.Database, error)
	// Method Save marshals and rewrites the whole persisted document.
	//
	// "db" parameter is the full document to persist; it replaces the previous content entirely.
	//
	// If some error occurs during write, the error will be returned.
	Save(ctx context.Context, db *models.Database) error
}

// authService implements registration and login
type authService struct {
	store  DocumentStore
	tokens *service.TokenGenerator
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store DocumentStore, tokens *service.TokenGenerator, logger *zap.Logger) *authService {
	return &authService{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a new user account. Usernames are unique and
// case-sensitive; the password is bcrypt-hashed before persisting and
// the role defaults to "user" when not provided.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) error {
	db, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	for _, u := range db.Users {
		if u.Username == req.Username {
			return models.ErrDuplicateUser
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		ID:           newID(),
		Username:     req.Username,
		PasswordHash: string(passwordHash),
		Role:         role,
	}

	db.Users = append(db.Users, user)
	if err := s.store.Save(ctx, db); err != nil {
		return err
	}

	s.logger.Info("user registered", zap.Int64("id", user.ID), zap.String("username", user.Username))
	return nil
}

// Login authenticates a user and issues a session token. Unknown
// usernames and wrong passwords yield the identical error so login
// failures cannot be used to enumerate accounts.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, *models.PublicUser, error) {
	db, err := s.store.Load(ctx)
	if err != nil {
		return "", nil, err
	}

	var user *models.User
	for i := range db.Users {
		if db.Users[i].Username == req.Username {
			user = &db.Users[i]
			break
		}
	}

	if user == nil {
		return "", nil, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	public := user.Public()
	return token, &public, nil
}
