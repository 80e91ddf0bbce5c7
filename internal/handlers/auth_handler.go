package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/auth/middleware"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic
type AuthService interface {
	// Method Register performs user creation with a hashed password.
	//
	// "req" parameter contains username, password and optional role.
	//
	// If the username is already taken, models.ErrDuplicateUser is returned; any other
	// error indicates a storage or hashing failure.
	Register(ctx context.Context, req *models.RegisterRequest) error
	// Method Login performs credential verification and issues a session token.
	//
	// "req" parameter contains username and password.
	//
	// If the username is unknown or the password does not match, models.ErrInvalidCredentials
	// is returned; the two cases are indistinguishable to the caller.
	Login(ctx context.Context, req *models.LoginRequest) (string, *models.PublicUser, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(authMiddleware).Get("/profile", h.Profile)
	})
}

// Register handles POST /auth/register
// @Summary Register a new user
// @Description Register a new user with username, password and optional role.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} map[string]string "User registered successfully"
// @Failure 400 {object} map[string]string "Invalid request body or user already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		h.RespondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if err := h.authService.Register(r.Context(), &req); err != nil {
		if errors.Is(err, models.ErrDuplicateUser) {
			h.RespondError(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.Logger.Error("failed to register user", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate with username and password. Returns a bearer token and the public user projection.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.LoginResponse "Login successful"
// @Failure 400 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			h.RespondError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		h.Logger.Error("failed to login user", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.LoginResponse{Token: token, User: *user})
}

// Profile handles GET /auth/profile
// @Summary Get identity claims
// @Description Return the identity claims embedded in the presented bearer token.
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Identity "Identity claims"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Invalid or expired token"
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.Logger.Error("identity not found in context")
		h.RespondError(w, http.StatusUnauthorized, "identity not found in context")
		return
	}

	h.RespondJSON(w, http.StatusOK, identity)
}
