package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/auth/middleware"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewsService is the interface that wraps methods for news business logic
type NewsService interface {
	// Method List returns one page of news as marshaled response bytes.
	//
	// "page", "limit" and "search" parameters select the page; the search is a
	// case-insensitive substring match on titles. A page past the end yields an
	// empty data slice, not an error.
	//
	// Results are cached per (page, limit, search); a hit within the TTL returns
	// byte-identical output without touching storage.
	List(ctx context.Context, page, limit int, search string) ([]byte, error)
	// Method GetByID returns the full news item including comments.
	//
	// If no item has the given id, models.ErrNewsNotFound is returned.
	GetByID(ctx context.Context, id int64) (*models.NewsItem, error)
	// Method Create inserts a news item authored by the identity and returns it.
	Create(ctx context.Context, identity models.Identity, req *models.CreateNewsRequest) (*models.NewsItem, error)
	// Method Update applies a partial update; empty fields keep their stored value.
	//
	// models.ErrNewsNotFound and models.ErrForbidden report the failure cases.
	Update(ctx context.Context, identity models.Identity, id int64, req *models.UpdateNewsRequest) (*models.NewsItem, error)
	// Method Delete removes a news item, with the same error cases as Update.
	Delete(ctx context.Context, identity models.Identity, id int64) error
	// Method AddComment appends a comment to a news item and returns it.
	//
	// Any authenticated identity may comment; only models.ErrNewsNotFound fails it.
	AddComment(ctx context.Context, identity models.Identity, newsID int64, req *models.CommentRequest) (*models.Comment, error)
}

// NewsHandler handles news and comment HTTP requests
type NewsHandler struct {
	BaseHandler
	newsService NewsService
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(newsService NewsService, logger *zap.Logger) *NewsHandler {
	return &NewsHandler{
		BaseHandler: BaseHandler{Logger: logger},
		newsService: newsService,
	}
}

// RegisterRoutes registers all news handler routes. Reads are public,
// mutations require a verified identity.
func (h *NewsHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/news", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/comments", h.AddComment)
		})
	})
}

// List handles GET /news
// @Summary List news
// @Description List news with pagination and optional case-insensitive title search.
// @Tags news
// @Produce json
// @Param page query int false "Page number, default: 1"
// @Param limit query int false "Items per page, default: 5"
// @Param search query string false "Title substring filter"
// @Success 200 {object} models.NewsPage "One page of news"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /news [get]
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed > 0 {
			page = parsed
		}
	}

	limit := 5
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	search := r.URL.Query().Get("search")

	body, err := h.newsService.List(r.Context(), page, limit, search)
	if err != nil {
		h.Logger.Error("failed to list news", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to list news")
		return
	}

	h.RespondRaw(w, http.StatusOK, body)
}

// GetByID handles GET /news/{id}
// @Summary Get a news item
// @Description Get a single news item with its comments.
// @Tags news
// @Produce json
// @Param id path int true "News ID"
// @Success 200 {object} models.NewsItem "News item"
// @Failure 404 {object} map[string]string "News not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /news/{id} [get]
func (h *NewsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.newsID(w, r)
	if !ok {
		return
	}

	item, err := h.newsService.GetByID(r.Context(), id)
	if err != nil {
		h.respondNewsError(w, err, "failed to get news")
		return
	}

	h.RespondJSON(w, http.StatusOK, item)
}

// Create handles POST /news
// @Summary Create a news item
// @Description Create a news item authored by the authenticated user. Requires authentication.
// @Tags news
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateNewsRequest true "News content"
// @Success 201 {object} models.NewsItem "Created news item"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Invalid or expired token"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /news [post]
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req models.CreateNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.newsService.Create(r.Context(), identity, &req)
	if err != nil {
		h.respondNewsError(w, err, "failed to create news")
		return
	}

	h.RespondJSON(w, http.StatusCreated, item)
}

// Update handles PATCH /news/{id}
// @Summary Update a news item
// @Description Partially update a news item. Only the author or an admin may update. Empty fields are ignored.
// @Tags news
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "News ID"
// @Param request body models.UpdateNewsRequest true "Fields to update"
// @Success 200 {object} models.NewsItem "Updated news item"
// @Failure 403 {object} map[string]string "Not authorized to modify this post"
// @Failure 404 {object} map[string]string "News not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /news/{id} [patch]
func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, ok := h.newsID(w, r)
	if !ok {
		return
	}

	var req models.UpdateNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.newsService.Update(r.Context(), identity, id, &req)
	if err != nil {
		h.respondNewsError(w, err, "failed to update news")
		return
	}

	h.RespondJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /news/{id}
// @Summary Delete a news item
// @Description Delete a news item. Only the author or an admin may delete.
// @Tags news
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "News ID"
// @Success 200 {object} map[string]string "Deleted successfully"
// @Failure 403 {object} map[string]string "Not authorized to modify this post"
// @Failure 404 {object} map[string]string "News not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /news/{id} [delete]
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, ok := h.newsID(w, r)
	if !ok {
		return
	}

	if err := h.newsService.Delete(r.Context(), identity, id); err != nil {
		h.respondNewsError(w, err, "failed to delete news")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "Deleted successfully"})
}

// AddComment handles POST /news/{id}/comments
// @Summary Add a comment
// @Description Append a comment to a news item. Any authenticated user may comment.
// @Tags news
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "News ID"
// @Param request body models.CommentRequest true "Comment text"
// @Success 201 {object} models.Comment "Created comment"
// @Failure 404 {object} map[string]string "News not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /news/{id}/comments [post]
func (h *NewsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, ok := h.newsID(w, r)
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.newsService.AddComment(r.Context(), identity, id, &req)
	if err != nil {
		h.respondNewsError(w, err, "failed to add comment")
		return
	}

	h.RespondJSON(w, http.StatusCreated, comment)
}

// identity extracts the verified identity placed in context by the auth middleware
func (h *NewsHandler) identity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.Logger.Error("identity not found in context")
		h.RespondError(w, http.StatusUnauthorized, "identity not found in context")
		return models.Identity{}, false
	}
	return identity, true
}

// newsID parses the {id} path parameter
func (h *NewsHandler) newsID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.RespondError(w, http.StatusNotFound, "News not found")
		return 0, false
	}
	return id, true
}

// respondNewsError maps service errors to HTTP statuses
func (h *NewsHandler) respondNewsError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, models.ErrNewsNotFound):
		h.RespondError(w, http.StatusNotFound, "News not found")
	case errors.Is(err, models.ErrForbidden):
		h.RespondError(w, http.StatusForbidden, "Not authorized to modify this post")
	default:
		h.Logger.Error(logMsg, zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, logMsg)
	}
}
