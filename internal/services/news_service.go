package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/models"
	"go.uber.org/zap"
)

// ResponseCache is the interface that wraps methods for the read-path response cache
type ResponseCache interface {
	// Method Get returns the cached response bytes for a key.
	//
	// The second return value reports whether a live (non-expired) entry was found.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Method Set stores response bytes under a key with the backend's configured TTL.
	Set(ctx context.Context, key string, value []byte)
	// Method InvalidateAll clears the whole cache.
	//
	// Called after every successful mutation so readers never observe stale pages
	// beyond reads already in flight.
	InvalidateAll(ctx context.Context)
}

// newsService implements news listing, CRUD and comment append
type newsService struct {
	store  DocumentStore
	cache  ResponseCache
	logger *zap.Logger
}

// NewNewsService creates a new news service
func NewNewsService(store DocumentStore, cache ResponseCache, logger *zap.Logger) *newsService {
	return &newsService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// List returns one page of news as marshaled response bytes. The result
// is cached under (page, limit, search) so a repeated call within the
// TTL returns byte-identical output without touching storage. A page
// past the end yields an empty data slice, not an error.
func (s *newsService) List(ctx context.Context, page, limit int, search string) ([]byte, error) {
	cacheKey := fmt.Sprintf("news_%d_%d_%s", page, limit, search)

	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		return cached, nil
	}

	db, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	results := db.News
	if search != "" {
		needle := strings.ToLower(search)
		filtered := make([]models.NewsItem, 0, len(results))
		for _, item := range results {
			if strings.Contains(strings.ToLower(item.Title), needle) {
				filtered = append(filtered, item)
			}
		}
		results = filtered
	}

	start := (page - 1) * limit
	end := page * limit
	if start > len(results) {
		start = len(results)
	}
	if end > len(results) {
		end = len(results)
	}
	pageItems := results[start:end]
	if pageItems == nil {
		pageItems = []models.NewsItem{}
	}

	response := models.NewsPage{
		Data:       pageItems,
		Total:      len(results),
		Page:       page,
		TotalPages: (len(results) + limit - 1) / limit,
	}

	body, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to encode news page: %w", err)
	}

	s.cache.Set(ctx, cacheKey, body)
	return body, nil
}

// GetByID returns the full news item including comments
func (s *newsService) GetByID(ctx context.Context, id int64) (*models.NewsItem, error) {
	db, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range db.News {
		if db.News[i].ID == id {
			return &db.News[i], nil
		}
	}
	return nil, models.ErrNewsNotFound
}

// Create inserts a new news item authored by the given identity. The
// item is prepended so an unfiltered listing shows newest first.
func (s *newsService) Create(ctx context.Context, identity models.Identity, req *models.CreateNewsRequest) (*models.NewsItem, error) {
	db, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	item := models.NewsItem{
		ID:         newID(),
		Title:      req.Title,
		Body:       req.Body,
		AuthorID:   identity.ID,
		AuthorName: identity.Username,
		Comments:   []models.Comment{},
	}

	db.News = append([]models.NewsItem{item}, db.News...)
	if err := s.store.Save(ctx, db); err != nil {
		return nil, err
	}

	s.cache.InvalidateAll(ctx)
	s.logger.Info("news created", zap.Int64("id", item.ID), zap.Int64("author_id", identity.ID))
	return &item, nil
}

// Update applies a partial update to a news item owned by the identity
// (or by anyone, for admins). An empty string field is treated as "not
// provided" and keeps the stored value.
func (s *newsService) Update(ctx context.Context, identity models.Identity, id int64, req *models.UpdateNewsRequest) (*models.NewsItem, error) {
	db, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range db.News {
		if db.News[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, models.ErrNewsNotFound
	}

	item := &db.News[index]
	if !identity.CanMutate(item) {
		return nil, models.ErrForbidden
	}

	if req.Title != "" {
		item.Title = req.Title
	}
	if req.Body != "" {
		item.Body = req.Body
	}

	if err := s.store.Save(ctx, db); err != nil {
		return nil, err
	}

	s.cache.InvalidateAll(ctx)
	s.logger.Info("news updated", zap.Int64("id", id), zap.Int64("user_id", identity.ID))
	return item, nil
}

// Delete removes a news item owned by the identity (or by anyone, for admins)
func (s *newsService) Delete(ctx context.Context, identity models.Identity, id int64) error {
	db, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	index := -1
	for i := range db.News {
		if db.News[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return models.ErrNewsNotFound
	}

	if !identity.CanMutate(&db.News[index]) {
		return models.ErrForbidden
	}

	db.News = append(db.News[:index], db.News[index+1:]...)
	if err := s.store.Save(ctx, db); err != nil {
		return err
	}

	s.cache.InvalidateAll(ctx)
	s.logger.Info("news deleted", zap.Int64("id", id), zap.Int64("user_id", identity.ID))
	return nil
}

// AddComment appends a comment to a news item. Any authenticated
// identity may comment; there is no ownership check.
func (s *newsService) AddComment(ctx context.Context, identity models.Identity, newsID int64, req *models.CommentRequest) (*models.Comment, error) {
	db, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range db.News {
		if db.News[i].ID == newsID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, models.ErrNewsNotFound
	}

	comment := models.Comment{
		ID:        newID(),
		Text:      req.Text,
		UserID:    identity.ID,
		Username:  identity.Username,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	db.News[index].Comments = append(db.News[index].Comments, comment)
	if err := s.store.Save(ctx, db); err != nil {
		return nil, err
	}

	s.cache.InvalidateAll(ctx)
	s.logger.Info("comment added", zap.Int64("news_id", newsID), zap.Int64("user_id", identity.ID))
	return &comment, nil
}
