// Package repositories provides data access for the persisted document
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/models"
	"go.uber.org/zap"
)

// DocumentStore persists the whole application state as a single JSON
// document {users, news}. Every operation reads or rewrites the entire
// file: there is no locking and no version stamp, so concurrent writers
// can lose updates. That is the documented behavior of this store, not
// an oversight; callers must not rely on write isolation.
type DocumentStore struct {
	path   string
	logger *zap.Logger
}

// NewDocumentStore creates a document store backed by the given file,
// initializing it with an empty document if it does not exist yet
func NewDocumentStore(path string, logger *zap.Logger) (*DocumentStore, error) {
	s := &DocumentStore{
		path:   path,
		logger: logger,
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.Save(context.Background(), &models.Database{
			Users: []models.User{},
			News:  []models.NewsItem{},
		}); err != nil {
			return nil, fmt.Errorf("failed to initialize document store: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat document store file: %w", err)
	}

	return s, nil
}

// Load reads and decodes the whole document
func (s *DocumentStore) Load(ctx context.Context) (*models.Database, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Error("failed to read document store", zap.String("path", s.path), zap.Error(err))
		return nil, fmt.Errorf("failed to read document store: %w", err)
	}

	db := &models.Database{}
	if err := json.Unmarshal(data, db); err != nil {
		s.logger.Error("failed to decode document store", zap.String("path", s.path), zap.Error(err))
		return nil, fmt.Errorf("failed to decode document store: %w", err)
	}

	return db, nil
}

// Save marshals and rewrites the whole document
func (s *DocumentStore) Save(ctx context.Context, db *models.Database) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document store: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.logger.Error("failed to write document store", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("failed to write document store: %w", err)
	}

	return nil
}

// Snapshot copies the current document to a timestamped file under dir
// and returns the backup path. Used by the scheduled backup job.
func (s *DocumentStore) Snapshot(ctx context.Context, dir string) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read document store: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := fmt.Sprintf("db-%s.json", time.Now().UTC().Format("20060102T150405"))
	backupPath := filepath.Join(dir, name)
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	s.logger.Info("document store snapshot written", zap.String("path", backupPath))
	return backupPath, nil
}
