package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/models"
	"github.com/stretchr/testify/require"
)

// mockStore is an in-memory DocumentStore. Load returns a deep copy, so
// mutations only become visible after Save, matching the file-backed store.
type mockStore struct {
	db      *models.Database
	loadErr error
	saveErr error
	loads   int
	saves   int
}

func newMockStore() *mockStore {
	return &mockStore{
		db: &models.Database{
			Users: []models.User{},
			News:  []models.NewsItem{},
		},
	}
}

func (m *mockStore) Load(ctx context.Context) (*models.Database, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	m.loads++
	return deepCopy(m.db), nil
}

func (m *mockStore) Save(ctx context.Context, db *models.Database) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.db = deepCopy(db)
	return nil
}

func deepCopy(db *models.Database) *models.Database {
	data, err := json.Marshal(db)
	if err != nil {
		panic(err)
	}
	copied := &models.Database{}
	if err := json.Unmarshal(data, copied); err != nil {
		panic(err)
	}
	return copied
}

// mockCache is an in-memory ResponseCache without expiry
type mockCache struct {
	entries       map[string][]byte
	invalidations int
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string][]byte{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, ok := m.entries[key]
	return value, ok
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte) {
	m.entries[key] = value
}

func (m *mockCache) InvalidateAll(ctx context.Context) {
	m.entries = map[string][]byte{}
	m.invalidations++
}

// seedNews appends items directly to the mock store, oldest last, so the
// slice order matches what repeated prepends would have produced
func seedNews(t *testing.T, store *mockStore, items ...models.NewsItem) {
	t.Helper()
	require.NotNil(t, store.db)
	store.db.News = append(store.db.News, items...)
}
