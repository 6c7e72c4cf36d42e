package store

import (
	"context"
	"sync"
	"time"

	"github.com/hinote/backend/internal/domain"
)

// DefaultCleanupInterval is how often expired snapshots are swept
const DefaultCleanupInterval = 10 * time.Minute

// catalogEntry is one merchant's snapshot with expiration
type catalogEntry struct {
	Products   []domain.Product
	Expiration time.Time
}

// MemoryCatalogStore is a thread-safe in-memory catalog snapshot store with TTL support
type MemoryCatalogStore struct {
	data  map[string]catalogEntry
	mutex sync.RWMutex
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryCatalogStore creates a store and starts the background sweeper
func NewMemoryCatalogStore(cleanupInterval time.Duration) *MemoryCatalogStore {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	s := &MemoryCatalogStore{
		data: make(map[string]catalogEntry),
		stop: make(chan struct{}),
	}

	go s.cleanupExpired(cleanupInterval)

	return s
}

// Get returns a copy of the merchant's snapshot
func (s *MemoryCatalogStore) Get(ctx context.Context, merchantID string) ([]domain.Product, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	entry, exists := s.data[merchantID]
	if !exists || time.Now().After(entry.Expiration) {
		return nil, domain.ErrCatalogNotFound
	}

	return domain.CloneProducts(entry.Products), nil
}

// Put stores a copy of products for the merchant, replacing any previous snapshot
func (s *MemoryCatalogStore) Put(ctx context.Context, merchantID string, products []domain.Product, ttl time.Duration) error {
	if merchantID == "" || ttl <= 0 {
		return domain.ErrInvalidRequest
	}

	snapshot := domain.CloneProducts(products)
	if snapshot == nil {
		snapshot = []domain.Product{}
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[merchantID] = catalogEntry{
		Products:   snapshot,
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a merchant's snapshot
func (s *MemoryCatalogStore) Delete(ctx context.Context, merchantID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, merchantID)
	return nil
}

// Close stops the background sweeper
func (s *MemoryCatalogStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

// cleanupExpired removes expired snapshots periodically
func (s *MemoryCatalogStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.removeExpired(time.Now())
		}
	}
}

func (s *MemoryCatalogStore) removeExpired(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for key, entry := range s.data {
		if now.After(entry.Expiration) {
			delete(s.data, key)
		}
	}
}
