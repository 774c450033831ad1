package product

import (
	"context"
	"sync"
	"time"

	"bakery-be/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Service interface {
	Catalog
	List(ctx context.Context) ([]*Product, error)
	Invalidate(id string)
}

type lister interface {
	List(ctx context.Context, onlyActive bool) ([]*Product, error)
}

type cacheEntry struct {
	product  *Product
	storedAt time.Time
}

// service caches catalog lookups for a short TTL. Concurrent misses for the
// same product collapse into a single source query.
type service struct {
	source Catalog
	ttl    time.Duration
	now    func() time.Time

	sfg   singleflight.Group
	mu    sync.RWMutex
	cache map[string]cacheEntry
}

func NewService(source Catalog, ttl time.Duration) Service {
	return &service{
		source: source,
		ttl:    ttl,
		now:    time.Now,
		cache:  make(map[string]cacheEntry),
	}
}

func (s *service) GetProductByID(ctx context.Context, id string) (*Product, error) {
	if p, ok := s.cached(id); ok {
		return p, nil
	}

	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		p, err := s.source.GetProductByID(ctx, id)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cache[id] = cacheEntry{product: p, storedAt: s.now()}
		s.mu.Unlock()

		return p, nil
	})
	if err != nil {
		if err != ErrProductNotFound {
			logger.FromCtx(ctx).Warn("catalog lookup failed",
				zap.String("layer", "service"),
				zap.String("product_id", id),
				zap.Error(err),
			)
		}
		return nil, err
	}

	return v.(*Product), nil
}

func (s *service) cached(id string) (*Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache[id]
	if !ok || s.now().Sub(entry.storedAt) > s.ttl {
		return nil, false
	}
	return entry.product, true
}

func (s *service) List(ctx context.Context) ([]*Product, error) {
	l, ok := s.source.(lister)
	if !ok {
		return nil, nil
	}
	return l.List(ctx, true)
}

func (s *service) Invalidate(id string) {
	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()
}
