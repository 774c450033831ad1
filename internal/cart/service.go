package cart

import (
	"context"
	"sync"

	"bakery-be/internal/logger"
	"bakery-be/internal/product"
	"bakery-be/internal/store"
	"bakery-be/internal/voucher"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service hands out the one Ledger each customer owns.
type Service interface {
	Ledger(ctx context.Context, customerID string) (*Ledger, error)
}

type service struct {
	catalog  product.Catalog
	vouchers *voucher.Resolver
	store    store.Store

	sfg     singleflight.Group
	mu      sync.RWMutex
	ledgers map[string]*Ledger
}

func NewService(catalog product.Catalog, vouchers *voucher.Resolver, s store.Store) Service {
	return &service{
		catalog:  catalog,
		vouchers: vouchers,
		store:    s,
		ledgers:  make(map[string]*Ledger),
	}
}

// Ledger returns the customer's ledger, restoring it from the recovery store
// on first access.
func (s *service) Ledger(ctx context.Context, customerID string) (*Ledger, error) {
	if customerID == "" {
		return nil, ErrCustomerRequired
	}

	s.mu.RLock()
	l, ok := s.ledgers[customerID]
	s.mu.RUnlock()
	if ok {
		return l, nil
	}

	v, _, _ := s.sfg.Do(customerID, func() (interface{}, error) {
		s.mu.RLock()
		l, ok := s.ledgers[customerID]
		s.mu.RUnlock()
		if ok {
			return l, nil
		}

		l = NewLedger(customerID, s.catalog, s.vouchers, s.store)
		l.Restore(ctx)

		s.mu.Lock()
		s.ledgers[customerID] = l
		s.mu.Unlock()

		logger.FromCtx(ctx).Debug("cart ledger opened",
			zap.String("layer", "service"),
			zap.String("method", "Ledger"),
			zap.Int("lines", len(l.Lines())),
		)
		return l, nil
	})

	return v.(*Ledger), nil
}
