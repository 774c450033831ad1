package order

import (
	"context"
	"errors"
	"sync"
	"time"

	"bakery-be/internal/logger"
	"bakery-be/internal/store"

	"go.uber.org/zap"
)

// Ledger is an append-only list of completed orders. An empty customerID
// means every customer where the implementation supports it.
type Ledger interface {
	Append(ctx context.Context, o *Order) error
	List(ctx context.Context, customerID string) ([]*Order, error)
	Get(ctx context.Context, customerID, orderID string) (*Order, error)
	UpdateStatus(ctx context.Context, customerID, orderID string, status Status) (*Order, error)
	MarkItemReviewed(ctx context.Context, customerID, orderID, itemID, reviewID string) error
}

// StoreLedger keeps orders in versioned store records. The customer mirror
// partitions by customer; the admin variant keeps every order in one record.
type StoreLedger struct {
	records   store.Store
	now       func() time.Time
	partition string

	mu     sync.Mutex
	orders map[string][]*Order
}

func NewStoreLedger(records store.Store) *StoreLedger {
	return &StoreLedger{
		records: records,
		now:     time.Now,
		orders:  make(map[string][]*Order),
	}
}

// AdminPartition is the record holding the admin mirror when no database is
// configured.
const AdminPartition = "admin"

func NewAdminStoreLedger(records store.Store) *StoreLedger {
	l := NewStoreLedger(records)
	l.partition = AdminPartition
	return l
}

func (l *StoreLedger) key(customerID string) (string, error) {
	if l.partition != "" {
		return l.partition, nil
	}
	if customerID == "" {
		return "", ErrCustomerRequired
	}
	return customerID, nil
}

// load must be called with l.mu held.
func (l *StoreLedger) load(ctx context.Context, key string) []*Order {
	if list, ok := l.orders[key]; ok {
		return list
	}

	var list []*Order
	if l.records != nil {
		version, err := store.Load(ctx, l.records, store.OrdersKey(key), &list)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			logger.FromCtx(ctx).Warn("order record unreadable",
				zap.String("layer", "ledger"),
				zap.Int("version", version),
				zap.Error(err),
			)
			list = nil
		}
	}

	l.orders[key] = list
	return list
}

func (l *StoreLedger) persist(ctx context.Context, key string) {
	if l.records == nil {
		return
	}
	store.Persist(ctx, l.records, store.OrdersKey(key), l.orders[key])
}

func (l *StoreLedger) Append(ctx context.Context, o *Order) error {
	key, err := l.key(o.CustomerID)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.load(ctx, key)
	for _, existing := range list {
		if existing.ID == o.ID {
			return ErrOrderExists
		}
	}

	l.orders[key] = append(list, o.clone())
	l.persist(ctx, key)
	return nil
}

// List returns the orders newest first.
func (l *StoreLedger) List(ctx context.Context, customerID string) ([]*Order, error) {
	key, err := l.key(customerID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.load(ctx, key)
	out := make([]*Order, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i].clone())
	}
	return out, nil
}

func (l *StoreLedger) find(ctx context.Context, key, orderID string) (*Order, error) {
	for _, o := range l.load(ctx, key) {
		if o.ID == orderID {
			return o, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (l *StoreLedger) Get(ctx context.Context, customerID, orderID string) (*Order, error) {
	key, err := l.key(customerID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	o, err := l.find(ctx, key, orderID)
	if err != nil {
		return nil, err
	}
	return o.clone(), nil
}

// UpdateStatus sets any known status regardless of the current one.
func (l *StoreLedger) UpdateStatus(ctx context.Context, customerID, orderID string, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	key, err := l.key(customerID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	o, err := l.find(ctx, key, orderID)
	if err != nil {
		return nil, err
	}
	o.Status = status
	o.UpdatedAt = l.now()

	l.persist(ctx, key)
	return o.clone(), nil
}

func (l *StoreLedger) MarkItemReviewed(ctx context.Context, customerID, orderID, itemID, reviewID string) error {
	key, err := l.key(customerID)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	o, err := l.find(ctx, key, orderID)
	if err != nil {
		return err
	}
	if err := markReviewed(o.Items, itemID, reviewID); err != nil {
		return err
	}
	o.UpdatedAt = l.now()

	l.persist(ctx, key)
	return nil
}

func markReviewed(items []OrderItem, itemID, reviewID string) error {
	for i := range items {
		if items[i].ID == itemID {
			items[i].ReviewID = reviewID
			return nil
		}
	}
	return ErrItemNotFound
}
