package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"

	"bakery-be/internal/logger"
	"bakery-be/internal/store"

	"go.uber.org/zap"
)

// Store holds one Draft per customer. Each slot can be read or written on
// its own so any wizard step can rebuild its form after a reload.
type Store struct {
	records store.Store

	mu     sync.Mutex
	drafts map[string]*Draft
	// snapshots holds a nil value for a cleared snapshot so a stale record
	// left behind by a failed delete is not read back.
	snapshots map[string]*Snapshot
}

func NewStore(records store.Store) *Store {
	return &Store{
		records:   records,
		drafts:    make(map[string]*Draft),
		snapshots: make(map[string]*Snapshot),
	}
}

// load returns the cached draft, reading the persisted record on first use.
// Callers hold s.mu.
func (s *Store) load(ctx context.Context, customerID string) *Draft {
	if d, ok := s.drafts[customerID]; ok {
		return d
	}

	d := &Draft{}
	if s.records != nil {
		_, err := store.Load(ctx, s.records, store.DraftKey(customerID), d)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			logger.FromCtx(ctx).Warn("checkout draft unreadable",
				zap.String("layer", "checkout"),
				zap.Error(err),
			)
			d = &Draft{}
		}
	}

	s.drafts[customerID] = d
	return d
}

func (s *Store) update(ctx context.Context, customerID string, fn func(d *Draft)) error {
	if customerID == "" {
		return ErrCustomerRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.load(ctx, customerID)
	fn(d)

	if s.records != nil {
		store.Persist(ctx, s.records, store.DraftKey(customerID), d)
	}
	return nil
}

// Draft returns a copy of the customer's whole draft.
func (s *Store) Draft(ctx context.Context, customerID string) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, customerID).clone()
}

func (s *Store) Shipping(ctx context.Context, customerID string) *ShippingInfo {
	return s.Draft(ctx, customerID).Shipping
}

func (s *Store) SetShipping(ctx context.Context, customerID string, info ShippingInfo) error {
	return s.update(ctx, customerID, func(d *Draft) { d.Shipping = &info })
}

func (s *Store) PaymentMethodID(ctx context.Context, customerID string) string {
	return s.Draft(ctx, customerID).PaymentMethodID
}

func (s *Store) SetPaymentMethodID(ctx context.Context, customerID, methodID string) error {
	return s.update(ctx, customerID, func(d *Draft) { d.PaymentMethodID = methodID })
}

func (s *Store) VoucherCode(ctx context.Context, customerID string) string {
	return s.Draft(ctx, customerID).VoucherCode
}

func (s *Store) SetVoucherCode(ctx context.Context, customerID, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	return s.update(ctx, customerID, func(d *Draft) { d.VoucherCode = code })
}

func (s *Store) ReferralCode(ctx context.Context, customerID string) string {
	return s.Draft(ctx, customerID).ReferralCode
}

func (s *Store) SetReferralCode(ctx context.Context, customerID, code string) error {
	code = strings.TrimSpace(code)
	return s.update(ctx, customerID, func(d *Draft) { d.ReferralCode = code })
}

// Reset clears every slot of the customer's draft.
func (s *Store) Reset(ctx context.Context, customerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[customerID] = &Draft{}
	if s.records != nil {
		store.Forget(ctx, s.records, store.DraftKey(customerID))
	}
}

// SaveSnapshot keeps snap in memory and echoes it to the record store. A
// failed write is logged only.
func (s *Store) SaveSnapshot(ctx context.Context, customerID string, snap Snapshot) error {
	if customerID == "" {
		return ErrCustomerRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[customerID] = snap.clone()
	if s.records != nil {
		store.Persist(ctx, s.records, store.SnapshotKey(customerID), snap)
	}
	return nil
}

func (s *Store) Snapshot(ctx context.Context, customerID string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.snapshots[customerID]; ok {
		if snap == nil {
			return nil, ErrSnapshotNotFound
		}
		return snap.clone(), nil
	}
	if s.records == nil {
		return nil, ErrSnapshotNotFound
	}

	var snap Snapshot
	if _, err := store.Load(ctx, s.records, store.SnapshotKey(customerID), &snap); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.FromCtx(ctx).Warn("checkout snapshot unreadable",
				zap.String("layer", "checkout"),
				zap.Error(err),
			)
		}
		return nil, ErrSnapshotNotFound
	}

	s.snapshots[customerID] = snap.clone()
	return &snap, nil
}

func (s *Store) ClearSnapshot(ctx context.Context, customerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[customerID] = nil
	if s.records != nil {
		store.Forget(ctx, s.records, store.SnapshotKey(customerID))
	}
}
