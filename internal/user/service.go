package user

import (
	"context"
	"errors"
	"strings"

	"bakery-be/internal/checkout"
	"bakery-be/internal/logger"
	"bakery-be/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	EnsureCustomerID(ctx context.Context, hint string) (string, error)
	DefaultShipping(ctx context.Context, customerID string) (*checkout.ShippingInfo, error)
}

type service struct {
	records  store.Store
	profiles ProfileRepository
	newID    func() string
}

// NewService wires the identity store and an optional profile repository.
func NewService(records store.Store, profiles ProfileRepository) Service {
	return &service{
		records:  records,
		profiles: profiles,
		newID:    func() string { return uuid.New().String() },
	}
}

type identity struct {
	CustomerID string `json:"customerId"`
}

// EnsureCustomerID resolves hint to a customer id. An issued id (a UUID) is
// returned as is, any other hint is mapped to a stable id through the
// identity store and an empty hint always gets a fresh id.
func (s *service) EnsureCustomerID(ctx context.Context, hint string) (string, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return s.newID(), nil
	}
	if _, err := uuid.Parse(hint); err == nil {
		return hint, nil
	}
	if len(hint) > 128 {
		return "", ErrInvalidHint
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "EnsureCustomerID"),
	)

	key := store.CustomerKey(hint)
	var known identity
	_, err := store.Load(ctx, s.records, key, &known)
	if err == nil && known.CustomerID != "" {
		return known.CustomerID, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Warn("identity record unreadable", zap.Error(err))
	}

	id := s.newID()
	store.Persist(ctx, s.records, key, identity{CustomerID: id})
	log.Info("customer id issued", zap.String("customer_id", id))

	return id, nil
}

// DefaultShipping returns nil when no profile is on file.
func (s *service) DefaultShipping(ctx context.Context, customerID string) (*checkout.ShippingInfo, error) {
	if s.profiles == nil || customerID == "" {
		return nil, nil
	}

	p, err := s.profiles.GetProfile(ctx, customerID)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	info := p.Shipping()
	return &info, nil
}
