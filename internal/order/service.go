package order

import (
	"context"
	"errors"

	"bakery-be/internal/logger"

	"go.uber.org/zap"
)

// Service keeps the customer and admin ledgers in step.
type Service interface {
	Record(ctx context.Context, o *Order) error
	CustomerOrders(ctx context.Context, customerID string) ([]*Order, error)
	CustomerOrder(ctx context.Context, customerID, orderID string) (*Order, error)
	AllOrders(ctx context.Context) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) (*Order, error)
	MarkItemReviewed(ctx context.Context, orderID, itemID, reviewID string) error
}

type service struct {
	customer Ledger
	admin    Ledger
}

func NewService(customer, admin Ledger) Service {
	return &service{customer: customer, admin: admin}
}

// Record appends o to both mirrors. Only a customer mirror failure is
// returned; the admin mirror is logged and skipped.
func (s *service) Record(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Record"),
		zap.String("order_id", o.ID),
	)

	if err := s.customer.Append(ctx, o); err != nil {
		log.Error("customer ledger append failed", zap.Error(err))
		return err
	}

	if err := s.admin.Append(ctx, o); err != nil {
		log.Error("admin ledger append failed", zap.Error(err))
	}

	log.Info("order recorded", zap.Int64("total", o.Total))
	return nil
}

func (s *service) CustomerOrders(ctx context.Context, customerID string) ([]*Order, error) {
	return s.customer.List(ctx, customerID)
}

func (s *service) CustomerOrder(ctx context.Context, customerID, orderID string) (*Order, error) {
	return s.customer.Get(ctx, customerID, orderID)
}

func (s *service) AllOrders(ctx context.Context) ([]*Order, error) {
	return s.admin.List(ctx, "")
}

// UpdateStatus changes the status on the admin mirror and echoes it to the
// owning customer's mirror.
func (s *service) UpdateStatus(ctx context.Context, orderID string, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	o, err := s.admin.UpdateStatus(ctx, "", orderID, status)
	if err != nil {
		return nil, err
	}

	if o.CustomerID != "" {
		if _, err := s.customer.UpdateStatus(ctx, o.CustomerID, orderID, status); err != nil && !errors.Is(err, ErrOrderNotFound) {
			logger.FromCtx(ctx).Warn("customer ledger status echo failed",
				zap.String("layer", "service"),
				zap.String("order_id", orderID),
				zap.Error(err),
			)
		}
	}

	return o, nil
}

func (s *service) MarkItemReviewed(ctx context.Context, orderID, itemID, reviewID string) error {
	o, err := s.admin.Get(ctx, "", orderID)
	if err != nil {
		return err
	}
	if err := s.admin.MarkItemReviewed(ctx, "", orderID, itemID, reviewID); err != nil {
		return err
	}

	if o.CustomerID != "" {
		if err := s.customer.MarkItemReviewed(ctx, o.CustomerID, orderID, itemID, reviewID); err != nil && !errors.Is(err, ErrOrderNotFound) {
			logger.FromCtx(ctx).Warn("customer ledger review echo failed",
				zap.String("layer", "service"),
				zap.String("order_id", orderID),
				zap.Error(err),
			)
		}
	}
	return nil
}
