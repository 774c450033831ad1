package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bakery-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Repository is the admin mirror of the order ledger, kept in Postgres.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

const orderColumns = `
	id,
	transaction_code,
	customer_id,
	status,
	items,
	method,
	shipping,
	subtotal,
	shipping_fee,
	discount,
	total,
	voucher_code,
	referral_code,
	created_at,
	updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o                     Order
		items, method, ship   []byte
		voucherCode, referral sql.NullString
	)

	if err := row.Scan(
		&o.ID,
		&o.TransactionCode,
		&o.CustomerID,
		&o.Status,
		&items,
		&method,
		&ship,
		&o.Subtotal,
		&o.ShippingFee,
		&o.Discount,
		&o.Total,
		&voucherCode,
		&referral,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items of %s: %w", o.ID, err)
	}
	if len(method) > 0 {
		if err := json.Unmarshal(method, &o.Method); err != nil {
			return nil, fmt.Errorf("decode method of %s: %w", o.ID, err)
		}
	}
	if len(ship) > 0 {
		if err := json.Unmarshal(ship, &o.Shipping); err != nil {
			return nil, fmt.Errorf("decode shipping of %s: %w", o.ID, err)
		}
	}
	if voucherCode.Valid {
		o.VoucherCode = &voucherCode.String
	}
	if referral.Valid {
		o.ReferralCode = &referral.String
	}

	return &o, nil
}

func (r *Repository) Append(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Append"),
		zap.String("order_id", o.ID),
	)

	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	method, err := json.Marshal(o.Method)
	if err != nil {
		return err
	}
	ship, err := json.Marshal(o.Shipping)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		o.ID,
		o.TransactionCode,
		o.CustomerID,
		o.Status,
		items,
		method,
		ship,
		o.Subtotal,
		o.ShippingFee,
		o.Discount,
		o.Total,
		o.VoucherCode,
		o.ReferralCode,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			return ErrOrderExists
		}
		log.Error("insert order failed", zap.Error(err))
		return err
	}

	return nil
}

// List returns orders newest first, optionally for one customer.
func (r *Repository) List(ctx context.Context, customerID string) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	query := `SELECT` + orderColumns + `FROM orders`
	args := []any{}
	if customerID != "" {
		query += ` WHERE customer_id = $1`
		args = append(args, customerID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *Repository) Get(ctx context.Context, customerID, orderID string) (*Order, error) {
	query := `SELECT` + orderColumns + `FROM orders WHERE id = $1`
	args := []any{orderID}
	if customerID != "" {
		query += ` AND customer_id = $2`
		args = append(args, customerID)
	}

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// UpdateStatus sets any known status regardless of the current one.
func (r *Repository) UpdateStatus(ctx context.Context, customerID, orderID string, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	args := []any{status, r.now(), orderID}
	if customerID != "" {
		query += ` AND customer_id = $4`
		args = append(args, customerID)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("update order status failed",
			zap.String("layer", "repository"),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrOrderNotFound
	}

	return r.Get(ctx, customerID, orderID)
}

func (r *Repository) MarkItemReviewed(ctx context.Context, customerID, orderID, itemID, reviewID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `SELECT items FROM orders WHERE id = $1`
	args := []any{orderID}
	if customerID != "" {
		query += ` AND customer_id = $2`
		args = append(args, customerID)
	}
	query += ` FOR UPDATE`

	var raw []byte
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		return err
	}

	var items []OrderItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("decode items of %s: %w", orderID, err)
	}
	if err := markReviewed(items, itemID, reviewID); err != nil {
		return err
	}

	updated, err := json.Marshal(items)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET items = $1, updated_at = $2 WHERE id = $3`,
		updated, r.now(), orderID,
	); err != nil {
		return err
	}

	return tx.Commit()
}
