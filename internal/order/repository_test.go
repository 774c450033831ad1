package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderCols = []string{
	"id", "transaction_code", "customer_id", "status", "items", "method", "shipping",
	"subtotal", "shipping_fee", "discount", "total", "voucher_code", "referral_code",
	"created_at", "updated_at",
}

func orderRow(t *testing.T, rows *sqlmock.Rows, o *Order, method string) *sqlmock.Rows {
	t.Helper()
	items, err := json.Marshal(o.Items)
	require.NoError(t, err)
	ship, err := json.Marshal(o.Shipping)
	require.NoError(t, err)

	return rows.AddRow(
		o.ID, o.TransactionCode, o.CustomerID, string(o.Status), items, []byte(method), ship,
		o.Subtotal, o.ShippingFee, o.Discount, o.Total, "PAYDAY", nil,
		o.CreatedAt, o.UpdatedAt,
	)
}

func TestRepository_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	o := sampleOrder("ORD1", "c1")

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO orders").
			WithArgs("ORD1", "TRX-123456", "c1", StatusProcessing,
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				int64(12000), int64(10000), int64(0), int64(22000),
				nil, nil, o.CreatedAt, o.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Append(ctx, o))
	})

	t.Run("Duplicate", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO orders").
			WillReturnError(&pq.Error{Code: "23505"})

		assert.ErrorIs(t, repo.Append(ctx, o), ErrOrderExists)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO orders").
			WillReturnError(errors.New("db error"))

		assert.EqualError(t, repo.Append(ctx, o), "db error")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("AllCustomers", func(t *testing.T) {
		rows := sqlmock.NewRows(orderCols)
		orderRow(t, rows, sampleOrder("ORD2", "c2"), `{"id":"qris","label":"QRIS","category":"qris"}`)
		orderRow(t, rows, sampleOrder("ORD1", "c1"), `"GoPay"`)

		mock.ExpectQuery("SELECT .* FROM orders ORDER BY created_at DESC").
			WillReturnRows(rows)

		orders, err := repo.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "qris", orders[0].Method.Category)
		assert.Equal(t, "ewallet", orders[1].Method.Category, "legacy string method normalized")
		require.NotNil(t, orders[0].VoucherCode)
		assert.Equal(t, "PAYDAY", *orders[0].VoucherCode)
		assert.Nil(t, orders[0].ReferralCode)
		assert.Equal(t, "Risoles", orders[0].Items[0].Name)
	})

	t.Run("OneCustomer", func(t *testing.T) {
		rows := sqlmock.NewRows(orderCols)
		orderRow(t, rows, sampleOrder("ORD1", "c1"), `{"id":"qris"}`)

		mock.ExpectQuery("SELECT .* FROM orders WHERE customer_id = \\$1 ORDER BY created_at DESC").
			WithArgs("c1").
			WillReturnRows(rows)

		orders, err := repo.List(ctx, "c1")
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("CorruptItems", func(t *testing.T) {
		rows := sqlmock.NewRows(orderCols).AddRow(
			"ORD1", "TRX", "c1", "Processing", []byte(`{`), []byte(`{}`), []byte(`{}`),
			0, 0, 0, 0, nil, nil, time.Now(), time.Now(),
		)
		mock.ExpectQuery("SELECT .* FROM orders").WillReturnRows(rows)

		_, err := repo.List(ctx, "")
		assert.ErrorContains(t, err, "decode items of ORD1")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT .* FROM orders WHERE id = \\$1 AND customer_id = \\$2").
		WithArgs("ORD404", "c1").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Get(ctx, "c1", "ORD404")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	repo := NewRepository(db)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders SET status = \\$1, updated_at = \\$2 WHERE id = \\$3").
			WithArgs(StatusCancelled, now, "ORD1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		o := sampleOrder("ORD1", "c1")
		o.Status = StatusCancelled
		rows := sqlmock.NewRows(orderCols)
		orderRow(t, rows, o, `{"id":"qris"}`)
		mock.ExpectQuery("SELECT .* FROM orders WHERE id = \\$1").
			WithArgs("ORD1").
			WillReturnRows(rows)

		got, err := repo.UpdateStatus(ctx, "", "ORD1", StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders").
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.UpdateStatus(ctx, "", "ORD404", StatusShipped)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		_, err := repo.UpdateStatus(ctx, "", "ORD1", "Lost")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkItemReviewed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	repo := NewRepository(db)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	items, _ := json.Marshal(sampleOrder("ORD1", "c1").Items)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT items FROM orders WHERE id = \\$1 FOR UPDATE").
			WithArgs("ORD1").
			WillReturnRows(sqlmock.NewRows([]string{"items"}).AddRow(items))
		mock.ExpectExec("UPDATE orders SET items = \\$1, updated_at = \\$2 WHERE id = \\$3").
			WithArgs(sqlmock.AnyArg(), now, "ORD1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.MarkItemReviewed(ctx, "", "ORD1", "it-1", "rev-1"))
	})

	t.Run("ItemMissing", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT items FROM orders").
			WithArgs("ORD1").
			WillReturnRows(sqlmock.NewRows([]string{"items"}).AddRow(items))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.MarkItemReviewed(ctx, "", "ORD1", "nope", "rev-1"), ErrItemNotFound)
	})

	t.Run("OrderMissing", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT items FROM orders").
			WithArgs("ORD404").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.MarkItemReviewed(ctx, "", "ORD404", "it-1", "rev-1"), ErrOrderNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
