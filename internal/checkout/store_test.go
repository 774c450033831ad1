package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"bakery-be/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Slots(t *testing.T) {
	ctx := context.Background()
	s := NewStore(store.NewMemoryStore())

	assert.Nil(t, s.Shipping(ctx, "c1"))
	assert.Empty(t, s.PaymentMethodID(ctx, "c1"))

	info := ShippingInfo{Name: "Sari", Phone: "6281234567890", Address: "Jl. Melati 5", PostalCode: "40115"}
	require.NoError(t, s.SetShipping(ctx, "c1", info))
	require.NoError(t, s.SetPaymentMethodID(ctx, "c1", "qris"))
	require.NoError(t, s.SetVoucherCode(ctx, "c1", " sweet10 "))
	require.NoError(t, s.SetReferralCode(ctx, "c1", " FRIEND-01 "))

	assert.Equal(t, &info, s.Shipping(ctx, "c1"))
	assert.Equal(t, "qris", s.PaymentMethodID(ctx, "c1"))
	assert.Equal(t, "SWEET10", s.VoucherCode(ctx, "c1"))
	assert.Equal(t, "FRIEND-01", s.ReferralCode(ctx, "c1"))

	// Slots are independent.
	require.NoError(t, s.SetPaymentMethodID(ctx, "c1", "bca-va"))
	assert.Equal(t, "SWEET10", s.VoucherCode(ctx, "c1"))

	assert.Empty(t, s.PaymentMethodID(ctx, "c2"), "drafts are per customer")
	assert.ErrorIs(t, s.SetPaymentMethodID(ctx, "", "qris"), ErrCustomerRequired)
}

func TestStore_DraftIsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)

	require.NoError(t, s.SetShipping(ctx, "c1", ShippingInfo{Name: "Sari"}))
	d := s.Draft(ctx, "c1")
	d.Shipping.Name = "changed"

	assert.Equal(t, "Sari", s.Shipping(ctx, "c1").Name)
}

func TestStore_SurvivesReload(t *testing.T) {
	ctx := context.Background()
	records := store.NewMemoryStore()

	first := NewStore(records)
	require.NoError(t, first.SetShipping(ctx, "c1", ShippingInfo{Name: "Budi", City: "Bandung"}))
	require.NoError(t, first.SetVoucherCode(ctx, "c1", "PAYDAY"))

	second := NewStore(records)
	d := second.Draft(ctx, "c1")
	require.NotNil(t, d.Shipping)
	assert.Equal(t, "Bandung", d.Shipping.City)
	assert.Equal(t, "PAYDAY", d.VoucherCode)
}

func TestStore_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	records := store.NewMemoryStore()
	require.NoError(t, records.Set(ctx, store.DraftKey("c1"), []byte(`{"version":1,"data":"oops"}`)))

	s := NewStore(records)
	assert.Equal(t, Draft{}, s.Draft(ctx, "c1"))
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	records := store.NewMemoryStore()
	s := NewStore(records)

	require.NoError(t, s.SetPaymentMethodID(ctx, "c1", "qris"))
	require.NoError(t, s.SetReferralCode(ctx, "c1", "REF"))
	s.Reset(ctx, "c1")

	assert.Equal(t, Draft{}, s.Draft(ctx, "c1"))
	_, err := records.Get(ctx, store.DraftKey("c1"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_Snapshot(t *testing.T) {
	ctx := context.Background()
	s := NewStore(store.NewMemoryStore())

	_, err := s.Snapshot(ctx, "c1")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	snap := Snapshot{
		Items:       []SnapshotItem{{ProductID: "risoles", Name: "Risoles", UnitPrice: 6000, Qty: 2, UnitLabel: "pcs", Subtotal: 12000}},
		Subtotal:    12000,
		ShippingFee: 10000,
		Total:       22000,
		MethodID:    "qris",
		CreatedAt:   time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveSnapshot(ctx, "c1", snap))

	got, err := s.Snapshot(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, snap.Items, got.Items)
	assert.Equal(t, int64(22000), got.Total)
	assert.True(t, snap.CreatedAt.Equal(got.CreatedAt))

	s.ClearSnapshot(ctx, "c1")
	_, err = s.Snapshot(ctx, "c1")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	assert.ErrorIs(t, s.SaveSnapshot(ctx, "", snap), ErrCustomerRequired)
}

type downStore struct{}

var errDown = errors.New("redis down")

func (downStore) Get(context.Context, string) ([]byte, error) { return nil, errDown }
func (downStore) Set(context.Context, string, []byte) error { return errDown }
func (downStore) Delete(context.Context, string) error { return errDown }

func TestStore_SnapshotBackendDown(t *testing.T) {
	ctx := context.Background()
	s := NewStore(downStore{})

	snap := Snapshot{Subtotal: 56000, ShippingFee: 10000, Total: 66000, MethodID: "qris"}
	require.NoError(t, s.SaveSnapshot(ctx, "c1", snap))

	got, err := s.Snapshot(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(66000), got.Total)

	s.ClearSnapshot(ctx, "c1")
	_, err = s.Snapshot(ctx, "c1")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestStore_SnapshotSurvivesReload(t *testing.T) {
	ctx := context.Background()
	records := store.NewMemoryStore()

	require.NoError(t, NewStore(records).SaveSnapshot(ctx, "c1", Snapshot{Total: 22000, MethodID: "bca-va"}))

	got, err := NewStore(records).Snapshot(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "bca-va", got.MethodID)
}
