package voucher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscount_Sweet10(t *testing.T) {
	r := NewDefaultResolver()
	v, ok := r.FindVoucher("SWEET10")
	require.True(t, ok)

	now := time.Now()
	assert.Equal(t, int64(0), Discount(49999, v, now))
	assert.Equal(t, int64(10000), Discount(50000, v, now))
	assert.Equal(t, int64(10000), Discount(5000000, v, now))
}

func TestDiscount_Payday(t *testing.T) {
	r := NewDefaultResolver()
	v, ok := r.FindVoucher("payday")
	require.True(t, ok)

	now := time.Now()
	assert.Equal(t, int64(15000), Discount(100000, v, now))
	assert.Equal(t, int64(11250), Discount(75000, v, now))
	assert.Equal(t, int64(15001), Discount(100009, v, now), "percent discount is floored")
	assert.Equal(t, int64(0), Discount(74999, v, now))
}

func TestDiscount_Rules(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("NilVoucher", func(t *testing.T) {
		assert.Zero(t, Discount(100000, nil, now))
	})

	t.Run("Expired", func(t *testing.T) {
		past := now.Add(-time.Hour)
		v := &Voucher{Type: TypeNominal, Value: 1000, ExpiresAt: &past}
		assert.Zero(t, Discount(100000, v, now))
	})

	t.Run("ExpiryInstantStillValid", func(t *testing.T) {
		v := &Voucher{Type: TypeNominal, Value: 1000, ExpiresAt: &now}
		assert.Equal(t, int64(1000), Discount(100000, v, now))
	})

	t.Run("NominalCappedAtSubtotal", func(t *testing.T) {
		v := &Voucher{Type: TypeNominal, Value: 10000}
		assert.Equal(t, int64(3000), Discount(3000, v, now))
	})

	t.Run("NegativeNominal", func(t *testing.T) {
		v := &Voucher{Type: TypeNominal, Value: -500}
		assert.Zero(t, Discount(3000, v, now))
	})

	t.Run("FractionalNominalFloored", func(t *testing.T) {
		v := &Voucher{Type: TypeNominal, Value: 999.9}
		assert.Equal(t, int64(999), Discount(3000, v, now))
	})

	t.Run("PercentClamped", func(t *testing.T) {
		assert.Equal(t, int64(3000), Discount(3000, &Voucher{Type: TypePercent, Value: 250}, now))
		assert.Zero(t, Discount(3000, &Voucher{Type: TypePercent, Value: -5}, now))
	})
}

func TestResolver_FindVoucher(t *testing.T) {
	r := NewDefaultResolver()

	v, ok := r.FindVoucher("  sweet10 ")
	require.True(t, ok)
	assert.Equal(t, "SWEET10", v.Code)

	_, ok = r.FindVoucher("NOPE")
	assert.False(t, ok)

	_, ok = r.FindVoucher("")
	assert.False(t, ok)
}

func TestResolver_Apply(t *testing.T) {
	r := NewDefaultResolver()
	r.now = func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }

	app := r.Apply("SWEET10", 60000)
	assert.Equal(t, int64(10000), app.Amount)
	assert.Equal(t, ReasonNone, app.Reason)
	require.NotNil(t, app.Voucher)

	app = r.Apply("UNKNOWN", 60000)
	assert.Equal(t, ReasonUnknown, app.Reason)
	assert.Nil(t, app.Voucher)

	app = r.Apply("RAMADAN20", 500000)
	assert.Equal(t, ReasonExpired, app.Reason)
	assert.Zero(t, app.Amount)

	app = r.Apply("PAYDAY", 1000)
	assert.Equal(t, ReasonMinSubtotal, app.Reason)

	assert.Equal(t, int64(5000), r.Discount("newbie5k", 20000))
}
