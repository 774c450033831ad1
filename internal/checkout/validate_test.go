package checkout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validShipping() ShippingInfo {
	return ShippingInfo{
		Name:       "Sari Dewi",
		Phone:      "0812-3456-7890",
		Address:    "Jl. Melati No. 5",
		City:       "Bandung",
		PostalCode: "40115",
	}
}

func TestValidateShipping(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.Nil(t, ValidateShipping(validShipping()))
	})

	t.Run("MissingFields", func(t *testing.T) {
		fe := ValidateShipping(ShippingInfo{})
		assert.Equal(t, "name is required", fe["name"])
		assert.Equal(t, "phone is required", fe["phone"])
		assert.Equal(t, "address is required", fe["address"])
		assert.Equal(t, "postalCode is required", fe["postalCode"])
		assert.NotContains(t, fe, "city")
	})

	t.Run("Malformed", func(t *testing.T) {
		info := validShipping()
		info.Name = " A "
		info.Phone = "12345"
		info.Address = "Jl."
		info.PostalCode = "4011A"

		fe := ValidateShipping(info)
		assert.Equal(t, "name must be at least 2 characters", fe["name"])
		assert.Equal(t, "phone is invalid", fe["phone"])
		assert.Equal(t, "address must be at least 5 characters", fe["address"])
		assert.Equal(t, "postalCode is invalid", fe["postalCode"])
	})

	t.Run("PhoneTooLong", func(t *testing.T) {
		info := validShipping()
		info.Phone = "+62 812 3456 7890 1234"
		assert.Contains(t, ValidateShipping(info), "phone")
	})

	t.Run("NegativeFee", func(t *testing.T) {
		info := validShipping()
		info.ShippingFee = -1
		assert.Equal(t, "shippingFee is invalid", ValidateShipping(info)["shippingFee"])
	})

	t.Run("ErrorsWrapSentinel", func(t *testing.T) {
		var err error = ValidateShipping(ShippingInfo{})
		assert.True(t, errors.Is(err, ErrInvalidShipping))
	})
}

func TestNormalizeShipping(t *testing.T) {
	info := NormalizeShipping(ShippingInfo{Name: "  Sari ", Phone: "0812 3456 7890", PostalCode: " 40115 "})
	assert.Equal(t, "Sari", info.Name)
	assert.Equal(t, "6281234567890", info.Phone)
	assert.Equal(t, "40115", info.PostalCode)
}

func TestPrefill(t *testing.T) {
	defaults := &ShippingInfo{Name: "Sari", Phone: "6281111111111", Address: "Jl. Mawar 1", City: "Bandung", PostalCode: "40111"}

	t.Run("DefaultsOnly", func(t *testing.T) {
		assert.Equal(t, *defaults, Prefill(nil, defaults))
	})

	t.Run("DraftWins", func(t *testing.T) {
		draft := &ShippingInfo{Address: "Jl. Kenanga 9", ShippingMethod: "Instant", ShippingFee: 25000}
		got := Prefill(draft, defaults)
		assert.Equal(t, "Sari", got.Name)
		assert.Equal(t, "Jl. Kenanga 9", got.Address)
		assert.Equal(t, "Instant", got.ShippingMethod)
		assert.Equal(t, int64(25000), got.ShippingFee)
	})

	t.Run("NoDefaults", func(t *testing.T) {
		got := Prefill(&ShippingInfo{Name: "Budi"}, nil)
		assert.Equal(t, "Budi", got.Name)
		assert.Empty(t, got.Phone)
	})
}
