package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bakery-be/internal/checkout"
)

type Status string

const (
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus matches a status case-insensitively.
func ParseStatus(raw string) (Status, error) {
	for _, s := range []Status{StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled} {
		if strings.EqualFold(string(s), strings.TrimSpace(raw)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Method describes how the order was paid. Older records store it as a bare
// label string; it is always written back as an object.
type Method struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

func (m *Method) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Method{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		*m = LegacyMethod(label)
		return nil
	}

	type plain Method
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("invalid payment method: %w", err)
	}
	*m = Method(p)
	return nil
}

// LegacyMethod normalizes a bare method label from older records.
func LegacyMethod(label string) Method {
	label = strings.TrimSpace(label)
	lower := strings.ToLower(label)

	category := "other"
	switch {
	case strings.Contains(lower, "qris"):
		category = "qris"
	case strings.Contains(lower, "virtual") || strings.HasSuffix(lower, " va") || strings.Contains(lower, "transfer"):
		category = "virtual_account"
	case strings.Contains(lower, "cod") || strings.Contains(lower, "bayar di tempat"):
		category = "cod"
	case strings.Contains(lower, "alfamart") || strings.Contains(lower, "indomaret"):
		category = "retail"
	case strings.Contains(lower, "ovo") || strings.Contains(lower, "gopay") ||
		strings.Contains(lower, "dana") || strings.Contains(lower, "shopeepay"):
		category = "ewallet"
	}

	return Method{
		ID:       strings.Join(strings.Fields(lower), "-"),
		Label:    label,
		Category: category,
	}
}

type OrderItem struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Qty       int    `json:"qty"`
	UnitLabel string `json:"unitLabel"`
	Variant   string `json:"variant,omitempty"`
	Subtotal  int64  `json:"subtotal"`
	ReviewID  string `json:"reviewId,omitempty"`
}

// Order is frozen at assembly. Only Status, UpdatedAt and item review ids
// change afterwards.
type Order struct {
	ID              string                `json:"id"`
	TransactionCode string                `json:"transactionCode"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
	Items           []OrderItem           `json:"items"`
	Subtotal        int64                 `json:"subtotal"`
	ShippingFee     int64                 `json:"shippingFee"`
	Discount        int64                 `json:"discount"`
	Total           int64                 `json:"total"`
	Method          Method                `json:"method"`
	Status          Status                `json:"status"`
	Shipping        checkout.ShippingInfo `json:"shipping"`
	CustomerID      string                `json:"customerId"`
	VoucherCode     *string               `json:"voucherCode"`
	ReferralCode    *string               `json:"referralCode"`
}

func (o *Order) clone() *Order {
	cp := *o
	cp.Items = append([]OrderItem(nil), o.Items...)
	if o.VoucherCode != nil {
		v := *o.VoucherCode
		cp.VoucherCode = &v
	}
	if o.ReferralCode != nil {
		v := *o.ReferralCode
		cp.ReferralCode = &v
	}
	return &cp
}

type Summary struct {
	Subtotal    int64 `json:"subtotal"`
	ShippingFee int64 `json:"shippingFee"`
	Discount    int64 `json:"discount"`
	Total       int64 `json:"total"`
}
