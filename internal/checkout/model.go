package checkout

import "time"

type ShippingInfo struct {
	Name           string `json:"name" validate:"required,min=2"`
	Phone          string `json:"phone" validate:"required,idphone"`
	Address        string `json:"address" validate:"required,min=5"`
	City           string `json:"city,omitempty"`
	PostalCode     string `json:"postalCode" validate:"required,len=5,numeric"`
	Note           string `json:"note,omitempty"`
	ShippingMethod string `json:"shippingMethod,omitempty"`
	ShippingFee    int64  `json:"shippingFee" validate:"gte=0"`
}

// Draft is everything the wizard collected before the order exists.
type Draft struct {
	Shipping        *ShippingInfo `json:"shipping,omitempty"`
	PaymentMethodID string        `json:"paymentMethodId,omitempty"`
	VoucherCode     string        `json:"voucherCode,omitempty"`
	ReferralCode    string        `json:"referralCode,omitempty"`
}

func (d Draft) clone() Draft {
	if d.Shipping != nil {
		s := *d.Shipping
		d.Shipping = &s
	}
	return d
}

type SnapshotItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Qty       int    `json:"qty"`
	UnitLabel string `json:"unitLabel"`
	Variant   string `json:"variant,omitempty"`
	Subtotal  int64  `json:"subtotal"`
}

// Snapshot freezes what the payment screen shows even if the cart changes
// afterwards.
type Snapshot struct {
	Items       []SnapshotItem `json:"items"`
	Subtotal    int64          `json:"subtotal"`
	ShippingFee int64          `json:"shippingFee"`
	Discount    int64          `json:"discount"`
	Total       int64          `json:"total"`
	MethodID    string         `json:"methodId"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (s Snapshot) clone() *Snapshot {
	s.Items = append([]SnapshotItem(nil), s.Items...)
	return &s
}
